package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/google/uuid"
)

type productService struct {
	BaseService
	txm   portsrepo.TransactionManager
	repos portsrepo.RepositoryProvider
}

// NewProductService creates the product service.
func NewProductService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.ProductSvcFacade {
	return &productService{
		BaseService: newBaseService(options...),
		txm:         txm,
		repos:       repos,
	}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, validationErrorf("nom is required")
	case req.PlatformID == "":
		return nil, validationErrorf("id_plateforme is required")
	case req.Stock < 0:
		return nil, validationErrorf("stock_actuel must not be negative")
	case req.AlertThreshold < 0:
		return nil, validationErrorf("seuil_alerte must not be negative")
	case req.AvgPurchaseCost.IsNegative(), req.MarginPercent.IsNegative(), req.DefaultCost.IsNegative():
		return nil, validationErrorf("prices and margin must not be negative")
	case req.CostType != "" && !req.CostType.IsValid():
		return nil, validationErrorf("cost_type must be currency or points")
	}
	if err := checkMoneyScale([]string{"prix_achat_moyen", "marge_pourcentage", "default_cost"},
		&req.AvgPurchaseCost, &req.MarginPercent, &req.DefaultCost); err != nil {
		return nil, err
	}

	platform, err := s.repos.PlatformRepo.FindPlatformByID(ctx, req.PlatformID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create product", slog.String("platform_id", req.PlatformID))
		return nil, err
	}
	costType := req.CostType
	if costType == "" {
		costType = platform.BalanceType
	}

	product := domain.Product{
		ProductID:       uuid.NewString(),
		PlatformID:      platform.PlatformID,
		PlatformName:    platform.Name,
		Name:            name,
		Category:        req.Category,
		Stock:           req.Stock,
		AlertThreshold:  req.AlertThreshold,
		AvgPurchaseCost: req.AvgPurchaseCost,
		MarginPercent:   req.MarginPercent,
		SalePrice:       domain.ComputeSalePrice(req.AvgPurchaseCost, req.MarginPercent),
		CostType:        costType,
		DefaultCost:     req.DefaultCost,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.ProductRepo.SaveProduct(ctx, product); err != nil {
		s.LogFailure(ctx, err, "Failed to create product", slog.String("platform_id", req.PlatformID))
		return nil, err
	}

	s.LogInfo(ctx, "Product created",
		slog.String("product_id", product.ProductID),
		slog.String("platform_id", product.PlatformID),
		slog.Int("stock", product.Stock))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.repos.ProductRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product", slog.String("product_id", productID))
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, int, error) {
	products, total, err := s.repos.ProductRepo.ListProducts(ctx, portsrepo.ProductFilter{
		PlatformID: params.PlatformID,
		LowStock:   params.LowStock,
		Page:       toPage(params.PageParams),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	switch {
	case req.Name != nil && strings.TrimSpace(*req.Name) == "":
		return nil, validationErrorf("nom must not be empty")
	case req.AlertThreshold != nil && *req.AlertThreshold < 0:
		return nil, validationErrorf("seuil_alerte must not be negative")
	case req.AvgPurchaseCost != nil && req.AvgPurchaseCost.IsNegative(),
		req.MarginPercent != nil && req.MarginPercent.IsNegative(),
		req.DefaultCost != nil && req.DefaultCost.IsNegative():
		return nil, validationErrorf("prices and margin must not be negative")
	case req.CostType != nil && !req.CostType.IsValid():
		return nil, validationErrorf("cost_type must be currency or points")
	}
	if err := checkMoneyScale([]string{"prix_achat_moyen", "marge_pourcentage", "default_cost"},
		req.AvgPurchaseCost, req.MarginPercent, req.DefaultCost); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		product, err := repos.ProductRepo.FindProductByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			product.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			product.Category = *req.Category
		}
		if req.AlertThreshold != nil {
			product.AlertThreshold = *req.AlertThreshold
		}
		if req.AvgPurchaseCost != nil {
			product.AvgPurchaseCost = *req.AvgPurchaseCost
		}
		if req.MarginPercent != nil {
			product.MarginPercent = *req.MarginPercent
		}
		if req.CostType != nil {
			product.CostType = *req.CostType
		}
		if req.DefaultCost != nil {
			product.DefaultCost = *req.DefaultCost
		}
		product.SalePrice = domain.ComputeSalePrice(product.AvgPurchaseCost, product.MarginPercent)
		product.Touch(userID, s.Now())

		if err := repos.ProductRepo.UpdateProduct(ctx, *product); err != nil {
			return err
		}
		updated, err = repos.ProductRepo.FindProductByID(ctx, productID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}

	s.LogInfo(ctx, "Product updated", slog.String("product_id", productID))
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.ProductRepo.FindProductByIDForUpdate(ctx, productID); err != nil {
			return err
		}
		sales, err := repos.ProductRepo.CountProductSales(ctx, productID)
		if err != nil {
			return err
		}
		if sales > 0 {
			return fmt.Errorf("%w: product is referenced by %d sales", apperrors.ErrConflict, sales)
		}
		return repos.ProductRepo.DeleteProduct(ctx, productID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete product", slog.String("product_id", productID))
		return err
	}

	s.LogInfo(ctx, "Product deleted", slog.String("product_id", productID))
	return nil
}
