package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleService struct {
	BaseService
	txm    portsrepo.TransactionManager
	repos  portsrepo.RepositoryProvider
	ledger portssvc.BalanceMutator

	// reverseOnDelete restores stock and credits back the purchase cost when a sale is deleted.
	reverseOnDelete bool
}

// NewSaleService creates the sale service.
func NewSaleService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, ledger portssvc.BalanceMutator, reverseOnDelete bool, options ...ServiceOption) portssvc.SaleSvcFacade {
	return &saleService{
		BaseService:     newBaseService(options...),
		txm:             txm,
		repos:           repos,
		ledger:          ledger,
		reverseOnDelete: reverseOnDelete,
	}
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

func validateCreateSale(req dto.CreateSaleRequest) error {
	switch {
	case req.ClientID == "":
		return validationErrorf("id_client is required")
	case req.ProductID == "":
		return validationErrorf("id_produit is required")
	case req.PlatformID == "":
		return validationErrorf("id_plateforme is required")
	case req.Quantity <= 0:
		return validationErrorf("quantite must be greater than 0")
	case !req.UnitPrice.IsPositive():
		return validationErrorf("prix_unitaire must be greater than 0")
	case !req.PaymentMethod.IsValid():
		return validationErrorf("methode_paiement must be one of Espèce, CCP, BaridiMob, Autre")
	case !req.PaymentStatus.IsValid():
		return validationErrorf("statut_paiement must be one of Payé, En attente")
	case req.PurchaseCost != nil && !req.PurchaseCost.IsPositive():
		return validationErrorf("purchase_cost must be greater than 0")
	case req.CostType != "" && !req.CostType.IsValid():
		return validationErrorf("cost_type_vente must be currency or points")
	}
	return checkMoneyScale([]string{"prix_unitaire", "purchase_cost"}, &req.UnitPrice, req.PurchaseCost)
}

// rejectionReason labels a failed sale for the sales_rejected_total counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}

// CreateSale runs the stock check, stock decrement, balance debit and row insert in one transaction.
func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	attrs := []any{
		slog.String("product_id", req.ProductID),
		slog.String("platform_id", req.PlatformID),
		slog.Int("quantity", req.Quantity),
	}

	if err := validateCreateSale(req); err != nil {
		s.Metrics.SaleRejected(rejectionReason(err))
		s.LogWarn(ctx, err, "Sale rejected", attrs...)
		return nil, err
	}

	now := s.Now()
	saleID := uuid.NewString()
	var created *domain.Sale

	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.ClientRepo.FindClientByID(ctx, req.ClientID); err != nil {
			return err
		}
		product, err := repos.ProductRepo.FindProductByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		platform, err := repos.PlatformRepo.FindPlatformByID(ctx, req.PlatformID)
		if err != nil {
			return err
		}
		if product.PlatformID != platform.PlatformID {
			return validationErrorf("product %s does not belong to platform %s", product.ProductID, platform.PlatformID)
		}

		purchaseCost := product.DefaultCost.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if req.PurchaseCost != nil {
			purchaseCost = *req.PurchaseCost
		}
		if !purchaseCost.IsPositive() {
			return validationErrorf("purchase_cost must be greater than 0")
		}
		costType := req.CostType
		if costType == "" {
			costType = product.CostType
		}

		// Preconditions are checked before any write; the conditional statements below re-check them.
		if product.Stock < req.Quantity {
			return &apperrors.InsufficientStockError{ProductID: product.ProductID, Available: product.Stock, Requested: req.Quantity}
		}
		if !platform.CanCover(purchaseCost) {
			return &apperrors.InsufficientBalanceError{
				PlatformID: platform.PlatformID,
				Available:  platform.Balance,
				Required:   purchaseCost,
				Unit:       platform.BalanceUnit,
			}
		}

		if _, ok, err := repos.ProductRepo.DecrementStockIfAvailable(ctx, product.ProductID, req.Quantity, userID, now); err != nil {
			return err
		} else if !ok {
			return &apperrors.InsufficientStockError{ProductID: product.ProductID, Available: product.Stock, Requested: req.Quantity}
		}

		ref := domain.LedgerRef{Source: domain.SourceSale, SourceID: saleID, UserID: userID, At: now}
		before, after, err := s.ledger.Debit(ctx, repos, platform.PlatformID, purchaseCost, ref)
		if err != nil {
			return err
		}

		date := now
		if req.Date != nil {
			date = req.Date.UTC()
		}
		sale := domain.Sale{
			SaleID:             saleID,
			ClientID:           req.ClientID,
			ProductID:          product.ProductID,
			PlatformID:         platform.PlatformID,
			Quantity:           req.Quantity,
			UnitPrice:          req.UnitPrice,
			Total:              domain.SaleTotal(req.Quantity, req.UnitPrice),
			Date:               date,
			PaymentMethod:      req.PaymentMethod,
			PaymentStatus:      req.PaymentStatus,
			PurchaseCost:       purchaseCost,
			CostType:           costType,
			PanelBalanceBefore: before,
			PanelBalanceAfter:  after,
			Notes:              req.Notes,
			AuditFields:        domain.NewAuditFields(userID, now),
		}
		if err := repos.SaleRepo.SaveSale(ctx, sale); err != nil {
			return err
		}

		created, err = repos.SaleRepo.FindSaleByID(ctx, saleID)
		return err
	})
	if err != nil {
		s.Metrics.SaleRejected(rejectionReason(err))
		s.LogFailure(ctx, err, "Failed to create sale", attrs...)
		return nil, err
	}

	s.LogInfo(ctx, "Sale created", append(attrs,
		slog.String("sale_id", created.SaleID),
		slog.String("purchase_cost", created.PurchaseCost.String()),
		slog.String("panel_balance_after", created.PanelBalanceAfter.String()))...)
	return created, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	sale, err := s.repos.SaleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find sale", slog.String("sale_id", saleID))
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, params dto.ListSalesParams) ([]domain.Sale, int, error) {
	status := domain.PaymentStatus(params.PaymentStatus)
	if status != "" && !status.IsValid() {
		return nil, 0, validationErrorf("statut_paiement must be one of Payé, En attente")
	}
	filter := portsrepo.SaleFilter{
		ClientID:      params.ClientID,
		ProductID:     params.ProductID,
		PlatformID:    params.PlatformID,
		PaymentStatus: status,
		From:          params.From,
		Page:          toPage(params.PageParams),
	}
	if params.To != nil {
		// date_to is inclusive of the whole day
		end := params.To.Add(24 * time.Hour)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, 0, validationErrorf("date_from must not be after date_to")
	}

	sales, total, err := s.repos.SaleRepo.ListSales(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales")
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, total, nil
}

// ledgerFieldChanges rejects patches that would move a sale's ledger-bearing fields.
func ledgerFieldChanges(existing domain.Sale, req dto.UpdateSaleRequest) error {
	switch {
	case req.Quantity != nil && *req.Quantity != existing.Quantity:
		return validationErrorf("quantite cannot be changed after the sale is recorded")
	case req.PurchaseCost != nil && !req.PurchaseCost.Equal(existing.PurchaseCost):
		return validationErrorf("purchase_cost cannot be changed after the sale is recorded")
	case req.ProductID != nil && *req.ProductID != existing.ProductID:
		return validationErrorf("id_produit cannot be changed after the sale is recorded")
	case req.PlatformID != nil && *req.PlatformID != existing.PlatformID:
		return validationErrorf("id_plateforme cannot be changed after the sale is recorded")
	}
	return nil
}

// UpdateSale patches descriptive fields; stock and balance are never touched.
func (s *saleService) UpdateSale(ctx context.Context, saleID string, req dto.UpdateSaleRequest, userID string) (*domain.Sale, error) {
	var updated *domain.Sale
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		sale, err := repos.SaleRepo.FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := ledgerFieldChanges(*sale, req); err != nil {
			return err
		}

		if req.ClientID != nil && *req.ClientID != sale.ClientID {
			if _, err := repos.ClientRepo.FindClientByID(ctx, *req.ClientID); err != nil {
				return err
			}
			sale.ClientID = *req.ClientID
		}
		if req.UnitPrice != nil {
			if !req.UnitPrice.IsPositive() {
				return validationErrorf("prix_unitaire must be greater than 0")
			}
			if err := checkMoneyScale([]string{"prix_unitaire"}, req.UnitPrice); err != nil {
				return err
			}
			sale.UnitPrice = *req.UnitPrice
			sale.Total = domain.SaleTotal(sale.Quantity, sale.UnitPrice)
		}
		if req.Date != nil {
			sale.Date = req.Date.UTC()
		}
		if req.PaymentMethod != nil {
			if !req.PaymentMethod.IsValid() {
				return validationErrorf("methode_paiement must be one of Espèce, CCP, BaridiMob, Autre")
			}
			sale.PaymentMethod = *req.PaymentMethod
		}
		if req.PaymentStatus != nil {
			if !req.PaymentStatus.IsValid() {
				return validationErrorf("statut_paiement must be one of Payé, En attente")
			}
			sale.PaymentStatus = *req.PaymentStatus
		}
		if req.Notes != nil {
			sale.Notes = *req.Notes
		}
		sale.Touch(userID, s.Now())

		if err := repos.SaleRepo.UpdateSale(ctx, *sale); err != nil {
			return err
		}
		updated, err = repos.SaleRepo.FindSaleByID(ctx, saleID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update sale", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale updated", slog.String("sale_id", saleID))
	return updated, nil
}

// reverse restores the stock and balance consumed by sale.
func (s *saleService) reverse(ctx context.Context, repos portsrepo.RepositoryProvider, sale domain.Sale, userID string, now time.Time) error {
	if err := repos.ProductRepo.IncrementStock(ctx, sale.ProductID, sale.Quantity, userID, now); err != nil {
		return err
	}
	ref := domain.LedgerRef{Source: domain.SourceSaleReversal, SourceID: sale.SaleID, UserID: userID, At: now}
	_, err := s.ledger.AdjustBalance(ctx, repos, sale.PlatformID, sale.PurchaseCost, ref)
	return err
}

// stockReturn is the quantity to put back on one product.
type stockReturn struct {
	productID string
	quantity  int
}

// planReversal groups the stock to restore by product and orders both the products and the
// credits by id. Row locks are then taken products first, each set in id order, the same
// product-then-platform order CreateSale uses.
func planReversal(sales []domain.Sale) ([]stockReturn, []domain.Sale) {
	perProduct := make(map[string]int)
	for _, sale := range sales {
		perProduct[sale.ProductID] += sale.Quantity
	}
	stock := make([]stockReturn, 0, len(perProduct))
	for productID, quantity := range perProduct {
		stock = append(stock, stockReturn{productID: productID, quantity: quantity})
	}
	sort.Slice(stock, func(i, j int) bool { return stock[i].productID < stock[j].productID })

	credits := append([]domain.Sale(nil), sales...)
	sort.Slice(credits, func(i, j int) bool {
		if credits[i].PlatformID != credits[j].PlatformID {
			return credits[i].PlatformID < credits[j].PlatformID
		}
		return credits[i].SaleID < credits[j].SaleID
	})
	return stock, credits
}

// reverseAll restores the stock and balance consumed by sales.
func (s *saleService) reverseAll(ctx context.Context, repos portsrepo.RepositoryProvider, sales []domain.Sale, userID string, now time.Time) error {
	stock, credits := planReversal(sales)
	for _, r := range stock {
		if err := repos.ProductRepo.IncrementStock(ctx, r.productID, r.quantity, userID, now); err != nil {
			return fmt.Errorf("failed to restore stock of product %s: %w", r.productID, err)
		}
	}
	for _, sale := range credits {
		ref := domain.LedgerRef{Source: domain.SourceSaleReversal, SourceID: sale.SaleID, UserID: userID, At: now}
		if _, err := s.ledger.AdjustBalance(ctx, repos, sale.PlatformID, sale.PurchaseCost, ref); err != nil {
			return fmt.Errorf("failed to reverse sale %s: %w", sale.SaleID, err)
		}
	}
	return nil
}

func (s *saleService) DeleteSale(ctx context.Context, saleID string, userID string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		sale, err := repos.SaleRepo.FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		// The delete takes the row lock; a concurrent delete of the same sale finds no row and rolls back.
		if err := repos.SaleRepo.DeleteSale(ctx, saleID); err != nil {
			return err
		}
		if !s.reverseOnDelete {
			return nil
		}
		return s.reverse(ctx, repos, *sale, userID, s.Now())
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete sale", slog.String("sale_id", saleID))
		return err
	}

	s.LogInfo(ctx, "Sale deleted", slog.String("sale_id", saleID), slog.Bool("reversed", s.reverseOnDelete))
	return nil
}

func (s *saleService) BulkDeleteSales(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if s.reverseOnDelete {
			sales, err := repos.SaleRepo.FindAllSalesForUpdate(ctx)
			if err != nil {
				return err
			}
			if err := s.reverseAll(ctx, repos, sales, userID, s.Now()); err != nil {
				return err
			}
		}
		n, err := repos.SaleRepo.DeleteAllSales(ctx)
		deleted = n
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to bulk delete sales")
		return 0, err
	}

	s.LogInfo(ctx, "Sales bulk deleted", slog.Int64("deleted", deleted), slog.Bool("reversed", s.reverseOnDelete))
	return deleted, nil
}
