package services

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
)

// ProductReaderSvc defines read operations for product data
type ProductReaderSvc interface {
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, int, error)
}

// ProductWriterSvc defines write operations for product data
type ProductWriterSvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
