package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	PlatformID string
	LowStock   bool
	Page
}

// ProductReader defines read operations for product data
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	// UpdateProduct writes descriptive and pricing fields; stock is left untouched.
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error
	CountProductSales(ctx context.Context, productID string) (int, error)
}

// ProductStockSupport defines the stock mutations used by sales.
type ProductStockSupport interface {
	// FindProductByIDForUpdate reads and row-locks a product for the current transaction.
	FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error)

	// DecrementStockIfAvailable applies stock = stock - qty only when stock >= qty.
	// ok is false when no row matched.
	DecrementStockIfAvailable(ctx context.Context, productID string, qty int, userID string, now time.Time) (newStock int, ok bool, err error)

	// IncrementStock applies stock = stock + qty.
	IncrementStock(ctx context.Context, productID string, qty int, userID string, now time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductStockSupport
}
