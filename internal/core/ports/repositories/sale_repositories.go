package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
)

// SaleFilter narrows sale listings. Zero values are ignored.
type SaleFilter struct {
	ClientID      string
	ProductID     string
	PlatformID    string
	PaymentStatus domain.PaymentStatus
	From          *time.Time
	To            *time.Time
	Page
}

// SaleReader defines read operations for sale data
type SaleReader interface {
	// FindSaleByID retrieves a sale joined with client, product and platform names.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// ListSales returns a page of sales, newest first, and the total count.
	ListSales(ctx context.Context, filter SaleFilter) ([]domain.Sale, int, error)

	// FindAllSalesForUpdate reads and row-locks every sale. Used by bulk deletion with reversal.
	FindAllSalesForUpdate(ctx context.Context) ([]domain.Sale, error)
}

// SaleWriter defines write operations for sale data
type SaleWriter interface {
	SaveSale(ctx context.Context, sale domain.Sale) error
	// UpdateSale writes the non-ledger fields of a sale.
	UpdateSale(ctx context.Context, sale domain.Sale) error
	DeleteSale(ctx context.Context, saleID string) error
	DeleteAllSales(ctx context.Context) (int64, error)
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
