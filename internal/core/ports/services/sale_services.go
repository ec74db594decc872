package services

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
)

// SaleReaderSvc defines read operations for sale data
type SaleReaderSvc interface {
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, params dto.ListSalesParams) ([]domain.Sale, int, error)
}

// SaleWriterSvc defines write operations for sale data
type SaleWriterSvc interface {
	// CreateSale decrements stock and debits the platform balance atomically with the sale row.
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)
	UpdateSale(ctx context.Context, saleID string, req dto.UpdateSaleRequest, userID string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID string, userID string) error
	// BulkDeleteSales removes every sale and returns how many were deleted.
	BulkDeleteSales(ctx context.Context, userID string) (int64, error)
}

// SaleSvcFacade combines all sale-related service interfaces
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleWriterSvc
}
