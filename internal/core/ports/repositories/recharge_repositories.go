package repositories

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
)

// RechargeFilter narrows recharge listings.
type RechargeFilter struct {
	PlatformID string
	Status     domain.RechargeStatus
	Page
}

// RechargeReader defines read operations for recharge data
type RechargeReader interface {
	// FindRechargeByID retrieves a recharge joined with its platform name.
	FindRechargeByID(ctx context.Context, rechargeID string) (*domain.Recharge, error)

	// FindRechargeByIDForUpdate reads and row-locks a recharge for the current transaction.
	FindRechargeByIDForUpdate(ctx context.Context, rechargeID string) (*domain.Recharge, error)

	// ListRecharges returns a page of recharges, newest first, and the total count.
	ListRecharges(ctx context.Context, filter RechargeFilter) ([]domain.Recharge, int, error)
}

// RechargeWriter defines write operations for recharge data
type RechargeWriter interface {
	SaveRecharge(ctx context.Context, recharge domain.Recharge) error
	UpdateRecharge(ctx context.Context, recharge domain.Recharge) error
	DeleteRecharge(ctx context.Context, rechargeID string) error
}

// RechargeRepositoryFacade combines all recharge-related repository interfaces
type RechargeRepositoryFacade interface {
	RechargeReader
	RechargeWriter
}
