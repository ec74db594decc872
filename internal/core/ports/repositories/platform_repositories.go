package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PlatformReader defines read operations for platform data
type PlatformReader interface {
	// FindPlatformByID retrieves a platform by its ID.
	FindPlatformByID(ctx context.Context, platformID string) (*domain.Platform, error)

	// ListPlatforms returns a page of platforms ordered by name and the total count.
	ListPlatforms(ctx context.Context, page Page) ([]domain.Platform, int, error)
}

// PlatformWriter defines write operations for platform data
type PlatformWriter interface {
	// SavePlatform persists a new platform.
	SavePlatform(ctx context.Context, platform domain.Platform) error

	// UpdatePlatform updates descriptive fields. Balance and balance type are never written here.
	UpdatePlatform(ctx context.Context, platform domain.Platform) error

	// DeletePlatform removes a platform.
	DeletePlatform(ctx context.Context, platformID string) error

	// CountPlatformDependents counts products and recharges referencing the platform.
	CountPlatformDependents(ctx context.Context, platformID string) (products int, recharges int, err error)
}

// PlatformBalanceSupport defines the balance mutations used by the ledger.
// Implementations must express each mutation as a single atomic statement.
type PlatformBalanceSupport interface {
	// FindPlatformByIDForUpdate reads and row-locks a platform for the current transaction.
	FindPlatformByIDForUpdate(ctx context.Context, platformID string) (*domain.Platform, error)

	// AdjustBalance applies balance = balance + delta and returns the new balance.
	AdjustBalance(ctx context.Context, platformID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)

	// DebitBalanceIfSufficient applies balance = balance - amount only when balance >= amount.
	// ok is false when no row matched (missing platform or insufficient balance).
	DebitBalanceIfSufficient(ctx context.Context, platformID string, amount decimal.Decimal, userID string, now time.Time) (newBalance decimal.Decimal, ok bool, err error)

	// SetBalance overwrites the balance. Used only by reconciliation.
	SetBalance(ctx context.Context, platformID string, balance decimal.Decimal, userID string, now time.Time) error

	// HistoryTotals aggregates paid recharges, sale costs and ledger deltas for a platform.
	HistoryTotals(ctx context.Context, platformID string) (domain.HistoryTotals, error)
}

// PlatformRepositoryFacade combines all platform-related repository interfaces
type PlatformRepositoryFacade interface {
	PlatformReader
	PlatformWriter
	PlatformBalanceSupport
}
