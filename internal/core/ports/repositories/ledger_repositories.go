package repositories

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
)

// LedgerRepositoryFacade persists the append-only balance movement log.
type LedgerRepositoryFacade interface {
	// AppendEntry records one balance movement.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// ListEntries returns a page of entries for a platform, newest first, and the total count.
	ListEntries(ctx context.Context, platformID string, page Page) ([]domain.LedgerEntry, int, error)
}
