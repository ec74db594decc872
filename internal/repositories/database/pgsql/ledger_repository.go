package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
)

type PgxLedgerRepository struct {
	db DBTX
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(db DBTX) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{db: db}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendEntry inserts one ledger entry.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, e domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, id_plateforme, delta, balance_after, source_type, source_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		e.EntryID, e.PlatformID, e.Delta, e.BalanceAfter, e.SourceType, e.SourceID, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return mapWriteError(err, "ledger entry "+e.EntryID)
	}
	return nil
}

// ListEntries returns a page of entries for a platform, newest first.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, platformID string, page portsrepo.Page) ([]domain.LedgerEntry, int, error) {
	if malformedID(platformID) {
		return []domain.LedgerEntry{}, 0, nil
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE id_plateforme = $1`, platformID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	query, args := orderPage(`
		SELECT id, id_plateforme, delta, balance_after, source_type, source_id, created_at, created_by
		FROM ledger_entries
		WHERE id_plateforme = $1`, "created_at DESC, id DESC", []any{platformID}, page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.EntryID, &e.PlatformID, &e.Delta, &e.BalanceAfter, &e.SourceType, &e.SourceID, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, total, nil
}
