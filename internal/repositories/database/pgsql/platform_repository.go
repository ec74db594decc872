package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxPlatformRepository struct {
	db DBTX
}

// newPgxPlatformRepository creates a new repository for platform data.
func newPgxPlatformRepository(db DBTX) portsrepo.PlatformRepositoryFacade {
	return &PgxPlatformRepository{db: db}
}

var _ portsrepo.PlatformRepositoryFacade = (*PgxPlatformRepository)(nil)

const platformColumns = `id, nom, description, initial_balance, balance, balance_type, balance_unit,
	point_conversion_rate, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanPlatform(row pgx.Row) (*domain.Platform, error) {
	var p domain.Platform
	var rate decimal.NullDecimal
	err := row.Scan(
		&p.PlatformID,
		&p.Name,
		&p.Description,
		&p.InitialBalance,
		&p.Balance,
		&p.BalanceType,
		&p.BalanceUnit,
		&rate,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if rate.Valid {
		p.PointConversionRate = &rate.Decimal
	}
	return &p, nil
}

func nullableRate(rate *decimal.Decimal) decimal.NullDecimal {
	if rate == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *rate, Valid: true}
}

func (r *PgxPlatformRepository) findOne(ctx context.Context, query, platformID string) (*domain.Platform, error) {
	if malformedID(platformID) {
		return nil, fmt.Errorf("%w: platform %s", apperrors.ErrNotFound, platformID)
	}
	p, err := scanPlatform(r.db.QueryRow(ctx, query, platformID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: platform %s", apperrors.ErrNotFound, platformID)
		}
		return nil, fmt.Errorf("failed to find platform %s: %w", platformID, err)
	}
	return p, nil
}

// FindPlatformByID retrieves a platform by its ID.
func (r *PgxPlatformRepository) FindPlatformByID(ctx context.Context, platformID string) (*domain.Platform, error) {
	return r.findOne(ctx, `SELECT `+platformColumns+` FROM plateformes WHERE id = $1`, platformID)
}

// FindPlatformByIDForUpdate reads and row-locks a platform.
func (r *PgxPlatformRepository) FindPlatformByIDForUpdate(ctx context.Context, platformID string) (*domain.Platform, error) {
	return r.findOne(ctx, `SELECT `+platformColumns+` FROM plateformes WHERE id = $1 FOR UPDATE`, platformID)
}

// ListPlatforms returns a page of platforms ordered by name.
func (r *PgxPlatformRepository) ListPlatforms(ctx context.Context, page portsrepo.Page) ([]domain.Platform, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plateformes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count platforms: %w", err)
	}

	query, args := orderPage(`SELECT `+platformColumns+` FROM plateformes`, "nom ASC, id ASC", nil, page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list platforms: %w", err)
	}
	defer rows.Close()

	platforms := []domain.Platform{}
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating platform rows: %w", err)
	}
	return platforms, total, nil
}

// SavePlatform inserts a new platform.
func (r *PgxPlatformRepository) SavePlatform(ctx context.Context, p domain.Platform) error {
	query := `
		INSERT INTO plateformes (` + platformColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		p.PlatformID,
		p.Name,
		p.Description,
		p.InitialBalance,
		p.Balance,
		p.BalanceType,
		p.BalanceUnit,
		nullableRate(p.PointConversionRate),
		p.IsActive,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "platform "+p.PlatformID)
	}
	return nil
}

// UpdatePlatform updates descriptive fields only.
func (r *PgxPlatformRepository) UpdatePlatform(ctx context.Context, p domain.Platform) error {
	query := `
		UPDATE plateformes
		SET nom = $2, description = $3, balance_unit = $4, point_conversion_rate = $5, is_active = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.PlatformID, p.Name, p.Description, p.BalanceUnit, nullableRate(p.PointConversionRate), p.IsActive,
		p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "platform "+p.PlatformID)
	}
	return requireOneRow(tag, "platform", p.PlatformID)
}

// DeletePlatform removes a platform and its ledger history.
func (r *PgxPlatformRepository) DeletePlatform(ctx context.Context, platformID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plateformes WHERE id = $1`, platformID)
	if err != nil {
		return mapWriteError(err, "platform "+platformID)
	}
	return requireOneRow(tag, "platform", platformID)
}

// CountPlatformDependents counts products and recharges referencing the platform.
func (r *PgxPlatformRepository) CountPlatformDependents(ctx context.Context, platformID string) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM produits WHERE id_plateforme = $1),
			(SELECT COUNT(*) FROM recharges WHERE id_plateforme = $1)`
	var products, recharges int
	if err := r.db.QueryRow(ctx, query, platformID).Scan(&products, &recharges); err != nil {
		return 0, 0, fmt.Errorf("failed to count dependents of platform %s: %w", platformID, err)
	}
	return products, recharges, nil
}

// AdjustBalance applies balance = balance + delta in a single statement.
func (r *PgxPlatformRepository) AdjustBalance(ctx context.Context, platformID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE plateformes
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1
		RETURNING balance`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, platformID, delta, now, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: platform %s", apperrors.ErrNotFound, platformID)
		}
		return decimal.Zero, fmt.Errorf("failed to adjust balance of platform %s: %w", platformID, err)
	}
	return balance, nil
}

// DebitBalanceIfSufficient applies the debit only when the balance covers it.
func (r *PgxPlatformRepository) DebitBalanceIfSufficient(ctx context.Context, platformID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, bool, error) {
	query := `
		UPDATE plateformes
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1 AND balance >= $2
		RETURNING balance`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, platformID, amount, now, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to debit platform %s: %w", platformID, err)
	}
	return balance, true, nil
}

// SetBalance overwrites the balance.
func (r *PgxPlatformRepository) SetBalance(ctx context.Context, platformID string, balance decimal.Decimal, userID string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE plateformes SET balance = $2, last_updated_at = $3, last_updated_by = $4 WHERE id = $1`,
		platformID, balance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set balance of platform %s: %w", platformID, err)
	}
	return requireOneRow(tag, "platform", platformID)
}

// HistoryTotals aggregates the history a platform balance is derived from.
func (r *PgxPlatformRepository) HistoryTotals(ctx context.Context, platformID string) (domain.HistoryTotals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(montant), 0) FROM recharges WHERE id_plateforme = $1 AND statut = $2),
			(SELECT COALESCE(-SUM(delta), 0) FROM ledger_entries WHERE id_plateforme = $1 AND source_type IN ($3, $4)),
			(SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE id_plateforme = $1)`
	var totals domain.HistoryTotals
	err := r.db.QueryRow(ctx, query, platformID, domain.RechargePaid, domain.SourceSale, domain.SourceSaleReversal).Scan(
		&totals.PaidRecharges,
		&totals.SaleCosts,
		&totals.LedgerDeltas,
	)
	if err != nil {
		return domain.HistoryTotals{}, fmt.Errorf("failed to aggregate history of platform %s: %w", platformID, err)
	}
	return totals, nil
}
