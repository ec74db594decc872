package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxRechargeRepository struct {
	db DBTX
}

// newPgxRechargeRepository creates a new repository for recharge data.
func newPgxRechargeRepository(db DBTX) portsrepo.RechargeRepositoryFacade {
	return &PgxRechargeRepository{db: db}
}

var _ portsrepo.RechargeRepositoryFacade = (*PgxRechargeRepository)(nil)

const rechargeSelect = `
	SELECT r.id, r.id_plateforme, pl.nom, r.montant, r.statut, r.date_recharge, r.preuve, r.notes,
		r.created_at, r.created_by, r.last_updated_at, r.last_updated_by
	FROM recharges r
	JOIN plateformes pl ON pl.id = r.id_plateforme`

func scanRecharge(row pgx.Row) (*domain.Recharge, error) {
	var rc domain.Recharge
	err := row.Scan(
		&rc.RechargeID,
		&rc.PlatformID,
		&rc.PlatformName,
		&rc.Amount,
		&rc.Status,
		&rc.Date,
		&rc.Proof,
		&rc.Notes,
		&rc.CreatedAt,
		&rc.CreatedBy,
		&rc.LastUpdatedAt,
		&rc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *PgxRechargeRepository) findOne(ctx context.Context, query, rechargeID string) (*domain.Recharge, error) {
	if malformedID(rechargeID) {
		return nil, fmt.Errorf("%w: recharge %s", apperrors.ErrNotFound, rechargeID)
	}
	rc, err := scanRecharge(r.db.QueryRow(ctx, query, rechargeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: recharge %s", apperrors.ErrNotFound, rechargeID)
		}
		return nil, fmt.Errorf("failed to find recharge %s: %w", rechargeID, err)
	}
	return rc, nil
}

// FindRechargeByID retrieves a recharge joined with its platform name.
func (r *PgxRechargeRepository) FindRechargeByID(ctx context.Context, rechargeID string) (*domain.Recharge, error) {
	return r.findOne(ctx, rechargeSelect+` WHERE r.id = $1`, rechargeID)
}

// FindRechargeByIDForUpdate row-locks the recharge.
func (r *PgxRechargeRepository) FindRechargeByIDForUpdate(ctx context.Context, rechargeID string) (*domain.Recharge, error) {
	return r.findOne(ctx, rechargeSelect+` WHERE r.id = $1 FOR UPDATE OF r`, rechargeID)
}

// ListRecharges returns a page of recharges, newest first.
func (r *PgxRechargeRepository) ListRecharges(ctx context.Context, filter portsrepo.RechargeFilter) ([]domain.Recharge, int, error) {
	if malformedID(filter.PlatformID) {
		return []domain.Recharge{}, 0, nil
	}
	where := ` WHERE 1=1`
	var args []any
	if filter.PlatformID != "" {
		args = append(args, filter.PlatformID)
		where += fmt.Sprintf(" AND r.id_plateforme = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND r.statut = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recharges r`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recharges: %w", err)
	}

	query, args := orderPage(rechargeSelect+where, "r.date_recharge DESC, r.created_at DESC", args, filter.Page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recharges: %w", err)
	}
	defer rows.Close()

	recharges := []domain.Recharge{}
	for rows.Next() {
		rc, err := scanRecharge(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan recharge: %w", err)
		}
		recharges = append(recharges, *rc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating recharge rows: %w", err)
	}
	return recharges, total, nil
}

// SaveRecharge inserts a new recharge.
func (r *PgxRechargeRepository) SaveRecharge(ctx context.Context, rc domain.Recharge) error {
	query := `
		INSERT INTO recharges (id, id_plateforme, montant, statut, date_recharge, preuve, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		rc.RechargeID, rc.PlatformID, rc.Amount, rc.Status, rc.Date, rc.Proof, rc.Notes,
		rc.CreatedAt, rc.CreatedBy, rc.LastUpdatedAt, rc.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "recharge "+rc.RechargeID)
	}
	return nil
}

// UpdateRecharge writes every mutable recharge field.
func (r *PgxRechargeRepository) UpdateRecharge(ctx context.Context, rc domain.Recharge) error {
	query := `
		UPDATE recharges
		SET montant = $2, statut = $3, date_recharge = $4, preuve = $5, notes = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		rc.RechargeID, rc.Amount, rc.Status, rc.Date, rc.Proof, rc.Notes, rc.LastUpdatedAt, rc.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "recharge "+rc.RechargeID)
	}
	return requireOneRow(tag, "recharge", rc.RechargeID)
}

// DeleteRecharge removes a recharge.
func (r *PgxRechargeRepository) DeleteRecharge(ctx context.Context, rechargeID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recharges WHERE id = $1`, rechargeID)
	if err != nil {
		return mapWriteError(err, "recharge "+rechargeID)
	}
	return requireOneRow(tag, "recharge", rechargeID)
}
