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

type PgxSaleRepository struct {
	db DBTX
}

// newPgxSaleRepository creates a new repository for sale data.
func newPgxSaleRepository(db DBTX) portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{db: db}
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

const saleSelect = `
	SELECT v.id, v.id_client, TRIM(c.prenom || ' ' || c.nom), v.id_produit, p.nom, v.id_plateforme, pl.nom,
		v.quantite, v.prix_unitaire, v.prix_total, v.date_vente, v.methode_paiement, v.statut_paiement,
		v.purchase_cost, v.cost_type_vente, v.panel_balance_before, v.panel_balance_after, v.notes,
		v.created_at, v.created_by, v.last_updated_at, v.last_updated_by
	FROM ventes v
	JOIN clients c ON c.id = v.id_client
	JOIN produits p ON p.id = v.id_produit
	JOIN plateformes pl ON pl.id = v.id_plateforme`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.SaleID,
		&s.ClientID,
		&s.ClientName,
		&s.ProductID,
		&s.ProductName,
		&s.PlatformID,
		&s.PlatformName,
		&s.Quantity,
		&s.UnitPrice,
		&s.Total,
		&s.Date,
		&s.PaymentMethod,
		&s.PaymentStatus,
		&s.PurchaseCost,
		&s.CostType,
		&s.PanelBalanceBefore,
		&s.PanelBalanceAfter,
		&s.Notes,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSales(rows pgx.Rows) ([]domain.Sale, error) {
	defer rows.Close()
	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}
	return sales, nil
}

// FindSaleByID retrieves a sale joined with client, product and platform names.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	if malformedID(saleID) {
		return nil, fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
	}
	s, err := scanSale(r.db.QueryRow(ctx, saleSelect+` WHERE v.id = $1`, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
		}
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return s, nil
}

// ListSales returns a page of sales, newest first.
func (r *PgxSaleRepository) ListSales(ctx context.Context, filter portsrepo.SaleFilter) ([]domain.Sale, int, error) {
	if malformedID(filter.ClientID, filter.ProductID, filter.PlatformID) {
		return []domain.Sale{}, 0, nil
	}
	where := ` WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}
	if filter.ClientID != "" {
		add("v.id_client = $%d", filter.ClientID)
	}
	if filter.ProductID != "" {
		add("v.id_produit = $%d", filter.ProductID)
	}
	if filter.PlatformID != "" {
		add("v.id_plateforme = $%d", filter.PlatformID)
	}
	if filter.PaymentStatus != "" {
		add("v.statut_paiement = $%d", filter.PaymentStatus)
	}
	if filter.From != nil {
		add("v.date_vente >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("v.date_vente < $%d", *filter.To)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ventes v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	query, args := orderPage(saleSelect+where, "v.date_vente DESC, v.created_at DESC", args, filter.Page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	sales, err := collectSales(rows)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// FindAllSalesForUpdate row-locks every sale.
func (r *PgxSaleRepository) FindAllSalesForUpdate(ctx context.Context) ([]domain.Sale, error) {
	rows, err := r.db.Query(ctx, saleSelect+` ORDER BY v.created_at ASC FOR UPDATE OF v`)
	if err != nil {
		return nil, fmt.Errorf("failed to lock sales: %w", err)
	}
	return collectSales(rows)
}

// SaveSale inserts a new sale with its balance snapshot.
func (r *PgxSaleRepository) SaveSale(ctx context.Context, s domain.Sale) error {
	query := `
		INSERT INTO ventes (id, id_client, id_produit, id_plateforme, quantite, prix_unitaire, prix_total,
			date_vente, methode_paiement, statut_paiement, purchase_cost, cost_type_vente,
			panel_balance_before, panel_balance_after, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.db.Exec(ctx, query,
		s.SaleID, s.ClientID, s.ProductID, s.PlatformID, s.Quantity, s.UnitPrice, s.Total,
		s.Date, s.PaymentMethod, s.PaymentStatus, s.PurchaseCost, s.CostType,
		s.PanelBalanceBefore, s.PanelBalanceAfter, s.Notes, s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "sale "+s.SaleID)
	}
	return nil
}

// UpdateSale writes the fields that carry no ledger effect.
func (r *PgxSaleRepository) UpdateSale(ctx context.Context, s domain.Sale) error {
	query := `
		UPDATE ventes
		SET id_client = $2, prix_unitaire = $3, prix_total = $4, date_vente = $5, methode_paiement = $6,
			statut_paiement = $7, notes = $8, last_updated_at = $9, last_updated_by = $10
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		s.SaleID, s.ClientID, s.UnitPrice, s.Total, s.Date, s.PaymentMethod,
		s.PaymentStatus, s.Notes, s.LastUpdatedAt, s.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "sale "+s.SaleID)
	}
	return requireOneRow(tag, "sale", s.SaleID)
}

// DeleteSale removes a sale.
func (r *PgxSaleRepository) DeleteSale(ctx context.Context, saleID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ventes WHERE id = $1`, saleID)
	if err != nil {
		return mapWriteError(err, "sale "+saleID)
	}
	return requireOneRow(tag, "sale", saleID)
}

// DeleteAllSales removes every sale and returns the count.
func (r *PgxSaleRepository) DeleteAllSales(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM ventes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sales: %w", err)
	}
	return tag.RowsAffected(), nil
}
