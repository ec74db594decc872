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
)

type PgxProductRepository struct {
	db DBTX
}

// newPgxProductRepository creates a new repository for product data.
func newPgxProductRepository(db DBTX) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{db: db}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productSelect = `
	SELECT p.id, p.id_plateforme, pl.nom, p.nom, p.categorie, p.stock_actuel, p.seuil_alerte,
		p.prix_achat_moyen, p.marge_pourcentage, p.prix_vente, p.cost_type, p.default_cost,
		p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
	FROM produits p
	JOIN plateformes pl ON pl.id = p.id_plateforme`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID,
		&p.PlatformID,
		&p.PlatformName,
		&p.Name,
		&p.Category,
		&p.Stock,
		&p.AlertThreshold,
		&p.AvgPurchaseCost,
		&p.MarginPercent,
		&p.SalePrice,
		&p.CostType,
		&p.DefaultCost,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxProductRepository) findOne(ctx context.Context, query, productID string) (*domain.Product, error) {
	if malformedID(productID) {
		return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	p, err := scanProduct(r.db.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return p, nil
}

// FindProductByID retrieves a product joined with its platform name.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.id = $1`, productID)
}

// FindProductByIDForUpdate row-locks the product only; the platform row is locked by the balance statements.
func (r *PgxProductRepository) FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, productID)
}

// ListProducts returns a page of products ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, int, error) {
	if malformedID(filter.PlatformID) {
		return []domain.Product{}, 0, nil
	}
	where := ` WHERE 1=1`
	var args []any
	if filter.PlatformID != "" {
		args = append(args, filter.PlatformID)
		where += fmt.Sprintf(" AND p.id_plateforme = $%d", len(args))
	}
	if filter.LowStock {
		where += " AND p.stock_actuel <= p.seuil_alerte"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM produits p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query, args := orderPage(productSelect+where, "p.nom ASC, p.id ASC", args, filter.Page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, total, nil
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, p domain.Product) error {
	query := `
		INSERT INTO produits (id, id_plateforme, nom, categorie, stock_actuel, seuil_alerte, prix_achat_moyen,
			marge_pourcentage, prix_vente, cost_type, default_cost, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		p.ProductID, p.PlatformID, p.Name, p.Category, p.Stock, p.AlertThreshold, p.AvgPurchaseCost,
		p.MarginPercent, p.SalePrice, p.CostType, p.DefaultCost, p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "product "+p.ProductID)
	}
	return nil
}

// UpdateProduct writes every field except stock and platform.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE produits
		SET nom = $2, categorie = $3, seuil_alerte = $4, prix_achat_moyen = $5, marge_pourcentage = $6,
			prix_vente = $7, cost_type = $8, default_cost = $9, last_updated_at = $10, last_updated_by = $11
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.ProductID, p.Name, p.Category, p.AlertThreshold, p.AvgPurchaseCost, p.MarginPercent,
		p.SalePrice, p.CostType, p.DefaultCost, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "product "+p.ProductID)
	}
	return requireOneRow(tag, "product", p.ProductID)
}

// DeleteProduct removes a product.
func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM produits WHERE id = $1`, productID)
	if err != nil {
		return mapWriteError(err, "product "+productID)
	}
	return requireOneRow(tag, "product", productID)
}

// CountProductSales counts sales referencing the product.
func (r *PgxProductRepository) CountProductSales(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ventes WHERE id_produit = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sales of product %s: %w", productID, err)
	}
	return n, nil
}

// DecrementStockIfAvailable applies the decrement only when enough units remain.
func (r *PgxProductRepository) DecrementStockIfAvailable(ctx context.Context, productID string, qty int, userID string, now time.Time) (int, bool, error) {
	query := `
		UPDATE produits
		SET stock_actuel = stock_actuel - $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1 AND stock_actuel >= $2
		RETURNING stock_actuel`
	var stock int
	err := r.db.QueryRow(ctx, query, productID, qty, now, userID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to decrement stock of product %s: %w", productID, err)
	}
	return stock, true, nil
}

// IncrementStock applies stock = stock + qty.
func (r *PgxProductRepository) IncrementStock(ctx context.Context, productID string, qty int, userID string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE produits SET stock_actuel = stock_actuel + $2, last_updated_at = $3, last_updated_by = $4 WHERE id = $1`,
		productID, qty, now, userID)
	if err != nil {
		return fmt.Errorf("failed to increment stock of product %s: %w", productID, err)
	}
	return requireOneRow(tag, "product", productID)
}
