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

type PgxClientRepository struct {
	db DBTX
}

// newPgxClientRepository creates a new repository for client data.
func newPgxClientRepository(db DBTX) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientColumns = `id, nom, prenom, COALESCE(telephone, ''), email, adresse, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ClientID,
		&c.LastName,
		&c.FirstName,
		&c.Phone,
		&c.Email,
		&c.Address,
		&c.Notes,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// nullablePhone stores an empty phone as NULL so that the unique index ignores it.
func nullablePhone(phone string) *string {
	if phone == "" {
		return nil
	}
	return &phone
}

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	if malformedID(clientID) {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	return c, nil
}

// ListClients returns a page of clients ordered by name.
func (r *PgxClientRepository) ListClients(ctx context.Context, filter portsrepo.ClientFilter) ([]domain.Client, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (nom ILIKE $%[1]d OR prenom ILIKE $%[1]d OR telephone ILIKE $%[1]d)", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query, args := orderPage(`SELECT `+clientColumns+` FROM clients`+where, "nom ASC, prenom ASC, id ASC", args, filter.Page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, total, nil
}

// SaveClient inserts a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, c domain.Client) error {
	query := `
		INSERT INTO clients (id, nom, prenom, telephone, email, adresse, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		c.ClientID, c.LastName, c.FirstName, nullablePhone(c.Phone), c.Email, c.Address, c.Notes,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "client with phone "+c.Phone)
	}
	return nil
}

// UpdateClient writes every client field.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, c domain.Client) error {
	query := `
		UPDATE clients
		SET nom = $2, prenom = $3, telephone = $4, email = $5, adresse = $6, notes = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		c.ClientID, c.LastName, c.FirstName, nullablePhone(c.Phone), c.Email, c.Address, c.Notes,
		c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "client with phone "+c.Phone)
	}
	return requireOneRow(tag, "client", c.ClientID)
}

// DeleteClient removes a client.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return mapWriteError(err, "client "+clientID)
	}
	return requireOneRow(tag, "client", clientID)
}

// CountClientSales counts sales referencing the client.
func (r *PgxClientRepository) CountClientSales(ctx context.Context, clientID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ventes WHERE id_client = $1`, clientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sales of client %s: %w", clientID, err)
	}
	return n, nil
}
