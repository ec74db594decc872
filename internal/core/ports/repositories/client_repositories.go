package repositories

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
)

// ClientFilter narrows client listings. Search matches name, first name or phone.
type ClientFilter struct {
	Search string
	Page
}

// ClientReader defines read operations for client data
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]domain.Client, int, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client. A duplicate phone number yields apperrors.ErrDuplicate.
	SaveClient(ctx context.Context, client domain.Client) error
	UpdateClient(ctx context.Context, client domain.Client) error
	DeleteClient(ctx context.Context, clientID string) error
	CountClientSales(ctx context.Context, clientID string) (int, error)
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
