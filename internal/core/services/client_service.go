package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/google/uuid"
)

type clientService struct {
	BaseService
	txm   portsrepo.TransactionManager
	repos portsrepo.RepositoryProvider
}

// NewClientService creates the client service.
func NewClientService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: newBaseService(options...),
		txm:         txm,
		repos:       repos,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	lastName := strings.TrimSpace(req.LastName)
	if lastName == "" {
		return nil, validationErrorf("nom is required")
	}

	client := domain.Client{
		ClientID:    uuid.NewString(),
		LastName:    lastName,
		FirstName:   strings.TrimSpace(req.FirstName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Address:     req.Address,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.ClientRepo.SaveClient(ctx, client); err != nil {
		s.LogFailure(ctx, err, "Failed to create client")
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: telephone %s is already used", apperrors.ErrConflict, client.Phone)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.repos.ClientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, int, error) {
	clients, total, err := s.repos.ClientRepo.ListClients(ctx, portsrepo.ClientFilter{
		Search: strings.TrimSpace(params.Search),
		Page:   toPage(params.PageParams),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return nil, validationErrorf("nom must not be empty")
	}

	var updated *domain.Client
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		client, err := repos.ClientRepo.FindClientByID(ctx, clientID)
		if err != nil {
			return err
		}
		if req.LastName != nil {
			client.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.FirstName != nil {
			client.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.Phone != nil {
			client.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Email != nil {
			client.Email = strings.TrimSpace(*req.Email)
		}
		if req.Address != nil {
			client.Address = *req.Address
		}
		if req.Notes != nil {
			client.Notes = *req.Notes
		}
		client.Touch(userID, s.Now())

		if err := repos.ClientRepo.UpdateClient(ctx, *client); err != nil {
			return err
		}
		updated = client
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: telephone is already used", apperrors.ErrConflict)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Client updated", slog.String("client_id", clientID))
	return updated, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.ClientRepo.FindClientByID(ctx, clientID); err != nil {
			return err
		}
		sales, err := repos.ClientRepo.CountClientSales(ctx, clientID)
		if err != nil {
			return err
		}
		if sales > 0 {
			return fmt.Errorf("%w: client is referenced by %d sales", apperrors.ErrConflict, sales)
		}
		return repos.ClientRepo.DeleteClient(ctx, clientID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return err
	}

	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID))
	return nil
}
