package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/google/uuid"
)

type rechargeService struct {
	BaseService
	txm    portsrepo.TransactionManager
	repos  portsrepo.RepositoryProvider
	ledger portssvc.BalanceMutator
}

// NewRechargeService creates the recharge service.
func NewRechargeService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, ledger portssvc.BalanceMutator, options ...ServiceOption) portssvc.RechargeSvcFacade {
	return &rechargeService{
		BaseService: newBaseService(options...),
		txm:         txm,
		repos:       repos,
		ledger:      ledger,
	}
}

var _ portssvc.RechargeSvcFacade = (*rechargeService)(nil)

// adjustmentSource names the ledger movement caused by a status or amount change.
func adjustmentSource(old, next domain.RechargeState) domain.LedgerSource {
	switch {
	case old.Status != domain.RechargePaid && next.Status == domain.RechargePaid:
		return domain.SourceRecharge
	case old.Status == domain.RechargePaid && next.Status != domain.RechargePaid:
		return domain.SourceRechargeReversal
	default:
		return domain.SourceRechargeAdjustment
	}
}

func (s *rechargeService) CreateRecharge(ctx context.Context, req dto.CreateRechargeRequest, userID string) (*domain.Recharge, error) {
	status := req.Status
	if status == "" {
		status = domain.RechargePending
	}
	switch {
	case req.PlatformID == "":
		return nil, validationErrorf("id_plateforme is required")
	case !req.Amount.IsPositive():
		return nil, validationErrorf("montant must be greater than 0")
	case !domain.HasScale(req.Amount, domain.MoneyScale):
		return nil, validationErrorf("montant must have at most %d decimal places", domain.MoneyScale)
	case !status.IsValid():
		return nil, validationErrorf("statut must be one of En attente, Payé, Annulé")
	}

	now := s.Now()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}
	recharge := domain.Recharge{
		RechargeID:  uuid.NewString(),
		PlatformID:  req.PlatformID,
		Amount:      req.Amount,
		Status:      status,
		Date:        date,
		Proof:       req.Proof,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	var created *domain.Recharge
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		platform, err := repos.PlatformRepo.FindPlatformByID(ctx, req.PlatformID)
		if err != nil {
			return err
		}
		if !platform.IsActive {
			return validationErrorf("platform %s is inactive", platform.PlatformID)
		}
		if err := repos.RechargeRepo.SaveRecharge(ctx, recharge); err != nil {
			return err
		}
		if recharge.Status == domain.RechargePaid {
			ref := domain.LedgerRef{Source: domain.SourceRecharge, SourceID: recharge.RechargeID, UserID: userID, At: now}
			if _, err := s.ledger.AdjustBalance(ctx, repos, recharge.PlatformID, recharge.Amount, ref); err != nil {
				return err
			}
		}
		created, err = repos.RechargeRepo.FindRechargeByID(ctx, recharge.RechargeID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create recharge", slog.String("platform_id", req.PlatformID))
		return nil, err
	}

	s.LogInfo(ctx, "Recharge created",
		slog.String("recharge_id", created.RechargeID),
		slog.String("status", string(created.Status)),
		slog.String("amount", created.Amount.String()))
	return created, nil
}

func (s *rechargeService) UpdateRecharge(ctx context.Context, rechargeID string, req dto.UpdateRechargeRequest, userID string) (*domain.Recharge, error) {
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, validationErrorf("montant must be greater than 0")
	}
	if err := checkMoneyScale([]string{"montant"}, req.Amount); err != nil {
		return nil, err
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, validationErrorf("statut must be one of En attente, Payé, Annulé")
	}

	var updated *domain.Recharge
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		existing, err := repos.RechargeRepo.FindRechargeByIDForUpdate(ctx, rechargeID)
		if err != nil {
			return err
		}

		old := domain.RechargeState{Status: existing.Status, Amount: existing.Amount}
		next := old
		if req.Status != nil {
			next.Status = *req.Status
		}
		if req.Amount != nil {
			next.Amount = *req.Amount
		}
		adjustment := domain.RechargeBalanceAdjustment(old, next)

		existing.Status = next.Status
		existing.Amount = next.Amount
		if req.Date != nil {
			existing.Date = req.Date.UTC()
		}
		if req.Proof != nil {
			existing.Proof = *req.Proof
		}
		if req.Notes != nil {
			existing.Notes = *req.Notes
		}
		now := s.Now()
		existing.Touch(userID, now)

		if err := repos.RechargeRepo.UpdateRecharge(ctx, *existing); err != nil {
			return err
		}
		if !adjustment.IsZero() {
			ref := domain.LedgerRef{Source: adjustmentSource(old, next), SourceID: rechargeID, UserID: userID, At: now}
			if _, err := s.ledger.AdjustBalance(ctx, repos, existing.PlatformID, adjustment, ref); err != nil {
				return err
			}
		}
		updated, err = repos.RechargeRepo.FindRechargeByID(ctx, rechargeID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update recharge", slog.String("recharge_id", rechargeID))
		return nil, err
	}

	s.LogInfo(ctx, "Recharge updated",
		slog.String("recharge_id", rechargeID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *rechargeService) DeleteRecharge(ctx context.Context, rechargeID string, userID string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		existing, err := repos.RechargeRepo.FindRechargeByIDForUpdate(ctx, rechargeID)
		if err != nil {
			return err
		}
		if err := repos.RechargeRepo.DeleteRecharge(ctx, rechargeID); err != nil {
			return err
		}
		if existing.Status != domain.RechargePaid {
			return nil
		}
		ref := domain.LedgerRef{Source: domain.SourceRechargeReversal, SourceID: rechargeID, UserID: userID, At: s.Now()}
		_, err = s.ledger.AdjustBalance(ctx, repos, existing.PlatformID, existing.Amount.Neg(), ref)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete recharge", slog.String("recharge_id", rechargeID))
		return err
	}

	s.LogInfo(ctx, "Recharge deleted", slog.String("recharge_id", rechargeID))
	return nil
}

func (s *rechargeService) GetRechargeByID(ctx context.Context, rechargeID string) (*domain.Recharge, error) {
	recharge, err := s.repos.RechargeRepo.FindRechargeByID(ctx, rechargeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find recharge", slog.String("recharge_id", rechargeID))
		}
		return nil, err
	}
	return recharge, nil
}

func (s *rechargeService) ListRecharges(ctx context.Context, params dto.ListRechargesParams) ([]domain.Recharge, int, error) {
	status := domain.RechargeStatus(params.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, validationErrorf("statut must be one of En attente, Payé, Annulé")
	}
	recharges, total, err := s.repos.RechargeRepo.ListRecharges(ctx, portsrepo.RechargeFilter{
		PlatformID: params.PlatformID,
		Status:     status,
		Page:       toPage(params.PageParams),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list recharges")
		return nil, 0, fmt.Errorf("failed to list recharges: %w", err)
	}
	return recharges, total, nil
}
