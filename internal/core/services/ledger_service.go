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
	"github.com/shopspring/decimal"
)

// ledgerService owns every mutation of a platform balance.
type ledgerService struct {
	BaseService
	txm   portsrepo.TransactionManager
	repos portsrepo.RepositoryProvider

	// strictPoints makes negative adjustments on points platforms conditional, so they never go below zero.
	strictPoints bool
}

// NewLedgerService creates the balance ledger.
func NewLedgerService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, strictPoints bool, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:  newBaseService(options...),
		txm:          txm,
		repos:        repos,
		strictPoints: strictPoints,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetBalance(ctx context.Context, platformID string) (decimal.Decimal, error) {
	p, err := s.repos.PlatformRepo.FindPlatformByID(ctx, platformID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Balance, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, platformID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, int, error) {
	if _, err := s.repos.PlatformRepo.FindPlatformByID(ctx, platformID); err != nil {
		return nil, 0, err
	}
	entries, total, err := s.repos.LedgerRepo.ListEntries(ctx, platformID, toPage(params.PageParams))
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("platform_id", platformID))
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, total, nil
}

// AdjustBalance applies balance += delta inside the caller's transaction.
func (s *ledgerService) AdjustBalance(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, delta decimal.Decimal, ref domain.LedgerRef) (decimal.Decimal, error) {
	if delta.IsZero() {
		p, err := repos.PlatformRepo.FindPlatformByID(ctx, platformID)
		if err != nil {
			return decimal.Zero, err
		}
		return p.Balance, nil
	}

	if delta.IsNegative() && s.strictPoints {
		p, err := repos.PlatformRepo.FindPlatformByIDForUpdate(ctx, platformID)
		if err != nil {
			return decimal.Zero, err
		}
		if p.BalanceType == domain.BalancePoints {
			_, after, err := s.Debit(ctx, repos, platformID, delta.Neg(), ref)
			return after, err
		}
	}

	after, err := repos.PlatformRepo.AdjustBalance(ctx, platformID, delta, ref.UserID, ref.At)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.record(ctx, repos, platformID, delta, after, ref); err != nil {
		return decimal.Zero, err
	}
	return after, nil
}

// Debit subtracts amount only when the balance covers it, as one conditional statement.
func (s *ledgerService) Debit(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, amount decimal.Decimal, ref domain.LedgerRef) (decimal.Decimal, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, validationErrorf("debit amount must be greater than 0, got %s", amount)
	}

	after, ok, err := repos.PlatformRepo.DebitBalanceIfSufficient(ctx, platformID, amount, ref.UserID, ref.At)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !ok {
		p, err := repos.PlatformRepo.FindPlatformByID(ctx, platformID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return decimal.Zero, decimal.Zero, &apperrors.InsufficientBalanceError{
			PlatformID: platformID,
			Available:  p.Balance,
			Required:   amount,
			Unit:       p.BalanceUnit,
		}
	}

	if err := s.record(ctx, repos, platformID, amount.Neg(), after, ref); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return after.Add(amount), after, nil
}

func (s *ledgerService) record(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, delta, after decimal.Decimal, ref domain.LedgerRef) error {
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		PlatformID:   platformID,
		Delta:        delta,
		BalanceAfter: after,
		SourceType:   ref.Source,
		SourceID:     ref.SourceID,
		CreatedAt:    ref.At,
		CreatedBy:    ref.UserID,
	}
	if err := repos.LedgerRepo.AppendEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	s.Metrics.Ledger(string(ref.Source))
	s.LogDebug(ctx, "Balance adjusted",
		slog.String("platform_id", platformID),
		slog.String("delta", delta.String()),
		slog.String("balance_after", after.String()),
		slog.String("source", string(ref.Source)),
		slog.String("source_id", ref.SourceID))
	return nil
}

func (s *ledgerService) Reconcile(ctx context.Context, platformID string, apply bool, userID string) (*domain.ReconciliationReport, error) {
	var report domain.ReconciliationReport
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		p, err := repos.PlatformRepo.FindPlatformByIDForUpdate(ctx, platformID)
		if err != nil {
			return err
		}
		totals, err := repos.PlatformRepo.HistoryTotals(ctx, platformID)
		if err != nil {
			return err
		}
		report = domain.NewReconciliationReport(*p, totals)
		if !apply || !report.HasDrift() {
			return nil
		}

		now := s.Now()
		if err := repos.PlatformRepo.SetBalance(ctx, platformID, report.Expected, userID, now); err != nil {
			return err
		}
		correction := report.Expected.Sub(p.Balance)
		ref := domain.LedgerRef{Source: domain.SourceCorrection, SourceID: platformID, UserID: userID, At: now}
		if err := s.record(ctx, repos, platformID, correction, report.Expected, ref); err != nil {
			return err
		}
		report.Corrected = true
		report.LedgerBalance = report.LedgerBalance.Add(correction)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reconcile platform balance", slog.String("platform_id", platformID))
		}
		return nil, err
	}

	if report.HasDrift() {
		s.GetLogger(ctx).Warn("Platform balance drift detected",
			slog.String("platform_id", platformID),
			slog.String("balance", report.Balance.String()),
			slog.String("expected", report.Expected.String()),
			slog.Bool("corrected", report.Corrected))
	}
	return &report, nil
}
