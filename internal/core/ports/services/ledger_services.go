package services

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on platform balances.
type LedgerReaderSvc interface {
	// GetBalance returns the current balance of a platform.
	GetBalance(ctx context.Context, platformID string) (decimal.Decimal, error)

	// ListEntries returns a page of balance movements for a platform and the total count.
	ListEntries(ctx context.Context, platformID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, int, error)
}

// LedgerReconcilerSvc compares materialized balances with their history.
type LedgerReconcilerSvc interface {
	// Reconcile reports drift for a platform; with apply it resets the balance to the expected one.
	Reconcile(ctx context.Context, platformID string, apply bool, userID string) (*domain.ReconciliationReport, error)
}

// BalanceMutator applies balance movements inside a caller-owned transaction.
// repos must be the provider handed out by TransactionManager.RunInTx.
type BalanceMutator interface {
	// AdjustBalance applies balance += delta and records a ledger entry. A zero delta is a no-op.
	AdjustBalance(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, delta decimal.Decimal, ref domain.LedgerRef) (decimal.Decimal, error)

	// Debit subtracts amount only when the balance covers it and returns the balance around the debit.
	Debit(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, amount decimal.Decimal, ref domain.LedgerRef) (before, after decimal.Decimal, err error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerReconcilerSvc
	BalanceMutator
}
