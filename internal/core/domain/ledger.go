package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSource names the operation that produced a balance movement.
type LedgerSource string

const (
	SourceRecharge           LedgerSource = "recharge"
	SourceRechargeReversal   LedgerSource = "recharge_reversal"
	SourceRechargeAdjustment LedgerSource = "recharge_adjustment"
	SourceSale               LedgerSource = "sale"
	SourceSaleReversal       LedgerSource = "sale_reversal"
	SourceCorrection         LedgerSource = "correction"
)

// LedgerEntry is one append-only balance movement on a platform.
type LedgerEntry struct {
	EntryID      string          `json:"id"`
	PlatformID   string          `json:"id_plateforme"`
	Delta        decimal.Decimal `json:"delta"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	SourceType   LedgerSource    `json:"source_type"`
	SourceID     string          `json:"source_id"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by"`
}

// LedgerRef identifies who and what triggers a balance movement.
type LedgerRef struct {
	Source   LedgerSource
	SourceID string
	UserID   string
	At       time.Time
}

// HistoryTotals are the aggregates a platform balance is derived from.
// SaleCosts is the net of sale debits and sale reversals recorded in the ledger, so a sale
// deleted without reversal keeps counting against the balance it consumed.
type HistoryTotals struct {
	PaidRecharges decimal.Decimal
	SaleCosts     decimal.Decimal
	LedgerDeltas  decimal.Decimal
}

// ReconciliationReport compares the materialized balance with the one derived from history.
type ReconciliationReport struct {
	PlatformID    string          `json:"id_plateforme"`
	Balance       decimal.Decimal `json:"balance"`
	Expected      decimal.Decimal `json:"expected_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	Drift         decimal.Decimal `json:"drift"`
	Corrected     bool            `json:"corrected"`
}

// NewReconciliationReport derives the expected balances of p from totals.
func NewReconciliationReport(p Platform, totals HistoryTotals) ReconciliationReport {
	expected := p.InitialBalance.Add(totals.PaidRecharges).Sub(totals.SaleCosts)
	return ReconciliationReport{
		PlatformID:    p.PlatformID,
		Balance:       p.Balance,
		Expected:      expected,
		LedgerBalance: p.InitialBalance.Add(totals.LedgerDeltas),
		Drift:         p.Balance.Sub(expected),
	}
}

// HasDrift reports whether the materialized balance differs from history.
func (r ReconciliationReport) HasDrift() bool {
	return !r.Drift.IsZero()
}
