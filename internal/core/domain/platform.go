package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceType classifies how a platform's credit is denominated. It never changes after creation.
type BalanceType string

const (
	BalanceCurrency BalanceType = "currency"
	BalancePoints   BalanceType = "points"
)

// IsValid reports whether t is a known balance type.
func (t BalanceType) IsValid() bool {
	return t == BalanceCurrency || t == BalancePoints
}

// Platform is a credit account held with an upstream IPTV panel.
// Balance is the materialized running total; it is only mutated through the ledger.
type Platform struct {
	PlatformID          string           `json:"id"`
	Name                string           `json:"nom"`
	Description         string           `json:"description"`
	InitialBalance      decimal.Decimal  `json:"initial_balance"`
	Balance             decimal.Decimal  `json:"balance"`
	BalanceType         BalanceType      `json:"balance_type"`
	BalanceUnit         string           `json:"balance_unit"`
	PointConversionRate *decimal.Decimal `json:"point_conversion_rate,omitempty"`
	IsActive            bool             `json:"is_active"`
	AuditFields
}

// DefaultBalanceUnit returns the display unit used when none is given.
func DefaultBalanceUnit(t BalanceType) string {
	if t == BalancePoints {
		return "pts"
	}
	return "DZD"
}

// CanCover reports whether the platform balance covers amount.
func (p Platform) CanCover(amount decimal.Decimal) bool {
	return p.Balance.GreaterThanOrEqual(amount)
}
