package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RechargeStatus is the lifecycle state of a recharge. Only paid recharges count toward a balance.
type RechargeStatus string

const (
	RechargePending   RechargeStatus = "En attente"
	RechargePaid      RechargeStatus = "Payé"
	RechargeCancelled RechargeStatus = "Annulé"
)

// IsValid reports whether s is a known recharge status.
func (s RechargeStatus) IsValid() bool {
	switch s {
	case RechargePending, RechargePaid, RechargeCancelled:
		return true
	}
	return false
}

// Recharge is a funding event against one platform.
type Recharge struct {
	RechargeID   string          `json:"id"`
	PlatformID   string          `json:"id_plateforme"`
	PlatformName string          `json:"nom_plateforme,omitempty"`
	Amount       decimal.Decimal `json:"montant"`
	Status       RechargeStatus  `json:"statut"`
	Date         time.Time       `json:"date_recharge"`
	Proof        string          `json:"preuve,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	AuditFields
}

// RechargeState is the part of a recharge that affects the platform balance.
type RechargeState struct {
	Status RechargeStatus
	Amount decimal.Decimal
}

// RechargeBalanceAdjustment returns the signed delta to apply to the platform balance
// when a recharge moves from old to next.
func RechargeBalanceAdjustment(old, next RechargeState) decimal.Decimal {
	wasPaid := old.Status == RechargePaid
	isPaid := next.Status == RechargePaid
	switch {
	case wasPaid && !isPaid:
		return old.Amount.Neg()
	case !wasPaid && isPaid:
		return next.Amount
	case wasPaid && isPaid && !old.Amount.Equal(next.Amount):
		return next.Amount.Sub(old.Amount)
	default:
		return decimal.Zero
	}
}
