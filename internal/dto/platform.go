package dto

import (
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePlatformRequest defines the data needed to create a platform.
// InitialBalance seeds both the initial and the current balance.
type CreatePlatformRequest struct {
	Name                string             `json:"nom" binding:"required"`
	Description         string             `json:"description"`
	InitialBalance      decimal.Decimal    `json:"initial_balance" binding:"dgte0,dscale=2"`
	BalanceType         domain.BalanceType `json:"balance_type" binding:"required,oneof=currency points"`
	BalanceUnit         string             `json:"balance_unit"`
	PointConversionRate *decimal.Decimal   `json:"point_conversion_rate" binding:"omitempty,dgt0,dscale=4"`
}

// UpdatePlatformRequest defines the fields allowed to change on a platform.
// Balance and balance type are owned by the ledger and cannot be patched.
type UpdatePlatformRequest struct {
	Name                *string          `json:"nom"`
	Description         *string          `json:"description"`
	BalanceUnit         *string          `json:"balance_unit"`
	PointConversionRate *decimal.Decimal `json:"point_conversion_rate" binding:"omitempty,dgt0,dscale=4"`
	IsActive            *bool            `json:"is_active"`
}

// ListPlatformsParams defines query parameters for listing platforms.
type ListPlatformsParams struct {
	PageParams
}

// ReconcileParams defines query parameters for a reconciliation run.
type ReconcileParams struct {
	Apply bool `form:"apply"`
}

// ListLedgerParams defines query parameters for listing ledger entries.
type ListLedgerParams struct {
	PageParams
}
