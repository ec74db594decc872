package dto

import (
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRechargeRequest defines the data needed to record a recharge.
// Status defaults to "En attente"; Date defaults to now.
type CreateRechargeRequest struct {
	PlatformID string                `json:"id_plateforme" binding:"required"`
	Amount     decimal.Decimal       `json:"montant" binding:"dscale=2"`
	Status     domain.RechargeStatus `json:"statut"`
	Date       *time.Time            `json:"date_recharge"`
	Proof      string                `json:"preuve"`
	Notes      string                `json:"notes"`
}

// UpdateRechargeRequest defines a partial update of a recharge.
type UpdateRechargeRequest struct {
	Status *domain.RechargeStatus `json:"statut"`
	Amount *decimal.Decimal       `json:"montant" binding:"omitempty,dscale=2"`
	Date   *time.Time             `json:"date_recharge"`
	Proof  *string                `json:"preuve"`
	Notes  *string                `json:"notes"`
}

// ListRechargesParams defines query parameters for listing recharges.
type ListRechargesParams struct {
	PlatformID string `form:"id_plateforme"`
	Status     string `form:"statut"`
	PageParams
}
