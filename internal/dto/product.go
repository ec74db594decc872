package dto

import (
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	PlatformID      string             `json:"id_plateforme" binding:"required"`
	Name            string             `json:"nom" binding:"required"`
	Category        string             `json:"categorie"`
	Stock           int                `json:"stock_actuel" binding:"gte=0"`
	AlertThreshold  int                `json:"seuil_alerte" binding:"gte=0"`
	AvgPurchaseCost decimal.Decimal    `json:"prix_achat_moyen" binding:"dgte0,dscale=2"`
	MarginPercent   decimal.Decimal    `json:"marge_pourcentage" binding:"dgte0,dscale=2"`
	CostType        domain.BalanceType `json:"cost_type" binding:"omitempty,oneof=currency points"`
	DefaultCost     decimal.Decimal    `json:"default_cost" binding:"dgte0,dscale=2"`
}

// UpdateProductRequest defines the fields allowed to change on a product.
// Stock is not patchable; it moves only through sales.
type UpdateProductRequest struct {
	Name            *string             `json:"nom"`
	Category        *string             `json:"categorie"`
	AlertThreshold  *int                `json:"seuil_alerte" binding:"omitempty,gte=0"`
	AvgPurchaseCost *decimal.Decimal    `json:"prix_achat_moyen" binding:"omitempty,dgte0,dscale=2"`
	MarginPercent   *decimal.Decimal    `json:"marge_pourcentage" binding:"omitempty,dgte0,dscale=2"`
	CostType        *domain.BalanceType `json:"cost_type" binding:"omitempty,oneof=currency points"`
	DefaultCost     *decimal.Decimal    `json:"default_cost" binding:"omitempty,dgte0,dscale=2"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	PlatformID string `form:"id_plateforme"`
	LowStock   bool   `form:"low_stock"`
	PageParams
}
