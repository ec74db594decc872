package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product is a sellable subscription tied to exactly one platform.
type Product struct {
	ProductID       string          `json:"id"`
	PlatformID      string          `json:"id_plateforme"`
	PlatformName    string          `json:"nom_plateforme,omitempty"`
	Name            string          `json:"nom"`
	Category        string          `json:"categorie"`
	Stock           int             `json:"stock_actuel"`
	AlertThreshold  int             `json:"seuil_alerte"`
	AvgPurchaseCost decimal.Decimal `json:"prix_achat_moyen"`
	MarginPercent   decimal.Decimal `json:"marge_pourcentage"`
	SalePrice       decimal.Decimal `json:"prix_vente"`
	CostType        BalanceType     `json:"cost_type"`
	DefaultCost     decimal.Decimal `json:"default_cost"`
	AuditFields
}

// ComputeSalePrice derives the sale price from the average purchase cost and margin, rounded to cents.
func ComputeSalePrice(avgCost, marginPercent decimal.Decimal) decimal.Decimal {
	return avgCost.Mul(decimal.NewFromInt(1).Add(marginPercent.Div(hundred))).Round(2)
}

// IsLowStock reports whether the stock is at or below the alert threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.AlertThreshold
}
