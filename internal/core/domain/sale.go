package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client paid for a sale.
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "Espèce"
	PaymentCCP       PaymentMethod = "CCP"
	PaymentBaridiMob PaymentMethod = "BaridiMob"
	PaymentOther     PaymentMethod = "Autre"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCCP, PaymentBaridiMob, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus is whether the client has settled the sale.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Payé"
	PaymentPending PaymentStatus = "En attente"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPaid || s == PaymentPending
}

// Sale is a consumption event: a client buys a product, the platform balance pays the purchase cost.
// PanelBalanceBefore/After snapshot the platform balance around the debit.
type Sale struct {
	SaleID             string          `json:"id"`
	ClientID           string          `json:"id_client"`
	ClientName         string          `json:"nom_client,omitempty"`
	ProductID          string          `json:"id_produit"`
	ProductName        string          `json:"nom_produit,omitempty"`
	PlatformID         string          `json:"id_plateforme"`
	PlatformName       string          `json:"nom_plateforme,omitempty"`
	Quantity           int             `json:"quantite"`
	UnitPrice          decimal.Decimal `json:"prix_unitaire"`
	Total              decimal.Decimal `json:"prix_total"`
	Date               time.Time       `json:"date_vente"`
	PaymentMethod      PaymentMethod   `json:"methode_paiement"`
	PaymentStatus      PaymentStatus   `json:"statut_paiement"`
	PurchaseCost       decimal.Decimal `json:"purchase_cost"`
	CostType           BalanceType     `json:"cost_type_vente"`
	PanelBalanceBefore decimal.Decimal `json:"panel_balance_before"`
	PanelBalanceAfter  decimal.Decimal `json:"panel_balance_after"`
	Notes              string          `json:"notes,omitempty"`
	AuditFields
}

// SaleTotal is quantity × unit price.
func SaleTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SnapshotConsistent reports whether the audit snapshot matches the purchase cost.
func (s Sale) SnapshotConsistent() bool {
	return s.PanelBalanceAfter.Equal(s.PanelBalanceBefore.Sub(s.PurchaseCost))
}
