package dto

import (
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest defines the data needed to record a sale.
// PurchaseCost defaults to the product default cost times the quantity.
type CreateSaleRequest struct {
	ClientID      string               `json:"id_client"`
	ProductID     string               `json:"id_produit"`
	PlatformID    string               `json:"id_plateforme"`
	Quantity      int                  `json:"quantite"`
	UnitPrice     decimal.Decimal      `json:"prix_unitaire" binding:"dscale=2"`
	Date          *time.Time           `json:"date_vente"`
	PaymentMethod domain.PaymentMethod `json:"methode_paiement"`
	PaymentStatus domain.PaymentStatus `json:"statut_paiement"`
	PurchaseCost  *decimal.Decimal     `json:"purchase_cost" binding:"omitempty,dscale=2"`
	CostType      domain.BalanceType   `json:"cost_type_vente"`
	Notes         string               `json:"notes"`
}

// UpdateSaleRequest defines a partial update of a sale.
// Quantity, PurchaseCost, ProductID and PlatformID were settled against stock and balance
// when the sale was created; a patch may repeat them but not change them.
type UpdateSaleRequest struct {
	ClientID      *string               `json:"id_client"`
	UnitPrice     *decimal.Decimal      `json:"prix_unitaire" binding:"omitempty,dscale=2"`
	Date          *time.Time            `json:"date_vente"`
	PaymentMethod *domain.PaymentMethod `json:"methode_paiement"`
	PaymentStatus *domain.PaymentStatus `json:"statut_paiement"`
	Notes         *string               `json:"notes"`

	Quantity     *int             `json:"quantite"`
	PurchaseCost *decimal.Decimal `json:"purchase_cost"`
	ProductID    *string          `json:"id_produit"`
	PlatformID   *string          `json:"id_plateforme"`
}

// ListSalesParams defines query parameters for listing sales.
type ListSalesParams struct {
	ClientID      string     `form:"id_client"`
	ProductID     string     `form:"id_produit"`
	PlatformID    string     `form:"id_plateforme"`
	PaymentStatus string     `form:"statut_paiement"`
	From          *time.Time `form:"date_from" time_format:"2006-01-02" time_utc:"1"`
	To            *time.Time `form:"date_to" time_format:"2006-01-02" time_utc:"1"`
	PageParams
}

// BulkDeleteResponse reports how many sales were removed.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
