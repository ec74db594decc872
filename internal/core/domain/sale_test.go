package domain_test

import (
	"testing"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleTotal(t *testing.T) {
	got := domain.SaleTotal(3, decimal.RequireFromString("1250.50"))
	assert.Equal(t, "3751.5", got.String())
}

func TestSale_SnapshotConsistent(t *testing.T) {
	s := domain.Sale{
		PurchaseCost:       decimal.NewFromInt(300),
		PanelBalanceBefore: decimal.NewFromInt(1500),
		PanelBalanceAfter:  decimal.NewFromInt(1200),
	}
	assert.True(t, s.SnapshotConsistent())

	s.PanelBalanceAfter = decimal.NewFromInt(1100)
	assert.False(t, s.SnapshotConsistent())
}

func TestPaymentEnums(t *testing.T) {
	for _, m := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCCP, domain.PaymentBaridiMob, domain.PaymentOther} {
		assert.True(t, m.IsValid(), string(m))
	}
	assert.False(t, domain.PaymentMethod("Carte").IsValid())

	assert.True(t, domain.PaymentPaid.IsValid())
	assert.True(t, domain.PaymentPending.IsValid())
	assert.False(t, domain.PaymentStatus("Annulé").IsValid())
}

func TestComputeSalePrice(t *testing.T) {
	got := domain.ComputeSalePrice(decimal.NewFromInt(1000), decimal.NewFromInt(25))
	assert.True(t, decimal.NewFromInt(1250).Equal(got))

	got = domain.ComputeSalePrice(decimal.RequireFromString("333.33"), decimal.RequireFromString("10"))
	assert.Equal(t, "366.66", got.StringFixed(2))
}

func TestNewReconciliationReport(t *testing.T) {
	p := domain.Platform{
		PlatformID:     "p1",
		InitialBalance: decimal.NewFromInt(1000),
		Balance:        decimal.NewFromInt(1250),
	}
	r := domain.NewReconciliationReport(p, domain.HistoryTotals{
		PaidRecharges: decimal.NewFromInt(500),
		SaleCosts:     decimal.NewFromInt(300),
		LedgerDeltas:  decimal.NewFromInt(250),
	})

	assert.True(t, decimal.NewFromInt(1200).Equal(r.Expected))
	assert.True(t, decimal.NewFromInt(1250).Equal(r.LedgerBalance))
	assert.True(t, decimal.NewFromInt(50).Equal(r.Drift))
	assert.True(t, r.HasDrift())
}

func TestHasScale(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   bool
	}{
		{"10", 2, true},
		{"10.5", 2, true},
		{"10.50", 2, true},
		{"0.004", 2, false},
		{"-3.999", 2, false},
		{"1.2345", 4, true},
		{"1.23456", 4, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.HasScale(decimal.RequireFromString(tt.in), tt.places), tt.in)
	}
}
