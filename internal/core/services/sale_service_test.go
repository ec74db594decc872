package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SaleServiceTestSuite struct {
	storeSuite
}

func TestSaleService(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}

func (s *SaleServiceTestSuite) TestCreateSale_RechargeSaleAndRechargeDeletion() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "150")
	client := s.createClient("0550000001")

	recharge, err := s.recharges.CreateRecharge(s.ctx, dto.CreateRechargeRequest{
		PlatformID: platform.PlatformID,
		Amount:     dec("500"),
		Status:     domain.RechargePaid,
	}, testUser)
	s.Require().NoError(err)
	s.assertBalance("1500", platform.PlatformID)

	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 2, ptr(dec("300"))), testUser)
	s.Require().NoError(err)
	s.assertBalance("1200", platform.PlatformID)
	s.Equal(8, s.stock(product.ProductID))
	s.True(dec("1500").Equal(sale.PanelBalanceBefore))
	s.True(dec("1200").Equal(sale.PanelBalanceAfter))
	s.True(dec("5000").Equal(sale.Total))
	s.Equal("Karim Benali", sale.ClientName)
	s.Equal(product.Name, sale.ProductName)

	s.Require().NoError(s.recharges.DeleteRecharge(s.ctx, recharge.RechargeID, testUser))
	s.assertBalance("700", platform.PlatformID)
}

func (s *SaleServiceTestSuite) TestCreateSale_InsufficientStock() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 3, "50")
	client := s.createClient("")

	_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 5, nil), testUser)

	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	var stockErr *apperrors.InsufficientStockError
	s.Require().True(errors.As(err, &stockErr))
	s.Equal(3, stockErr.Available)
	s.Equal(5, stockErr.Requested)
	s.Equal(3, s.stock(product.ProductID))
	s.assertBalance("1000", platform.PlatformID)
	s.Empty(s.ledgerEntries(platform.PlatformID))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SalesRejected.WithLabelValues("insufficient_stock")))
}

func (s *SaleServiceTestSuite) TestCreateSale_InsufficientBalance() {
	platform := s.createPlatform("200", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "50")
	client := s.createClient("")

	_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, ptr(dec("200.01"))), testUser)

	var balanceErr *apperrors.InsufficientBalanceError
	s.Require().True(errors.As(err, &balanceErr))
	s.True(dec("200").Equal(balanceErr.Available))
	s.True(dec("200.01").Equal(balanceErr.Required))
	s.Equal("DZD", balanceErr.Unit)
	s.Equal(10, s.stock(product.ProductID))
	s.assertBalance("200", platform.PlatformID)

	sales, total, err := s.sales.ListSales(s.ctx, dto.ListSalesParams{})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(sales)
}

func (s *SaleServiceTestSuite) TestCreateSale_ExactBalanceIsAllowed() {
	platform := s.createPlatform("300", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 1, "300")
	client := s.createClient("")

	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)

	s.Require().NoError(err)
	s.True(dec("300").Equal(sale.PurchaseCost), "purchase cost defaults to default_cost × quantite")
	s.assertBalance("0", platform.PlatformID)
	s.Equal(0, s.stock(product.ProductID))
}

func (s *SaleServiceTestSuite) TestCreateSale_SnapshotMatchesPriorBalance() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "10")
	client := s.createClient("")

	for _, cost := range []string{"120.50", "99.99", "300"} {
		before := s.balance(platform.PlatformID)
		sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, ptr(dec(cost))), testUser)
		s.Require().NoError(err)
		s.True(before.Equal(sale.PanelBalanceBefore))
		s.True(sale.PanelBalanceBefore.Sub(sale.PurchaseCost).Equal(sale.PanelBalanceAfter))
	}
	s.assertBalance("479.51", platform.PlatformID)

	entries := s.ledgerEntries(platform.PlatformID)
	s.Require().Len(entries, 3)
	s.Equal(domain.SourceSale, entries[0].SourceType)
	s.True(dec("-300").Equal(entries[0].Delta))
	s.True(dec("479.51").Equal(entries[0].BalanceAfter))
}

func (s *SaleServiceTestSuite) TestCreateSale_ConcurrentSalesDepleteExactly() {
	const n = 25
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, n, "40")
	client := s.createClient("")
	cost := s.balance(platform.PlatformID).Div(decimal.NewFromInt(n))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, &cost), testUser)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.assertBalance("0", platform.PlatformID)
	s.Equal(0, s.stock(product.ProductID))
	s.Len(s.ledgerEntries(platform.PlatformID), n)
}

func (s *SaleServiceTestSuite) TestCreateSale_ConcurrentSalesNeverOverdraw() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 100, "100")
	client := s.createClient("")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(10, succeeded)
	s.Equal(10, rejected)
	s.assertBalance("0", platform.PlatformID)
	s.Equal(90, s.stock(product.ProductID))
}

func (s *SaleServiceTestSuite) TestCreateSale_Validation() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	other := s.createPlatform("1000", domain.BalancePoints)
	product := s.createProduct(platform.PlatformID, 10, "50")
	client := s.createClient("")

	tests := []struct {
		name   string
		mutate func(*dto.CreateSaleRequest)
		target error
	}{
		{"zero quantity", func(r *dto.CreateSaleRequest) { r.Quantity = 0 }, apperrors.ErrValidation},
		{"negative purchase cost", func(r *dto.CreateSaleRequest) { r.PurchaseCost = ptr(dec("-1")) }, apperrors.ErrValidation},
		{"sub-cent purchase cost", func(r *dto.CreateSaleRequest) { r.PurchaseCost = ptr(dec("0.004")) }, apperrors.ErrValidation},
		{"sub-cent unit price", func(r *dto.CreateSaleRequest) { r.UnitPrice = dec("12.345") }, apperrors.ErrValidation},
		{"unknown payment method", func(r *dto.CreateSaleRequest) { r.PaymentMethod = "Chèque" }, apperrors.ErrValidation},
		{"product of another platform", func(r *dto.CreateSaleRequest) { r.PlatformID = other.PlatformID }, apperrors.ErrValidation},
		{"missing client", func(r *dto.CreateSaleRequest) { r.ClientID = "9b2e0c8e-0000-4000-8000-000000000000" }, apperrors.ErrNotFound},
		{"missing product", func(r *dto.CreateSaleRequest) { r.ProductID = "not-a-uuid" }, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.saleRequest(client.ClientID, product, 1, nil)
			tt.mutate(&req)
			_, err := s.sales.CreateSale(s.ctx, req, testUser)
			s.ErrorIs(err, tt.target)
		})
	}
	s.Equal(10, s.stock(product.ProductID))
	s.assertBalance("1000", platform.PlatformID)
}

func (s *SaleServiceTestSuite) TestUpdateSale_PatchesDescriptiveFieldsOnly() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("0550000001")
	other := s.createClient("0550000002")
	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 2, nil), testUser)
	s.Require().NoError(err)

	updated, err := s.sales.UpdateSale(s.ctx, sale.SaleID, dto.UpdateSaleRequest{
		ClientID:      &other.ClientID,
		UnitPrice:     ptr(dec("3000")),
		PaymentStatus: ptr(domain.PaymentPending),
		Quantity:      ptr(2),
		Notes:         ptr("payé à moitié"),
	}, testUser)

	s.Require().NoError(err)
	s.Equal(other.ClientID, updated.ClientID)
	s.True(dec("6000").Equal(updated.Total))
	s.Equal(domain.PaymentPending, updated.PaymentStatus)
	s.Equal("payé à moitié", updated.Notes)
	s.assertBalance("800", platform.PlatformID)
	s.Equal(8, s.stock(product.ProductID))
}

func (s *SaleServiceTestSuite) TestUpdateSale_RejectsLedgerFieldChanges() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 2, nil), testUser)
	s.Require().NoError(err)

	for name, req := range map[string]dto.UpdateSaleRequest{
		"quantite":      {Quantity: ptr(3)},
		"purchase_cost": {PurchaseCost: ptr(dec("1"))},
		"id_produit":    {ProductID: ptr("other")},
		"id_plateforme": {PlatformID: ptr("other")},
	} {
		s.Run(name, func() {
			_, err := s.sales.UpdateSale(s.ctx, sale.SaleID, req, testUser)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.assertBalance("800", platform.PlatformID)
}

func (s *SaleServiceTestSuite) TestDeleteSale_KeepsStockAndBalanceByDefault() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)
	s.Require().NoError(err)

	s.Require().NoError(s.sales.DeleteSale(s.ctx, sale.SaleID, testUser))

	_, err = s.sales.GetSaleByID(s.ctx, sale.SaleID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.assertBalance("900", platform.PlatformID)
	s.Equal(9, s.stock(product.ProductID))
	s.ErrorIs(s.sales.DeleteSale(s.ctx, sale.SaleID, testUser), apperrors.ErrNotFound)
}

func (s *SaleServiceTestSuite) TestReconcile_DeletedSaleIsNotDrift() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "150")
	client := s.createClient("")
	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 2, nil), testUser)
	s.Require().NoError(err)
	s.Require().NoError(s.sales.DeleteSale(s.ctx, sale.SaleID, testUser))

	report, err := s.ledger.Reconcile(s.ctx, platform.PlatformID, false, testUser)
	s.Require().NoError(err)
	s.False(report.HasDrift(), "drift %s", report.Drift)
	s.True(dec("700").Equal(report.Expected))
	s.True(dec("700").Equal(report.LedgerBalance))

	report, err = s.ledger.Reconcile(s.ctx, platform.PlatformID, true, testUser)
	s.Require().NoError(err)
	s.False(report.Corrected)
	s.assertBalance("700", platform.PlatformID)
	s.Equal(8, s.stock(product.ProductID))
	s.Len(s.ledgerEntries(platform.PlatformID), 1)
}

func (s *SaleServiceTestSuite) TestBulkDeleteSales_ReturnsCount() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	for range 3 {
		_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)
		s.Require().NoError(err)
	}

	deleted, err := s.sales.BulkDeleteSales(s.ctx, testUser)

	s.Require().NoError(err)
	s.EqualValues(3, deleted)
	s.assertBalance("700", platform.PlatformID)
	_, total, err := s.sales.ListSales(s.ctx, dto.ListSalesParams{})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *SaleServiceTestSuite) TestListSales_Filters() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "10")
	a := s.createClient("0550000001")
	b := s.createClient("0550000002")

	for i, offset := range []int{-9, -8, -7} {
		req := s.saleRequest(a.ClientID, product, 1, nil)
		if i == 2 {
			req.ClientID = b.ClientID
			req.PaymentStatus = domain.PaymentPending
		}
		date := fixedNow.AddDate(0, 0, offset)
		req.Date = &date
		_, err := s.sales.CreateSale(s.ctx, req, testUser)
		s.Require().NoError(err)
	}

	sales, total, err := s.sales.ListSales(s.ctx, dto.ListSalesParams{ClientID: a.ClientID})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.True(sales[0].Date.After(sales[1].Date), "newest first")

	_, total, err = s.sales.ListSales(s.ctx, dto.ListSalesParams{PaymentStatus: string(domain.PaymentPending)})
	s.Require().NoError(err)
	s.Equal(1, total)

	day := fixedNow.AddDate(0, 0, -8).Truncate(24 * time.Hour)
	_, total, err = s.sales.ListSales(s.ctx, dto.ListSalesParams{From: &day, To: &day})
	s.Require().NoError(err)
	s.Equal(1, total, "date_to includes the whole day")

	_, _, err = s.sales.ListSales(s.ctx, dto.ListSalesParams{PaymentStatus: "Paid"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

type ReversingSaleServiceTestSuite struct {
	storeSuite
}

func TestReversingSaleService(t *testing.T) {
	suite.Run(t, new(ReversingSaleServiceTestSuite))
}

func (s *ReversingSaleServiceTestSuite) SetupTest() {
	s.reverseOnDelete = true
	s.storeSuite.SetupTest()
}

func (s *ReversingSaleServiceTestSuite) TestDeleteSale_RestoresStockAndBalance() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	sale, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 3, nil), testUser)
	s.Require().NoError(err)
	s.assertBalance("700", platform.PlatformID)

	s.Require().NoError(s.sales.DeleteSale(s.ctx, sale.SaleID, testUser))

	s.assertBalance("1000", platform.PlatformID)
	s.Equal(10, s.stock(product.ProductID))
	entries := s.ledgerEntries(platform.PlatformID)
	s.Require().Len(entries, 2)
	s.Equal(domain.SourceSaleReversal, entries[0].SourceType)
	s.Equal(sale.SaleID, entries[0].SourceID)
}

func (s *ReversingSaleServiceTestSuite) TestReconcile_ReversedSaleIsNotDrift() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	kept, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)
	s.Require().NoError(err)
	reversed, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 2, nil), testUser)
	s.Require().NoError(err)
	s.Require().NoError(s.sales.DeleteSale(s.ctx, reversed.SaleID, testUser))

	report, err := s.ledger.Reconcile(s.ctx, platform.PlatformID, true, testUser)

	s.Require().NoError(err)
	s.False(report.HasDrift(), "drift %s", report.Drift)
	s.False(report.Corrected)
	s.True(dec("1000").Sub(kept.PurchaseCost).Equal(report.Expected))
	s.assertBalance("900", platform.PlatformID)
}

func (s *ReversingSaleServiceTestSuite) TestBulkDeleteSales_AcrossProductsAndPlatforms() {
	panelA := s.createPlatform("1000", domain.BalanceCurrency)
	panelB := s.createPlatform("500", domain.BalanceCurrency)
	yearly := s.createProduct(panelA.PlatformID, 10, "100")
	monthly := s.createProduct(panelA.PlatformID, 5, "30")
	other := s.createProduct(panelB.PlatformID, 3, "50")
	client := s.createClient("")
	for _, sale := range []struct {
		product *domain.Product
		qty     int
	}{{yearly, 2}, {monthly, 1}, {yearly, 1}, {other, 3}} {
		_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, sale.product, sale.qty, nil), testUser)
		s.Require().NoError(err)
	}
	s.assertBalance("670", panelA.PlatformID)
	s.assertBalance("350", panelB.PlatformID)

	deleted, err := s.sales.BulkDeleteSales(s.ctx, testUser)

	s.Require().NoError(err)
	s.EqualValues(4, deleted)
	s.assertBalance("1000", panelA.PlatformID)
	s.assertBalance("500", panelB.PlatformID)
	s.Equal(10, s.stock(yearly.ProductID))
	s.Equal(5, s.stock(monthly.ProductID))
	s.Equal(3, s.stock(other.ProductID))
	s.Len(s.ledgerEntries(panelA.PlatformID), 6)
}

func (s *ReversingSaleServiceTestSuite) TestBulkDeleteSales_RestoresEverything() {
	platform := s.createPlatform("1000", domain.BalanceCurrency)
	product := s.createProduct(platform.PlatformID, 10, "100")
	client := s.createClient("")
	for range 4 {
		_, err := s.sales.CreateSale(s.ctx, s.saleRequest(client.ClientID, product, 1, nil), testUser)
		s.Require().NoError(err)
	}

	deleted, err := s.sales.BulkDeleteSales(s.ctx, testUser)

	s.Require().NoError(err)
	s.EqualValues(4, deleted)
	s.assertBalance("1000", platform.PlatformID)
	s.Equal(10, s.stock(product.ProductID))
}
