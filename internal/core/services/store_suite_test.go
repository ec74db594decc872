package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/core/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/metrics"
	"github.com/SscSPs/iptv_reseller_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testUser = "admin"

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// storeSuite wires every service against a fresh memory store.
type storeSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	metrics *metrics.Metrics

	reverseOnDelete bool
	strictPoints    bool

	ledger    portssvc.LedgerSvcFacade
	platforms portssvc.PlatformSvcFacade
	products  portssvc.ProductSvcFacade
	clients   portssvc.ClientSvcFacade
	recharges portssvc.RechargeSvcFacade
	sales     portssvc.SaleSvcFacade
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.metrics = metrics.New()
	s.wire()
}

func (s *storeSuite) wire() {
	repos := s.store.Repositories()
	opts := []services.ServiceOption{
		services.WithMetrics(s.metrics),
		services.WithClock(func() time.Time { return fixedNow }),
	}
	s.ledger = services.NewLedgerService(s.store, repos, s.strictPoints, opts...)
	s.platforms = services.NewPlatformService(s.store, repos, opts...)
	s.products = services.NewProductService(s.store, repos, opts...)
	s.clients = services.NewClientService(s.store, repos, opts...)
	s.recharges = services.NewRechargeService(s.store, repos, s.ledger, opts...)
	s.sales = services.NewSaleService(s.store, repos, s.ledger, s.reverseOnDelete, opts...)
}

func (s *storeSuite) createPlatform(balance string, balanceType domain.BalanceType) *domain.Platform {
	p, err := s.platforms.CreatePlatform(s.ctx, dto.CreatePlatformRequest{
		Name:           "Panel " + string(balanceType),
		InitialBalance: dec(balance),
		BalanceType:    balanceType,
	}, testUser)
	s.Require().NoError(err)
	return p
}

func (s *storeSuite) createProduct(platformID string, stock int, defaultCost string) *domain.Product {
	p, err := s.products.CreateProduct(s.ctx, dto.CreateProductRequest{
		PlatformID:      platformID,
		Name:            "12 mois",
		Category:        "abonnement",
		Stock:           stock,
		AlertThreshold:  2,
		AvgPurchaseCost: dec(defaultCost),
		MarginPercent:   dec("25"),
		DefaultCost:     dec(defaultCost),
	}, testUser)
	s.Require().NoError(err)
	return p
}

func (s *storeSuite) createClient(phone string) *domain.Client {
	c, err := s.clients.CreateClient(s.ctx, dto.CreateClientRequest{
		LastName:  "Benali",
		FirstName: "Karim",
		Phone:     phone,
	}, testUser)
	s.Require().NoError(err)
	return c
}

func (s *storeSuite) saleRequest(clientID string, product *domain.Product, qty int, cost *decimal.Decimal) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		ClientID:      clientID,
		ProductID:     product.ProductID,
		PlatformID:    product.PlatformID,
		Quantity:      qty,
		UnitPrice:     dec("2500"),
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentPaid,
		PurchaseCost:  cost,
	}
}

func (s *storeSuite) balance(platformID string) decimal.Decimal {
	b, err := s.ledger.GetBalance(s.ctx, platformID)
	s.Require().NoError(err)
	return b
}

func (s *storeSuite) stock(productID string) int {
	p, err := s.products.GetProductByID(s.ctx, productID)
	s.Require().NoError(err)
	return p.Stock
}

func (s *storeSuite) assertBalance(want string, platformID string) {
	got := s.balance(platformID)
	s.True(dec(want).Equal(got), "balance: want %s, got %s", want, got)
}

func (s *storeSuite) ledgerEntries(platformID string) []domain.LedgerEntry {
	entries, _, err := s.ledger.ListEntries(s.ctx, platformID, dto.ListLedgerParams{PageParams: dto.PageParams{Page: 1, Limit: 100}})
	s.Require().NoError(err)
	return entries
}

func ptr[T any](v T) *T {
	return &v
}
