package handlers_test

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) GetBalance(ctx context.Context, platformID string) (decimal.Decimal, error) {
	args := m.Called(ctx, platformID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) ListEntries(ctx context.Context, platformID string, params dto.ListLedgerParams) ([]domain.LedgerEntry, int, error) {
	args := m.Called(ctx, platformID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) Reconcile(ctx context.Context, platformID string, apply bool, userID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, platformID, apply, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockLedgerService) AdjustBalance(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, delta decimal.Decimal, ref domain.LedgerRef) (decimal.Decimal, error) {
	args := m.Called(ctx, repos, platformID, delta, ref)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, repos portsrepo.RepositoryProvider, platformID string, amount decimal.Decimal, ref domain.LedgerRef) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, repos, platformID, amount, ref)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- Mock PlatformService ---
type MockPlatformService struct {
	mock.Mock
}

var _ portssvc.PlatformSvcFacade = (*MockPlatformService)(nil)

func (m *MockPlatformService) GetPlatformByID(ctx context.Context, platformID string) (*domain.Platform, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Platform), args.Error(1)
}

func (m *MockPlatformService) ListPlatforms(ctx context.Context, params dto.ListPlatformsParams) ([]domain.Platform, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Platform), args.Int(1), args.Error(2)
}

func (m *MockPlatformService) CreatePlatform(ctx context.Context, req dto.CreatePlatformRequest, userID string) (*domain.Platform, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Platform), args.Error(1)
}

func (m *MockPlatformService) UpdatePlatform(ctx context.Context, platformID string, req dto.UpdatePlatformRequest, userID string) (*domain.Platform, error) {
	args := m.Called(ctx, platformID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Platform), args.Error(1)
}

func (m *MockPlatformService) DeletePlatform(ctx context.Context, platformID string) error {
	args := m.Called(ctx, platformID)
	return args.Error(0)
}

// --- Mock ProductService ---
type MockProductService struct {
	mock.Mock
}

var _ portssvc.ProductSvcFacade = (*MockProductService)(nil)

func (m *MockProductService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

func (m *MockClientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Client), args.Int(1), args.Error(2)
}

func (m *MockClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// --- Mock RechargeService ---
type MockRechargeService struct {
	mock.Mock
}

var _ portssvc.RechargeSvcFacade = (*MockRechargeService)(nil)

func (m *MockRechargeService) GetRechargeByID(ctx context.Context, rechargeID string) (*domain.Recharge, error) {
	args := m.Called(ctx, rechargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recharge), args.Error(1)
}

func (m *MockRechargeService) ListRecharges(ctx context.Context, params dto.ListRechargesParams) ([]domain.Recharge, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Recharge), args.Int(1), args.Error(2)
}

func (m *MockRechargeService) CreateRecharge(ctx context.Context, req dto.CreateRechargeRequest, userID string) (*domain.Recharge, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recharge), args.Error(1)
}

func (m *MockRechargeService) UpdateRecharge(ctx context.Context, rechargeID string, req dto.UpdateRechargeRequest, userID string) (*domain.Recharge, error) {
	args := m.Called(ctx, rechargeID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recharge), args.Error(1)
}

func (m *MockRechargeService) DeleteRecharge(ctx context.Context, rechargeID string, userID string) error {
	args := m.Called(ctx, rechargeID, userID)
	return args.Error(0)
}

// --- Mock SaleService ---
type MockSaleService struct {
	mock.Mock
}

var _ portssvc.SaleSvcFacade = (*MockSaleService)(nil)

func (m *MockSaleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleService) ListSales(ctx context.Context, params dto.ListSalesParams) ([]domain.Sale, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Sale), args.Int(1), args.Error(2)
}

func (m *MockSaleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleService) UpdateSale(ctx context.Context, saleID string, req dto.UpdateSaleRequest, userID string) (*domain.Sale, error) {
	args := m.Called(ctx, saleID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleService) DeleteSale(ctx context.Context, saleID string, userID string) error {
	args := m.Called(ctx, saleID, userID)
	return args.Error(0)
}

func (m *MockSaleService) BulkDeleteSales(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
