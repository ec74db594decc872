package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/handlers"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/config"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/metrics"
	"github.com/SscSPs/iptv_reseller_app/internal/utils"
	"github.com/SscSPs/iptv_reseller_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "admin"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string

	platforms *MockPlatformService
	ledger    *MockLedgerService
	products  *MockProductService
	clients   *MockClientService
	recharges *MockRechargeService
	sales     *MockSaleService
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.platforms = new(MockPlatformService)
	suite.ledger = new(MockLedgerService)
	suite.products = new(MockProductService)
	suite.clients = new(MockClientService)
	suite.recharges = new(MockRechargeService)
	suite.sales = new(MockSaleService)

	suite.router = gin.New()
	api := suite.router.Group("/api", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterAPIRoutes(api, &portssvc.ServiceContainer{
		Ledger:   suite.ledger,
		Platform: suite.platforms,
		Product:  suite.products,
		Client:   suite.clients,
		Recharge: suite.recharges,
		Sale:     suite.sales,
	}, pagination.Limits{Default: 20, Max: 100})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.platforms.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.products.AssertExpectations(suite.T())
	suite.clients.AssertExpectations(suite.T())
	suite.recharges.AssertExpectations(suite.T())
	suite.sales.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) token() string {
	token, err := utils.GenerateJWT(testUserID, suite.jwtSecret, time.Hour, "test", time.Now())
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.token())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/ventes", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), `"success":false`)
}

func (suite *HandlerTestSuite) TestCreateSale_Success() {
	sale := &domain.Sale{
		SaleID:             "sale-1",
		Quantity:           2,
		PurchaseCost:       decimal.NewFromInt(300),
		PanelBalanceBefore: decimal.NewFromInt(1500),
		PanelBalanceAfter:  decimal.NewFromInt(1200),
	}
	suite.sales.On("CreateSale", mock.Anything, mock.MatchedBy(func(req dto.CreateSaleRequest) bool {
		return req.Quantity == 2 && req.PurchaseCost != nil && req.PurchaseCost.Equal(decimal.NewFromInt(300))
	}), testUserID).Return(sale, nil).Once()

	w, env := suite.do(http.MethodPost, "/api/ventes", `{
		"id_client": "c1", "id_produit": "p1", "id_plateforme": "pl1",
		"quantite": 2, "prix_unitaire": 2500, "purchase_cost": "300",
		"methode_paiement": "Espèce", "statut_paiement": "Payé"
	}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.True(env.Success)
	var got domain.Sale
	suite.Require().NoError(json.Unmarshal(env.Data, &got))
	suite.Equal("sale-1", got.SaleID)
	suite.True(decimal.NewFromInt(1200).Equal(got.PanelBalanceAfter))
}

func (suite *HandlerTestSuite) TestCreateSale_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "insufficient balance",
			err:    &apperrors.InsufficientBalanceError{Available: decimal.NewFromInt(100), Required: decimal.NewFromInt(300), Unit: "DZD"},
			status: http.StatusBadRequest,
			msg:    "insufficient balance: available 100.00 DZD, required 300.00 DZD",
		},
		{
			name:   "insufficient stock",
			err:    &apperrors.InsufficientStockError{Available: 3, Requested: 5},
			status: http.StatusBadRequest,
			msg:    "insufficient stock: available 3, requested 5",
		},
		{
			name:   "not found",
			err:    fmt.Errorf("%w: product p1", apperrors.ErrNotFound),
			status: http.StatusNotFound,
			msg:    "resource not found: product p1",
		},
		{
			name:   "internal",
			err:    apperrors.NewAppError(500, "failed to commit", fmt.Errorf("connection reset")),
			status: http.StatusInternalServerError,
			msg:    "Failed to create sale",
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.sales.On("CreateSale", mock.Anything, mock.Anything, testUserID).Return(nil, tt.err).Once()

			w, env := suite.do(http.MethodPost, "/api/ventes", `{"id_client":"c1","id_produit":"p1","id_plateforme":"pl1","quantite":5,"prix_unitaire":10}`)

			suite.Equal(tt.status, w.Code)
			suite.False(env.Success)
			suite.Equal(tt.msg, env.Error)
		})
	}
}

func (suite *HandlerTestSuite) TestListSales_NormalizesPagination() {
	suite.sales.On("ListSales", mock.Anything, mock.MatchedBy(func(p dto.ListSalesParams) bool {
		return p.Page == 2 && p.Limit == 100 && p.From != nil && p.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	})).Return([]domain.Sale{{SaleID: "s1"}}, 250, nil).Once()

	w, env := suite.do(http.MethodGet, "/api/ventes?page=2&limit=500&date_from=2025-03-01", "")

	suite.Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[domain.Sale]
	suite.Require().NoError(json.Unmarshal(env.Data, &list))
	suite.Len(list.Items, 1)
	suite.Equal(dto.Pagination{Total: 250, Page: 2, Limit: 100, Pages: 3}, list.Pagination)
}

func (suite *HandlerTestSuite) TestListSales_EmptyItemsIsArray() {
	suite.sales.On("ListSales", mock.Anything, mock.Anything).Return([]domain.Sale(nil), 0, nil).Once()

	w, _ := suite.do(http.MethodGet, "/api/ventes", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"items":[]`)
}

func (suite *HandlerTestSuite) TestBulkDeleteSales() {
	suite.sales.On("BulkDeleteSales", mock.Anything, testUserID).Return(int64(7), nil).Once()

	w, env := suite.do(http.MethodDelete, "/api/ventes/bulk-delete", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"deleted":7}`, string(env.Data))
}

func (suite *HandlerTestSuite) TestDeleteSale() {
	suite.sales.On("DeleteSale", mock.Anything, "sale-1", testUserID).Return(nil).Once()

	w, env := suite.do(http.MethodDelete, "/api/ventes/sale-1", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Sale deleted", env.Message)
}

func (suite *HandlerTestSuite) TestUpdateSale_LedgerFieldRejected() {
	suite.sales.On("UpdateSale", mock.Anything, "sale-1", mock.MatchedBy(func(req dto.UpdateSaleRequest) bool {
		return req.Quantity != nil && *req.Quantity == 4
	}), testUserID).Return(nil, fmt.Errorf("%w: quantite cannot be changed after the sale is recorded", apperrors.ErrValidation)).Once()

	w, env := suite.do(http.MethodPut, "/api/ventes/sale-1", `{"quantite":4}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(env.Error, "quantite")
}

func (suite *HandlerTestSuite) TestCreatePlatform_BindingRejectsNegativeBalance() {
	w, env := suite.do(http.MethodPost, "/api/plateformes", `{"nom":"Panel","balance_type":"currency","initial_balance":-5}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(env.Error, "Invalid request format")
}

func (suite *HandlerTestSuite) TestCreatePlatform_Success() {
	platform := &domain.Platform{PlatformID: "pl1", Name: "Panel", Balance: decimal.NewFromInt(1000)}
	suite.platforms.On("CreatePlatform", mock.Anything, mock.MatchedBy(func(req dto.CreatePlatformRequest) bool {
		return req.Name == "Panel" && req.InitialBalance.Equal(decimal.NewFromInt(1000))
	}), testUserID).Return(platform, nil).Once()

	w, env := suite.do(http.MethodPost, "/api/plateformes", `{"nom":"Panel","balance_type":"currency","initial_balance":1000}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(string(env.Data), `"id":"pl1"`)
}

func (suite *HandlerTestSuite) TestDeletePlatform_Conflict() {
	suite.platforms.On("DeletePlatform", mock.Anything, "pl1").
		Return(fmt.Errorf("%w: platform is referenced by 2 products and 0 recharges", apperrors.ErrConflict)).Once()

	w, env := suite.do(http.MethodDelete, "/api/plateformes/pl1", "")

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(env.Error, "referenced")
}

func (suite *HandlerTestSuite) TestReconcile_PassesApplyFlag() {
	report := &domain.ReconciliationReport{PlatformID: "pl1", Corrected: true}
	suite.ledger.On("Reconcile", mock.Anything, "pl1", true, testUserID).Return(report, nil).Once()

	w, env := suite.do(http.MethodPost, "/api/plateformes/pl1/reconcile?apply=true", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"corrected":true`)
}

func (suite *HandlerTestSuite) TestListLedger() {
	entries := []domain.LedgerEntry{{EntryID: "e1", SourceType: domain.SourceSale}}
	suite.ledger.On("ListEntries", mock.Anything, "pl1", dto.ListLedgerParams{PageParams: dto.PageParams{Page: 1, Limit: 20}}).
		Return(entries, 1, nil).Once()

	w, env := suite.do(http.MethodGet, "/api/plateformes/pl1/ledger", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"source_type":"sale"`)
}

func (suite *HandlerTestSuite) TestUpdateRecharge_StatusChange() {
	recharge := &domain.Recharge{RechargeID: "r1", Status: domain.RechargePending}
	suite.recharges.On("UpdateRecharge", mock.Anything, "r1", mock.MatchedBy(func(req dto.UpdateRechargeRequest) bool {
		return req.Status != nil && *req.Status == domain.RechargePending && req.Amount == nil
	}), testUserID).Return(recharge, nil).Once()

	w, env := suite.do(http.MethodPut, "/api/recharges/r1", `{"statut":"En attente"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)
}

func (suite *HandlerTestSuite) TestDeleteRecharge_InsufficientPoints() {
	suite.recharges.On("DeleteRecharge", mock.Anything, "r1", testUserID).
		Return(&apperrors.InsufficientBalanceError{Available: decimal.NewFromInt(10), Required: decimal.NewFromInt(50), Unit: "pts"}).Once()

	w, _ := suite.do(http.MethodDelete, "/api/recharges/r1", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetProduct_NotFound() {
	suite.products.On("GetProductByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w, env := suite.do(http.MethodGet, "/api/produits/missing", "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("resource not found", env.Error)
}

func (suite *HandlerTestSuite) TestListProducts_LowStockFilter() {
	suite.products.On("ListProducts", mock.Anything, mock.MatchedBy(func(p dto.ListProductsParams) bool {
		return p.LowStock && p.PlatformID == "pl1"
	})).Return([]domain.Product{}, 0, nil).Once()

	w, _ := suite.do(http.MethodGet, "/api/produits?low_stock=true&id_plateforme=pl1", "")

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestCreateClient_InvalidEmail() {
	w, _ := suite.do(http.MethodPost, "/api/clients", `{"nom":"Benali","email":"not-an-email"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateClient_DuplicatePhone() {
	suite.clients.On("CreateClient", mock.Anything, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: telephone 0550 is already used", apperrors.ErrConflict)).Once()

	w, _ := suite.do(http.MethodPost, "/api/clients", `{"nom":"Benali","telephone":"0550"}`)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateSale_BindingRejectsSubCentAmounts() {
	for _, body := range []string{
		`{"id_client":"c1","id_produit":"p1","id_plateforme":"pl1","quantite":1,"prix_unitaire":10,"purchase_cost":0.004}`,
		`{"id_client":"c1","id_produit":"p1","id_plateforme":"pl1","quantite":1,"prix_unitaire":"9.999"}`,
	} {
		w, env := suite.do(http.MethodPost, "/api/ventes", body)

		suite.Equal(http.StatusBadRequest, w.Code)
		suite.Contains(env.Error, "dscale")
	}
}

func (suite *HandlerTestSuite) TestGetPlatform() {
	platform := &domain.Platform{PlatformID: "pl1", Name: "Panel", Balance: decimal.RequireFromString("1250.75"), BalanceUnit: "DZD"}
	suite.platforms.On("GetPlatformByID", mock.Anything, "pl1").Return(platform, nil).Once()

	w, env := suite.do(http.MethodGet, "/api/plateformes/pl1", "")

	suite.Equal(http.StatusOK, w.Code)
	var got domain.Platform
	suite.Require().NoError(json.Unmarshal(env.Data, &got))
	suite.Equal("pl1", got.PlatformID)
	suite.True(decimal.RequireFromString("1250.75").Equal(got.Balance))
}

func (suite *HandlerTestSuite) TestGetPlatform_NotFound() {
	suite.platforms.On("GetPlatformByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: platform missing", apperrors.ErrNotFound)).Once()

	w, _ := suite.do(http.MethodGet, "/api/plateformes/missing", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCreateRecharge() {
	recharge := &domain.Recharge{RechargeID: "r1", PlatformID: "pl1", Amount: decimal.NewFromInt(500), Status: domain.RechargePaid}
	suite.recharges.On("CreateRecharge", mock.Anything, mock.MatchedBy(func(req dto.CreateRechargeRequest) bool {
		return req.PlatformID == "pl1" && req.Amount.Equal(decimal.NewFromInt(500)) && req.Status == domain.RechargePaid && req.Proof == "recu-042.jpg"
	}), testUserID).Return(recharge, nil).Once()

	w, env := suite.do(http.MethodPost, "/api/recharges", `{"id_plateforme":"pl1","montant":500,"statut":"Payé","preuve":"recu-042.jpg"}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("Recharge created", env.Message)
	suite.Contains(string(env.Data), `"id":"r1"`)
}

func (suite *HandlerTestSuite) TestCreateRecharge_BindingErrors() {
	tests := []struct {
		name string
		body string
	}{
		{"missing platform", `{"montant":500}`},
		{"sub-cent amount", `{"id_plateforme":"pl1","montant":10.001}`},
		{"malformed json", `{"id_plateforme":`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w, env := suite.do(http.MethodPost, "/api/recharges", tt.body)

			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(env.Error, "Invalid request format")
		})
	}
}

func (suite *HandlerTestSuite) TestListRecharges_MapsQueryToFilter() {
	suite.recharges.On("ListRecharges", mock.Anything, dto.ListRechargesParams{
		PlatformID: "pl1",
		Status:     string(domain.RechargePaid),
		PageParams: dto.PageParams{Page: 3, Limit: 5},
	}).Return([]domain.Recharge{{RechargeID: "r1"}}, 11, nil).Once()

	w, env := suite.do(http.MethodGet, "/api/recharges?id_plateforme=pl1&statut=Pay%C3%A9&page=3&limit=5", "")

	suite.Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[domain.Recharge]
	suite.Require().NoError(json.Unmarshal(env.Data, &list))
	suite.Equal(dto.Pagination{Total: 11, Page: 3, Limit: 5, Pages: 3}, list.Pagination)
}

func (suite *HandlerTestSuite) TestListRecharges_InvalidStatus() {
	suite.recharges.On("ListRecharges", mock.Anything, mock.Anything).
		Return(nil, 0, fmt.Errorf("%w: statut must be one of En attente, Payé, Annulé", apperrors.ErrValidation)).Once()

	w, env := suite.do(http.MethodGet, "/api/recharges?statut=Paid", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(env.Error, "statut")
}

func TestRegisterValidators_DecimalTags(t *testing.T) {
	assert.NotPanics(t, handlers.RegisterValidators)
	assert.NotPanics(t, handlers.RegisterValidators)

	type amounts struct {
		Price decimal.Decimal  `binding:"dgt0,dscale=2"`
		Rate  *decimal.Decimal `binding:"omitempty,dscale=4"`
	}
	rate := decimal.RequireFromString("1.23456")
	tests := []struct {
		name  string
		in    amounts
		valid bool
	}{
		{"valid", amounts{Price: decimal.RequireFromString("12.50")}, true},
		{"zero price", amounts{Price: decimal.Zero}, false},
		{"sub-cent price", amounts{Price: decimal.RequireFromString("0.004")}, false},
		{"rate too precise", amounts{Price: decimal.NewFromInt(1), Rate: &rate}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterRoutes_PublicEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := new(MockAuthService)
	auth.On("Login", mock.Anything, "admin", "secret").Return("signed-token", nil)

	cfg := &config.Config{JWTSecret: "s", LoginRateLimit: "2-M", DefaultPageLimit: 20, MaxPageLimit: 100, IsProduction: true}
	r := gin.New()
	err := handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{Auth: auth}, metrics.New())
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: got %d", w.Code)
	}

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if got := login(); got != http.StatusOK {
		t.Fatalf("first login: got %d", got)
	}
	if got := login(); got != http.StatusOK {
		t.Fatalf("second login: got %d", got)
	}
	if got := login(); got != http.StatusTooManyRequests {
		t.Fatalf("third login: want 429, got %d", got)
	}
	auth.AssertNumberOfCalls(t, "Login", 2)
}
