package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kellanreed/folio/internal/app"
	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/costbasis"
	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

// mockPortfolioService implements interfaces.PortfolioService for testing.
type mockPortfolioService struct {
	createPortfolio func(ctx context.Context, name, currency string) (*models.Portfolio, error)
	getPortfolio    func(ctx context.Context, id string) (*models.Portfolio, error)
	summary         func(ctx context.Context, id string) (*models.PortfolioSummary, error)
}

func (m *mockPortfolioService) CreatePortfolio(ctx context.Context, name, currency string) (*models.Portfolio, error) {
	if m.createPortfolio != nil {
		return m.createPortfolio(ctx, name, currency)
	}
	return &models.Portfolio{ID: "p1", Name: name, Currency: currency}, nil
}

func (m *mockPortfolioService) GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error) {
	if m.getPortfolio != nil {
		return m.getPortfolio(ctx, id)
	}
	return &models.Portfolio{ID: id, Name: "Main", Currency: "USD"}, nil
}

func (m *mockPortfolioService) ListPortfolios(ctx context.Context) ([]*models.Portfolio, error) {
	return nil, nil
}

func (m *mockPortfolioService) DeletePortfolio(ctx context.Context, id string) error {
	return nil
}

func (m *mockPortfolioService) Summary(ctx context.Context, id string) (*models.PortfolioSummary, error) {
	if m.summary != nil {
		return m.summary(ctx, id)
	}
	return &models.PortfolioSummary{PortfolioID: id}, nil
}

// mockAssetService implements interfaces.AssetService for testing.
type mockAssetService struct {
	createTransaction func(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error)
	deleteTransaction func(ctx context.Context, assetID, transactionID string) (*models.Asset, error)
	bulkImport        func(ctx context.Context, portfolioID string, req interfaces.ImportRequest) (*interfaces.ImportResult, error)
	getAsset          func(ctx context.Context, id string) (*models.AssetDetail, error)
}

func (m *mockAssetService) CreateAsset(ctx context.Context, portfolioID, symbol string, assetType models.AssetType, currency string) (*models.Asset, error) {
	return &models.Asset{ID: "a1", PortfolioID: portfolioID, Symbol: symbol}, nil
}

func (m *mockAssetService) GetAsset(ctx context.Context, id string) (*models.AssetDetail, error) {
	if m.getAsset != nil {
		return m.getAsset(ctx, id)
	}
	return &models.AssetDetail{Asset: models.Asset{ID: id}}, nil
}

func (m *mockAssetService) ListAssets(ctx context.Context, portfolioID string) ([]*models.Asset, error) {
	return nil, nil
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, id string) error {
	return nil
}

func (m *mockAssetService) CreateTransaction(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error) {
	if m.createTransaction != nil {
		return m.createTransaction(ctx, assetID, in)
	}
	return &costbasis.Result{Method: models.CostBasisFIFO}, nil
}

func (m *mockAssetService) DeleteTransaction(ctx context.Context, assetID, transactionID string) (*models.Asset, error) {
	if m.deleteTransaction != nil {
		return m.deleteTransaction(ctx, assetID, transactionID)
	}
	return &models.Asset{ID: assetID}, nil
}

func (m *mockAssetService) ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error) {
	return nil, nil
}

func (m *mockAssetService) BulkImport(ctx context.Context, portfolioID string, req interfaces.ImportRequest) (*interfaces.ImportResult, error) {
	if m.bulkImport != nil {
		return m.bulkImport(ctx, portfolioID, req)
	}
	return &interfaces.ImportResult{TransactionCount: len(req.Transactions)}, nil
}

func newTestServer(portfolios *mockPortfolioService, assets *mockAssetService, mutate ...func(*common.Config)) *Server {
	config := common.NewDefaultConfig()
	config.Server.RateLimit = 0
	for _, fn := range mutate {
		fn(config)
	}
	a := &app.App{
		Config:           config,
		Logger:           common.NewSilentLogger(),
		PortfolioService: portfolios,
		AssetService:     assets,
		StartupTime:      time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{})
	rec := doRequest(t, s, http.MethodGet, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v, want ok", resp["status"])
	}
}

func TestVersionEndpointRejectsPost(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{})
	rec := doRequest(t, s, http.MethodPost, "/api/version", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestCreatePortfolio(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{})
	rec := doRequest(t, s, http.MethodPost, "/api/portfolios", map[string]string{
		"name":     "Retirement",
		"currency": "USD",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var p models.Portfolio
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Retirement" {
		t.Errorf("name = %q, want Retirement", p.Name)
	}
}

func TestGetPortfolioNotFound(t *testing.T) {
	s := newTestServer(&mockPortfolioService{
		getPortfolio: func(ctx context.Context, id string) (*models.Portfolio, error) {
			return nil, fmt.Errorf("portfolio %s: %w", id, interfaces.ErrNotFound)
		},
	}, &mockAssetService{})

	rec := doRequest(t, s, http.MethodGet, "/api/portfolios/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionMapsEngineErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient quantity", &costbasis.InsufficientQuantityError{Available: 5, Requested: 8}, http.StatusBadRequest},
		{"invalid amount", costbasis.ErrInvalidAmount, http.StatusBadRequest},
		{"asset not found", fmt.Errorf("asset a1: %w", interfaces.ErrNotFound), http.StatusNotFound},
		{"duplicate asset", fmt.Errorf("asset VWCE: %w", interfaces.ErrAlreadyExists), http.StatusConflict},
		// Status mapping keys on the sentinel identity, never on message text.
		{"unwrapped not-found text", errors.New("record not found in cache"), http.StatusInternalServerError},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockPortfolioService{}, &mockAssetService{
				createTransaction: func(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error) {
					return nil, tt.err
				},
			})

			rec := doRequest(t, s, http.MethodPost, "/api/assets/a1/transactions", map[string]interface{}{
				"type":   "sell",
				"amount": 8,
				"price":  110,
				"date":   "2024-01-02T00:00:00Z",
			})
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCreateTransactionReturnsSettlement(t *testing.T) {
	realized := 320.0
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{
		createTransaction: func(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error) {
			if in.Type != models.TransactionSell || in.Amount != 12 {
				t.Errorf("input = %+v, want sell of 12", in)
			}
			return &costbasis.Result{
				Transaction: models.Transaction{ID: "t1", AssetID: assetID, Type: in.Type, Amount: in.Amount, Price: in.Price, RealizedGainLoss: &realized},
				UpdatedAsset: models.Asset{ID: assetID, Quantity: 3},
				Method:       models.CostBasisFIFO,
			}, nil
		},
	})

	rec := doRequest(t, s, http.MethodPost, "/api/assets/a1/transactions", map[string]interface{}{
		"type":   "sell",
		"amount": 12,
		"price":  130,
		"date":   "2024-01-03T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Transaction models.Transaction `json:"transaction"`
		Asset       models.Asset       `json:"asset"`
		Method      string             `json:"method"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Method != "fifo" {
		t.Errorf("method = %q, want fifo", resp.Method)
	}
	if resp.Transaction.RealizedGainLoss == nil || *resp.Transaction.RealizedGainLoss != 320 {
		t.Errorf("realized = %v, want 320", resp.Transaction.RealizedGainLoss)
	}
}

func TestBulkImportReturnsWarnings(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{
		bulkImport: func(ctx context.Context, portfolioID string, req interfaces.ImportRequest) (*interfaces.ImportResult, error) {
			return &interfaces.ImportResult{
				Asset:            models.Asset{ID: "a1", Symbol: req.Symbol},
				TransactionCount: len(req.Transactions),
				OrderWarnings:    []string{"transaction 1 reordered from position 0 to 1"},
			}, nil
		},
	})

	rec := doRequest(t, s, http.MethodPost, "/api/portfolios/p1/import", interfaces.ImportRequest{
		Symbol: "VWCE",
		Transactions: []models.TransactionInput{
			{Type: models.TransactionBuy, Amount: 10, Price: 50, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var result interfaces.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.OrderWarnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(result.OrderWarnings))
	}
}

func TestDeleteTransactionReturnsRebuiltAsset(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{
		deleteTransaction: func(ctx context.Context, assetID, transactionID string) (*models.Asset, error) {
			if transactionID != "t9" {
				t.Errorf("transaction id = %q, want t9", transactionID)
			}
			return &models.Asset{ID: assetID, Quantity: 6}, nil
		},
	})

	rec := doRequest(t, s, http.MethodDelete, "/api/assets/a1/transactions/t9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{})
	rec := doRequest(t, s, http.MethodGet, "/api/assets/a1/lots/extra/deep", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{}, func(c *common.Config) {
		c.Auth.RequireAuth = true
	})

	rec := doRequest(t, s, http.MethodGet, "/api/portfolios", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestBearerTokenPopulatesUser(t *testing.T) {
	var seenUser string
	s := newTestServer(&mockPortfolioService{
		getPortfolio: func(ctx context.Context, id string) (*models.Portfolio, error) {
			seenUser = common.ResolveUserID(ctx)
			return &models.Portfolio{ID: id}, nil
		},
	}, &mockAssetService{}, func(c *common.Config) {
		c.Auth.RequireAuth = true
	})

	secret := common.NewDefaultConfig().Auth.JWTSecret
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "alice",
		"email": "alice@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolios/p1", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if seenUser != "alice" {
		t.Errorf("resolved user = %q, want alice", seenUser)
	}
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	s := newTestServer(&mockPortfolioService{}, &mockAssetService{})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolios", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
