package interfaces

import (
	"context"

	"github.com/kellanreed/folio/internal/costbasis"
	"github.com/kellanreed/folio/internal/models"
)

// PortfolioService manages portfolios and their computed summaries.
type PortfolioService interface {
	CreatePortfolio(ctx context.Context, name, currency string) (*models.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) error
	Summary(ctx context.Context, id string) (*models.PortfolioSummary, error)
}

// ImportRequest is a bulk historical import for a not-yet-existing asset.
type ImportRequest struct {
	Symbol       string                    `json:"symbol"`
	Type         models.AssetType          `json:"type"`
	Currency     string                    `json:"currency"`
	Transactions []models.TransactionInput `json:"transactions"`
}

// ImportResult reports the derived asset and advisory order warnings.
type ImportResult struct {
	Asset            models.Asset `json:"asset"`
	TransactionCount int          `json:"transaction_count"`
	OrderWarnings    []string     `json:"order_warnings,omitempty"`
}

// AssetService manages assets, their transactions, and lot state.
// Implementations serialize updates per asset so concurrent transactions
// never race on the same snapshot.
type AssetService interface {
	CreateAsset(ctx context.Context, portfolioID, symbol string, assetType models.AssetType, currency string) (*models.Asset, error)
	GetAsset(ctx context.Context, id string) (*models.AssetDetail, error)
	ListAssets(ctx context.Context, portfolioID string) ([]*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	// CreateTransaction settles one live buy/sell through the cost-basis
	// engine and persists the returned bundle.
	CreateTransaction(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error)

	// DeleteTransaction removes a transaction and rebuilds the asset's
	// aggregate and lot state by replaying the remaining history.
	DeleteTransaction(ctx context.Context, assetID, transactionID string) (*models.Asset, error)

	ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error)

	// BulkImport derives a new asset from an unordered historical
	// transaction list via average-cost replay; no lots are created.
	BulkImport(ctx context.Context, portfolioID string, req ImportRequest) (*ImportResult, error)
}
