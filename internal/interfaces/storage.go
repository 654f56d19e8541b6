// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/kellanreed/folio/internal/models"
)

// StorageManager coordinates all storage backends.
type StorageManager interface {
	Portfolios() PortfolioStore
	Assets() AssetStore
	Transactions() TransactionStore
	Lots() LotStore

	Close() error
}

// PortfolioStore persists portfolios.
type PortfolioStore interface {
	Get(ctx context.Context, id string) (*models.Portfolio, error)
	Save(ctx context.Context, portfolio *models.Portfolio) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error)
}

// AssetStore persists asset aggregates.
type AssetStore interface {
	Get(ctx context.Context, id string) (*models.Asset, error)
	GetBySymbol(ctx context.Context, portfolioID, symbol string) (*models.Asset, error)
	Save(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id string) error
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*models.Asset, error)
	DeleteByPortfolio(ctx context.Context, portfolioID string) (int, error)
}

// TransactionStore persists trade transactions.
type TransactionStore interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error
	SaveBatch(ctx context.Context, txs []models.Transaction) error
	Delete(ctx context.Context, id string) error
	ListByAsset(ctx context.Context, assetID string) ([]*models.Transaction, error)
	DeleteByAsset(ctx context.Context, assetID string) (int, error)
}

// LotStore persists cost-basis lots. Lots are never destroyed by selling;
// exhausted lots remain queryable for audit and recomputation.
type LotStore interface {
	Save(ctx context.Context, lot *models.Lot) error
	SaveBatch(ctx context.Context, lots []models.Lot) error
	ListByAsset(ctx context.Context, assetID string) ([]*models.Lot, error)
	DeleteByAsset(ctx context.Context, assetID string) (int, error)
}
