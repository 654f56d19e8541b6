package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

type AssetStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAssetStore(db *surrealdb.DB, logger *common.Logger) *AssetStore {
	return &AssetStore{
		db:     db,
		logger: logger,
	}
}

func (s *AssetStore) Get(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := surrealdb.Select[models.Asset](ctx, s.db, surrealmodels.NewRecordID("asset", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select asset: %w", err)
	}
	if asset == nil || asset.ID == "" {
		return nil, fmt.Errorf("asset %s: %w", id, interfaces.ErrNotFound)
	}
	return asset, nil
}

func (s *AssetStore) GetBySymbol(ctx context.Context, portfolioID, symbol string) (*models.Asset, error) {
	sql := "SELECT * FROM asset WHERE portfolio_id = $portfolio_id AND symbol = $symbol LIMIT 1"
	vars := map[string]any{"portfolio_id": portfolioID, "symbol": symbol}

	results, err := surrealdb.Query[[]models.Asset](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to select asset by symbol: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("asset %s: %w", symbol, interfaces.ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

func (s *AssetStore) Save(ctx context.Context, asset *models.Asset) error {
	sql := "UPSERT type::record('asset', $id) CONTENT $asset"
	vars := map[string]any{"id": asset.ID, "asset": asset}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Asset](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save asset after retries: %w", err)
		}
	}
	return nil
}

func (s *AssetStore) Delete(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Asset](ctx, s.db, surrealmodels.NewRecordID("asset", id))
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func (s *AssetStore) ListByPortfolio(ctx context.Context, portfolioID string) ([]*models.Asset, error) {
	sql := "SELECT * FROM asset WHERE portfolio_id = $portfolio_id ORDER BY symbol ASC"
	vars := map[string]any{"portfolio_id": portfolioID}

	results, err := surrealdb.Query[[]models.Asset](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var assets []*models.Asset
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			assets = append(assets, &(*results)[0].Result[i])
		}
	}
	return assets, nil
}

func (s *AssetStore) DeleteByPortfolio(ctx context.Context, portfolioID string) (int, error) {
	assets, err := s.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return 0, err
	}

	sql := "DELETE FROM asset WHERE portfolio_id = $portfolio_id"
	vars := map[string]any{"portfolio_id": portfolioID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return 0, fmt.Errorf("failed to delete assets by portfolio: %w", err)
	}
	return len(assets), nil
}
