package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/models"
)

// LotStore persists cost-basis lots. Lots are soft-exhausted, never deleted
// by selling; only asset deletion removes them.
type LotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewLotStore(db *surrealdb.DB, logger *common.Logger) *LotStore {
	return &LotStore{
		db:     db,
		logger: logger,
	}
}

func (s *LotStore) Save(ctx context.Context, lot *models.Lot) error {
	sql := "UPSERT type::record('lot', $id) CONTENT $lot"
	vars := map[string]any{"id": lot.ID, "lot": lot}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Lot](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save lot after retries: %w", err)
		}
	}
	return nil
}

func (s *LotStore) SaveBatch(ctx context.Context, lots []models.Lot) error {
	for i := range lots {
		if err := s.Save(ctx, &lots[i]); err != nil {
			return fmt.Errorf("failed to save lot %d of %d: %w", i+1, len(lots), err)
		}
	}
	return nil
}

func (s *LotStore) ListByAsset(ctx context.Context, assetID string) ([]*models.Lot, error) {
	sql := "SELECT * FROM lot WHERE asset_id = $asset_id ORDER BY created_at ASC, purchase_transaction_id ASC"
	vars := map[string]any{"asset_id": assetID}

	results, err := surrealdb.Query[[]models.Lot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	var lots []*models.Lot
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			lots = append(lots, &(*results)[0].Result[i])
		}
	}
	return lots, nil
}

func (s *LotStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	lots, err := s.ListByAsset(ctx, assetID)
	if err != nil {
		return 0, err
	}

	sql := "DELETE FROM lot WHERE asset_id = $asset_id"
	vars := map[string]any{"asset_id": assetID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return 0, fmt.Errorf("failed to delete lots by asset: %w", err)
	}
	return len(lots), nil
}
