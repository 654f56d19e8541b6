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

type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := surrealdb.Select[models.Transaction](ctx, s.db, surrealmodels.NewRecordID("transaction", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select transaction: %w", err)
	}
	if tx == nil || tx.ID == "" {
		return nil, fmt.Errorf("transaction %s: %w", id, interfaces.ErrNotFound)
	}
	return tx, nil
}

func (s *TransactionStore) Save(ctx context.Context, tx *models.Transaction) error {
	sql := "UPSERT type::record('transaction', $id) CONTENT $tx"
	vars := map[string]any{"id": tx.ID, "tx": tx}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save transaction after retries: %w", err)
		}
	}
	return nil
}

func (s *TransactionStore) SaveBatch(ctx context.Context, txs []models.Transaction) error {
	for i := range txs {
		if err := s.Save(ctx, &txs[i]); err != nil {
			return fmt.Errorf("failed to save transaction %d of %d: %w", i+1, len(txs), err)
		}
	}
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Transaction](ctx, s.db, surrealmodels.NewRecordID("transaction", id))
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) ListByAsset(ctx context.Context, assetID string) ([]*models.Transaction, error) {
	sql := "SELECT * FROM transaction WHERE asset_id = $asset_id ORDER BY date ASC, created_at ASC"
	vars := map[string]any{"asset_id": assetID}

	results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []*models.Transaction
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			txs = append(txs, &(*results)[0].Result[i])
		}
	}
	return txs, nil
}

func (s *TransactionStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	txs, err := s.ListByAsset(ctx, assetID)
	if err != nil {
		return 0, err
	}

	sql := "DELETE FROM transaction WHERE asset_id = $asset_id"
	vars := map[string]any{"asset_id": assetID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return 0, fmt.Errorf("failed to delete transactions by asset: %w", err)
	}
	return len(txs), nil
}
