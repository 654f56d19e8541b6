// Package asset orchestrates live transaction settlement, bulk import, and
// asset lifecycle against storage.
package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/costbasis"
	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

// Service implements AssetService.
//
// All writes to one asset are serialized through a per-asset mutex: the
// cost-basis engine computes over an explicit snapshot, so two concurrent
// sells against the same asset must not both read the pre-sale state.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new asset service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// assetLock returns the mutex serializing updates for one asset.
func (s *Service) assetLock(assetID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assetID] = lock
	}
	return lock
}

// CreateAsset registers an empty position for a symbol within a portfolio.
func (s *Service) CreateAsset(ctx context.Context, portfolioID, symbol string, assetType models.AssetType, currency string) (*models.Asset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if assetType == "" {
		assetType = models.AssetTypeStock
	}
	if !models.ValidAssetType(assetType) {
		return nil, fmt.Errorf("invalid asset type %q", assetType)
	}

	portfolio, err := s.storage.Portfolios().Get(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("portfolio lookup failed: %w", err)
	}
	if currency == "" {
		currency = portfolio.Currency
	}

	if existing, err := s.storage.Assets().GetBySymbol(ctx, portfolioID, symbol); err == nil && existing != nil {
		return nil, fmt.Errorf("asset %s in portfolio: %w", symbol, interfaces.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	asset := &models.Asset{
		ID:              uuid.NewString(),
		PortfolioID:     portfolioID,
		Symbol:          symbol,
		Type:            assetType,
		Currency:        currency,
		CostBasisMethod: models.CostBasisFIFO,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.storage.Assets().Save(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("asset_id", asset.ID).
		Str("portfolio_id", portfolioID).
		Str("symbol", symbol).
		Msg("Asset created")

	return asset, nil
}

// GetAsset returns an asset with its full transaction and lot history.
func (s *Service) GetAsset(ctx context.Context, id string) (*models.AssetDetail, error) {
	asset, err := s.storage.Assets().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.storage.Transactions().ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	lots, err := s.storage.Lots().ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.AssetDetail{Asset: *asset}
	for _, tx := range txs {
		detail.Transactions = append(detail.Transactions, *tx)
	}
	for _, lot := range lots {
		detail.Lots = append(detail.Lots, *lot)
	}
	return detail, nil
}

// ListAssets returns all assets in a portfolio.
func (s *Service) ListAssets(ctx context.Context, portfolioID string) ([]*models.Asset, error) {
	return s.storage.Assets().ListByPortfolio(ctx, portfolioID)
}

// DeleteAsset removes an asset and cascades its transactions and lots.
func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	lock := s.assetLock(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.storage.Assets().Get(ctx, id); err != nil {
		return err
	}

	lotCount, err := s.storage.Lots().DeleteByAsset(ctx, id)
	if err != nil {
		return err
	}
	txCount, err := s.storage.Transactions().DeleteByAsset(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Assets().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("asset_id", id).
		Int("transactions", txCount).
		Int("lots", lotCount).
		Msg("Asset deleted with cascade")

	return nil
}

// CreateTransaction settles one live buy/sell through the cost-basis engine
// and persists the returned bundle. The engine either returns a complete
// result or a typed error; nothing is written on failure.
func (s *Service) CreateTransaction(ctx context.Context, assetID string, in models.TransactionInput) (*costbasis.Result, error) {
	lock := s.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	asset, err := s.storage.Assets().Get(ctx, assetID)
	if err != nil {
		return nil, err
	}

	lotPtrs, err := s.storage.Lots().ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	lots := make([]models.Lot, len(lotPtrs))
	for i, l := range lotPtrs {
		lots[i] = *l
	}

	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	result, err := costbasis.Process(*asset, lots, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result.Transaction.CreatedAt = now
	result.UpdatedAsset.UpdatedAt = now

	if err := s.storage.Transactions().Save(ctx, &result.Transaction); err != nil {
		return nil, err
	}
	if result.NewLot != nil {
		if err := s.storage.Lots().Save(ctx, result.NewLot); err != nil {
			return nil, err
		}
	}
	if len(result.UpdatedLots) > 0 {
		if err := s.storage.Lots().SaveBatch(ctx, result.UpdatedLots); err != nil {
			return nil, err
		}
	}
	if err := s.storage.Assets().Save(ctx, &result.UpdatedAsset); err != nil {
		return nil, err
	}

	event := s.logger.Info().
		Str("asset_id", assetID).
		Str("transaction_id", result.Transaction.ID).
		Str("type", string(result.Transaction.Type)).
		Str("method", string(result.Method)).
		Float64("amount", result.Transaction.Amount).
		Float64("price", result.Transaction.Price)
	if result.Transaction.RealizedGainLoss != nil {
		event = event.Float64("realized_gain_loss", *result.Transaction.RealizedGainLoss)
	}
	event.Msg("Transaction settled")

	return result, nil
}

// ListTransactions returns an asset's transactions ordered by date.
func (s *Service) ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error) {
	if _, err := s.storage.Assets().Get(ctx, assetID); err != nil {
		return nil, err
	}
	return s.storage.Transactions().ListByAsset(ctx, assetID)
}

// DeleteTransaction removes one transaction and rebuilds the asset's
// aggregate and lot state by replaying the remaining history. Corrections
// are modeled as delete + recreate, so the rebuild is the invariant keeper.
// The rebuild is simulated first; if the remaining history is inconsistent
// (a sell no longer covered), nothing is deleted.
func (s *Service) DeleteTransaction(ctx context.Context, assetID, transactionID string) (*models.Asset, error) {
	lock := s.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	asset, err := s.storage.Assets().Get(ctx, assetID)
	if err != nil {
		return nil, err
	}

	target, err := s.storage.Transactions().Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if target.AssetID != assetID {
		return nil, fmt.Errorf("transaction %s for asset %s: %w", transactionID, assetID, interfaces.ErrNotFound)
	}

	all, err := s.storage.Transactions().ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	var remaining []models.Transaction
	for _, tx := range all {
		if tx.ID != transactionID {
			remaining = append(remaining, *tx)
		}
	}

	rebuilt, lots, updatedTxs, err := rebuildFromHistory(*asset, remaining)
	if err != nil {
		return nil, fmt.Errorf("remaining history is inconsistent: %w", err)
	}

	if err := s.storage.Transactions().Delete(ctx, transactionID); err != nil {
		return nil, err
	}
	if _, err := s.storage.Lots().DeleteByAsset(ctx, assetID); err != nil {
		return nil, err
	}
	if len(lots) > 0 {
		if err := s.storage.Lots().SaveBatch(ctx, lots); err != nil {
			return nil, err
		}
	}
	if len(updatedTxs) > 0 {
		if err := s.storage.Transactions().SaveBatch(ctx, updatedTxs); err != nil {
			return nil, err
		}
	}
	rebuilt.UpdatedAt = time.Now().UTC()
	if err := s.storage.Assets().Save(ctx, &rebuilt); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("asset_id", assetID).
		Str("transaction_id", transactionID).
		Int("remaining_transactions", len(remaining)).
		Float64("quantity", rebuilt.Quantity).
		Msg("Transaction deleted, asset rebuilt")

	return &rebuilt, nil
}

// BulkImport derives a new asset from an unordered historical transaction
// list via average-cost replay. No lots are created: the imported asset
// lives on the average-cost method.
func (s *Service) BulkImport(ctx context.Context, portfolioID string, req interfaces.ImportRequest) (*interfaces.ImportResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}

	portfolio, err := s.storage.Portfolios().Get(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("portfolio lookup failed: %w", err)
	}

	if existing, err := s.storage.Assets().GetBySymbol(ctx, portfolioID, symbol); err == nil && existing != nil {
		return nil, fmt.Errorf("asset %s in portfolio: %w", symbol, interfaces.ErrAlreadyExists)
	}

	txs := make([]models.Transaction, len(req.Transactions))
	for i, in := range req.Transactions {
		txs[i] = models.Transaction{
			Type:            in.Type,
			Amount:          in.Amount,
			Price:           in.Price,
			Date:            in.Date,
			TransactionCost: in.TransactionCost,
		}
	}

	now := time.Now().UTC()
	replayed, err := costbasis.Replay(txs, now)
	if err != nil {
		return nil, err
	}

	assetType := req.Type
	if assetType == "" {
		assetType = models.AssetTypeStock
	}
	if !models.ValidAssetType(assetType) {
		return nil, fmt.Errorf("invalid asset type %q", assetType)
	}
	currency := req.Currency
	if currency == "" {
		currency = portfolio.Currency
	}

	initial := replayed.InitialPurchaseDate
	asset := &models.Asset{
		ID:                  uuid.NewString(),
		PortfolioID:         portfolioID,
		Symbol:              symbol,
		Type:                assetType,
		Quantity:            replayed.Quantity,
		AverageBuyPrice:     replayed.AverageBuyPrice,
		Currency:            currency,
		CostBasisMethod:     models.CostBasisAverage,
		InitialPurchaseDate: &initial,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	for i := range txs {
		txs[i].ID = uuid.NewString()
		txs[i].AssetID = asset.ID
		txs[i].CreatedAt = now
	}

	if err := s.storage.Assets().Save(ctx, asset); err != nil {
		return nil, err
	}
	if err := s.storage.Transactions().SaveBatch(ctx, txs); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("asset_id", asset.ID).
		Str("symbol", symbol).
		Int("transactions", len(txs)).
		Int("order_warnings", len(replayed.OrderWarnings)).
		Float64("quantity", asset.Quantity).
		Msg("Bulk import completed")

	return &interfaces.ImportResult{
		Asset:            *asset,
		TransactionCount: len(txs),
		OrderWarnings:    replayed.OrderWarnings,
	}, nil
}

// Ensure Service implements AssetService
var _ interfaces.AssetService = (*Service)(nil)
