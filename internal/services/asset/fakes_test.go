package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

// memoryStorage is an in-memory StorageManager for service tests.
type memoryStorage struct {
	mu           sync.Mutex
	portfolios   map[string]models.Portfolio
	assets       map[string]models.Asset
	transactions map[string]models.Transaction
	lots         map[string]models.Lot
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		portfolios:   make(map[string]models.Portfolio),
		assets:       make(map[string]models.Asset),
		transactions: make(map[string]models.Transaction),
		lots:         make(map[string]models.Lot),
	}
}

func (m *memoryStorage) Portfolios() interfaces.PortfolioStore     { return (*memPortfolioStore)(m) }
func (m *memoryStorage) Assets() interfaces.AssetStore             { return (*memAssetStore)(m) }
func (m *memoryStorage) Transactions() interfaces.TransactionStore { return (*memTransactionStore)(m) }
func (m *memoryStorage) Lots() interfaces.LotStore                 { return (*memLotStore)(m) }
func (m *memoryStorage) Close() error                              { return nil }

type memPortfolioStore memoryStorage

func (s *memPortfolioStore) Get(_ context.Context, id string) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", id, interfaces.ErrNotFound)
	}
	return &p, nil
}

func (s *memPortfolioStore) Save(_ context.Context, p *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios[p.ID] = *p
	return nil
}

func (s *memPortfolioStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.portfolios[id]; !ok {
		return fmt.Errorf("portfolio %s: %w", id, interfaces.ErrNotFound)
	}
	delete(s.portfolios, id)
	return nil
}

func (s *memPortfolioStore) ListByUser(_ context.Context, userID string) ([]*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Portfolio
	for _, p := range s.portfolios {
		if p.UserID == userID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memAssetStore memoryStorage

func (s *memAssetStore) Get(_ context.Context, id string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, interfaces.ErrNotFound)
	}
	return &a, nil
}

func (s *memAssetStore) GetBySymbol(_ context.Context, portfolioID, symbol string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assets {
		if a.PortfolioID == portfolioID && strings.EqualFold(a.Symbol, symbol) {
			a := a
			return &a, nil
		}
	}
	return nil, fmt.Errorf("asset %s in portfolio: %w", symbol, interfaces.ErrNotFound)
}

func (s *memAssetStore) Save(_ context.Context, a *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = *a
	return nil
}

func (s *memAssetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return fmt.Errorf("asset %s: %w", id, interfaces.ErrNotFound)
	}
	delete(s.assets, id)
	return nil
}

func (s *memAssetStore) ListByPortfolio(_ context.Context, portfolioID string) ([]*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Asset
	for _, a := range s.assets {
		if a.PortfolioID == portfolioID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (s *memAssetStore) DeleteByPortfolio(_ context.Context, portfolioID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, a := range s.assets {
		if a.PortfolioID == portfolioID {
			delete(s.assets, id)
			count++
		}
	}
	return count, nil
}

type memTransactionStore memoryStorage

func (s *memTransactionStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, interfaces.ErrNotFound)
	}
	return &tx, nil
}

func (s *memTransactionStore) Save(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *memTransactionStore) SaveBatch(_ context.Context, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		s.transactions[tx.ID] = tx
	}
	return nil
}

func (s *memTransactionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, interfaces.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

func (s *memTransactionStore) ListByAsset(_ context.Context, assetID string) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range s.transactions {
		if tx.AssetID == assetID {
			tx := tx
			out = append(out, &tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memTransactionStore) DeleteByAsset(_ context.Context, assetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, tx := range s.transactions {
		if tx.AssetID == assetID {
			delete(s.transactions, id)
			count++
		}
	}
	return count, nil
}

type memLotStore memoryStorage

func (s *memLotStore) Save(_ context.Context, lot *models.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots[lot.ID] = *lot
	return nil
}

func (s *memLotStore) SaveBatch(_ context.Context, lots []models.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lot := range lots {
		s.lots[lot.ID] = lot
	}
	return nil
}

func (s *memLotStore) ListByAsset(_ context.Context, assetID string) ([]*models.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Lot
	for _, lot := range s.lots {
		if lot.AssetID == assetID {
			lot := lot
			out = append(out, &lot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PurchaseTransactionID < out[j].PurchaseTransactionID
	})
	return out, nil
}

func (s *memLotStore) DeleteByAsset(_ context.Context, assetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, lot := range s.lots {
		if lot.AssetID == assetID {
			delete(s.lots, id)
			count++
		}
	}
	return count, nil
}

var _ interfaces.StorageManager = (*memoryStorage)(nil)
