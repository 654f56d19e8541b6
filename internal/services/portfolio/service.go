// Package portfolio manages portfolio lifecycle and computed summaries.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/models"
)

// Service implements PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// CreatePortfolio creates a portfolio for the calling user.
func (s *Service) CreatePortfolio(ctx context.Context, name, currency string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("portfolio name is required")
	}
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	portfolio := &models.Portfolio{
		ID:        uuid.NewString(),
		UserID:    common.ResolveUserID(ctx),
		Name:      name,
		Currency:  strings.ToUpper(currency),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Portfolios().Save(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("portfolio_id", portfolio.ID).
		Str("user_id", portfolio.UserID).
		Str("name", name).
		Msg("Portfolio created")

	return portfolio, nil
}

// GetPortfolio returns a portfolio owned by the calling user.
func (s *Service) GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error) {
	portfolio, err := s.storage.Portfolios().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != common.ResolveUserID(ctx) {
		// Foreign portfolios are hidden, not forbidden.
		return nil, fmt.Errorf("portfolio %s: %w", id, interfaces.ErrNotFound)
	}
	return portfolio, nil
}

// ListPortfolios returns the calling user's portfolios.
func (s *Service) ListPortfolios(ctx context.Context) ([]*models.Portfolio, error) {
	return s.storage.Portfolios().ListByUser(ctx, common.ResolveUserID(ctx))
}

// DeletePortfolio removes a portfolio and cascades all its assets,
// transactions, and lots.
func (s *Service) DeletePortfolio(ctx context.Context, id string) error {
	if _, err := s.GetPortfolio(ctx, id); err != nil {
		return err
	}

	assets, err := s.storage.Assets().ListByPortfolio(ctx, id)
	if err != nil {
		return err
	}

	txCount, lotCount := 0, 0
	for _, asset := range assets {
		n, err := s.storage.Lots().DeleteByAsset(ctx, asset.ID)
		if err != nil {
			return err
		}
		lotCount += n
		n, err = s.storage.Transactions().DeleteByAsset(ctx, asset.ID)
		if err != nil {
			return err
		}
		txCount += n
	}

	assetCount, err := s.storage.Assets().DeleteByPortfolio(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Portfolios().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("portfolio_id", id).
		Int("assets", assetCount).
		Int("transactions", txCount).
		Int("lots", lotCount).
		Msg("Portfolio deleted with cascade")

	return nil
}

// Summary computes portfolio aggregates over current persisted state.
// Total cost basis sums quantity times average buy price across assets,
// realized gain/loss sums across all sell transactions, and each asset's
// weight is its share of the total cost basis.
func (s *Service) Summary(ctx context.Context, id string) (*models.PortfolioSummary, error) {
	portfolio, err := s.GetPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	assets, err := s.storage.Assets().ListByPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		PortfolioID: portfolio.ID,
		Name:        portfolio.Name,
		Currency:    portfolio.Currency,
		AssetCount:  len(assets),
		ComputedAt:  time.Now().UTC(),
	}

	for _, asset := range assets {
		summary.TotalCostBasis += asset.CostBasis()

		txs, err := s.storage.Transactions().ListByAsset(ctx, asset.ID)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			if tx.Type == models.TransactionSell && tx.RealizedGainLoss != nil {
				summary.RealizedGainLoss += *tx.RealizedGainLoss
			}
		}
	}

	for _, asset := range assets {
		weight := models.AssetWeight{
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			CostBasis: asset.CostBasis(),
		}
		if summary.TotalCostBasis > 0 {
			weight.WeightPct = weight.CostBasis / summary.TotalCostBasis * 100
		}
		summary.Weights = append(summary.Weights, weight)
	}

	return summary, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
