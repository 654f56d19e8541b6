// Package models defines data structures for Folio
package models

import "time"

// Portfolio groups a user's assets under one account.
type Portfolio struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortfolioSummary contains computed aggregates over a portfolio's persisted
// state. Computed on response, not persisted.
type PortfolioSummary struct {
	PortfolioID      string        `json:"portfolio_id"`
	Name             string        `json:"name"`
	Currency         string        `json:"currency"`
	AssetCount       int           `json:"asset_count"`
	TotalCostBasis   float64       `json:"total_cost_basis"`   // Σ quantity × average_buy_price across assets
	RealizedGainLoss float64       `json:"realized_gain_loss"` // Σ realized gain/loss across all sell transactions
	Weights          []AssetWeight `json:"weights,omitempty"`
	ComputedAt       time.Time     `json:"computed_at"`
}

// AssetWeight is one asset's share of the portfolio's total cost basis.
type AssetWeight struct {
	AssetID   string  `json:"asset_id"`
	Symbol    string  `json:"symbol"`
	CostBasis float64 `json:"cost_basis"`
	WeightPct float64 `json:"weight_pct"`
}
