package models

import "time"

// TransactionType is the direction of a trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// ValidTransactionType returns true if t is a valid transaction type.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionBuy || t == TransactionSell
}

// Transaction represents one executed trade against an asset.
// Immutable once created; corrections are delete + recreate.
type Transaction struct {
	ID              string          `json:"id"`
	AssetID         string          `json:"asset_id"`
	Type            TransactionType `json:"type"`
	Amount          float64         `json:"amount"` // quantity, always positive
	Price           float64         `json:"price"`  // per-unit
	Date            time.Time       `json:"date"`
	TransactionCost float64         `json:"transaction_cost"` // brokerage/fees, reduces sell proceeds

	// RealizedGainLoss is set only for sell transactions.
	RealizedGainLoss *float64 `json:"realized_gain_loss,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TransactionInput is the caller-supplied payload for recording a trade.
type TransactionInput struct {
	Type            TransactionType `json:"type"`
	Amount          float64         `json:"amount"`
	Price           float64         `json:"price"`
	Date            time.Time       `json:"date"`
	TransactionCost float64         `json:"transaction_cost"`
}
