package models

import "time"

// Lot is a slice of a buy transaction not yet fully sold, tracked separately
// for cost basis. RemainingQuantity only ever decreases; an exhausted lot
// (remaining 0) is kept for audit history rather than deleted.
type Lot struct {
	ID                    string    `json:"id"`
	AssetID               string    `json:"asset_id"`
	PurchaseTransactionID string    `json:"purchase_transaction_id"`
	Quantity              float64   `json:"quantity"`           // original size
	CostBasis             float64   `json:"cost_basis"`         // quantity × purchase price
	RemainingQuantity     float64   `json:"remaining_quantity"` // 0 ≤ remaining ≤ quantity
	CreatedAt             time.Time `json:"created_at"`
}

// CostPerUnit returns the per-unit cost basis of the lot.
func (l Lot) CostPerUnit() float64 {
	if l.Quantity == 0 {
		return 0
	}
	return l.CostBasis / l.Quantity
}

// Exhausted returns true once the lot has been fully consumed by sells.
func (l Lot) Exhausted() bool {
	return l.RemainingQuantity <= 0
}
