// Package costbasis implements the cost-basis and transaction-settlement
// engine: per-lot FIFO tracking, realized gain/loss computation, aggregate
// position maintenance, and bulk-import replay.
//
// Every operation is a pure function over an explicit snapshot (asset, lots,
// transaction input) and returns a delta for the caller to persist. The
// engine holds no state, spawns no goroutines, and trusts its inputs to be a
// consistent snapshot; per-asset serialization is the persistence boundary's
// concern.
package costbasis

import (
	"sort"

	"github.com/google/uuid"

	"github.com/kellanreed/folio/internal/models"
)

// NewLot constructs the lot backing a buy transaction. Exactly one lot is
// created per buy, sized to the full purchase and initially unconsumed.
// The lot's cost basis excludes transaction fees.
func NewLot(tx models.Transaction) models.Lot {
	return models.Lot{
		ID:                    uuid.NewString(),
		AssetID:               tx.AssetID,
		PurchaseTransactionID: tx.ID,
		Quantity:              tx.Amount,
		CostBasis:             tx.Amount * tx.Price,
		RemainingQuantity:     tx.Amount,
		CreatedAt:             tx.Date,
	}
}

// SortLots returns the lots ordered oldest first: CreatedAt ascending, ties
// broken by purchase transaction ID. This ordering is the FIFO correctness
// contract. Exhausted lots are included; consumption skips them.
func SortLots(lots []models.Lot) []models.Lot {
	sorted := make([]models.Lot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].PurchaseTransactionID < sorted[j].PurchaseTransactionID
	})
	return sorted
}

// TotalRemaining sums the unconsumed quantity across lots.
func TotalRemaining(lots []models.Lot) float64 {
	total := 0.0
	for _, l := range lots {
		total += l.RemainingQuantity
	}
	return total
}
