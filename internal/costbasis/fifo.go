package costbasis

import (
	"github.com/kellanreed/folio/internal/models"
)

// Consumption records how much of one lot a sell consumed.
type Consumption struct {
	LotID                 string  `json:"lot_id"`
	PurchaseTransactionID string  `json:"purchase_transaction_id"`
	Quantity              float64 `json:"quantity"`
	CostBasis             float64 `json:"cost_basis"` // cost attributed to the consumed portion
}

// SellMatch is the outcome of matching a sell against the lot ledger.
type SellMatch struct {
	CostOfGoodsSold  float64
	RealizedGainLoss float64 // proceeds − cost of goods sold, before fees
	Consumptions     []Consumption
	UpdatedLots      []models.Lot // full lot set with decremented remaining quantities, FIFO order
}

// MatchSell consumes lots oldest-first to satisfy a sell of the given
// quantity at the given price. Partial consumption happens on at most one
// lot: the one where the remaining requested quantity runs out.
//
// The operation is all-or-nothing: if the lots cannot cover the quantity it
// returns InsufficientQuantityError and the input slice is never mutated.
func MatchSell(lots []models.Lot, quantity, price float64) (*SellMatch, error) {
	if quantity <= 0 {
		return nil, ErrInvalidAmount
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	ordered := SortLots(lots)

	if available := TotalRemaining(ordered); available < quantity {
		return nil, &InsufficientQuantityError{Available: available, Requested: quantity}
	}

	match := &SellMatch{UpdatedLots: ordered}

	needed := quantity
	for i := range ordered {
		if needed <= 0 {
			break
		}
		lot := &ordered[i]
		if lot.RemainingQuantity <= 0 {
			continue
		}

		consumed := lot.RemainingQuantity
		if consumed > needed {
			consumed = needed
		}

		cost := consumed * lot.CostPerUnit()
		match.CostOfGoodsSold += cost
		match.Consumptions = append(match.Consumptions, Consumption{
			LotID:                 lot.ID,
			PurchaseTransactionID: lot.PurchaseTransactionID,
			Quantity:              consumed,
			CostBasis:             cost,
		})

		lot.RemainingQuantity -= consumed
		needed -= consumed
	}

	match.RealizedGainLoss = price*quantity - match.CostOfGoodsSold

	return match, nil
}

// AverageCostGainLoss computes realized gain/loss for assets without lot
// history (created via average-cost bulk import). This is the documented
// secondary mode; it is never mixed with FIFO matching on the same sale.
func AverageCostGainLoss(averageBuyPrice, quantity, price float64) float64 {
	return (price - averageBuyPrice) * quantity
}
