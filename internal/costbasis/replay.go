package costbasis

import (
	"fmt"
	"sort"
	"time"

	"github.com/kellanreed/folio/internal/models"
)

// ReplayResult is the asset state derived from replaying a historical
// transaction list chronologically under the running-average method.
type ReplayResult struct {
	Quantity            float64
	AverageBuyPrice     float64
	TotalCostBasis      float64
	InitialPurchaseDate time.Time

	// OrderWarnings lists, one per out-of-order transaction, the inputs
	// dated after a later entry. Entries merely displaced by such
	// transactions earn no warning. Advisory only; they never block the
	// import.
	OrderWarnings []string
}

// Replay derives final quantity, average buy price, and initial purchase
// date from an arbitrary (possibly out-of-order) historical transaction
// list, without a lot ledger. Transactions are stable-sorted by date
// ascending (same-date transactions keep their original relative order)
// and then replayed sequentially.
//
// All transactions must be dated at or before now; a future-dated entry
// rejects the whole import.
func Replay(txs []models.Transaction, now time.Time) (*ReplayResult, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyImportSet
	}

	for _, tx := range txs {
		if !models.ValidTransactionType(tx.Type) {
			return nil, ErrInvalidType
		}
		if tx.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		if tx.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		if tx.Date.After(now) {
			return nil, &FutureDatedError{Date: tx.Date, Now: now}
		}
	}

	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	result := &ReplayResult{
		InitialPurchaseDate: ordered[0].Date,
	}

	// Input index i is out of order when some later entry carries a strictly
	// earlier date. Same-date entries keep their input order and warn for
	// neither side.
	for i, tx := range txs {
		for j := i + 1; j < len(txs); j++ {
			if txs[j].Date.Before(tx.Date) {
				result.OrderWarnings = append(result.OrderWarnings, fmt.Sprintf(
					"transaction %d (%s %g @ %g on %s) is dated after a later entry and was reordered for replay",
					i, tx.Type, tx.Amount, tx.Price, tx.Date.Format("2006-01-02")))
				break
			}
		}
	}

	// lastBuyPrice backs the average price when the replay ends fully
	// liquidated; the running-average method loses cost basis information at
	// zero quantity, so the last buy price is the documented fallback.
	lastBuyPrice := 0.0

	for _, tx := range ordered {
		switch tx.Type {
		case models.TransactionBuy:
			result.TotalCostBasis += tx.Amount * tx.Price
			result.Quantity += tx.Amount
			lastBuyPrice = tx.Price
		case models.TransactionSell:
			if result.Quantity < tx.Amount {
				return nil, &InsufficientQuantityError{Available: result.Quantity, Requested: tx.Amount}
			}
			averageCostPerUnit := 0.0
			if result.Quantity > 0 {
				averageCostPerUnit = result.TotalCostBasis / result.Quantity
			}
			result.TotalCostBasis -= averageCostPerUnit * tx.Amount
			result.Quantity -= tx.Amount
		}
	}

	if result.Quantity > 0 {
		result.AverageBuyPrice = result.TotalCostBasis / result.Quantity
	} else {
		result.AverageBuyPrice = lastBuyPrice
	}

	return result, nil
}
