package costbasis

import (
	"github.com/google/uuid"

	"github.com/kellanreed/folio/internal/models"
)

// Result is the complete, consistent outcome of processing one transaction.
// Either the whole bundle is returned or a typed error; partial state is
// never visible to callers.
type Result struct {
	Transaction  models.Transaction
	NewLot       *models.Lot   // set for buys
	UpdatedLots  []models.Lot  // lot set with decremented remaining quantities (FIFO sells)
	Consumptions []Consumption // per-lot consumption records (FIFO sells)
	UpdatedAsset models.Asset
	Method       models.CostBasisMethod
}

// Process settles one live transaction against a snapshot of the asset and
// its lots. The asset's recorded cost-basis method picks the path: FIFO
// assets mint and consume lots oldest-first, average-cost assets settle
// against the running average and never touch lots. An empty method means
// FIFO. Transaction costs reduce sell proceeds and do not enter lot cost
// basis.
func Process(asset models.Asset, lots []models.Lot, in models.TransactionInput) (*Result, error) {
	if !models.ValidTransactionType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.TransactionCost < 0 {
		return nil, ErrInvalidAmount
	}

	tx := models.Transaction{
		ID:              uuid.NewString(),
		AssetID:         asset.ID,
		Type:            in.Type,
		Amount:          in.Amount,
		Price:           in.Price,
		Date:            in.Date,
		TransactionCost: in.TransactionCost,
	}

	if in.Type == models.TransactionBuy {
		return processBuy(asset, tx)
	}
	return processSell(asset, lots, tx)
}

func processBuy(asset models.Asset, tx models.Transaction) (*Result, error) {
	updated, err := ApplyBuy(asset, tx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transaction:  tx,
		UpdatedAsset: updated,
		Method:       models.CostBasisFIFO,
	}

	// Buys into an average-cost asset reweight the aggregate but create no
	// lot, so later sells are not matched against a partial ledger.
	if asset.CostBasisMethod == models.CostBasisAverage {
		result.Method = models.CostBasisAverage
		return result, nil
	}

	lot := NewLot(tx)
	result.NewLot = &lot
	return result, nil
}

func processSell(asset models.Asset, lots []models.Lot, tx models.Transaction) (*Result, error) {
	// Aggregate-level availability check runs first; the FIFO matcher
	// re-checks against lot remainders and the two must agree.
	updated, err := ApplySell(asset, tx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transaction:  tx,
		UpdatedAsset: updated,
	}

	var realized float64
	if asset.CostBasisMethod == models.CostBasisAverage {
		result.Method = models.CostBasisAverage
		realized = AverageCostGainLoss(asset.AverageBuyPrice, tx.Amount, tx.Price)
	} else {
		match, err := MatchSell(lots, tx.Amount, tx.Price)
		if err != nil {
			return nil, err
		}
		result.Method = models.CostBasisFIFO
		result.UpdatedLots = match.UpdatedLots
		result.Consumptions = match.Consumptions
		realized = match.RealizedGainLoss
	}

	// Fees reduce proceeds.
	realized -= tx.TransactionCost
	result.Transaction.RealizedGainLoss = &realized

	return result, nil
}
