package asset

import (
	"sort"
	"time"

	"github.com/kellanreed/folio/internal/costbasis"
	"github.com/kellanreed/folio/internal/models"
)

// rebuildFromHistory recomputes an asset's aggregate state from a transaction
// history, as after a deletion. The asset's recorded cost-basis method picks
// the path. FIFO assets are replayed through the matcher from an empty lot
// set, and sell transactions get their realized gain/loss recomputed since
// the consumption chain may have shifted. Average-cost assets are replayed
// through the aggregate replay; recorded realized figures on their sells are
// left as settled.
func rebuildFromHistory(asset models.Asset, history []models.Transaction) (models.Asset, []models.Lot, []models.Transaction, error) {
	rebuilt := asset
	rebuilt.Quantity = 0
	rebuilt.AverageBuyPrice = 0
	rebuilt.InitialPurchaseDate = nil

	if len(history) == 0 {
		return rebuilt, nil, nil, nil
	}

	if asset.CostBasisMethod == models.CostBasisAverage {
		replayed, err := costbasis.Replay(history, latestDate(history))
		if err != nil {
			return asset, nil, nil, err
		}
		rebuilt.Quantity = replayed.Quantity
		rebuilt.AverageBuyPrice = replayed.AverageBuyPrice
		initial := replayed.InitialPurchaseDate
		rebuilt.InitialPurchaseDate = &initial
		return rebuilt, nil, nil, nil
	}

	ordered := make([]models.Transaction, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var lots []models.Lot
	var updatedTxs []models.Transaction
	for _, tx := range ordered {
		switch tx.Type {
		case models.TransactionBuy:
			lots = append(lots, costbasis.NewLot(tx))
			var err error
			rebuilt, err = costbasis.ApplyBuy(rebuilt, tx)
			if err != nil {
				return asset, nil, nil, err
			}
		case models.TransactionSell:
			match, err := costbasis.MatchSell(lots, tx.Amount, tx.Price)
			if err != nil {
				return asset, nil, nil, err
			}
			lots = match.UpdatedLots
			rebuilt, err = costbasis.ApplySell(rebuilt, tx)
			if err != nil {
				return asset, nil, nil, err
			}
			realized := match.RealizedGainLoss - tx.TransactionCost
			tx.RealizedGainLoss = &realized
			updatedTxs = append(updatedTxs, tx)
		}
	}

	return rebuilt, lots, updatedTxs, nil
}

func latestDate(txs []models.Transaction) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	return latest
}
