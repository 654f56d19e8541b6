package costbasis

import (
	"github.com/kellanreed/folio/internal/models"
)

// ApplyBuy returns the asset with the buy folded into its aggregate:
// quantity increased, average buy price reweighted. The input asset is not
// modified.
func ApplyBuy(asset models.Asset, tx models.Transaction) (models.Asset, error) {
	if tx.Amount <= 0 {
		return asset, ErrInvalidAmount
	}
	if tx.Price <= 0 {
		return asset, ErrInvalidPrice
	}

	newQuantity := asset.Quantity + tx.Amount
	// newQuantity > 0 always holds here since tx.Amount > 0.
	asset.AverageBuyPrice = (asset.Quantity*asset.AverageBuyPrice + tx.Amount*tx.Price) / newQuantity
	asset.Quantity = newQuantity

	if asset.InitialPurchaseDate == nil || tx.Date.Before(*asset.InitialPurchaseDate) {
		d := tx.Date
		asset.InitialPurchaseDate = &d
	}

	return asset, nil
}

// ApplySell returns the asset with its quantity reduced by the sale. The
// average buy price of the remaining units is unchanged: under FIFO (and
// average-cost) a sale never alters the cost basis of what remains, it only
// produces realized gain/loss.
//
// Fails with InsufficientQuantityError when the sale exceeds the held
// quantity; this check runs before the FIFO matcher and the two must agree.
func ApplySell(asset models.Asset, tx models.Transaction) (models.Asset, error) {
	if tx.Amount <= 0 {
		return asset, ErrInvalidAmount
	}
	if tx.Price <= 0 {
		return asset, ErrInvalidPrice
	}
	if tx.Amount > asset.Quantity {
		return asset, &InsufficientQuantityError{Available: asset.Quantity, Requested: tx.Amount}
	}

	asset.Quantity -= tx.Amount

	return asset, nil
}
