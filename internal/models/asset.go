package models

import "time"

// AssetType categorizes the kind of instrument an asset represents.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeETF    AssetType = "etf"
	AssetTypeFund   AssetType = "fund"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeBond   AssetType = "bond"
	AssetTypeOther  AssetType = "other"
)

// CostBasisMethod names how an asset's sales are settled. Fixed when the
// asset is created: directly created assets track lots and settle FIFO,
// bulk-imported assets carry only a running average. The two methods never
// mix on one asset.
type CostBasisMethod string

const (
	CostBasisFIFO    CostBasisMethod = "fifo"
	CostBasisAverage CostBasisMethod = "average_cost"
)

// validAssetTypes lists all accepted asset types.
var validAssetTypes = map[AssetType]bool{
	AssetTypeStock:  true,
	AssetTypeETF:    true,
	AssetTypeFund:   true,
	AssetTypeCrypto: true,
	AssetTypeBond:   true,
	AssetTypeOther:  true,
}

// ValidAssetType returns true if t is a valid asset type.
func ValidAssetType(t AssetType) bool {
	return validAssetTypes[t]
}

// Asset is the aggregate position in one symbol within one portfolio.
// Quantity stays consistent with the sum of remaining quantity across the
// asset's lots when lot tracking is in use, or with full-history replay for
// assets created via average-cost bulk import.
type Asset struct {
	ID              string    `json:"id"`
	PortfolioID     string    `json:"portfolio_id"`
	Symbol          string    `json:"symbol"`
	Type            AssetType `json:"type"`
	Quantity        float64   `json:"quantity"`
	AverageBuyPrice float64   `json:"average_buy_price"`
	Currency        string    `json:"currency"`

	// CostBasisMethod is set once at creation or import and never inferred
	// from current lot state. An empty value is treated as FIFO.
	CostBasisMethod CostBasisMethod `json:"cost_basis_method"`

	// InitialPurchaseDate is the date of the earliest transaction.
	// Nil until the first buy or bulk import.
	InitialPurchaseDate *time.Time `json:"initial_purchase_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CostBasis returns the approximate remaining cost basis of the position.
func (a Asset) CostBasis() float64 {
	return a.Quantity * a.AverageBuyPrice
}

// AssetDetail bundles an asset with its transaction and lot history.
// Computed on response, not persisted.
type AssetDetail struct {
	Asset        Asset         `json:"asset"`
	Transactions []Transaction `json:"transactions"`
	Lots         []Lot         `json:"lots"`
}
