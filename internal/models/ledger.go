package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLot is one recorded purchase of a symbol. Lots are immutable once
// created; the ledger is append-only with no update or delete path.
type PurchaseLot struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TotalCost returns quantity times unit cost for this lot, unrounded.
func (l *PurchaseLot) TotalCost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
}

// PurchaseRequest carries the user-entered fields for registering a lot.
type PurchaseRequest struct {
	Symbol       string          `json:"symbol"`
	PurchaseDate string          `json:"purchase_date"` // YYYY-MM-DD
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}

// Valid sort fields for purchase history listings. Mirrors the whitelist
// the registration UI sorts by; anything else falls back to purchase_date.
const (
	SortByPurchaseDate = "purchase_date"
	SortBySymbol       = "symbol"
	SortByQuantity     = "quantity"
	SortByUnitCost     = "unit_cost"
	SortByTotalCost    = "total_cost"
)
