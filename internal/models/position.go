package models

import (
	"github.com/shopspring/decimal"
)

// ConsolidatedPosition is the aggregated view of all lots for one symbol
// combined with the current cached price. Derived on every query and never
// persisted.
//
// When the price lookup fails, the position is still emitted with zero
// CurrentPrice, CurrentValue, GainLoss and GainLossPercent, and PriceError
// carries the failure reason so callers can distinguish "flat" from
// "price unavailable".
type ConsolidatedPosition struct {
	Symbol          string          `json:"symbol"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalCostBasis  decimal.Decimal `json:"total_cost_basis"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
	PriceError      string          `json:"price_error,omitempty"`
}
