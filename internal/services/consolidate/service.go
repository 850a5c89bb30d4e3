// Package consolidate computes the aggregated per-symbol portfolio view from
// the purchase ledger and the quote cache.
package consolidate

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Service implements ConsolidationService. Pure read-compute-return: no
// retries, no partial persistence.
type Service struct {
	ledger interfaces.LedgerStore
	quotes interfaces.QuoteCache
	logger *common.Logger
}

// NewService creates a new consolidation service.
func NewService(ledger interfaces.LedgerStore, quotes interfaces.QuoteCache, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		quotes: quotes,
		logger: logger,
	}
}

// Consolidate reads all purchase lots, groups them by their exact stored
// symbol, and returns one position per symbol ordered ascending by symbol.
//
// Cost figures accumulate as decimals and are rounded to 2 places only on
// the emitted position. A failed price lookup degrades that single position
// (zero price, gain/loss and percent, with the reason in PriceError) instead
// of failing the whole report.
func (s *Service) Consolidate(ctx context.Context) ([]*models.ConsolidatedPosition, error) {
	lots, err := s.ledger.ListAllLots(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "list lots", Err: err}
	}

	groups := make(map[string][]*models.PurchaseLot)
	for _, lot := range lots {
		groups[lot.Symbol] = append(groups[lot.Symbol], lot)
	}

	symbols := make([]string, 0, len(groups))
	for sym := range groups {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	positions := make([]*models.ConsolidatedPosition, 0, len(symbols))
	for _, sym := range symbols {
		positions = append(positions, s.consolidateSymbol(ctx, sym, groups[sym]))
	}

	return positions, nil
}

// consolidateSymbol aggregates the lots of one symbol and attaches the
// current price.
func (s *Service) consolidateSymbol(ctx context.Context, symbol string, lots []*models.PurchaseLot) *models.ConsolidatedPosition {
	var totalQuantity int64
	totalCostBasis := decimal.Decimal{}
	for _, lot := range lots {
		totalQuantity += lot.Quantity
		totalCostBasis = totalCostBasis.Add(lot.TotalCost())
	}

	quantity := decimal.NewFromInt(totalQuantity)

	pos := &models.ConsolidatedPosition{
		Symbol:         symbol,
		TotalQuantity:  totalQuantity,
		TotalCostBasis: totalCostBasis.Round(2),
		AverageCost:    totalCostBasis.Div(quantity).Round(2),
	}

	price, err := s.quotes.GetPrice(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price unavailable for position")
		pos.PriceError = err.Error()
		return pos
	}

	currentValue := price.Mul(quantity)
	gainLoss := currentValue.Sub(totalCostBasis).Round(2)

	pos.CurrentPrice = price
	pos.CurrentValue = currentValue.Round(2)
	pos.GainLoss = gainLoss
	pos.GainLossPercent = gainLoss.Div(totalCostBasis).Mul(hundred).Round(2)

	return pos
}

// Ensure Service implements ConsolidationService
var _ interfaces.ConsolidationService = (*Service)(nil)
