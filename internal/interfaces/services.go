package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/eliz121/stock-manager/internal/models"
)

// QuoteCache returns a current price for a symbol, serving from the price
// store when the stored quote is fresh and refetching from the provider
// otherwise. All failures propagate to the caller unmodified.
type QuoteCache interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// ConsolidationService computes the aggregated per-symbol portfolio view.
type ConsolidationService interface {
	// Consolidate returns one position per symbol present in the ledger,
	// ordered ascending by symbol. A failed price lookup degrades that
	// position rather than failing the whole report.
	Consolidate(ctx context.Context) ([]*models.ConsolidatedPosition, error)
}

// LedgerService manages purchase registration and history.
type LedgerService interface {
	RecordPurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseLot, error)

	// ListPurchases returns all lots ordered by a whitelisted sort field
	// ("purchase_date", "symbol", "quantity", "unit_cost", "total_cost")
	// and direction ("asc" or "desc"). Unknown values fall back to
	// purchase_date ascending.
	ListPurchases(ctx context.Context, sortField, sortDir string) ([]*models.PurchaseLot, error)
}

// SymbolSearchService finds candidate symbols for user-entered terms.
type SymbolSearchService interface {
	Search(ctx context.Context, term string) ([]*models.SymbolMatch, error)
}
