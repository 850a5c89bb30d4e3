// Package interfaces defines service contracts for stock-manager
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/eliz121/stock-manager/internal/models"
)

// QuoteProvider is the external quote API. Implementations must enforce a
// fixed request timeout and classify failures into the models error
// taxonomy: models.ErrRateLimited, *models.ProviderHTTPError,
// models.ErrQuoteTimeout, *models.ConnectionError, models.ErrEmptyResult,
// models.ErrMissingPrice.
type QuoteProvider interface {
	// FetchQuote returns the current price for a normalized symbol.
	FetchQuote(ctx context.Context, symbol string) (decimal.Decimal, error)

	// SearchSymbols finds symbols matching a free-text term.
	SearchSymbols(ctx context.Context, term string, limit int) ([]*models.SymbolMatch, error)
}
