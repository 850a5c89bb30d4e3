// Package quotecache provides a durable, store-backed price cache over an
// external quote provider.
package quotecache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

// Service implements QuoteCache. Every call consults the price store, so the
// cache survives process restarts and is safe to share across request
// handlers without an in-memory layer on top.
//
// Concurrent refreshes of the same stale symbol are not coordinated: both
// callers fetch and upsert independently, and the store's upsert-by-symbol
// write order decides the surviving record (last-writer-wins).
type Service struct {
	provider interfaces.QuoteProvider
	store    interfaces.PriceStore
	ttl      time.Duration
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a new quote cache with the default 1-hour TTL.
func NewService(provider interfaces.QuoteProvider, store interfaces.PriceStore, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		ttl:      common.FreshnessQuote,
		logger:   logger,
		now:      time.Now,
	}
}

// WithTTL overrides the freshness TTL. Returns the service for chaining.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// GetPrice returns a current price for the symbol.
//
// The symbol is normalized to uppercase and validated before any I/O. A
// stored quote younger than the TTL is returned without touching the
// provider; otherwise the provider is called and, on success, the new quote
// replaces the stored one. Provider failures propagate unmodified and leave
// the stored quote untouched, so the next call retries naturally.
func (s *Service) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	sym, err := models.NormalizeSymbol(symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}

	stored, err := s.store.GetBySymbol(ctx, sym)
	if err != nil {
		return decimal.Decimal{}, &models.StorageError{Op: "get quote", Err: err}
	}

	if stored != nil && common.IsFreshAt(s.now(), stored.FetchedAt, s.ttl) {
		s.logger.Debug().
			Str("symbol", sym).
			Time("fetched_at", stored.FetchedAt).
			Msg("Quote served from store")
		return stored.Price, nil
	}

	price, err := s.provider.FetchQuote(ctx, sym)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", sym).Msg("Quote fetch failed")
		return decimal.Decimal{}, err
	}

	quote := &models.Quote{
		Symbol:    sym,
		Price:     price,
		FetchedAt: s.now(),
	}
	if err := s.store.Upsert(ctx, quote); err != nil {
		return decimal.Decimal{}, &models.StorageError{Op: "upsert quote", Err: err}
	}

	s.logger.Info().
		Str("symbol", sym).
		Str("price", price.String()).
		Msg("Quote refreshed")

	return price, nil
}

// Ensure Service implements QuoteCache
var _ interfaces.QuoteCache = (*Service)(nil)
