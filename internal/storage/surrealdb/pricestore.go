package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

// priceRecord is the persistence shape of a quote. The price crosses the
// wire as a string so no precision is lost in encoding.
type priceRecord struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PriceStore persists one quote per symbol, keyed by the symbol itself so a
// refresh is a single record replacement.
type PriceStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPriceStore(db *surrealdb.DB, logger *common.Logger) *PriceStore {
	return &PriceStore{
		db:     db,
		logger: logger,
	}
}

// GetBySymbol returns the stored quote for a symbol, or (nil, nil) when no
// quote has been stored yet.
func (s *PriceStore) GetBySymbol(ctx context.Context, symbol string) (*models.Quote, error) {
	record, err := surrealdb.Select[priceRecord](ctx, s.db, surrealmodels.NewRecordID("price", symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to select price: %w", err)
	}
	if record == nil || record.Symbol == "" {
		return nil, nil
	}

	price, err := decimal.NewFromString(record.Price)
	if err != nil {
		return nil, fmt.Errorf("corrupt stored price for %s: %w", symbol, err)
	}

	return &models.Quote{
		Symbol:    record.Symbol,
		Price:     price,
		FetchedAt: record.FetchedAt,
	}, nil
}

// Upsert replaces any prior record for the quote's symbol.
func (s *PriceStore) Upsert(ctx context.Context, quote *models.Quote) error {
	record := priceRecord{
		Symbol:    quote.Symbol,
		Price:     quote.Price.String(),
		FetchedAt: quote.FetchedAt,
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("price", quote.Symbol), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]priceRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert price after retries: %w", lastErr)
}

// Compile-time check
var _ interfaces.PriceStore = (*PriceStore)(nil)
