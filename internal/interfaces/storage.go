package interfaces

import (
	"context"

	"github.com/eliz121/stock-manager/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	PriceStore() PriceStore
	LedgerStore() LedgerStore

	// Lifecycle
	Close() error
}

// PriceStore persists one quote per symbol with upsert-by-symbol semantics.
type PriceStore interface {
	// GetBySymbol returns the stored quote for a symbol, or (nil, nil)
	// when no quote has been stored yet.
	GetBySymbol(ctx context.Context, symbol string) (*models.Quote, error)

	// Upsert replaces any prior record for the quote's symbol.
	Upsert(ctx context.Context, quote *models.Quote) error
}

// LedgerStore persists purchase lots. Append-only: lots are never updated
// or deleted.
type LedgerStore interface {
	InsertLot(ctx context.Context, lot *models.PurchaseLot) error
	ListAllLots(ctx context.Context) ([]*models.PurchaseLot, error)
}
