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

// lotRecord is the persistence shape of a purchase lot. Unit cost crosses
// the wire as a string so no precision is lost in encoding.
type lotRecord struct {
	ID           string    `json:"lot_id"`
	Symbol       string    `json:"symbol"`
	PurchaseDate time.Time `json:"purchase_date"`
	Quantity     int64     `json:"quantity"`
	UnitCost     string    `json:"unit_cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerStore persists purchase lots. Append-only.
type LedgerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewLedgerStore(db *surrealdb.DB, logger *common.Logger) *LedgerStore {
	return &LedgerStore{
		db:     db,
		logger: logger,
	}
}

// InsertLot appends a purchase lot, keyed by its UUID.
func (s *LedgerStore) InsertLot(ctx context.Context, lot *models.PurchaseLot) error {
	record := lotRecord{
		ID:           lot.ID,
		Symbol:       lot.Symbol,
		PurchaseDate: lot.PurchaseDate,
		Quantity:     lot.Quantity,
		UnitCost:     lot.UnitCost.String(),
		CreatedAt:    lot.CreatedAt,
	}

	sql := "CREATE $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("purchase_lot", lot.ID), "record": record}

	if _, err := surrealdb.Query[[]lotRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to insert lot: %w", err)
	}
	return nil
}

// ListAllLots returns every purchase lot in the ledger.
func (s *LedgerStore) ListAllLots(ctx context.Context) ([]*models.PurchaseLot, error) {
	sql := "SELECT * FROM purchase_lot"

	results, err := surrealdb.Query[[]lotRecord](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	var lots []*models.PurchaseLot
	if results != nil && len(*results) > 0 {
		for _, record := range (*results)[0].Result {
			unitCost, err := decimal.NewFromString(record.UnitCost)
			if err != nil {
				return nil, fmt.Errorf("corrupt stored unit cost for lot %s: %w", record.ID, err)
			}
			lots = append(lots, &models.PurchaseLot{
				ID:           record.ID,
				Symbol:       record.Symbol,
				PurchaseDate: record.PurchaseDate,
				Quantity:     record.Quantity,
				UnitCost:     unitCost,
				CreatedAt:    record.CreatedAt,
			})
		}
	}
	return lots, nil
}

// Compile-time check
var _ interfaces.LedgerStore = (*LedgerStore)(nil)
