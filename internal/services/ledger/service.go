// Package ledger manages purchase registration and history.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

const purchaseDateLayout = "2006-01-02"

// Service implements LedgerService.
type Service struct {
	store  interfaces.LedgerStore
	logger *common.Logger
	now    func() time.Time // injectable clock for testing
}

// NewService creates a new ledger service.
func NewService(store interfaces.LedgerStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// RecordPurchase validates and appends a purchase lot. The symbol is
// normalized to uppercase here, at the ingestion path, so consolidation can
// group by the exact stored string.
func (s *Service) RecordPurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseLot, error) {
	sym, err := models.NormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	if req.PurchaseDate == "" {
		return nil, fmt.Errorf("purchase date is required")
	}
	purchaseDate, err := time.Parse(purchaseDateLayout, req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: expected YYYY-MM-DD", req.PurchaseDate)
	}
	if purchaseDate.After(s.now()) {
		return nil, fmt.Errorf("purchase date cannot be in the future")
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer")
	}
	if !req.UnitCost.IsPositive() {
		return nil, fmt.Errorf("unit cost must be positive")
	}

	lot := &models.PurchaseLot{
		ID:           uuid.New().String(),
		Symbol:       sym,
		PurchaseDate: purchaseDate,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		CreatedAt:    s.now(),
	}

	if err := s.store.InsertLot(ctx, lot); err != nil {
		return nil, &models.StorageError{Op: "insert lot", Err: err}
	}

	s.logger.Info().
		Str("symbol", sym).
		Int64("quantity", req.Quantity).
		Str("unit_cost", req.UnitCost.String()).
		Msg("Purchase recorded")

	return lot, nil
}

// ListPurchases returns all lots ordered by the given field and direction.
// Unknown sort fields or directions fall back to purchase_date ascending,
// matching the whitelist behavior of the registration UI.
func (s *Service) ListPurchases(ctx context.Context, sortField, sortDir string) ([]*models.PurchaseLot, error) {
	lots, err := s.store.ListAllLots(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "list lots", Err: err}
	}

	switch sortField {
	case models.SortByPurchaseDate, models.SortBySymbol, models.SortByQuantity,
		models.SortByUnitCost, models.SortByTotalCost:
	default:
		sortField = models.SortByPurchaseDate
	}
	desc := sortDir == "desc"

	sort.SliceStable(lots, func(i, j int) bool {
		if desc {
			return lotLess(lots[j], lots[i], sortField)
		}
		return lotLess(lots[i], lots[j], sortField)
	})

	return lots, nil
}

func lotLess(a, b *models.PurchaseLot, field string) bool {
	switch field {
	case models.SortBySymbol:
		return a.Symbol < b.Symbol
	case models.SortByQuantity:
		return a.Quantity < b.Quantity
	case models.SortByUnitCost:
		return a.UnitCost.LessThan(b.UnitCost)
	case models.SortByTotalCost:
		return a.TotalCost().LessThan(b.TotalCost())
	default:
		return a.PurchaseDate.Before(b.PurchaseDate)
	}
}

// Ensure Service implements LedgerService
var _ interfaces.LedgerService = (*Service)(nil)
