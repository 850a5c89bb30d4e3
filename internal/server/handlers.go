package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/models"
)

// handleHealth returns a simple liveness response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion returns build version information.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleQuote serves GET /api/quotes/{symbol}.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/quotes/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	price, err := s.app.QuoteCache.GetPrice(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"symbol": symbol,
		"price":  price.StringFixed(2),
	})
}

// handleSymbolSearch serves GET /api/symbols/search?term=.
func (s *Server) handleSymbolSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	term := r.URL.Query().Get("term")
	matches, err := s.app.SymbolSearchService.Search(r.Context(), term)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []*models.SymbolMatch{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"symbols": matches})
}

// handleConsolidated serves GET /api/portfolio/consolidated.
func (s *Server) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	positions, err := s.app.ConsolidationService.Consolidate(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if positions == nil {
		positions = []*models.ConsolidatedPosition{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"positions": positions})
}

// routePurchases dispatches /api/purchases by method.
func (s *Server) routePurchases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreatePurchase(w, r)
	case http.MethodGet:
		s.handleListPurchases(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCreatePurchase serves POST /api/purchases.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	lot, err := s.app.LedgerService.RecordPurchase(r.Context(), &req)
	if err != nil {
		var storageErr *models.StorageError
		if errors.As(err, &storageErr) {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// Anything else from RecordPurchase is a validation failure.
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, lot)
}

// handleListPurchases serves GET /api/purchases?sort=&direction=.
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	sortField := r.URL.Query().Get("sort")
	sortDir := r.URL.Query().Get("direction")

	lots, err := s.app.LedgerService.ListPurchases(r.Context(), sortField, sortDir)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if lots == nil {
		lots = []*models.PurchaseLot{}
	}

	WriteJSON(w, http.StatusOK, lots)
}
