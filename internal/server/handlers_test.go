package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliz121/stock-manager/internal/app"
	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/models"
)

type fakeQuoteCache struct {
	price decimal.Decimal
	err   error
}

func (f *fakeQuoteCache) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Decimal{}, f.err
	}
	return f.price, nil
}

type fakeConsolidation struct {
	positions []*models.ConsolidatedPosition
	err       error
}

func (f *fakeConsolidation) Consolidate(ctx context.Context) ([]*models.ConsolidatedPosition, error) {
	return f.positions, f.err
}

type fakeLedgerService struct {
	lot       *models.PurchaseLot
	lots      []*models.PurchaseLot
	err       error
	sortField string
	sortDir   string
}

func (f *fakeLedgerService) RecordPurchase(ctx context.Context, req *models.PurchaseRequest) (*models.PurchaseLot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lot, nil
}

func (f *fakeLedgerService) ListPurchases(ctx context.Context, sortField, sortDir string) ([]*models.PurchaseLot, error) {
	f.sortField = sortField
	f.sortDir = sortDir
	return f.lots, f.err
}

type fakeSearch struct {
	matches []*models.SymbolMatch
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, term string) ([]*models.SymbolMatch, error) {
	return f.matches, f.err
}

type fakes struct {
	quotes *fakeQuoteCache
	cons   *fakeConsolidation
	ledger *fakeLedgerService
	search *fakeSearch
}

func newTestServer(f *fakes) *Server {
	a := &app.App{
		Config:               common.NewDefaultConfig(),
		Logger:               common.NewSilentLogger(),
		QuoteCache:           f.quotes,
		ConsolidationService: f.cons,
		LedgerService:        f.ledger,
		SymbolSearchService:  f.search,
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func defaultFakes() *fakes {
	return &fakes{
		quotes: &fakeQuoteCache{price: decimal.NewFromFloat(170.25)},
		cons:   &fakeConsolidation{},
		ledger: &fakeLedgerService{},
		search: &fakeSearch{},
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
}

func TestHandleQuote(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/quotes/AAPL", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "170.25", body["price"])
}

func TestHandleQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid symbol", fmt.Errorf("%w: %q", models.ErrInvalidSymbol, "bad$"), http.StatusBadRequest},
		{"rate limited", models.ErrRateLimited, http.StatusTooManyRequests},
		{"timeout", models.ErrQuoteTimeout, http.StatusGatewayTimeout},
		{"empty result", models.ErrEmptyResult, http.StatusBadGateway},
		{"missing price", models.ErrMissingPrice, http.StatusBadGateway},
		{"provider http error", &models.ProviderHTTPError{StatusCode: 500, Endpoint: "/quote/AAPL"}, http.StatusBadGateway},
		{"connection error", &models.ConnectionError{Err: errors.New("refused")}, http.StatusBadGateway},
		{"storage error", &models.StorageError{Op: "get quote", Err: errors.New("down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultFakes()
			f.quotes.err = tt.err
			srv := newTestServer(f)

			rec := doRequest(t, srv, http.MethodGet, "/api/quotes/AAPL", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandleQuote_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodPost, "/api/quotes/AAPL", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSymbolSearch(t *testing.T) {
	f := defaultFakes()
	f.search.matches = []*models.SymbolMatch{
		{Symbol: "AAPL", Name: "Apple Inc. (AAPL)"},
	}
	srv := newTestServer(f)

	rec := doRequest(t, srv, http.MethodGet, "/api/symbols/search?term=app", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbols []*models.SymbolMatch `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Symbols, 1)
	assert.Equal(t, "AAPL", body.Symbols[0].Symbol)
}

func TestHandleSymbolSearch_NilMatchesRenderAsEmptyArray(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/symbols/search?term=zz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"symbols":[]}`, strings.TrimSpace(rec.Body.String()))
}

func TestHandleConsolidated(t *testing.T) {
	f := defaultFakes()
	f.cons.positions = []*models.ConsolidatedPosition{
		{Symbol: "AAPL", TotalQuantity: 15},
		{Symbol: "MSFT", TotalQuantity: 2, PriceError: "quote provider request timed out"},
	}
	srv := newTestServer(f)

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio/consolidated", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Positions []map[string]interface{} `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Positions, 2)
	assert.Equal(t, "AAPL", body.Positions[0]["symbol"])
	// price_error is omitted when empty and present when set
	assert.NotContains(t, body.Positions[0], "price_error")
	assert.Contains(t, body.Positions[1], "price_error")
}

func TestHandleConsolidated_EmptyLedgerRendersEmptyArray(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio/consolidated", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"positions":[]}`, strings.TrimSpace(rec.Body.String()))
}

func TestHandleConsolidated_StorageFailure(t *testing.T) {
	f := defaultFakes()
	f.cons.err = &models.StorageError{Op: "list lots", Err: errors.New("down")}
	srv := newTestServer(f)

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio/consolidated", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCreatePurchase(t *testing.T) {
	f := defaultFakes()
	f.ledger.lot = &models.PurchaseLot{ID: "lot-1", Symbol: "AAPL", Quantity: 10}
	srv := newTestServer(f)

	body := `{"symbol":"AAPL","purchase_date":"2025-01-15","quantity":10,"unit_cost":"150.50"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/purchases", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var lot models.PurchaseLot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lot))
	assert.Equal(t, "lot-1", lot.ID)
}

func TestHandleCreatePurchase_ValidationError(t *testing.T) {
	f := defaultFakes()
	f.ledger.err = errors.New("quantity must be a positive integer")
	srv := newTestServer(f)

	body := `{"symbol":"AAPL","purchase_date":"2025-01-15","quantity":0,"unit_cost":"150.50"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/purchases", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreatePurchase_StorageError(t *testing.T) {
	f := defaultFakes()
	f.ledger.err = &models.StorageError{Op: "insert lot", Err: errors.New("down")}
	srv := newTestServer(f)

	body := `{"symbol":"AAPL","purchase_date":"2025-01-15","quantity":10,"unit_cost":"150.50"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/purchases", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCreatePurchase_InvalidJSON(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodPost, "/api/purchases", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListPurchases(t *testing.T) {
	f := defaultFakes()
	f.ledger.lots = []*models.PurchaseLot{{ID: "lot-1", Symbol: "AAPL"}}
	srv := newTestServer(f)

	rec := doRequest(t, srv, http.MethodGet, "/api/purchases?sort=symbol&direction=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "symbol", f.ledger.sortField)
	assert.Equal(t, "desc", f.ledger.sortDir)

	var lots []*models.PurchaseLot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lots))
	require.Len(t, lots, 1)
}

func TestPurchases_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodDelete, "/api/purchases", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(defaultFakes())

	rec := doRequest(t, srv, http.MethodOptions, "/api/purchases", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
