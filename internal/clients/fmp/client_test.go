package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliz121/stock-manager/internal/models"
)

func newTestClient(handler http.HandlerFunc, opts ...ClientOption) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	opts = append([]ClientOption{WithBaseURL(srv.URL), WithRateLimit(1000)}, opts...)
	return NewClient("test-key", opts...), srv
}

func TestFetchQuote_Success(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/AAPL", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"AAPL","price":170.25}]`))
	})
	defer srv.Close()

	price, err := client.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "170.25", price.String())
}

func TestFetchQuote_EmptyResult(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, models.ErrEmptyResult)
}

func TestFetchQuote_NonListBody(t *testing.T) {
	// FMP reports errors as a JSON object with status 200.
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message":"Invalid API key"}`))
	})
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrEmptyResult)
}

func TestFetchQuote_MissingPrice(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"AAPL"}]`))
	})
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrMissingPrice)
}

func TestFetchQuote_RateLimited(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestFetchQuote_ServerError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "AAPL")

	var httpErr *models.ProviderHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestFetchQuote_Timeout(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"symbol":"AAPL","price":170.25}]`))
	}, WithTimeout(20*time.Millisecond))
	defer srv.Close()

	_, err := client.FetchQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteTimeout)
}

func TestFetchQuote_ConnectionRefused(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient("test-key", WithBaseURL(addr), WithRateLimit(1000))

	_, err := client.FetchQuote(context.Background(), "AAPL")

	var connErr *models.ConnectionError
	assert.True(t, errors.As(err, &connErr) || errors.Is(err, models.ErrQuoteTimeout))
}

func TestSearchSymbols(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "APP", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"symbol":"AAPL","name":"Apple Inc."},
			{"symbol":"APP","name":"Applovin Corp"},
			{"symbol":"","name":"No Symbol"},
			{"symbol":"NONAME","name":""}
		]`))
	})
	defer srv.Close()

	matches, err := client.SearchSymbols(context.Background(), "APP", 10)
	require.NoError(t, err)

	// Entries without symbol or name are dropped
	require.Len(t, matches, 2)
	assert.Equal(t, "AAPL", matches[0].Symbol)
	assert.Equal(t, "Apple Inc. (AAPL)", matches[0].Name)
	assert.Equal(t, "Applovin Corp (APP)", matches[1].Name)
}
