// Package fmp provides a client for the FinancialModelingPrep API
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

const (
	DefaultBaseURL   = "https://financialmodelingprep.com/api/v3"
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the QuoteProvider interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new FMP client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET request and classifies transport and
// status failures into the models error taxonomy.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("FMP API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %v", models.ErrQuoteTimeout, err)
		}
		return &models.ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return models.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return &models.ProviderHTTPError{StatusCode: resp.StatusCode, Endpoint: path}
	}

	// FMP returns errors as a JSON object with a 200 status, so a payload
	// that does not decode into the expected list means no usable data.
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: unexpected payload: %v", models.ErrEmptyResult, err)
	}

	return nil
}

// isTimeout reports whether a transport error was a timeout.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// quoteResponse represents one element of the FMP quote payload. Price is a
// pointer so a present-but-null or absent field is distinguishable from 0.
type quoteResponse struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
}

// FetchQuote retrieves the current price for a symbol.
// The payload is a JSON array; an empty array means the symbol is unknown,
// and a first element without a numeric price field is unusable.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	path := fmt.Sprintf("/quote/%s", symbol)

	var quotes []quoteResponse
	if err := c.get(ctx, path, nil, &quotes); err != nil {
		return decimal.Decimal{}, err
	}

	if len(quotes) == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", models.ErrEmptyResult, symbol)
	}
	if quotes[0].Price == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", models.ErrMissingPrice, symbol)
	}

	price := decimal.NewFromFloat(*quotes[0].Price)

	c.logger.Debug().
		Str("symbol", symbol).
		Str("price", price.String()).
		Msg("FMP quote fetched")

	return price, nil
}

// searchResponse represents one element of the FMP symbol search payload.
type searchResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SearchSymbols finds symbols matching a free-text term. Entries without a
// symbol or name are dropped.
func (c *Client) SearchSymbols(ctx context.Context, term string, limit int) ([]*models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("query", term)
	params.Set("limit", strconv.Itoa(limit))

	var results []searchResponse
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	matches := make([]*models.SymbolMatch, 0, len(results))
	for _, r := range results {
		if r.Symbol == "" || r.Name == "" {
			continue
		}
		matches = append(matches, &models.SymbolMatch{
			Symbol: r.Symbol,
			Name:   fmt.Sprintf("%s (%s)", r.Name, r.Symbol),
		})
	}

	return matches, nil
}

// Ensure Client implements QuoteProvider
var _ interfaces.QuoteProvider = (*Client)(nil)
