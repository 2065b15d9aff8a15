package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/metrics"
)

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClient fetches quotes from a JSON endpoint of the form
// GET {base}/quote?symbol=TICKER returning {"symbol","name","price"}.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a quote client against baseURL. Every lookup is
// bounded by timeout; a timed-out lookup is absent, same as an unknown
// ticker.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// quoteResponse is the upstream wire shape. Price arrives as a JSON
// number or string; json.Number preserves its digits for decimal.
type quoteResponse struct {
	Symbol string      `json:"symbol"`
	Name   string      `json:"name"`
	Price  json.Number `json:"price"`
}

// Lookup fetches a live quote. The ticker is normalized before lookup.
// Any failure — transport error, non-200, malformed body, non-positive
// price — yields (nil, nil).
func (c *HTTPClient) Lookup(ctx context.Context, ticker string) (*Quote, error) {
	ticker = Normalize(ticker)
	if ticker == "" {
		metrics.QuoteLookups.WithLabelValues("absent").Inc()
		return nil, nil
	}

	addr := fmt.Sprintf("%s/quote?symbol=%s", c.baseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("Quote lookup failed", "ticker", ticker, "error", err)
		metrics.QuoteLookups.WithLabelValues("error").Inc()
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("Quote lookup non-OK", "ticker", ticker, "status", resp.StatusCode)
		metrics.QuoteLookups.WithLabelValues("absent").Inc()
		return nil, nil
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Malformed quote response", "ticker", ticker, "error", err)
		metrics.QuoteLookups.WithLabelValues("error").Inc()
		return nil, nil
	}

	price, err := decimal.NewFromString(body.Price.String())
	if err != nil || !price.IsPositive() {
		metrics.QuoteLookups.WithLabelValues("absent").Inc()
		return nil, nil
	}

	symbol := Normalize(body.Symbol)
	if symbol == "" {
		symbol = ticker
	}

	metrics.QuoteLookups.WithLabelValues("hit").Inc()
	return &Quote{Symbol: symbol, Name: body.Name, Price: price}, nil
}
