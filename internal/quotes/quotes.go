// Package quotes wraps the external price-lookup service.
package quotes

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Quote is a live price for a ticker.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Client looks up live quotes. Lookup returns (nil, nil) for unknown or
// invalid tickers and for any upstream failure — callers treat absent as
// "invalid stock", never as a crash. A returned quote always has a
// positive price.
type Client interface {
	Lookup(ctx context.Context, ticker string) (*Quote, error)
}

// Normalize canonicalizes a raw ticker: trimmed and upper-cased.
func Normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
