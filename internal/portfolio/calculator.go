// Package portfolio derives holdings and valuation from the ledger.
//
// Nothing here is persistent: every call recomputes from the store's
// transaction log plus live quotes, so the reported share counts can
// never drift from the ledger.
package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/quotes"
	"github.com/paperbroker/paperbroker/internal/storage"
)

var (
	// ErrQuoteUnavailable means a held symbol could not be priced. The
	// whole computation fails rather than report a partial total.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrUnknownUser means the user id resolved from the session does not
	// exist in the store.
	ErrUnknownUser = errors.New("unknown user")
)

// Holding is one priced position.
type Holding struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Snapshot is a user's full portfolio at one instant.
type Snapshot struct {
	Holdings []Holding
	Cash     decimal.Decimal
	Total    decimal.Decimal
}

// Store is the slice of the ledger store the calculator reads.
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	HoldingsByUser(ctx context.Context, userID int64) ([]storage.HoldingRow, error)
}

// Calculator computes portfolio snapshots.
type Calculator struct {
	store  Store
	quotes quotes.Client
}

// NewCalculator creates a calculator over the given store and quote
// source.
func NewCalculator(store Store, quotes quotes.Client) *Calculator {
	return &Calculator{store: store, quotes: quotes}
}

// Compute derives the user's current holdings and valuation. Positions
// with net zero shares are dropped by the store's aggregate; the rest
// are priced live. Output order follows the store's ticker ordering, so
// a given ledger snapshot always renders the same way.
func (c *Calculator) Compute(ctx context.Context, userID int64) (*Snapshot, error) {
	user, err := c.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	rows, err := c.store.HoldingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	snapshot := &Snapshot{
		Cash:  user.Cash,
		Total: user.Cash,
	}
	for _, row := range rows {
		quote, err := c.quotes.Lookup(ctx, row.Ticker)
		if err != nil {
			return nil, fmt.Errorf("failed to price %s: %w", row.Ticker, err)
		}
		if quote == nil {
			return nil, fmt.Errorf("%s: %w", row.Ticker, ErrQuoteUnavailable)
		}

		value := quote.Price.Mul(decimal.NewFromInt(row.Shares))
		snapshot.Holdings = append(snapshot.Holdings, Holding{
			Symbol: row.Ticker,
			Name:   row.Name,
			Shares: row.Shares,
			Price:  quote.Price,
			Value:  value,
		})
		snapshot.Total = snapshot.Total.Add(value)
	}

	return snapshot, nil
}
