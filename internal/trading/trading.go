// Package trading implements the buy and sell use cases.
//
// A trade either commits — one new ledger entry plus one cash delta,
// written as a single unit by the store — or is rejected with one of the
// sentinel errors below and leaves no effect at all.
package trading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/quotes"
	"github.com/paperbroker/paperbroker/internal/storage"
)

var (
	// ErrInvalidShares rejects a share count that is not a positive whole
	// number.
	ErrInvalidShares = errors.New("shares must be a positive whole number")

	// ErrInvalidStock rejects a ticker the quote source does not know.
	// Upstream lookup failures surface the same way.
	ErrInvalidStock = errors.New("invalid stock symbol")

	// ErrCannotAfford rejects a buy whose cost exceeds the user's cash.
	ErrCannotAfford = errors.New("cannot afford purchase")

	// ErrInsufficientShares rejects a sell of more shares than held.
	ErrInsufficientShares = errors.New("not enough shares held")

	// ErrUnknownUser means the user id resolved from the session does not
	// exist in the store.
	ErrUnknownUser = errors.New("unknown user")
)

// Store is the slice of the ledger store the trader uses.
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetOrCreateSymbol(ctx context.Context, ticker, name string) (*models.Symbol, error)
	SumSharesByTicker(ctx context.Context, userID int64, ticker string) (int64, error)
	ExecuteTrade(ctx context.Context, trade storage.Trade) (int64, error)
}

// Receipt describes a committed trade.
type Receipt struct {
	TransactionID int64
	Symbol        string
	Name          string
	Shares        int64
	Price         decimal.Decimal
	Total         decimal.Decimal
}

// Trader executes buys and sells against the ledger store, pricing them
// through the quote client.
type Trader struct {
	store  Store
	quotes quotes.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewTrader creates a trader.
func NewTrader(store Store, quotes quotes.Client, logger *slog.Logger) *Trader {
	return &Trader{
		store:  store,
		quotes: quotes,
		logger: logger,
		now:    time.Now,
	}
}

// parseShares validates a raw share-count string: integer, positive.
func parseShares(raw string) (int64, error) {
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return 0, ErrInvalidShares
	}
	return shares, nil
}

// Buy purchases shares of a stock at the live quoted price.
//
// Validation order: share count, quote lookup, affordability. The
// affordability check here is advisory; the store re-validates funds
// inside the commit, so a concurrent trade cannot overdraw cash.
func (t *Trader) Buy(ctx context.Context, userID int64, tickerRaw, sharesRaw string) (*Receipt, error) {
	shares, err := parseShares(sharesRaw)
	if err != nil {
		return nil, err
	}

	quote, err := t.quotes.Lookup(ctx, tickerRaw)
	if err != nil {
		return nil, fmt.Errorf("quote lookup: %w", err)
	}
	if quote == nil {
		return nil, ErrInvalidStock
	}

	user, err := t.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	if cost.GreaterThan(user.Cash) {
		return nil, ErrCannotAfford
	}

	symbol, err := t.store.GetOrCreateSymbol(ctx, quote.Symbol, quote.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve symbol: %w", err)
	}

	txnID, err := t.store.ExecuteTrade(ctx, storage.Trade{
		UserID:     userID,
		SymbolID:   symbol.ID,
		Shares:     shares,
		Price:      quote.Price,
		ExecutedAt: t.now(),
	})
	if errors.Is(err, storage.ErrInsufficientFunds) {
		return nil, ErrCannotAfford
	}
	if err != nil {
		return nil, fmt.Errorf("failed to commit buy: %w", err)
	}

	t.logger.Info("Buy committed",
		"user_id", userID, "symbol", quote.Symbol, "shares", shares, "price", quote.Price)
	return &Receipt{
		TransactionID: txnID,
		Symbol:        quote.Symbol,
		Name:          quote.Name,
		Shares:        shares,
		Price:         quote.Price,
		Total:         cost,
	}, nil
}

// Sell disposes of shares at the live quoted price.
//
// Validation order: share count, current holding, quote lookup. The
// holding check here is advisory; the store re-sums the ledger inside
// the commit, so two concurrent sells cannot overdraw a position.
func (t *Trader) Sell(ctx context.Context, userID int64, tickerRaw, sharesRaw string) (*Receipt, error) {
	shares, err := parseShares(sharesRaw)
	if err != nil {
		return nil, err
	}

	ticker := quotes.Normalize(tickerRaw)
	held, err := t.store.SumSharesByTicker(ctx, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to sum holding: %w", err)
	}
	if held < shares {
		return nil, ErrInsufficientShares
	}

	quote, err := t.quotes.Lookup(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("quote lookup: %w", err)
	}
	if quote == nil {
		return nil, ErrInvalidStock
	}

	symbol, err := t.store.GetOrCreateSymbol(ctx, quote.Symbol, quote.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve symbol: %w", err)
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))
	txnID, err := t.store.ExecuteTrade(ctx, storage.Trade{
		UserID:     userID,
		SymbolID:   symbol.ID,
		Shares:     -shares,
		Price:      quote.Price,
		ExecutedAt: t.now(),
	})
	if errors.Is(err, storage.ErrInsufficientShares) {
		return nil, ErrInsufficientShares
	}
	if err != nil {
		return nil, fmt.Errorf("failed to commit sell: %w", err)
	}

	t.logger.Info("Sell committed",
		"user_id", userID, "symbol", quote.Symbol, "shares", shares, "price", quote.Price)
	return &Receipt{
		TransactionID: txnID,
		Symbol:        quote.Symbol,
		Name:          quote.Name,
		Shares:        -shares,
		Price:         quote.Price,
		Total:         proceeds,
	}, nil
}
