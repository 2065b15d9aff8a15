// Package storage provides abstractions for the persistent ledger store.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/models"
)

var (
	// ErrDuplicateUsername is returned by CreateUser when the username is
	// already registered.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInsufficientFunds is returned when a cash adjustment would drive
	// the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned by ExecuteTrade when a sell would
	// drive the net holding below zero.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUserNotFound is returned by mutations against an unknown user id.
	ErrUserNotFound = errors.New("user not found")
)

// Trade describes one ledger append plus its cash effect. Shares is
// signed: positive for a buy, negative for a sell.
type Trade struct {
	UserID     int64
	SymbolID   int64
	Shares     int64
	Price      decimal.Decimal
	ExecutedAt time.Time
}

// HoldingRow is one row of the per-user holdings aggregate: the net
// share count for a symbol, with zero-net positions already dropped.
type HoldingRow struct {
	SymbolID int64
	Ticker   string
	Name     string
	Shares   int64
}

// Store defines the interface for ledger persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Lookup methods return (nil, nil) when the row does not exist.
type Store interface {
	// CreateUser inserts a new user with the given bcrypt digest and
	// starting cash balance, returning the assigned id.
	// Fails with ErrDuplicateUsername if the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (int64, error)

	// GetUserByUsername retrieves a user by login name.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by row id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetOrCreateSymbol returns the symbol row for ticker, inserting it
	// on first sight. Idempotent: concurrent first-trades of the same
	// ticker resolve to one row via the ticker UNIQUE constraint.
	GetOrCreateSymbol(ctx context.Context, ticker, name string) (*models.Symbol, error)

	// AppendTransaction adds one signed entry to the ledger and returns
	// its id. The ledger is append-only; there is no update or delete.
	AppendTransaction(ctx context.Context, userID, symbolID, shares int64, price decimal.Decimal, executedAt time.Time) (int64, error)

	// AdjustCash applies a signed delta to the user's cash balance.
	// Fails with ErrInsufficientFunds if the result would be negative.
	AdjustCash(ctx context.Context, userID int64, delta decimal.Decimal) error

	// ExecuteTrade appends a transaction and applies its cash effect as a
	// single atomic unit, re-validating funds and holdings against current
	// rows inside the transaction. A failure leaves no partial effect.
	ExecuteTrade(ctx context.Context, trade Trade) (int64, error)

	// ListTransactionsForUser returns the user's full ledger, ordered by
	// execution time ascending.
	ListTransactionsForUser(ctx context.Context, userID int64) ([]models.Transaction, error)

	// SumShares returns the user's net share count for one symbol.
	SumShares(ctx context.Context, userID, symbolID int64) (int64, error)

	// SumSharesByTicker is SumShares keyed by ticker; returns 0 for a
	// ticker the user never traded.
	SumSharesByTicker(ctx context.Context, userID int64, ticker string) (int64, error)

	// HoldingsByUser returns the user's net holdings grouped by symbol,
	// ordered by ticker, with zero-net positions dropped.
	HoldingsByUser(ctx context.Context, userID int64) ([]HoldingRow, error)

	// Close releases any resources held by the store.
	Close() error
}
