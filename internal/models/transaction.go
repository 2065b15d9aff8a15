package models

import "github.com/shopspring/decimal"

// Transaction is one entry in the append-only trade ledger.
//
// A buy has positive Shares, a sell negative. Entries are never updated
// or deleted; holdings are always derived by summing over them.
type Transaction struct {
	// ID is the row id assigned by the store.
	ID int64

	// UserID references the owning user.
	UserID int64

	// SymbolID references the traded symbol.
	SymbolID int64

	// Ticker is the symbol's ticker, joined in for convenience on reads.
	Ticker string

	// Shares is the signed share count of the trade.
	Shares int64

	// Price is the quoted price per share at the time of the trade.
	Price decimal.Decimal

	// ExecutedAt is the Unix timestamp of the trade.
	ExecutedAt int64
}
