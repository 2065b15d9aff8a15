package models

// Symbol identifies a tradable stock.
//
// Rows are created lazily the first time a ticker is traded and are
// immutable afterwards.
type Symbol struct {
	// ID is the row id assigned by the store.
	ID int64

	// Ticker is the unique short code for the stock (always upper-case).
	Ticker string

	// Name is the company display name reported by the quote source.
	Name string
}
