package models

import "github.com/shopspring/decimal"

// User represents a registered account.
type User struct {
	// ID is the row id assigned by the store.
	ID int64

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt digest of the user's password.
	// Never exposed outside the auth package.
	PasswordHash string

	// Cash is the user's current virtual cash balance.
	// Debited by buys, credited by sells; never negative.
	Cash decimal.Decimal

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
