// Package auth implements registration, credential verification and
// session tokens. Password hashing and the token transport are the
// swappable pieces; nothing outside this package sees a bcrypt digest
// or a signing key.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/storage"
)

var (
	ErrMissingUsername     = errors.New("must provide username")
	ErrMissingPassword     = errors.New("must provide password")
	ErrMissingConfirmation = errors.New("must confirm password")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrUsernameTaken       = errors.New("username already exists")

	// ErrInvalidCredentials is deliberately identical for an unknown
	// username and a wrong password, so login cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

// UserStore defines the user persistence operations the authenticator
// needs. This keeps it independent of the storage implementation.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using
// bcrypt.
type PasswordAuthenticator struct {
	store        UserStore
	startingCash decimal.Decimal
}

// NewPasswordAuthenticator creates an authenticator. New accounts start
// with startingCash in their balance.
func NewPasswordAuthenticator(store UserStore, startingCash decimal.Decimal) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		store:        store,
		startingCash: startingCash,
	}
}

// Register creates a new user account with a hashed password. The
// username's uniqueness is ultimately enforced by the store's UNIQUE
// constraint; a duplicate surfaces as ErrUsernameTaken either way.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, password, confirmation string) (*models.User, error) {
	switch {
	case username == "":
		return nil, ErrMissingUsername
	case password == "":
		return nil, ErrMissingPassword
	case confirmation == "":
		return nil, ErrMissingConfirmation
	case password != confirmation:
		return nil, ErrPasswordMismatch
	}

	if existing, err := a.store.GetUserByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := a.store.CreateUser(ctx, username, string(digest), a.startingCash)
	if errors.Is(err, storage.ErrDuplicateUsername) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:       id,
		Username: username,
		Cash:     a.startingCash,
	}, nil
}

// Authenticate verifies username and password, returning the user if
// valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
