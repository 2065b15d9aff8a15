package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cash, _ := decimal.NewFromString("10000.00")
	return NewPasswordAuthenticator(store, cash)
}

func TestRegisterValidation(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	tests := []struct {
		name                             string
		username, password, confirmation string
		wantErr                          error
	}{
		{"missing username", "", "pw", "pw", ErrMissingUsername},
		{"missing password", "alice", "", "pw", ErrMissingPassword},
		{"missing confirmation", "alice", "pw", "", ErrMissingConfirmation},
		{"mismatched passwords", "alice", "pw", "other", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.username, tt.password, tt.confirmation)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	user, err := a.Register(ctx, "alice", "s3cret", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected non-zero user id")
	}
	want, _ := decimal.NewFromString("10000.00")
	if !user.Cash.Equal(want) {
		t.Errorf("Starting cash = %s, want 10000.00", user.Cash)
	}

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := a.Register(ctx, "alice", "other", "other")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("original credentials still valid after duplicate attempt", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "alice", "s3cret")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("Authenticated id = %d, want %d", got.ID, user.ID)
		}
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		_, wrongPw := a.Authenticate(ctx, "alice", "nope")
		_, noUser := a.Authenticate(ctx, "mallory", "nope")
		if !errors.Is(wrongPw, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for both, got %v and %v", wrongPw, noUser)
		}
		if wrongPw.Error() != noUser.Error() {
			t.Error("Login errors must not reveal whether the username exists")
		}
	})
}

func TestJWTRoundTrip(t *testing.T) {
	a := newAuthenticator(t)
	user, err := a.Register(context.Background(), "alice", "s3cret", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	manager := NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if id != user.ID || claims.Username != "alice" {
		t.Errorf("Claims = id %d %q, want id %d alice", id, claims.Username, user.ID)
	}
	if claims.ID == "" {
		t.Error("Expected a token id")
	}

	t.Run("tampered token is rejected", func(t *testing.T) {
		if _, err := manager.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := NewJWTManager("test-secret", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
