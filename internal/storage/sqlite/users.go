package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/storage"
)

// CreateUser inserts a new user with the given starting cash balance.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, cash, created_at) VALUES (?, ?, ?, ?)",
		username, passwordHash, startingCash.String(), time.Now().Unix(),
	)
	if isUniqueViolation(err) {
		return 0, storage.ErrDuplicateUsername
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user by their login name.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, username, password_hash, cash, created_at FROM users WHERE username = ?", username)
}

// GetUserByID retrieves a user by their row id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, username, password_hash, cash, created_at FROM users WHERE id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var cash string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&cash,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Cash, err = scanDecimal(cash); err != nil {
		return nil, err
	}
	return user, nil
}

// AdjustCash applies a signed delta to the user's cash balance inside
// one transaction, failing with ErrInsufficientFunds if the result
// would go negative.
func (s *SQLiteStore) AdjustCash(ctx context.Context, userID int64, delta decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := adjustCashTx(ctx, tx, userID, delta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// adjustCashTx is the shared read-check-write cash update used by both
// AdjustCash and ExecuteTrade. Must run inside tx.
func adjustCashTx(ctx context.Context, tx *sql.Tx, userID int64, delta decimal.Decimal) error {
	var raw string
	err := tx.QueryRowContext(ctx, "SELECT cash FROM users WHERE id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return storage.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read cash: %w", err)
	}

	cash, err := scanDecimal(raw)
	if err != nil {
		return err
	}

	next := cash.Add(delta)
	if next.IsNegative() {
		return storage.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, "UPDATE users SET cash = ? WHERE id = ?", next.String(), userID); err != nil {
		return fmt.Errorf("failed to update cash: %w", err)
	}
	return nil
}
