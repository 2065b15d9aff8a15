package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/storage"
)

// GetOrCreateSymbol returns the symbol row for ticker, inserting it
// the first time the ticker is seen. The UNIQUE constraint on ticker is
// the tie-break for concurrent first-trades: both inserts race, one
// wins, and both callers read back the same row.
func (s *SQLiteStore) GetOrCreateSymbol(ctx context.Context, ticker, name string) (*models.Symbol, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO symbols (ticker, name) VALUES (?, ?) ON CONFLICT(ticker) DO NOTHING",
		ticker, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert symbol: %w", err)
	}

	symbol := &models.Symbol{}
	err = s.db.QueryRowContext(ctx,
		"SELECT id, ticker, name FROM symbols WHERE ticker = ?", ticker,
	).Scan(&symbol.ID, &symbol.Ticker, &symbol.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol: %w", err)
	}
	return symbol, nil
}

// AppendTransaction adds one signed entry to the ledger.
func (s *SQLiteStore) AppendTransaction(ctx context.Context, userID, symbolID, shares int64, price decimal.Decimal, executedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (user_id, symbol_id, shares, price, executed_at) VALUES (?, ?, ?, ?, ?)",
		userID, symbolID, shares, price.String(), executedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}
	return id, nil
}

// ExecuteTrade appends a ledger entry and applies its cash effect as a
// single atomic unit. Funds (buys) and net holdings (sells) are
// re-validated against current rows inside the transaction, so two
// concurrent trades passing a stale pre-check cannot both commit.
func (s *SQLiteStore) ExecuteTrade(ctx context.Context, trade storage.Trade) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if trade.Shares < 0 {
		var held int64
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(shares), 0) FROM transactions WHERE user_id = ? AND symbol_id = ?",
			trade.UserID, trade.SymbolID,
		).Scan(&held)
		if err != nil {
			return 0, fmt.Errorf("failed to sum holding: %w", err)
		}
		if held+trade.Shares < 0 {
			return 0, storage.ErrInsufficientShares
		}
	}

	// Buys debit cash, sells credit it.
	delta := trade.Price.Mul(decimal.NewFromInt(trade.Shares)).Neg()
	if err := adjustCashTx(ctx, tx, trade.UserID, delta); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (user_id, symbol_id, shares, price, executed_at) VALUES (?, ?, ?, ?, ?)",
		trade.UserID, trade.SymbolID, trade.Shares, trade.Price.String(), trade.ExecutedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit trade: %w", err)
	}
	return id, nil
}

// ListTransactionsForUser returns the user's ledger, oldest first.
func (s *SQLiteStore) ListTransactionsForUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.symbol_id, s.ticker, t.shares, t.price, t.executed_at
		FROM transactions t
		JOIN symbols s ON s.id = t.symbol_id
		WHERE t.user_id = ?
		ORDER BY t.executed_at ASC, t.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var price string
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.SymbolID, &txn.Ticker, &txn.Shares, &price, &txn.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.Price, err = scanDecimal(price); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// SumShares returns the user's net share count for one symbol.
func (s *SQLiteStore) SumShares(ctx context.Context, userID, symbolID int64) (int64, error) {
	var sum int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(shares), 0) FROM transactions WHERE user_id = ? AND symbol_id = ?",
		userID, symbolID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum shares: %w", err)
	}
	return sum, nil
}

// SumSharesByTicker is SumShares keyed by ticker. A ticker the user
// never traded sums to zero.
func (s *SQLiteStore) SumSharesByTicker(ctx context.Context, userID int64, ticker string) (int64, error) {
	var sum int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(t.shares), 0)
		FROM transactions t
		JOIN symbols s ON s.id = t.symbol_id
		WHERE t.user_id = ? AND s.ticker = ?`,
		userID, ticker,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum shares: %w", err)
	}
	return sum, nil
}

// HoldingsByUser returns net holdings grouped by symbol, ordered by
// ticker. Fully exited positions (net zero) are dropped in SQL.
func (s *SQLiteStore) HoldingsByUser(ctx context.Context, userID int64) ([]storage.HoldingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.ticker, s.name, SUM(t.shares) AS net
		FROM transactions t
		JOIN symbols s ON s.id = t.symbol_id
		WHERE t.user_id = ?
		GROUP BY s.id, s.ticker, s.name
		HAVING net != 0
		ORDER BY s.ticker ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []storage.HoldingRow
	for rows.Next() {
		var h storage.HoldingRow
		if err := rows.Scan(&h.SymbolID, &h.Ticker, &h.Name, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}
