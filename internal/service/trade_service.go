package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperbroker/paperbroker/internal/metrics"
	"github.com/paperbroker/paperbroker/internal/middleware"
	"github.com/paperbroker/paperbroker/internal/models"
	"github.com/paperbroker/paperbroker/internal/portfolio"
	"github.com/paperbroker/paperbroker/internal/quotes"
	"github.com/paperbroker/paperbroker/internal/storage"
	"github.com/paperbroker/paperbroker/internal/trading"
)

// TradeService handles quotes, trades, portfolio and history.
type TradeService struct {
	trader     *trading.Trader
	calculator *portfolio.Calculator
	store      storage.Store
	quotes     quotes.Client
	logger     *slog.Logger
}

// NewTradeService creates the trading handlers.
func NewTradeService(trader *trading.Trader, calculator *portfolio.Calculator, store storage.Store, quotes quotes.Client, logger *slog.Logger) *TradeService {
	return &TradeService{
		trader:     trader,
		calculator: calculator,
		store:      store,
		quotes:     quotes,
		logger:     logger,
	}
}

type tradeRequest struct {
	Symbol string `json:"symbol"`
	Shares string `json:"shares"`
}

type receiptResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Shares        int64  `json:"shares"`
	Price         string `json:"price"`
	Total         string `json:"total"`
}

type quoteResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

type holdingResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Shares int64  `json:"shares"`
	Price  string `json:"price"`
	Value  string `json:"value"`
}

type portfolioResponse struct {
	Holdings []holdingResponse `json:"holdings"`
	Cash     string            `json:"cash"`
	Total    string            `json:"total"`
}

type transactionResponse struct {
	ID         int64  `json:"id"`
	Symbol     string `json:"symbol"`
	Shares     int64  `json:"shares"`
	Price      string `json:"price"`
	ExecutedAt string `json:"executed_at"`
}

// Quote returns the live quote for a ticker.
func (s *TradeService) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.quotes.Lookup(r.Context(), r.URL.Query().Get("symbol"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if quote == nil {
		writeError(w, s.logger, trading.ErrInvalidStock)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.StringFixed(2),
	})
}

// Buy purchases shares for the session user.
func (s *TradeService) Buy(w http.ResponseWriter, r *http.Request) {
	s.trade(w, r, "buy", s.trader.Buy)
}

// Sell disposes of shares for the session user.
func (s *TradeService) Sell(w http.ResponseWriter, r *http.Request) {
	s.trade(w, r, "sell", s.trader.Sell)
}

func (s *TradeService) trade(w http.ResponseWriter, r *http.Request, side string, exec func(ctx context.Context, userID int64, ticker, shares string) (*trading.Receipt, error)) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	receipt, err := exec(r.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		metrics.Trades.WithLabelValues(side, outcomeFor(err)).Inc()
		writeError(w, s.logger, err)
		return
	}

	metrics.Trades.WithLabelValues(side, "committed").Inc()
	writeJSON(w, http.StatusOK, receiptResponse{
		TransactionID: receipt.TransactionID,
		Symbol:        receipt.Symbol,
		Name:          receipt.Name,
		Shares:        receipt.Shares,
		Price:         receipt.Price.StringFixed(2),
		Total:         receipt.Total.StringFixed(2),
	})
}

// Portfolio returns the session user's current holdings and valuation.
func (s *TradeService) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	snapshot, err := s.calculator.Compute(r.Context(), userID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := portfolioResponse{
		Holdings: make([]holdingResponse, 0, len(snapshot.Holdings)),
		Cash:     snapshot.Cash.StringFixed(2),
		Total:    snapshot.Total.StringFixed(2),
	}
	for _, h := range snapshot.Holdings {
		resp.Holdings = append(resp.Holdings, holdingResponse{
			Symbol: h.Symbol,
			Name:   h.Name,
			Shares: h.Shares,
			Price:  h.Price.StringFixed(2),
			Value:  h.Value.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// History returns the session user's full ledger, oldest first.
func (s *TradeService) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	txns, err := s.store.ListTransactionsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		resp = append(resp, toTransactionResponse(txn))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toTransactionResponse(txn models.Transaction) transactionResponse {
	return transactionResponse{
		ID:         txn.ID,
		Symbol:     txn.Ticker,
		Shares:     txn.Shares,
		Price:      txn.Price.StringFixed(2),
		ExecutedAt: time.Unix(txn.ExecutedAt, 0).UTC().Format(time.RFC3339),
	}
}

func outcomeFor(err error) string {
	switch err {
	case trading.ErrInvalidShares, trading.ErrInvalidStock,
		trading.ErrCannotAfford, trading.ErrInsufficientShares:
		return "rejected"
	default:
		return "error"
	}
}
