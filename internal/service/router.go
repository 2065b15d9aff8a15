package service

import (
	"net/http"

	"github.com/paperbroker/paperbroker/internal/auth"
	"github.com/paperbroker/paperbroker/internal/metrics"
	"github.com/paperbroker/paperbroker/internal/middleware"
)

// NewRouter binds the account and trading handlers to their routes.
// Everything under the session boundary goes through RequireAuth, so
// handlers always see a resolved user id.
func NewRouter(authService *AuthService, tradeService *TradeService, jwtManager *auth.JWTManager) *http.ServeMux {
	sessioned := middleware.RequireAuth(jwtManager)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", authService.Register)
	mux.HandleFunc("POST /api/login", authService.Login)
	mux.HandleFunc("POST /api/logout", authService.Logout)
	mux.Handle("GET /api/quote", sessioned(http.HandlerFunc(tradeService.Quote)))
	mux.Handle("POST /api/buy", sessioned(http.HandlerFunc(tradeService.Buy)))
	mux.Handle("POST /api/sell", sessioned(http.HandlerFunc(tradeService.Sell)))
	mux.Handle("GET /api/portfolio", sessioned(http.HandlerFunc(tradeService.Portfolio)))
	mux.Handle("GET /api/history", sessioned(http.HandlerFunc(tradeService.History)))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}
