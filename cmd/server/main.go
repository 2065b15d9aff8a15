package main

import (
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/paperbroker/paperbroker/internal/auth"
	"github.com/paperbroker/paperbroker/internal/config"
	"github.com/paperbroker/paperbroker/internal/middleware"
	"github.com/paperbroker/paperbroker/internal/portfolio"
	"github.com/paperbroker/paperbroker/internal/quotes"
	"github.com/paperbroker/paperbroker/internal/service"
	"github.com/paperbroker/paperbroker/internal/storage/sqlite"
	"github.com/paperbroker/paperbroker/internal/trading"
	"github.com/paperbroker/paperbroker/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	quoteClient := quotes.NewHTTPClient(cfg.QuoteURL, cfg.QuoteTimeout, logger)

	authenticator := auth.NewPasswordAuthenticator(store, cfg.StartingCash)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	trader := trading.NewTrader(store, quoteClient, logger)
	calculator := portfolio.NewCalculator(store, quoteClient)

	authService := service.NewAuthService(authenticator, jwtManager, logger)
	tradeService := service.NewTradeService(trader, calculator, store, quoteClient, logger)

	mux := service.NewRouter(authService, tradeService, jwtManager)
	handler := middleware.Logging(logger)(mux)

	// h2c serves HTTP/2 without TLS for local and proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	logger.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
