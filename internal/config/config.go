// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config contains all runtime configuration.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"./data/paperbroker.db"`

	QuoteURL     string        `env:"QUOTE_URL" envDefault:"http://localhost:8090"`
	QuoteTimeout time.Duration `env:"QUOTE_TIMEOUT" envDefault:"5s"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	StartingCashRaw string `env:"STARTING_CASH" envDefault:"10000.00"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`

	// StartingCash is parsed from StartingCashRaw by Load.
	StartingCash decimal.Decimal
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; explicit env vars still win.
	_ = godotenv.Load()

	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cash, err := decimal.NewFromString(cfg.StartingCashRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_CASH %q: %w", cfg.StartingCashRaw, err)
	}
	if cash.IsNegative() {
		return nil, fmt.Errorf("STARTING_CASH must not be negative, got %s", cash)
	}
	cfg.StartingCash = cash

	return cfg, nil
}
