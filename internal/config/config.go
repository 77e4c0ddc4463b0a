package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MnemonicFile string `envconfig:"LTCPAY_MNEMONIC_FILE"`
	Passphrase   string `envconfig:"LTCPAY_PASSPHRASE"`
	DBPath       string `envconfig:"LTCPAY_DB_PATH" default:"./data/ltcpay.sqlite"`
	Port         int    `envconfig:"LTCPAY_PORT" default:"8080"`
	LogLevel     string `envconfig:"LTCPAY_LOG_LEVEL" default:"info"`
	LogDir       string `envconfig:"LTCPAY_LOG_DIR" default:"./logs"`
	Network      string `envconfig:"LTCPAY_NETWORK" default:"testnet"`

	ExplorerBaseURL   string `envconfig:"LTCPAY_EXPLORER_BASE_URL" default:"https://api.bitaps.com/ltc/v1"`
	PollIntervalSec   int    `envconfig:"LTCPAY_POLL_INTERVAL_SEC" default:"60"`
	MinConfirmations  int    `envconfig:"LTCPAY_MIN_CONFIRMATIONS" default:"4"`
	ExplorerRateLimit int    `envconfig:"LTCPAY_EXPLORER_RATE_LIMIT" default:"3"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars, so real environment
	// variables take precedence over .env values.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn("failed to load .env file", "error", err)
		} else {
			slog.Info("loaded .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Network != "mainnet" && c.Network != "testnet" {
		return fmt.Errorf("%w: network must be \"mainnet\" or \"testnet\", got %q", ErrInvalidConfig, c.Network)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.PollIntervalSec < 1 {
		return fmt.Errorf("%w: poll interval must be positive, got %d", ErrInvalidConfig, c.PollIntervalSec)
	}
	if c.MinConfirmations < 1 {
		return fmt.Errorf("%w: min confirmations must be positive, got %d", ErrInvalidConfig, c.MinConfirmations)
	}
	if c.ExplorerRateLimit < 1 {
		return fmt.Errorf("%w: explorer rate limit must be positive, got %d", ErrInvalidConfig, c.ExplorerRateLimit)
	}
	return nil
}
