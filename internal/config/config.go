package config

import (
	"log/slog"
	"time"
)

// Config is the root configuration for the trader.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	TradeLog  TradeLogConfig  `yaml:"trade_log"`
	LogLevel  string          `yaml:"log_level"` // debug, info, warn or error
}

// APIConfig holds Kalshi API settings. PrivateKey accepts either a path to
// a PEM file or the PEM text itself.
type APIConfig struct {
	Environment         string        `yaml:"environment"` // sandbox or production
	BaseURL             string        `yaml:"base_url"`    // overrides the environment default
	APIKey              string        `yaml:"api_key"`     // API key ID (for KALSHI-ACCESS-KEY header)
	PrivateKey          string        `yaml:"private_key"`
	Timeout             time.Duration `yaml:"timeout"`
	MaxRetries          int           `yaml:"max_retries"`
	MaxRateLimitRetries int           `yaml:"max_rate_limit_retries"`
	RetryBackoff        time.Duration `yaml:"retry_backoff"`
}

// PortfolioConfig holds portfolio reporting settings.
type PortfolioConfig struct {
	MaxPages int `yaml:"max_pages"` // pagination cap per listing sweep
}

// TradeLogConfig holds the local trade event log settings.
type TradeLogConfig struct {
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"` // nil means enabled
}

// LogEnabled reports whether trade logging is on.
func (c TradeLogConfig) LogEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
