package config

import "time"

// Environment names.
const (
	EnvProduction = "production"
	EnvSandbox    = "sandbox"
)

// Base URLs per environment.
var environmentURLs = map[string]string{
	EnvProduction: "https://api.elections.kalshi.com/trade-api/v2",
	EnvSandbox:    "https://demo-api.kalshi.co/trade-api/v2",
}

// Default values for optional configuration fields. The sandbox default
// keeps a misconfigured run away from real money.
const (
	DefaultEnvironment         = EnvSandbox
	DefaultLogLevel            = "info"
	DefaultAPITimeout          = 30 * time.Second
	DefaultMaxRetries          = 3
	DefaultMaxRateLimitRetries = 5
	DefaultRetryBackoff        = 1 * time.Second
	DefaultMaxPages            = 50
	DefaultTradeLogPath        = "trades.jsonl"
)

// BaseURLFor returns the REST base URL for a known environment, or "" for
// an unknown one.
func BaseURLFor(environment string) string {
	return environmentURLs[environment]
}

func (c *Config) applyDefaults() {
	if c.API.Environment == "" {
		c.API.Environment = DefaultEnvironment
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = BaseURLFor(c.API.Environment)
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.MaxRateLimitRetries == 0 {
		c.API.MaxRateLimitRetries = DefaultMaxRateLimitRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	if c.Portfolio.MaxPages == 0 {
		c.Portfolio.MaxPages = DefaultMaxPages
	}

	if c.TradeLog.Path == "" {
		c.TradeLog.Path = DefaultTradeLogPath
	}
}
