package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if strings.HasPrefix(c.API.APIKey, "your_") {
		return errors.New("api.api_key is a placeholder, set a real key ID")
	}
	if c.API.PrivateKey == "" {
		return errors.New("api.private_key is required")
	}
	if strings.HasPrefix(c.API.PrivateKey, "your_") {
		return errors.New("api.private_key is a placeholder, set real key material")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("unknown environment %q and no api.base_url set", c.API.Environment)
	}
	if c.API.Environment != EnvProduction && c.API.Environment != EnvSandbox {
		return fmt.Errorf("api.environment must be %q or %q, got %q", EnvSandbox, EnvProduction, c.API.Environment)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.MaxRateLimitRetries < 0 {
		return errors.New("api.max_rate_limit_retries must be >= 0")
	}
	if c.Portfolio.MaxPages < 1 {
		return errors.New("portfolio.max_pages must be >= 1")
	}

	return nil
}
