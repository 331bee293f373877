package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names used by FromEnv.
const (
	EnvVarAPIKey      = "KALSHI_API_KEY"
	EnvVarAPISecret   = "KALSHI_API_SECRET" // PEM path or inline PEM text
	EnvVarEnvironment = "KALSHI_ENVIRONMENT"
	EnvVarLogLevel    = "LOG_LEVEL"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a config from environment variables, loading a .env file
// first when one exists. Useful for deployments without a config file.
func FromEnv() (*Config, error) {
	// Missing .env is fine; real env vars may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			APIKey:      os.Getenv(EnvVarAPIKey),
			PrivateKey:  os.Getenv(EnvVarAPISecret),
			Environment: strings.ToLower(os.Getenv(EnvVarEnvironment)),
		},
		LogLevel: strings.ToLower(os.Getenv(EnvVarLogLevel)),
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
