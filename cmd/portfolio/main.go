package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rickgao/kalshi-trader/internal/api"
	"github.com/rickgao/kalshi-trader/internal/auth"
	"github.com/rickgao/kalshi-trader/internal/config"
	"github.com/rickgao/kalshi-trader/internal/portfolio"
)

// One-shot portfolio summary printer, suitable for cron or shell pipelines.
func main() {
	configPath := flag.String("config", "", "path to config file (defaults to environment variables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	signer, err := auth.New(cfg.API.APIKey, cfg.API.PrivateKey)
	if err != nil {
		logger.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.API.BaseURL, signer,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithRateLimitRetries(cfg.API.MaxRateLimitRetries),
		api.WithLogger(logger),
	)
	tracker := portfolio.New(client, logger, cfg.Portfolio.MaxPages)

	summary, err := tracker.Summary(context.Background())
	if err != nil {
		logger.Error("failed to build summary", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Cash balance:    %s\n", dollars(int(summary.Balance.Balance)))
	fmt.Printf("Portfolio value: %s\n", dollars(int(summary.Balance.PortfolioValue)))
	fmt.Printf("Open positions:  %d\n", len(summary.Positions))
	fmt.Printf("Unrealized P&L:  %s\n", dollars(summary.Unrealized.UnrealizedPnL))
	fmt.Printf("Realized P&L:    %s (%d entries)\n", dollars(summary.Realized.NetPnL), len(summary.Realized.Entries))

	for _, v := range summary.Unrealized.Valuations {
		fmt.Printf("  %-24s %-4s %4d @ %2d¢  pnl %s\n",
			v.Ticker, v.Side, v.Quantity, v.Price, dollars(v.UnrealizedPnL))
	}
	for _, e := range summary.Unrealized.Errors {
		fmt.Fprintf(os.Stderr, "could not value %s\n", e)
	}
	for _, w := range summary.Realized.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func dollars(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
