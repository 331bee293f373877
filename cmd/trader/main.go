package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rickgao/kalshi-trader/internal/api"
	"github.com/rickgao/kalshi-trader/internal/auth"
	"github.com/rickgao/kalshi-trader/internal/config"
	"github.com/rickgao/kalshi-trader/internal/model"
	"github.com/rickgao/kalshi-trader/internal/portfolio"
	"github.com/rickgao/kalshi-trader/internal/tradelog"
	"github.com/rickgao/kalshi-trader/internal/trading"
	"github.com/rickgao/kalshi-trader/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to environment variables)")
	flag.Parse()

	// Keep stdout clean for the menu; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
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

	var recorder trading.EventRecorder
	var log *tradelog.Log
	if cfg.TradeLog.LogEnabled() {
		log, err = tradelog.New(cfg.TradeLog.Path, logger)
		if err != nil {
			logger.Warn("trade log unavailable, continuing without it", "error", err)
		} else {
			recorder = log
		}
	}

	app := &app{
		executor: trading.New(client, recorder, logger),
		tracker:  portfolio.New(client, logger, cfg.Portfolio.MaxPages),
		log:      log,
		stdin:    bufio.NewScanner(os.Stdin),
	}

	fmt.Printf("Kalshi trader %s (%s environment)\n", version.Version, cfg.API.Environment)
	app.run(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadAndValidate(path)
	}
	return config.FromEnv()
}

type app struct {
	executor *trading.Executor
	tracker  *portfolio.Tracker
	log      *tradelog.Log
	stdin    *bufio.Scanner
}

func (a *app) run(ctx context.Context) {
	for {
		fmt.Println("\n  -------------------------")
		fmt.Println("  1. Portfolio summary")
		fmt.Println("  2. Search markets")
		fmt.Println("  3. Place order")
		fmt.Println("  4. View open orders")
		fmt.Println("  5. Cancel an order")
		fmt.Println("  6. Trade history")
		fmt.Println("  7. Exit")
		fmt.Println("  -------------------------")

		switch a.prompt("Enter choice (1-7): ") {
		case "1":
			a.showPortfolio(ctx)
		case "2":
			a.searchMarkets(ctx)
		case "3":
			a.placeOrder(ctx)
		case "4":
			a.showOpenOrders(ctx)
		case "5":
			a.cancelOrder(ctx)
		case "6":
			a.showHistory()
		case "7":
			fmt.Println("  Goodbye!")
			return
		default:
			fmt.Println("  Invalid choice. Please enter 1-7.")
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Printf("\n  %s", label)
	if !a.stdin.Scan() {
		return "7" // EOF exits
	}
	return strings.TrimSpace(a.stdin.Text())
}

func (a *app) promptInt(label string, min, max int) (int, bool) {
	for {
		text := a.prompt(label)
		if text == "" {
			return 0, false
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < min || (max > 0 && n > max) {
			fmt.Println("  Error: please enter a valid number")
			continue
		}
		return n, true
	}
}

func (a *app) confirm(label string) bool {
	return a.prompt(label+" (yes/no): ") == "yes"
}

func (a *app) showPortfolio(ctx context.Context) {
	fmt.Println("\n  Fetching portfolio...")
	summary, err := a.tracker.Summary(ctx)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("\n  Cash balance:    %s\n", dollars(int(summary.Balance.Balance)))
	fmt.Printf("  Portfolio value: %s\n", dollars(int(summary.Balance.PortfolioValue)))

	if len(summary.Positions) == 0 {
		fmt.Println("\n  No open positions.")
	} else {
		fmt.Printf("\n  %-20s %-5s %6s %8s %8s %10s\n", "Ticker", "Side", "Qty", "Avg", "Mark", "Unrl P&L")
		for _, v := range summary.Unrealized.Valuations {
			fmt.Printf("  %-20s %-5s %6d %7d¢ %7d¢ %10s\n",
				v.Ticker, v.Side, v.Quantity, v.Cost/nonzero(v.Quantity), v.Price, dollars(v.UnrealizedPnL))
		}
		fmt.Printf("\n  Unrealized P&L: %s\n", dollars(summary.Unrealized.UnrealizedPnL))
	}
	for _, e := range summary.Unrealized.Errors {
		fmt.Printf("  (could not value %s)\n", e)
	}

	fmt.Printf("  Realized P&L:   %s (%d entries)\n", dollars(summary.Realized.NetPnL), len(summary.Realized.Entries))
	for _, w := range summary.Realized.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
}

func (a *app) searchMarkets(ctx context.Context) {
	query := a.prompt("Search term (or press Enter to browse): ")
	series := strings.ToUpper(a.prompt("Series ticker (or press Enter to skip): "))

	results, err := a.executor.SearchMarkets(ctx, query, series, 20)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("  No markets found.")
		return
	}

	fmt.Printf("\n  %-28s %6s %6s  %s\n", "Ticker", "Bid", "Ask", "Title")
	for _, m := range results {
		fmt.Printf("  %-28s %5d¢ %5d¢  %s\n", m.Ticker, m.YesBid, m.YesAsk, m.Title)
	}
	fmt.Println("\n  Tip: copy a ticker from above to use when placing orders.")
}

func (a *app) placeOrder(ctx context.Context) {
	ticker := strings.ToUpper(a.prompt("Market ticker: "))
	if ticker == "" {
		fmt.Println("  Cancelled.")
		return
	}
	if !a.executor.ValidateTicker(ctx, ticker) {
		fmt.Println("  Error: this market is not open for trading.")
		return
	}

	side := model.Side(a.prompt("Side (yes/no): "))
	if !side.Valid() {
		fmt.Println("  Error: side must be 'yes' or 'no'")
		return
	}

	quantity, ok := a.promptInt("Quantity: ", 1, 0)
	if !ok {
		fmt.Println("  Cancelled.")
		return
	}

	var order *model.Order
	var err error
	if a.confirm("Limit order?") {
		price, ok := a.promptInt("Limit price (1-99 cents): ", 1, 99)
		if !ok {
			fmt.Println("  Cancelled.")
			return
		}
		if !a.confirm(fmt.Sprintf("Buy %d %s @ %d¢ on %s?", quantity, side, price, ticker)) {
			fmt.Println("  Cancelled.")
			return
		}
		order, err = a.executor.PlaceLimitOrder(ctx, ticker, side, quantity, price)
	} else {
		if !a.confirm(fmt.Sprintf("Buy %d %s @ market on %s?", quantity, side, ticker)) {
			fmt.Println("  Cancelled.")
			return
		}
		order, err = a.executor.PlaceMarketOrder(ctx, ticker, side, quantity)
	}

	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Order placed: %s (status %s)\n", order.OrderID, order.Status)
}

func (a *app) showOpenOrders(ctx context.Context) {
	orders, err := a.executor.OpenOrders(ctx)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("  No open orders.")
		return
	}

	fmt.Printf("\n  %-38s %-20s %-5s %6s %6s\n", "Order ID", "Ticker", "Side", "Qty", "Price")
	for _, o := range orders {
		fmt.Printf("  %-38s %-20s %-5s %6d %5d¢\n",
			o.OrderID, o.Ticker, o.Side, o.RemainingCount, o.YesPrice)
	}
}

func (a *app) cancelOrder(ctx context.Context) {
	orderID := a.prompt("Order ID to cancel: ")
	if orderID == "" {
		fmt.Println("  Cancelled.")
		return
	}
	order, err := a.executor.CancelOrder(ctx, orderID)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Order %s is now %s.\n", order.OrderID, order.Status)
}

func (a *app) showHistory() {
	if a.log == nil {
		fmt.Println("  Trade logging is disabled.")
		return
	}
	events, err := a.log.Recent(20)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	if len(events) == 0 {
		fmt.Println("  No trade events recorded.")
		return
	}

	fmt.Printf("\n  %-25s %-13s %-20s %-5s %5s %6s\n", "Timestamp", "Type", "Ticker", "Side", "Qty", "Price")
	for _, e := range events {
		fmt.Printf("  %-25s %-13s %-20s %-5s %5d %5d¢\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Ticker, e.Side, e.Quantity, e.Price)
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

func nonzero(n int) int {
	if n == 0 {
		return 1
	}
	return n
}
