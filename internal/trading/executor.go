// Package trading wraps the API client with higher-level order operations
// and records every outcome in the trade log.
package trading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rickgao/kalshi-trader/internal/api"
	"github.com/rickgao/kalshi-trader/internal/model"
)

// PopularSeries are well-known series tickers, searched in order when a
// market search has no series filter.
var PopularSeries = []string{
	// Crypto
	"KXBTC",
	"KXETH",
	// Financial / economic
	"INXD",
	"KXFED",
	"KXCPI",
	"KXGDP",
	"KXJOBS",
	"KXRATE",
	// Politics
	"PRES",
	"KXELECT",
	// Sports
	"KXNBA",
	"KXNFL",
	"KXMLB",
	"KXNHL",
	"KXSOCCER",
	"KXNCAAMB",
	// Entertainment
	"KXFIRSTSUPERBOWLSONG",
	"KXSUPERBOWL",
	"KXOSCARS",
	"KXGRAMMYS",
	"KXEMMYS",
}

// EventRecorder receives trade lifecycle events. Implementations must not
// be relied on for control flow; the Executor swallows their failures.
type EventRecorder interface {
	RecordSubmission(order *model.Order) error
	RecordCancellation(orderID string) error
	RecordError(msg, ticker string) error
}

// Executor performs trading operations through an API client, optionally
// recording events. A nil recorder disables recording.
type Executor struct {
	client   *api.Client
	recorder EventRecorder
	logger   *slog.Logger
}

// New creates an Executor. recorder may be nil.
func New(client *api.Client, recorder EventRecorder, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{client: client, recorder: recorder, logger: logger}
}

// PlaceMarketOrder buys contracts at the current market price.
func (e *Executor) PlaceMarketOrder(ctx context.Context, ticker string, side model.Side, quantity int) (*model.Order, error) {
	order, err := e.client.PlaceOrder(ctx, api.OrderParams{
		Ticker: ticker,
		Side:   side,
		Action: model.ActionBuy,
		Type:   model.OrderTypeMarket,
		Count:  quantity,
	})
	if err != nil {
		e.recordError(fmt.Sprintf("market order failed: %v", err), ticker)
		return nil, fmt.Errorf("place market order: %w", err)
	}

	e.logger.Info("market order placed",
		"ticker", ticker,
		"side", side,
		"quantity", quantity,
		"order_id", order.OrderID,
	)
	e.recordSubmission(order)
	return order, nil
}

// PlaceLimitOrder buys contracts at the given limit price in cents.
func (e *Executor) PlaceLimitOrder(ctx context.Context, ticker string, side model.Side, quantity, price int) (*model.Order, error) {
	order, err := e.client.PlaceOrder(ctx, api.OrderParams{
		Ticker: ticker,
		Side:   side,
		Action: model.ActionBuy,
		Type:   model.OrderTypeLimit,
		Count:  quantity,
		Price:  price,
	})
	if err != nil {
		e.recordError(fmt.Sprintf("limit order failed: %v", err), ticker)
		return nil, fmt.Errorf("place limit order: %w", err)
	}

	e.logger.Info("limit order placed",
		"ticker", ticker,
		"side", side,
		"quantity", quantity,
		"price", price,
		"order_id", order.OrderID,
	)
	e.recordSubmission(order)
	return order, nil
}

// CancelOrder cancels a resting order.
func (e *Executor) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := e.client.CancelOrder(ctx, orderID)
	if err != nil {
		e.recordError(fmt.Sprintf("cancel failed: %v", err), "")
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	e.logger.Info("order canceled", "order_id", orderID)
	e.recordCancellation(orderID)
	return order, nil
}

// OrderStatus fetches the current state of an order.
func (e *Executor) OrderStatus(ctx context.Context, orderID string) (*model.Order, error) {
	return e.client.GetOrder(ctx, orderID)
}

// OpenOrders lists all resting orders.
func (e *Executor) OpenOrders(ctx context.Context) ([]model.Order, error) {
	orders, _, err := e.client.GetAllOrders(ctx, api.GetOrdersOptions{Status: "resting"}, 0)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	return orders, nil
}

// MarketInfo fetches a market snapshot by ticker.
func (e *Executor) MarketInfo(ctx context.Context, ticker string) (*model.PriceSnapshot, error) {
	m, err := e.client.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}
	snap := m.ToSnapshot()
	return &snap, nil
}

// ValidateTicker reports whether the ticker names an open, tradable market.
func (e *Executor) ValidateTicker(ctx context.Context, ticker string) bool {
	snap, err := e.MarketInfo(ctx, ticker)
	if err != nil {
		return false
	}
	return snap.Status == "active" || snap.Status == "open"
}

// SearchMarkets finds open markets whose ticker or title matches query,
// case-insensitively. With a series ticker only that series is searched;
// otherwise popular series are swept in order, falling back to an unfiltered
// scan when nothing matched. Results are deduplicated and capped at limit.
func (e *Executor) SearchMarkets(ctx context.Context, query, seriesTicker string, limit int) ([]model.PriceSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	if query == "" {
		resp, err := e.client.GetMarkets(ctx, api.GetMarketsOptions{
			Limit:        limit,
			Status:       "open",
			SeriesTicker: seriesTicker,
		})
		if err != nil {
			return nil, fmt.Errorf("search markets: %w", err)
		}
		return snapshots(resp.Markets), nil
	}

	queryLower := strings.ToLower(query)
	seen := make(map[string]bool)
	var matches []model.PriceSnapshot

	series := PopularSeries
	if seriesTicker != "" {
		series = []string{seriesTicker}
	}

	for _, s := range series {
		resp, err := e.client.GetMarkets(ctx, api.GetMarketsOptions{
			Limit:        100,
			Status:       "open",
			SeriesTicker: s,
		})
		if err != nil {
			// Unknown series are skipped, not fatal.
			e.logger.Debug("series search failed", "series", s, "err", err)
			continue
		}

		matches = appendMatches(matches, seen, resp.Markets, queryLower, limit)
		if len(matches) >= limit {
			return matches[:limit], nil
		}
	}

	// Nothing in the popular series; scan the first few unfiltered pages.
	if len(matches) == 0 && seriesTicker == "" {
		cursor := ""
		for page := 0; page < 3; page++ {
			resp, err := e.client.GetMarkets(ctx, api.GetMarketsOptions{
				Limit:  100,
				Status: "open",
				Cursor: cursor,
			})
			if err != nil {
				return nil, fmt.Errorf("search markets: %w", err)
			}

			matches = appendMatches(matches, seen, resp.Markets, queryLower, limit)
			cursor = resp.Cursor
			if cursor == "" || len(matches) >= limit {
				break
			}
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func appendMatches(matches []model.PriceSnapshot, seen map[string]bool, markets []api.APIMarket, queryLower string, limit int) []model.PriceSnapshot {
	for i := range markets {
		m := &markets[i]
		if seen[m.Ticker] || len(matches) >= limit {
			continue
		}
		if strings.Contains(strings.ToLower(m.Title), queryLower) ||
			strings.Contains(strings.ToLower(m.Ticker), queryLower) {
			matches = append(matches, m.ToSnapshot())
			seen[m.Ticker] = true
		}
	}
	return matches
}

func snapshots(markets []api.APIMarket) []model.PriceSnapshot {
	out := make([]model.PriceSnapshot, 0, len(markets))
	for i := range markets {
		out = append(out, markets[i].ToSnapshot())
	}
	return out
}

// Recorder failures must never affect trading; each call is guarded.

func (e *Executor) recordSubmission(order *model.Order) {
	if e.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("trade recorder panicked", "err", r)
		}
	}()
	if err := e.recorder.RecordSubmission(order); err != nil {
		e.logger.Warn("record submission failed", "err", err)
	}
}

func (e *Executor) recordCancellation(orderID string) {
	if e.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("trade recorder panicked", "err", r)
		}
	}()
	if err := e.recorder.RecordCancellation(orderID); err != nil {
		e.logger.Warn("record cancellation failed", "err", err)
	}
}

func (e *Executor) recordError(msg, ticker string) {
	if e.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("trade recorder panicked", "err", r)
		}
	}()
	if err := e.recorder.RecordError(msg, ticker); err != nil {
		e.logger.Warn("record error failed", "err", err)
	}
}
