package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/rickgao/kalshi-trader/internal/model"
)

// Implicit limit prices for market orders: cross the book at the worst
// acceptable price so the exchange fills immediately.
const (
	marketBuyPrice  = 99
	marketSellPrice = 1
)

// ValidationError reports an order rejected locally before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

// OrderParams describes an order to place. Price is in the terms of the
// chosen side and is required for limit orders only.
type OrderParams struct {
	Ticker        string
	Side          model.Side
	Action        model.Action
	Type          model.OrderType
	Count         int
	Price         int    // cents, 1-99; ignored for market orders
	ClientOrderID string // generated when empty
}

// orderPayload is the wire shape for POST /portfolio/orders. The exchange
// takes prices in yes-terms regardless of side.
type orderPayload struct {
	Ticker        string `json:"ticker"`
	Side          string `json:"side"`
	Action        string `json:"action"`
	Type          string `json:"type"`
	Count         int    `json:"count"`
	YesPrice      int    `json:"yes_price"`
	ClientOrderID string `json:"client_order_id"`
}

// validate checks params and resolves the effective side price. Market
// orders take an implicit aggressive price.
func (p *OrderParams) validate() (int, error) {
	if p.Ticker == "" {
		return 0, &ValidationError{Field: "ticker", Reason: "is required"}
	}
	if !p.Side.Valid() {
		return 0, &ValidationError{Field: "side", Reason: `must be "yes" or "no"`}
	}
	if !p.Action.Valid() {
		return 0, &ValidationError{Field: "action", Reason: `must be "buy" or "sell"`}
	}
	if !p.Type.Valid() {
		return 0, &ValidationError{Field: "type", Reason: `must be "market" or "limit"`}
	}
	if p.Count <= 0 {
		return 0, &ValidationError{Field: "count", Reason: "must be positive"}
	}

	if p.Type == model.OrderTypeMarket {
		if p.Action == model.ActionBuy {
			return marketBuyPrice, nil
		}
		return marketSellPrice, nil
	}

	if p.Price < 1 || p.Price > 99 {
		return 0, &ValidationError{Field: "price", Reason: "must be between 1 and 99 cents"}
	}
	return p.Price, nil
}

// PlaceOrder validates params locally and submits the order. Validation
// failures return *ValidationError without touching the network.
func (c *Client) PlaceOrder(ctx context.Context, params OrderParams) (*model.Order, error) {
	price, err := params.validate()
	if err != nil {
		return nil, err
	}

	yesPrice := price
	if params.Side == model.SideNo {
		yesPrice = 100 - price
	}

	clientOrderID := params.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	payload := orderPayload{
		Ticker:        params.Ticker,
		Side:          string(params.Side),
		Action:        string(params.Action),
		Type:          string(params.Type),
		Count:         params.Count,
		YesPrice:      yesPrice,
		ClientOrderID: clientOrderID,
	}

	var resp SingleOrderResponse
	if err := c.post(ctx, "/portfolio/orders", payload, &resp); err != nil {
		return nil, fmt.Errorf("place order %s: %w", params.Ticker, err)
	}

	order := resp.Order.ToModel()
	return &order, nil
}

// CancelOrder cancels a resting order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "order_id", Reason: "is required"}
	}

	var resp SingleOrderResponse
	if err := c.del(ctx, "/portfolio/orders/"+orderID, &resp); err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	order := resp.Order.ToModel()
	return &order, nil
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "order_id", Reason: "is required"}
	}

	var resp SingleOrderResponse
	if err := c.get(ctx, "/portfolio/orders/"+orderID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	order := resp.Order.ToModel()
	return &order, nil
}

// GetOrders fetches a page of orders.
func (c *Client) GetOrders(ctx context.Context, opts GetOrdersOptions) (*OrdersResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Ticker != "" {
		query.Set("ticker", opts.Ticker)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp OrdersResponse
	if err := c.get(ctx, "/portfolio/orders", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	return &resp, nil
}

// GetAllOrders fetches every order page matching opts and converts to model
// types. Cursor in opts is ignored.
func (c *Client) GetAllOrders(ctx context.Context, opts GetOrdersOptions, maxPages int) ([]model.Order, bool, error) {
	raw, truncated, err := CollectPages(ctx, maxPages, func(ctx context.Context, cursor string) (Page[APIOrder], error) {
		opts.Cursor = cursor
		resp, err := c.GetOrders(ctx, opts)
		if err != nil {
			return Page[APIOrder]{}, err
		}
		return Page[APIOrder]{Items: resp.Orders, Cursor: resp.Cursor}, nil
	})
	if err != nil {
		return nil, false, err
	}

	orders := make([]model.Order, 0, len(raw))
	for i := range raw {
		orders = append(orders, raw[i].ToModel())
	}
	return orders, truncated, nil
}
