package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/kalshi-trader/internal/model"
)

// GetBalance fetches the account balance.
func (c *Client) GetBalance(ctx context.Context) (*model.Balance, error) {
	var resp BalanceResponse
	if err := c.get(ctx, "/portfolio/balance", nil, &resp); err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	return &model.Balance{
		Balance:        resp.Balance,
		PortfolioValue: resp.PortfolioValue,
	}, nil
}

// GetPositions fetches a page of positions.
func (c *Client) GetPositions(ctx context.Context, opts GetPositionsOptions) (*PositionsResponse, error) {
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
	if opts.EventTicker != "" {
		query.Set("event_ticker", opts.EventTicker)
	}
	if opts.SettlementStatus != "" {
		query.Set("settlement_status", opts.SettlementStatus)
	}
	if opts.CountFilter != "" {
		query.Set("count_filter", opts.CountFilter)
	}

	var resp PositionsResponse
	if err := c.get(ctx, "/portfolio/positions", query, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	return &resp, nil
}

// GetAllPositions fetches every position page and converts to model types.
// The bool reports whether the page cap truncated the listing.
func (c *Client) GetAllPositions(ctx context.Context, maxPages int) ([]model.Position, bool, error) {
	raw, truncated, err := CollectPages(ctx, maxPages, func(ctx context.Context, cursor string) (Page[APIPosition], error) {
		resp, err := c.GetPositions(ctx, GetPositionsOptions{Cursor: cursor})
		if err != nil {
			return Page[APIPosition]{}, err
		}
		return Page[APIPosition]{Items: resp.Positions, Cursor: resp.Cursor}, nil
	})
	if err != nil {
		return nil, false, err
	}

	positions := make([]model.Position, 0, len(raw))
	for i := range raw {
		positions = append(positions, raw[i].ToModel())
	}
	return positions, truncated, nil
}

// GetFills fetches a page of fills.
func (c *Client) GetFills(ctx context.Context, opts GetFillsOptions) (*FillsResponse, error) {
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
	if opts.OrderID != "" {
		query.Set("order_id", opts.OrderID)
	}
	if opts.MinTS > 0 {
		query.Set("min_ts", strconv.FormatInt(opts.MinTS, 10))
	}
	if opts.MaxTS > 0 {
		query.Set("max_ts", strconv.FormatInt(opts.MaxTS, 10))
	}

	var resp FillsResponse
	if err := c.get(ctx, "/portfolio/fills", query, &resp); err != nil {
		return nil, fmt.Errorf("get fills: %w", err)
	}

	return &resp, nil
}

// GetAllFills fetches every fill page and converts to model types.
func (c *Client) GetAllFills(ctx context.Context, maxPages int) ([]model.Fill, bool, error) {
	raw, truncated, err := CollectPages(ctx, maxPages, func(ctx context.Context, cursor string) (Page[APIFill], error) {
		resp, err := c.GetFills(ctx, GetFillsOptions{Cursor: cursor})
		if err != nil {
			return Page[APIFill]{}, err
		}
		return Page[APIFill]{Items: resp.Fills, Cursor: resp.Cursor}, nil
	})
	if err != nil {
		return nil, false, err
	}

	fills := make([]model.Fill, 0, len(raw))
	for i := range raw {
		fills = append(fills, raw[i].ToModel())
	}
	return fills, truncated, nil
}

// GetSettlements fetches a page of settlements.
func (c *Client) GetSettlements(ctx context.Context, opts GetSettlementsOptions) (*SettlementsResponse, error) {
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
	if opts.MinTS > 0 {
		query.Set("min_ts", strconv.FormatInt(opts.MinTS, 10))
	}
	if opts.MaxTS > 0 {
		query.Set("max_ts", strconv.FormatInt(opts.MaxTS, 10))
	}

	var resp SettlementsResponse
	if err := c.get(ctx, "/portfolio/settlements", query, &resp); err != nil {
		return nil, fmt.Errorf("get settlements: %w", err)
	}

	return &resp, nil
}

// GetAllSettlements fetches every settlement page and converts to model types.
func (c *Client) GetAllSettlements(ctx context.Context, maxPages int) ([]model.Settlement, bool, error) {
	raw, truncated, err := CollectPages(ctx, maxPages, func(ctx context.Context, cursor string) (Page[APISettlement], error) {
		resp, err := c.GetSettlements(ctx, GetSettlementsOptions{Cursor: cursor})
		if err != nil {
			return Page[APISettlement]{}, err
		}
		return Page[APISettlement]{Items: resp.Settlements, Cursor: resp.Cursor}, nil
	})
	if err != nil {
		return nil, false, err
	}

	settlements := make([]model.Settlement, 0, len(raw))
	for i := range raw {
		settlements = append(settlements, raw[i].ToModel())
	}
	return settlements, truncated, nil
}
