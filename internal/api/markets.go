package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxBatchCandlestickTickers is the exchange cap per batch candlestick call.
const MaxBatchCandlestickTickers = 100

// GetMarkets fetches a page of markets.
func (c *Client) GetMarkets(ctx context.Context, opts GetMarketsOptions) (*MarketsResponse, error) {
	var resp MarketsResponse
	if err := c.get(ctx, "/markets", marketsQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return &resp, nil
}

// GetMarket fetches a single market by ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (*APIMarket, error) {
	if ticker == "" {
		return nil, &ValidationError{Field: "ticker", Reason: "is required"}
	}

	var resp SingleMarketResponse
	if err := c.get(ctx, "/markets/"+ticker, nil, &resp); err != nil {
		return nil, fmt.Errorf("get market %s: %w", ticker, err)
	}
	return &resp.Market, nil
}

// GetHistoricalCutoff fetches the boundary between live and archived market
// data. Timestamps are epoch seconds.
func (c *Client) GetHistoricalCutoff(ctx context.Context) (*CutoffResponse, error) {
	var resp CutoffResponse
	if err := c.get(ctx, "/historical/cutoff", nil, &resp); err != nil {
		return nil, fmt.Errorf("get historical cutoff: %w", err)
	}
	return &resp, nil
}

// GetHistoricalMarkets fetches a page of archived markets.
func (c *Client) GetHistoricalMarkets(ctx context.Context, opts GetMarketsOptions) (*MarketsResponse, error) {
	var resp MarketsResponse
	if err := c.get(ctx, "/historical/markets", marketsQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("get historical markets: %w", err)
	}
	return &resp, nil
}

// GetMarketCandlesticks fetches OHLC bars for a live market.
func (c *Client) GetMarketCandlesticks(ctx context.Context, ticker string, opts CandlestickOptions) (*CandlesticksResponse, error) {
	if ticker == "" {
		return nil, &ValidationError{Field: "ticker", Reason: "is required"}
	}

	var resp CandlesticksResponse
	if err := c.get(ctx, "/markets/"+ticker+"/candlesticks", candlestickQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("get candlesticks %s: %w", ticker, err)
	}
	return &resp, nil
}

// GetHistoricalCandlesticks fetches OHLC bars for an archived market.
func (c *Client) GetHistoricalCandlesticks(ctx context.Context, ticker string, opts CandlestickOptions) (*CandlesticksResponse, error) {
	if ticker == "" {
		return nil, &ValidationError{Field: "ticker", Reason: "is required"}
	}

	var resp CandlesticksResponse
	if err := c.get(ctx, "/historical/markets/"+ticker+"/candlesticks", candlestickQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("get historical candlesticks %s: %w", ticker, err)
	}
	return &resp, nil
}

// GetBatchCandlesticks fetches OHLC bars for up to 100 tickers in one call.
func (c *Client) GetBatchCandlesticks(ctx context.Context, tickers []string, opts CandlestickOptions) (*BatchCandlesticksResponse, error) {
	if len(tickers) == 0 {
		return nil, &ValidationError{Field: "tickers", Reason: "at least one is required"}
	}
	if len(tickers) > MaxBatchCandlestickTickers {
		return nil, &ValidationError{
			Field:  "tickers",
			Reason: fmt.Sprintf("at most %d per call, got %d", MaxBatchCandlestickTickers, len(tickers)),
		}
	}

	query := candlestickQuery(opts)
	query.Set("tickers", strings.Join(tickers, ","))

	var resp BatchCandlesticksResponse
	if err := c.get(ctx, "/markets/candlesticks", query, &resp); err != nil {
		return nil, fmt.Errorf("get batch candlesticks: %w", err)
	}
	return &resp, nil
}

func marketsQuery(opts GetMarketsOptions) url.Values {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.EventTicker != "" {
		query.Set("event_ticker", opts.EventTicker)
	}
	if opts.SeriesTicker != "" {
		query.Set("series_ticker", opts.SeriesTicker)
	}
	if len(opts.Tickers) > 0 {
		query.Set("tickers", strings.Join(opts.Tickers, ","))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	return query
}

func candlestickQuery(opts CandlestickOptions) url.Values {
	query := url.Values{}

	if opts.StartTS > 0 {
		query.Set("start_ts", strconv.FormatInt(opts.StartTS, 10))
	}
	if opts.EndTS > 0 {
		query.Set("end_ts", strconv.FormatInt(opts.EndTS, 10))
	}
	if opts.PeriodInterval > 0 {
		query.Set("period_interval", strconv.Itoa(opts.PeriodInterval))
	}

	return query
}
