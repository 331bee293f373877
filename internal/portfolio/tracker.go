// Package portfolio assembles account-level reports: open positions,
// unrealized valuation against live quotes, and the realized P&L ledger.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/kalshi-trader/internal/api"
	"github.com/rickgao/kalshi-trader/internal/model"
	"github.com/rickgao/kalshi-trader/internal/pnl"
)

// Tracker fetches portfolio state through the API client and computes
// P&L reports. Stateless between calls; every report is a fresh fetch.
type Tracker struct {
	client   *api.Client
	logger   *slog.Logger
	maxPages int
}

// New creates a Tracker. maxPages caps each pagination sweep; 0 uses the
// client default.
func New(client *api.Client, logger *slog.Logger, maxPages int) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{client: client, logger: logger, maxPages: maxPages}
}

// Balance fetches the account cash balance.
func (t *Tracker) Balance(ctx context.Context) (*model.Balance, error) {
	return t.client.GetBalance(ctx)
}

// OpenPositions fetches all positions with contracts outstanding.
func (t *Tracker) OpenPositions(ctx context.Context) ([]model.Position, error) {
	positions, truncated, err := t.client.GetAllPositions(ctx, t.maxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	if truncated {
		t.logger.Warn("position listing truncated at page cap", "max_pages", t.maxPages)
	}

	open := positions[:0]
	for _, p := range positions {
		if p.Open() {
			open = append(open, p)
		}
	}
	return open, nil
}

// Unrealized values every open position against a fresh market snapshot.
// A failed market lookup degrades that ticker into the report's error list
// instead of aborting the batch.
func (t *Tracker) Unrealized(ctx context.Context) (*pnl.UnrealizedReport, error) {
	positions, err := t.OpenPositions(ctx)
	if err != nil {
		return nil, err
	}

	var report pnl.UnrealizedReport
	for _, pos := range positions {
		market, err := t.client.GetMarket(ctx, pos.Ticker)
		if err != nil {
			t.logger.Warn("market lookup failed, skipping position",
				"ticker", pos.Ticker,
				"err", err,
			)
			report.AddError(pos.Ticker, err)
			continue
		}
		report.Add(pnl.ValuePosition(pos, market.ToSnapshot()))
	}
	return &report, nil
}

// Realized reconciles the full settlement and fill history into a realized
// P&L ledger.
func (t *Tracker) Realized(ctx context.Context) (*pnl.RealizedReport, error) {
	settlements, truncated, err := t.client.GetAllSettlements(ctx, t.maxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch settlements: %w", err)
	}
	if truncated {
		t.logger.Warn("settlement listing truncated at page cap", "max_pages", t.maxPages)
	}

	fills, truncated, err := t.client.GetAllFills(ctx, t.maxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch fills: %w", err)
	}
	if truncated {
		t.logger.Warn("fill listing truncated at page cap", "max_pages", t.maxPages)
	}

	report := pnl.Reconcile(settlements, fills)
	for _, w := range report.Warnings {
		t.logger.Warn("realized pnl ambiguity", "warning", w)
	}
	return &report, nil
}

// Summary is a full portfolio report assembled from one pass over the
// account endpoints.
type Summary struct {
	Balance    *model.Balance
	Positions  []model.Position
	Unrealized *pnl.UnrealizedReport
	Realized   *pnl.RealizedReport
}

// Summary builds the combined report.
func (t *Tracker) Summary(ctx context.Context) (*Summary, error) {
	balance, err := t.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	unrealized, err := t.Unrealized(ctx)
	if err != nil {
		return nil, err
	}

	realized, err := t.Realized(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := t.OpenPositions(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Balance:    balance,
		Positions:  positions,
		Unrealized: unrealized,
		Realized:   realized,
	}, nil
}
