package pnl

import "github.com/rickgao/kalshi-trader/internal/model"

// How a position's per-contract price was resolved.
const (
	PricingMidpoint  = "midpoint"
	PricingLastPrice = "last_price"
	PricingDegraded  = "degraded" // no quotes and no last price; valued at zero
	PricingSettled   = "settled"
)

// Valuation is the marked value of one open position.
type Valuation struct {
	Ticker        string
	Side          model.Side
	Quantity      int
	Price         int    // resolved per-contract price (cents)
	Cost          int    // quantity x average entry price
	Value         int    // quantity x resolved price
	UnrealizedPnL int    // value - cost
	Pricing       string // how Price was resolved
}

// ValuePosition marks a position against a price snapshot.
//
// Settled markets pay 100 per contract on the winning side and 0 on the
// losing side. Open markets use the held side's bid/ask midpoint, rounded
// down, when both quotes are live; a dead book falls back to the last traded
// price, and a market with no trade history values at zero with the
// valuation flagged degraded.
func ValuePosition(pos model.Position, snap model.PriceSnapshot) Valuation {
	price, pricing := resolvePrice(pos.Side, snap)

	cost := pos.Quantity * pos.AvgPrice
	value := pos.Quantity * price

	return Valuation{
		Ticker:        pos.Ticker,
		Side:          pos.Side,
		Quantity:      pos.Quantity,
		Price:         price,
		Cost:          cost,
		Value:         value,
		UnrealizedPnL: value - cost,
		Pricing:       pricing,
	}
}

func resolvePrice(side model.Side, snap model.PriceSnapshot) (int, string) {
	if snap.Settled() {
		if string(side) == snap.Result {
			return 100, PricingSettled
		}
		return 0, PricingSettled
	}

	bid, ask := snap.YesBid, snap.YesAsk
	if side == model.SideNo {
		bid, ask = snap.NoBid, snap.NoAsk
	}

	if bid > 0 && ask > 0 {
		return (bid + ask) / 2, PricingMidpoint
	}

	if snap.LastPrice > 0 {
		last := snap.LastPrice
		if side == model.SideNo {
			last = 100 - last
		}
		return last, PricingLastPrice
	}

	return 0, PricingDegraded
}

// UnrealizedReport aggregates valuations over a set of positions. Tickers
// whose market lookup failed are listed in Errors; their positions are
// skipped, never counted as zero.
type UnrealizedReport struct {
	Valuations    []Valuation
	TotalCost     int
	TotalValue    int
	UnrealizedPnL int
	Errors        []string
}

// Add folds one valuation into the report totals.
func (r *UnrealizedReport) Add(v Valuation) {
	r.Valuations = append(r.Valuations, v)
	r.TotalCost += v.Cost
	r.TotalValue += v.Value
	r.UnrealizedPnL += v.UnrealizedPnL
}

// AddError records a per-ticker lookup failure without aborting the report.
func (r *UnrealizedReport) AddError(ticker string, err error) {
	r.Errors = append(r.Errors, ticker+": "+err.Error())
}
