package api

import (
	"time"

	"github.com/rickgao/kalshi-trader/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp to microseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestamp(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return 0
		}
	}

	return t.UnixMicro()
}

// ToModel converts an APIPosition to model.Position. The signed position
// field encodes the side; exposure is normalized to a positive cost basis.
func (p *APIPosition) ToModel() model.Position {
	side := model.SideYes
	qty := p.Position
	if qty < 0 {
		side = model.SideNo
		qty = -qty
	}

	cost := p.MarketExposure
	if cost < 0 {
		cost = -cost
	}

	avg := 0
	if qty > 0 {
		avg = cost / qty
	}

	return model.Position{
		Ticker:   p.Ticker,
		Side:     side,
		Quantity: qty,
		AvgPrice: avg,
		Cost:     cost,
	}
}

// ToModel converts an APIFill to model.Fill. Price is reported in the terms
// of the side that was traded.
func (f *APIFill) ToModel() model.Fill {
	price := f.YesPrice
	if model.Side(f.Side) == model.SideNo {
		price = f.NoPrice
	}

	return model.Fill{
		TradeID:   f.TradeID,
		OrderID:   f.OrderID,
		Ticker:    f.Ticker,
		Side:      model.Side(f.Side),
		Action:    model.Action(f.Action),
		Count:     f.Count,
		Price:     price,
		Fee:       f.Fee,
		CreatedTS: ParseTimestamp(f.CreatedTime),
	}
}

// ToModel converts an APISettlement to model.Settlement.
func (s *APISettlement) ToModel() model.Settlement {
	return model.Settlement{
		Ticker:    s.Ticker,
		Result:    s.MarketResult,
		Revenue:   s.Revenue,
		Cost:      s.Cost,
		Fee:       s.Fee,
		SettledTS: ParseTimestamp(s.SettledTime),
	}
}

// ToModel converts an APIOrder to model.Order.
func (o *APIOrder) ToModel() model.Order {
	return model.Order{
		OrderID:        o.OrderID,
		ClientOrderID:  o.ClientOrderID,
		Ticker:         o.Ticker,
		Side:           model.Side(o.Side),
		Action:         model.Action(o.Action),
		Type:           model.OrderType(o.Type),
		Count:          o.Count,
		RemainingCount: o.RemainingCount,
		YesPrice:       o.YesPrice,
		Status:         o.Status,
	}
}

// ToSnapshot converts an APIMarket to a model.PriceSnapshot.
func (m *APIMarket) ToSnapshot() model.PriceSnapshot {
	return model.PriceSnapshot{
		Ticker:    m.Ticker,
		Title:     m.Title,
		YesBid:    m.YesBid,
		YesAsk:    m.YesAsk,
		NoBid:     m.NoBid,
		NoAsk:     m.NoAsk,
		LastPrice: m.LastPrice,
		Status:    m.Status,
		Result:    m.Result,
	}
}
