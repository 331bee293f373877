package api

import "encoding/json"

// BalanceResponse from GET /portfolio/balance
type BalanceResponse struct {
	Balance        int64 `json:"balance"`
	PortfolioValue int64 `json:"portfolio_value"`
}

// APIPosition represents a market position from the Kalshi API. Position is
// signed: positive means YES contracts held, negative means NO.
type APIPosition struct {
	Ticker         string `json:"ticker"`
	Position       int    `json:"position"`
	MarketExposure int    `json:"market_exposure"`
	RealizedPnL    int    `json:"realized_pnl"`
	TotalTraded    int    `json:"total_traded"`
	RestingOrders  int    `json:"resting_orders_count"`
	FeesPaid       int    `json:"fees_paid"`
	LastUpdatedTS  string `json:"last_updated_ts"`
}

// PositionsResponse from GET /portfolio/positions. The list field has shipped
// under two names; UnmarshalJSON accepts either.
type PositionsResponse struct {
	Positions []APIPosition
	Cursor    string
}

// UnmarshalJSON decodes the response, preferring "market_positions" and
// falling back to "positions".
func (r *PositionsResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		MarketPositions []APIPosition `json:"market_positions"`
		Positions       []APIPosition `json:"positions"`
		Cursor          string        `json:"cursor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Cursor = raw.Cursor
	if raw.MarketPositions != nil {
		r.Positions = raw.MarketPositions
	} else {
		r.Positions = raw.Positions
	}
	return nil
}

// APIOrder represents an order from the Kalshi API.
type APIOrder struct {
	OrderID        string `json:"order_id"`
	ClientOrderID  string `json:"client_order_id"`
	Ticker         string `json:"ticker"`
	Side           string `json:"side"`
	Action         string `json:"action"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	YesPrice       int    `json:"yes_price"`
	NoPrice        int    `json:"no_price"`
	Count          int    `json:"count"`
	RemainingCount int    `json:"remaining_count"`
	CreatedTime    string `json:"created_time"`
	ExpirationTime string `json:"expiration_time"`
}

// OrdersResponse from GET /portfolio/orders
type OrdersResponse struct {
	Orders []APIOrder `json:"orders"`
	Cursor string     `json:"cursor"`
}

// SingleOrderResponse from GET /portfolio/orders/{order_id} and
// POST /portfolio/orders
type SingleOrderResponse struct {
	Order APIOrder `json:"order"`
}

// APIFill represents an executed trade from the Kalshi API.
type APIFill struct {
	TradeID     string `json:"trade_id"`
	OrderID     string `json:"order_id"`
	Ticker      string `json:"ticker"`
	Side        string `json:"side"`
	Action      string `json:"action"`
	Count       int    `json:"count"`
	YesPrice    int    `json:"yes_price"`
	NoPrice     int    `json:"no_price"`
	Fee         int    `json:"fee"`
	IsTaker     bool   `json:"is_taker"`
	CreatedTime string `json:"created_time"`
}

// FillsResponse from GET /portfolio/fills
type FillsResponse struct {
	Fills  []APIFill `json:"fills"`
	Cursor string    `json:"cursor"`
}

// APISettlement represents a settled market payout from the Kalshi API.
type APISettlement struct {
	Ticker       string `json:"ticker"`
	MarketResult string `json:"market_result"`
	YesCount     int    `json:"yes_count"`
	NoCount      int    `json:"no_count"`
	Revenue      int    `json:"revenue"`
	Cost         int    `json:"cost"`
	Fee          int    `json:"fee"`
	SettledTime  string `json:"settled_time"`
}

// SettlementsResponse from GET /portfolio/settlements
type SettlementsResponse struct {
	Settlements []APISettlement `json:"settlements"`
	Cursor      string          `json:"cursor"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket represents a market from the Kalshi API.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Status      string `json:"status"`
	MarketType  string `json:"market_type"`
	Result      string `json:"result"`

	// Prices in cents
	YesBid    int `json:"yes_bid"`
	YesAsk    int `json:"yes_ask"`
	NoBid     int `json:"no_bid"`
	NoAsk     int `json:"no_ask"`
	LastPrice int `json:"last_price"`

	// Volume
	Volume       int64 `json:"volume"`
	Volume24h    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`

	// Timestamps (ISO 8601)
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	ExpirationTime string `json:"expiration_time"`
}

// SingleMarketResponse from GET /markets/{ticker}
type SingleMarketResponse struct {
	Market APIMarket `json:"market"`
}

// CutoffResponse from GET /historical/cutoff
type CutoffResponse struct {
	LiveCutoffTS       int64 `json:"live_cutoff_ts"`
	HistoricalCutoffTS int64 `json:"historical_cutoff_ts"`
}

// Candlestick is one OHLC bar. Prices in cents.
type Candlestick struct {
	EndPeriodTS int64 `json:"end_period_ts"`
	OpenTS      int64 `json:"open_ts"`
	Price       struct {
		Open  int `json:"open"`
		High  int `json:"high"`
		Low   int `json:"low"`
		Close int `json:"close"`
	} `json:"price"`
	YesBid struct {
		Open  int `json:"open"`
		High  int `json:"high"`
		Low   int `json:"low"`
		Close int `json:"close"`
	} `json:"yes_bid"`
	YesAsk struct {
		Open  int `json:"open"`
		High  int `json:"high"`
		Low   int `json:"low"`
		Close int `json:"close"`
	} `json:"yes_ask"`
	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`
}

// CandlesticksResponse from the single-market candlestick endpoints.
type CandlesticksResponse struct {
	Ticker       string        `json:"ticker"`
	Candlesticks []Candlestick `json:"candlesticks"`
}

// BatchCandlesticksResponse from GET /markets/candlesticks, keyed by ticker.
type BatchCandlesticksResponse struct {
	Candlesticks map[string][]Candlestick `json:"market_candlesticks"`
}

// GetPositionsOptions configures a GetPositions request.
type GetPositionsOptions struct {
	Limit            int
	Cursor           string
	Ticker           string
	EventTicker      string
	SettlementStatus string
	CountFilter      string
}

// GetOrdersOptions configures a GetOrders request.
type GetOrdersOptions struct {
	Limit  int
	Cursor string
	Ticker string
	Status string
}

// GetFillsOptions configures a GetFills request.
type GetFillsOptions struct {
	Limit   int
	Cursor  string
	Ticker  string
	OrderID string
	MinTS   int64 // Seconds since epoch
	MaxTS   int64
}

// GetSettlementsOptions configures a GetSettlements request.
type GetSettlementsOptions struct {
	Limit  int
	Cursor string
	Ticker string
	MinTS  int64
	MaxTS  int64
}

// GetMarketsOptions configures a GetMarkets request.
type GetMarketsOptions struct {
	Limit        int
	Cursor       string
	EventTicker  string
	SeriesTicker string
	Tickers      []string
	Status       string
}

// CandlestickOptions configures a candlestick request. PeriodInterval is in
// minutes (1, 60 or 1440); timestamps are seconds since epoch.
type CandlestickOptions struct {
	StartTS        int64
	EndTS          int64
	PeriodInterval int
}
