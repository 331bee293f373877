package model

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Side is one of the two complementary positions in a binary market.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Valid reports whether s is a recognized side.
func (s Side) Valid() bool { return s == SideYes || s == SideNo }

// Action is the direction of an order.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Valid reports whether a is a recognized action.
func (a Action) Valid() bool { return a == ActionBuy || a == ActionSell }

// OrderType distinguishes market from limit orders.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Valid reports whether t is a recognized order type.
func (t OrderType) Valid() bool { return t == OrderTypeMarket || t == OrderTypeLimit }

// -----------------------------------------------------------------------------
// Portfolio Types
// -----------------------------------------------------------------------------

// Balance is the account cash balance plus the marked value of open positions.
type Balance struct {
	Balance        int64 // Available cash (cents)
	PortfolioValue int64 // Value of open positions (cents)
}

// Position is an open portfolio position. Quantity is always positive; the
// side encodes direction. Positions are never mutated locally, only replaced
// by a fresh fetch.
type Position struct {
	Ticker       string // Market ticker
	Title        string // Market display title, if known
	Side         Side   // yes or no
	Quantity     int    // Contracts held (positive)
	AvgPrice     int    // Average entry price per contract (cents)
	Cost         int    // Total cost basis (cents)
	MarketStatus string // Market lifecycle status at fetch time
}

// Open reports whether the position has contracts outstanding.
func (p Position) Open() bool { return p.Quantity != 0 }

// Fill is a single executed trade against an order. Immutable once fetched;
// CreatedTS ordering drives FIFO lot matching.
type Fill struct {
	TradeID   string // Exchange trade ID
	OrderID   string // Parent order ID
	Ticker    string // Market ticker
	Side      Side   // yes or no
	Action    Action // buy or sell
	Count     int    // Contracts filled
	Price     int    // Execution price for the held side (cents)
	Fee       int    // Fee charged on this fill (cents)
	CreatedTS int64  // Execution time (µs since epoch)
}

// Settlement is the final payout record for a resolved market. At most one
// per ticker per account.
type Settlement struct {
	Ticker    string // Market ticker
	Result    string // Winning side ("yes" or "no")
	Revenue   int    // Payout received (cents)
	Cost      int    // Cost basis settled (cents)
	Fee       int    // Settlement fee (cents)
	SettledTS int64  // Settlement time (µs since epoch)
}

// Order is a placed order as reported by the exchange.
type Order struct {
	OrderID        string    // Exchange order ID
	ClientOrderID  string    // Client-supplied idempotency ID
	Ticker         string    // Market ticker
	Side           Side      // yes or no
	Action         Action    // buy or sell
	Type           OrderType // market or limit
	Count          int       // Contracts requested
	RemainingCount int       // Contracts still resting
	YesPrice       int       // Price in yes-terms (cents)
	Status         string    // resting, canceled, executed, ...
}

// -----------------------------------------------------------------------------
// Pricing Types
// -----------------------------------------------------------------------------

// PriceSnapshot is a point-in-time view of a market's quotes and lifecycle
// state, fetched fresh for every valuation.
type PriceSnapshot struct {
	Ticker    string // Market ticker
	Title     string // Display title
	YesBid    int    // Best YES bid (cents)
	YesAsk    int    // Best YES ask (cents)
	NoBid     int    // Best NO bid (cents)
	NoAsk     int    // Best NO ask (cents)
	LastPrice int    // Last traded YES price (cents)
	Status    string // Market status (active, closed, settled, ...)
	Result    string // Settlement result, empty while unresolved
}

// Settled reports whether the market has resolved to a winning side.
func (s PriceSnapshot) Settled() bool { return s.Result != "" }
