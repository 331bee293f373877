package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rickgao/kalshi-trader/internal/model"
)

func TestPlaceOrder_ValidationRejectsWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"order": {}}`))
	})
	c, _ := newTestClient(t, handler)

	valid := OrderParams{
		Ticker: "FED-25",
		Side:   model.SideYes,
		Action: model.ActionBuy,
		Type:   model.OrderTypeLimit,
		Count:  1,
		Price:  50,
	}

	tests := []struct {
		name   string
		mutate func(*OrderParams)
		field  string
	}{
		{"missing ticker", func(p *OrderParams) { p.Ticker = "" }, "ticker"},
		{"bad side", func(p *OrderParams) { p.Side = "maybe" }, "side"},
		{"bad action", func(p *OrderParams) { p.Action = "hold" }, "action"},
		{"bad type", func(p *OrderParams) { p.Type = "stop" }, "type"},
		{"zero count", func(p *OrderParams) { p.Count = 0 }, "count"},
		{"negative count", func(p *OrderParams) { p.Count = -5 }, "count"},
		{"price zero", func(p *OrderParams) { p.Price = 0 }, "price"},
		{"price 100", func(p *OrderParams) { p.Price = 100 }, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			_, err := c.PlaceOrder(context.Background(), p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	if got := calls.Load(); got != 0 {
		t.Errorf("server calls = %d, want 0 on validation failure", got)
	}
}

func TestPlaceOrder_LimitPriceBounds(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"order_id": "o1", "status": "resting"}}`))
	})
	c, _ := newTestClient(t, handler)

	for _, price := range []int{1, 99} {
		p := OrderParams{
			Ticker: "FED-25",
			Side:   model.SideYes,
			Action: model.ActionBuy,
			Type:   model.OrderTypeLimit,
			Count:  1,
			Price:  price,
		}
		if _, err := c.PlaceOrder(context.Background(), p); err != nil {
			t.Errorf("price %d should be accepted: %v", price, err)
		}
	}
}

func TestPlaceOrder_WirePayload(t *testing.T) {
	tests := []struct {
		name         string
		params       OrderParams
		wantYesPrice int
	}{
		{
			"yes limit keeps price",
			OrderParams{Ticker: "A", Side: model.SideYes, Action: model.ActionBuy, Type: model.OrderTypeLimit, Count: 2, Price: 35},
			35,
		},
		{
			"no limit converts to yes terms",
			OrderParams{Ticker: "A", Side: model.SideNo, Action: model.ActionBuy, Type: model.OrderTypeLimit, Count: 2, Price: 35},
			65,
		},
		{
			"market buy crosses at 99",
			OrderParams{Ticker: "A", Side: model.SideYes, Action: model.ActionBuy, Type: model.OrderTypeMarket, Count: 1},
			99,
		},
		{
			"market sell crosses at 1",
			OrderParams{Ticker: "A", Side: model.SideYes, Action: model.ActionSell, Type: model.OrderTypeMarket, Count: 1},
			1,
		},
		{
			"no market buy converts",
			OrderParams{Ticker: "A", Side: model.SideNo, Action: model.ActionBuy, Type: model.OrderTypeMarket, Count: 1},
			1, // 100 - 99
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got orderPayload
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode payload: %v", err)
				}
				w.Write([]byte(`{"order": {"order_id": "o1"}}`))
			})
			c, _ := newTestClient(t, handler)

			if _, err := c.PlaceOrder(context.Background(), tt.params); err != nil {
				t.Fatalf("PlaceOrder failed: %v", err)
			}
			if got.YesPrice != tt.wantYesPrice {
				t.Errorf("yes_price = %d, want %d", got.YesPrice, tt.wantYesPrice)
			}
			if got.ClientOrderID == "" {
				t.Error("client_order_id should be generated when empty")
			}
		})
	}
}

func TestPlaceOrder_KeepsClientOrderID(t *testing.T) {
	var got orderPayload
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"order": {"order_id": "o1"}}`))
	})
	c, _ := newTestClient(t, handler)

	p := OrderParams{
		Ticker:        "A",
		Side:          model.SideYes,
		Action:        model.ActionBuy,
		Type:          model.OrderTypeLimit,
		Count:         1,
		Price:         50,
		ClientOrderID: "my-idempotency-key",
	}
	if _, err := c.PlaceOrder(context.Background(), p); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if got.ClientOrderID != "my-idempotency-key" {
		t.Errorf("client_order_id = %q, want my-idempotency-key", got.ClientOrderID)
	}
}

func TestCancelOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/trade-api/v2/portfolio/orders/o42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"order": {"order_id": "o42", "status": "canceled"}}`))
	})
	c, _ := newTestClient(t, handler)

	order, err := c.CancelOrder(context.Background(), "o42")
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if order.OrderID != "o42" || order.Status != "canceled" {
		t.Errorf("order = %+v", order)
	}
}

func TestCancelOrder_EmptyID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("should not reach the server")
	}))

	var verr *ValidationError
	if _, err := c.CancelOrder(context.Background(), ""); !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestGetAllOrders_FiltersByStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "resting" {
			t.Errorf("status = %q, want resting", r.URL.Query().Get("status"))
		}
		w.Write([]byte(`{"orders": [{"order_id": "o1", "status": "resting", "side": "yes", "action": "buy", "type": "limit"}], "cursor": ""}`))
	})
	c, _ := newTestClient(t, handler)

	orders, _, err := c.GetAllOrders(context.Background(), GetOrdersOptions{Status: "resting"}, 0)
	if err != nil {
		t.Fatalf("GetAllOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Type != model.OrderTypeLimit {
		t.Errorf("orders = %+v", orders)
	}
}
