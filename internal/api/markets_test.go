package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestGetMarket(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/markets/FED-25DEC" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"market": {"ticker": "FED-25DEC", "title": "Fed cut in December?", "yes_bid": 40, "yes_ask": 50, "status": "active"}}`))
	})
	c, _ := newTestClient(t, handler)

	m, err := c.GetMarket(context.Background(), "FED-25DEC")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}

	snap := m.ToSnapshot()
	if snap.YesBid != 40 || snap.YesAsk != 50 || snap.Status != "active" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Settled() {
		t.Error("Settled() = true with empty result")
	}
}

func TestGetMarkets_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("series_ticker") != "KXFED" || q.Get("status") != "open" || q.Get("tickers") != "A,B" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"markets": [], "cursor": ""}`))
	})
	c, _ := newTestClient(t, handler)

	_, err := c.GetMarkets(context.Background(), GetMarketsOptions{
		SeriesTicker: "KXFED",
		Status:       "open",
		Tickers:      []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("GetMarkets failed: %v", err)
	}
}

func TestGetHistoricalCutoff(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/historical/cutoff" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"live_cutoff_ts": 1750000000, "historical_cutoff_ts": 1600000000}`))
	})
	c, _ := newTestClient(t, handler)

	cutoff, err := c.GetHistoricalCutoff(context.Background())
	if err != nil {
		t.Fatalf("GetHistoricalCutoff failed: %v", err)
	}
	if cutoff.LiveCutoffTS != 1750000000 || cutoff.HistoricalCutoffTS != 1600000000 {
		t.Errorf("cutoff = %+v", cutoff)
	}
}

func TestGetMarketCandlesticks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/markets/FED-25DEC/candlesticks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("period_interval") != "60" || q.Get("start_ts") != "1700000000" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"ticker": "FED-25DEC", "candlesticks": [{"end_period_ts": 1700003600, "price": {"open": 40, "high": 45, "low": 39, "close": 44}, "volume": 120}]}`))
	})
	c, _ := newTestClient(t, handler)

	resp, err := c.GetMarketCandlesticks(context.Background(), "FED-25DEC", CandlestickOptions{
		StartTS:        1700000000,
		PeriodInterval: 60,
	})
	if err != nil {
		t.Fatalf("GetMarketCandlesticks failed: %v", err)
	}
	if len(resp.Candlesticks) != 1 || resp.Candlesticks[0].Price.Close != 44 {
		t.Errorf("candlesticks = %+v", resp.Candlesticks)
	}
}

func TestGetHistoricalCandlesticks_Path(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/historical/markets/OLD-21/candlesticks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"ticker": "OLD-21", "candlesticks": []}`))
	})
	c, _ := newTestClient(t, handler)

	if _, err := c.GetHistoricalCandlesticks(context.Background(), "OLD-21", CandlestickOptions{}); err != nil {
		t.Fatalf("GetHistoricalCandlesticks failed: %v", err)
	}
}

func TestGetBatchCandlesticks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tickers"); got != "A,B" {
			t.Errorf("tickers = %q, want A,B", got)
		}
		w.Write([]byte(`{"market_candlesticks": {"A": [{"end_period_ts": 1}], "B": []}}`))
	})
	c, _ := newTestClient(t, handler)

	resp, err := c.GetBatchCandlesticks(context.Background(), []string{"A", "B"}, CandlestickOptions{})
	if err != nil {
		t.Fatalf("GetBatchCandlesticks failed: %v", err)
	}
	if len(resp.Candlesticks["A"]) != 1 {
		t.Errorf("candlesticks[A] = %+v", resp.Candlesticks["A"])
	}
}

func TestGetBatchCandlesticks_Validation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("should not reach the server")
	}))

	var verr *ValidationError
	if _, err := c.GetBatchCandlesticks(context.Background(), nil, CandlestickOptions{}); !errors.As(err, &verr) {
		t.Fatalf("empty tickers: expected *ValidationError, got %v", err)
	}

	tooMany := make([]string, MaxBatchCandlestickTickers+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("T%d", i)
	}
	if _, err := c.GetBatchCandlesticks(context.Background(), tooMany, CandlestickOptions{}); !errors.As(err, &verr) {
		t.Fatalf("oversize batch: expected *ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "100") {
		t.Errorf("Reason = %q, want mention of the cap", verr.Reason)
	}
}
