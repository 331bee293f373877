package trading

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/kalshi-trader/internal/api"
	"github.com/rickgao/kalshi-trader/internal/auth"
	"github.com/rickgao/kalshi-trader/internal/model"
)

func newTestExecutor(t *testing.T, handler http.Handler, recorder EventRecorder) *Executor {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	signer, err := auth.New("test-key-id", pemText)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL+"/trade-api/v2", signer,
		api.WithRetries(1, time.Millisecond),
		api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return New(client, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memRecorder captures events; fail makes every call error, panics makes
// every call panic.
type memRecorder struct {
	submissions   []string
	cancellations []string
	errors        []string
	fail          bool
	panics        bool
}

func (r *memRecorder) RecordSubmission(order *model.Order) error {
	if r.panics {
		panic("recorder down")
	}
	if r.fail {
		return errors.New("disk full")
	}
	r.submissions = append(r.submissions, order.OrderID)
	return nil
}

func (r *memRecorder) RecordCancellation(orderID string) error {
	if r.panics {
		panic("recorder down")
	}
	if r.fail {
		return errors.New("disk full")
	}
	r.cancellations = append(r.cancellations, orderID)
	return nil
}

func (r *memRecorder) RecordError(msg, ticker string) error {
	if r.panics {
		panic("recorder down")
	}
	if r.fail {
		return errors.New("disk full")
	}
	r.errors = append(r.errors, msg)
	return nil
}

func TestPlaceMarketOrder_RecordsSubmission(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"order_id": "o1", "ticker": "FED-25", "status": "executed"}}`))
	})
	rec := &memRecorder{}
	e := newTestExecutor(t, handler, rec)

	order, err := e.PlaceMarketOrder(context.Background(), "FED-25", model.SideYes, 5)
	require.NoError(t, err)
	assert.Equal(t, "o1", order.OrderID)
	assert.Equal(t, []string{"o1"}, rec.submissions)
}

func TestPlaceLimitOrder_FailureRecordsError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "insufficient balance"}}`))
	})
	rec := &memRecorder{}
	e := newTestExecutor(t, handler, rec)

	_, err := e.PlaceLimitOrder(context.Background(), "FED-25", model.SideYes, 5, 40)
	require.Error(t, err)

	var apiErr *api.APIError
	assert.ErrorAs(t, err, &apiErr)
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "insufficient balance")
	assert.Empty(t, rec.submissions)
}

func TestExecutor_RecorderFailureDoesNotPropagate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"order_id": "o1"}}`))
	})

	for _, rec := range []*memRecorder{{fail: true}, {panics: true}} {
		e := newTestExecutor(t, handler, rec)
		order, err := e.PlaceMarketOrder(context.Background(), "FED-25", model.SideYes, 1)
		require.NoError(t, err, "recorder trouble must not fail the trade")
		assert.Equal(t, "o1", order.OrderID)
	}
}

func TestExecutor_NilRecorder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"order_id": "o1"}}`))
	})
	e := newTestExecutor(t, handler, nil)

	_, err := e.PlaceMarketOrder(context.Background(), "FED-25", model.SideYes, 1)
	require.NoError(t, err)
}

func TestCancelOrder_Records(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": {"order_id": "o9", "status": "canceled"}}`))
	})
	rec := &memRecorder{}
	e := newTestExecutor(t, handler, rec)

	order, err := e.CancelOrder(context.Background(), "o9")
	require.NoError(t, err)
	assert.Equal(t, "canceled", order.Status)
	assert.Equal(t, []string{"o9"}, rec.cancellations)
}

func TestOpenOrders_FiltersResting(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "resting", r.URL.Query().Get("status"))
		w.Write([]byte(`{"orders": [{"order_id": "o1", "status": "resting", "side": "yes", "action": "buy", "type": "limit"}], "cursor": ""}`))
	})
	e := newTestExecutor(t, handler, nil)

	orders, err := e.OpenOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].OrderID)
}

func TestValidateTicker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"active market", 200, `{"market": {"ticker": "A", "status": "active"}}`, true},
		{"open market", 200, `{"market": {"ticker": "A", "status": "open"}}`, true},
		{"settled market", 200, `{"market": {"ticker": "A", "status": "settled"}}`, false},
		{"unknown ticker", 404, `{"error": {"message": "not found"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			e := newTestExecutor(t, handler, nil)
			assert.Equal(t, tt.want, e.ValidateTicker(context.Background(), "A"))
		})
	}
}

func TestSearchMarkets_QueryMatchesAndDeduplicates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("series_ticker") {
		case "KXBTC":
			w.Write([]byte(`{"markets": [
				{"ticker": "KXBTC-100K", "title": "Bitcoin above 100k?", "status": "active"},
				{"ticker": "KXBTC-OTHER", "title": "Unrelated", "status": "active"}
			], "cursor": ""}`))
		case "KXETH":
			// Duplicate ticker from another sweep must not repeat.
			w.Write([]byte(`{"markets": [{"ticker": "KXBTC-100K", "title": "Bitcoin above 100k?", "status": "active"}], "cursor": ""}`))
		default:
			w.Write([]byte(`{"markets": [], "cursor": ""}`))
		}
	})
	e := newTestExecutor(t, handler, nil)

	results, err := e.SearchMarkets(context.Background(), "bitcoin", "", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "KXBTC-100K", results[0].Ticker)
}

func TestSearchMarkets_SeriesFilter(t *testing.T) {
	var queried []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queried = append(queried, r.URL.Query().Get("series_ticker"))
		w.Write([]byte(`{"markets": [{"ticker": "KXFED-DEC", "title": "Fed cut?", "status": "active"}], "cursor": ""}`))
	})
	e := newTestExecutor(t, handler, nil)

	results, err := e.SearchMarkets(context.Background(), "fed", "KXFED", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"KXFED"}, queried, "only the requested series is searched")
}

func TestSearchMarkets_NoQueryReturnsFirstBatch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		w.Write([]byte(`{"markets": [{"ticker": "A", "status": "active"}, {"ticker": "B", "status": "active"}], "cursor": ""}`))
	})
	e := newTestExecutor(t, handler, nil)

	results, err := e.SearchMarkets(context.Background(), "", "", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
