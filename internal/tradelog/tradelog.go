// Package tradelog records trade lifecycle events in an append-only JSONL
// store that supports history queries and CSV export.
package tradelog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rickgao/kalshi-trader/internal/model"
)

// EventType classifies a trade lifecycle event.
type EventType string

const (
	EventSubmission   EventType = "submission"
	EventFill         EventType = "fill"
	EventCancellation EventType = "cancellation"
	EventError        EventType = "error"
)

// Event is one recorded trade event. Zero-valued fields are omitted from
// the stored line; CSV export always emits the full column set.
type Event struct {
	Type           EventType `json:"event_type"`
	Timestamp      time.Time `json:"timestamp"`
	OrderID        string    `json:"order_id,omitempty"`
	Ticker         string    `json:"ticker,omitempty"`
	Side           string    `json:"side,omitempty"`
	Quantity       int       `json:"quantity,omitempty"`
	Price          int       `json:"price,omitempty"`
	FillPrice      int       `json:"fill_price,omitempty"`
	QuantityFilled int       `json:"quantity_filled,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// csvColumns is the fixed export column set.
var csvColumns = []string{
	"timestamp", "event_type", "order_id", "ticker", "side",
	"quantity", "price_cents", "fill_price_cents", "quantity_filled",
	"error_message",
}

// Log is an append-only trade event store backed by one JSONL file.
// Not safe for concurrent use.
type Log struct {
	path   string
	logger *slog.Logger
}

// New creates a Log writing to path, creating parent directories as needed.
func New(path string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	return &Log{path: path, logger: logger}, nil
}

// RecordSubmission logs a placed order.
func (l *Log) RecordSubmission(order *model.Order) error {
	return l.append(Event{
		Type:      EventSubmission,
		Timestamp: time.Now().UTC(),
		OrderID:   order.OrderID,
		Ticker:    order.Ticker,
		Side:      string(order.Side),
		Quantity:  order.Count,
		Price:     order.YesPrice,
	})
}

// RecordFill logs an executed trade.
func (l *Log) RecordFill(fill model.Fill) error {
	return l.append(Event{
		Type:           EventFill,
		Timestamp:      time.Now().UTC(),
		OrderID:        fill.OrderID,
		Ticker:         fill.Ticker,
		Side:           string(fill.Side),
		Quantity:       fill.Count,
		Price:          fill.Price,
		FillPrice:      fill.Price,
		QuantityFilled: fill.Count,
	})
}

// RecordCancellation logs an order cancellation.
func (l *Log) RecordCancellation(orderID string) error {
	return l.append(Event{
		Type:      EventCancellation,
		Timestamp: time.Now().UTC(),
		OrderID:   orderID,
	})
}

// RecordError logs a trading failure.
func (l *Log) RecordError(msg string, ticker string) error {
	return l.append(Event{
		Type:         EventError,
		Timestamp:    time.Now().UTC(),
		Ticker:       ticker,
		ErrorMessage: msg,
	})
}

func (l *Log) append(e Event) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal trade event: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write trade event: %w", err)
	}
	return nil
}

// History returns recorded events within [start, end], inclusive. Zero
// bounds are open-ended. Malformed lines are skipped with a warning, never
// an error; history survives partial corruption.
func (l *Log) History(start, end time.Time) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			l.logger.Warn("skipping malformed trade log line",
				"path", l.path,
				"line", lineNum,
				"err", err,
			)
			continue
		}

		if !start.IsZero() && e.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && e.Timestamp.After(end) {
			continue
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}

	return events, nil
}

// Recent returns the last n recorded events in chronological order.
func (l *Log) Recent(n int) ([]Event, error) {
	events, err := l.History(time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

// ExportCSV writes events within [start, end] to a CSV file and returns the
// number of data rows written.
func (l *Log) ExportCSV(filename string, start, end time.Time) (int, error) {
	events, err := l.History(start, end)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.Timestamp.Format(time.RFC3339),
			string(e.Type),
			e.OrderID,
			e.Ticker,
			e.Side,
			strconv.Itoa(e.Quantity),
			strconv.Itoa(e.Price),
			strconv.Itoa(e.FillPrice),
			strconv.Itoa(e.QuantityFilled),
			e.ErrorMessage,
		}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(events), nil
}
