package pnl

import (
	"fmt"
	"sort"

	"github.com/rickgao/kalshi-trader/internal/model"
)

// Ledger entry sources.
const (
	SourceSettlement = "settlement"
	SourceFillBased  = "fill_based"
)

// LedgerEntry is the realized P&L for one ticker from one evidence source.
type LedgerEntry struct {
	Ticker   string
	Source   string
	GrossPnL int // cents
	Fees     int
	NetPnL   int
}

// RealizedReport is the reconciled realized ledger. Warnings carry
// non-fatal ambiguities; totals cover Entries only.
type RealizedReport struct {
	Entries   []LedgerEntry
	Warnings  []string
	GrossPnL  int
	TotalFees int
	NetPnL    int
}

// lot is an open buy slice awaiting FIFO consumption.
type lot struct {
	qty   int
	price int
}

// Reconcile merges settlements and fill history into a realized ledger.
//
// Settlements are authoritative: each produces one entry. Tickers without a
// settlement get a fill-based entry computed by FIFO lot matching per
// (ticker, side). A ticker with both a settlement and sell-fills is
// ambiguous; the settlement entry wins and a warning names the ticker so
// the discrepancy is visible rather than silently dropped.
func Reconcile(settlements []model.Settlement, fills []model.Fill) RealizedReport {
	var report RealizedReport

	settled := make(map[string]bool, len(settlements))
	for _, s := range settlements {
		settled[s.Ticker] = true
		gross := s.Revenue - s.Cost
		report.addEntry(LedgerEntry{
			Ticker:   s.Ticker,
			Source:   SourceSettlement,
			GrossPnL: gross,
			Fees:     s.Fee,
			NetPnL:   gross - s.Fee,
		})
	}

	for _, t := range fillTickers(fills) {
		entry, hadSells := matchFills(t.ticker, t.fills)
		if !hadSells {
			continue
		}
		if settled[t.ticker] {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"ticker %s has both a settlement and sell fills; using the settlement, fill-based pnl %d cents excluded",
				t.ticker, entry.NetPnL))
			continue
		}
		report.addEntry(entry)
	}

	return report
}

func (r *RealizedReport) addEntry(e LedgerEntry) {
	r.Entries = append(r.Entries, e)
	r.GrossPnL += e.GrossPnL
	r.TotalFees += e.Fees
	r.NetPnL += e.NetPnL
}

type tickerFills struct {
	ticker string
	fills  []model.Fill
}

// fillTickers groups fills by ticker in first-seen order so output is
// deterministic for a fixed input sequence.
func fillTickers(fills []model.Fill) []tickerFills {
	index := make(map[string]int)
	var groups []tickerFills

	for _, f := range fills {
		i, ok := index[f.Ticker]
		if !ok {
			i = len(groups)
			index[f.Ticker] = i
			groups = append(groups, tickerFills{ticker: f.Ticker})
		}
		groups[i].fills = append(groups[i].fills, f)
	}

	return groups
}

// matchFills runs FIFO matching over one ticker's fills and returns its
// fill-based entry. The bool reports whether any sell fills existed; a
// buy-only ticker contributes nothing.
//
// YES and NO contracts have unrelated price scales, so lots are matched
// within each side independently and summed.
func matchFills(ticker string, fills []model.Fill) (LedgerEntry, bool) {
	entry := LedgerEntry{Ticker: ticker, Source: SourceFillBased}
	hadSells := false

	for _, side := range []model.Side{model.SideYes, model.SideNo} {
		gross, fees, sells := matchSide(fills, side)
		entry.GrossPnL += gross
		entry.Fees += fees
		hadSells = hadSells || sells
	}

	entry.NetPnL = entry.GrossPnL - entry.Fees
	return entry, hadSells
}

func matchSide(fills []model.Fill, side model.Side) (gross, fees int, hadSells bool) {
	var buys []model.Fill
	var sells []model.Fill
	for _, f := range fills {
		if f.Side != side {
			continue
		}
		switch f.Action {
		case model.ActionBuy:
			buys = append(buys, f)
		case model.ActionSell:
			sells = append(sells, f)
		}
	}
	if len(sells) == 0 {
		return 0, 0, false
	}

	sort.SliceStable(buys, func(i, j int) bool { return buys[i].CreatedTS < buys[j].CreatedTS })
	sort.SliceStable(sells, func(i, j int) bool { return sells[i].CreatedTS < sells[j].CreatedTS })

	queue := make([]lot, 0, len(buys))
	for _, b := range buys {
		queue = append(queue, lot{qty: b.Count, price: b.Price})
	}

	for _, s := range sells {
		remaining := s.Count
		matched := 0

		for remaining > 0 && len(queue) > 0 {
			front := &queue[0]
			take := front.qty
			if take > remaining {
				take = remaining
			}

			gross += take * (s.Price - front.price)
			matched += take
			remaining -= take
			front.qty -= take
			if front.qty == 0 {
				queue = queue[1:]
			}
		}

		// Sell fee counts once the sell realized anything. Excess sell
		// quantity with no cost basis is dropped.
		if matched > 0 {
			fees += s.Fee
		}
	}

	return gross, fees, true
}
