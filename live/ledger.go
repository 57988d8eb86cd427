// Package live tracks real user holdings with the same weighted-average-cost
// accounting the backtest simulator uses.
package live

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stocklab/stocklab/journal"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/pkg/id"
	"github.com/stocklab/stocklab/portfolio"
)

// Sink receives every applied trade, typically *journal.SQLite.
type Sink interface {
	RecordLiveTrade(journal.LiveTradeRecord) error
}

type key struct {
	owner string
	code  string
}

// entry serializes all mutations of one (owner, instrument) position: two
// concurrent trade submissions for the same holding apply one at a time, so
// the weighted-average-cost invariant holds.
type entry struct {
	mu  sync.Mutex
	pos portfolio.Position
}

// Ledger is the live position store. Positions for different owners or
// instruments are independent and may be mutated concurrently.
type Ledger struct {
	mu      sync.Mutex
	entries map[key]*entry
	sink    Sink // optional
}

func NewLedger(sink Sink) *Ledger {
	return &Ledger{
		entries: make(map[key]*entry),
		sink:    sink,
	}
}

func (l *Ledger) entryFor(owner, code string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{owner: owner, code: code}
	e, ok := l.entries[k]
	if !ok {
		e = &entry{pos: *portfolio.NewPosition(code)}
		l.entries[k] = e
	}
	return e
}

// ApplyTrade applies one buy or sell to an owner's position and returns the
// updated snapshot. Overselling fails with portfolio.ErrInsufficientPosition
// and leaves the position untouched; the error propagates to the caller so
// the triggering request can be rejected.
//
// The trade price also marks the position: it is the freshest price known.
func (l *Ledger) ApplyTrade(owner string, instr market.Instrument, side portfolio.Side, size int, price float64) (portfolio.Position, error) {
	if size <= 0 {
		return portfolio.Position{}, fmt.Errorf("live: size must be positive, got %d", size)
	}
	if price <= 0 {
		return portfolio.Position{}, fmt.Errorf("live: price must be positive, got %v", price)
	}

	e := l.entryFor(owner, instr.Code)
	e.mu.Lock()
	defer e.mu.Unlock()

	f := portfolio.Fill{
		ID:    id.New(),
		Side:  side,
		Size:  size,
		Price: price,
		Date:  time.Now().UTC(),
	}

	realized, err := e.pos.ApplyFill(f)
	if err != nil {
		return portfolio.Position{}, err
	}
	e.pos.MarkToMarket(price)

	if l.sink != nil {
		rec := journal.LiveTradeRecord{
			TradeID:    f.ID,
			Owner:      owner,
			Instrument: instr.Code,
			Side:       string(side),
			Size:       size,
			Price:      price,
			RealizedPL: realized,
			Time:       f.Date,
		}
		if err := l.sink.RecordLiveTrade(rec); err != nil {
			return portfolio.Position{}, fmt.Errorf("live: record trade: %w", err)
		}
	}

	return e.pos, nil
}

// Restore rebuilds positions from previously journaled trades without
// re-recording them. Used at startup to recover ledger state.
func (l *Ledger) Restore(recs []journal.LiveTradeRecord) error {
	for _, rec := range recs {
		e := l.entryFor(rec.Owner, rec.Instrument)
		e.mu.Lock()
		_, err := e.pos.ApplyFill(portfolio.Fill{
			ID:    rec.TradeID,
			Side:  portfolio.Side(rec.Side),
			Size:  rec.Size,
			Price: rec.Price,
			Date:  rec.Time,
		})
		if err == nil {
			e.pos.MarkToMarket(rec.Price)
		}
		e.mu.Unlock()
		if err != nil {
			return fmt.Errorf("live: restore trade %s: %w", rec.TradeID, err)
		}
	}
	return nil
}

// MarkToMarket revalues an owner's position at the given price and returns
// the updated snapshot.
func (l *Ledger) MarkToMarket(owner, code string, price float64) (portfolio.Position, error) {
	e, ok := l.lookup(owner, code)
	if !ok {
		return portfolio.Position{}, fmt.Errorf("live: no position for %s/%s", owner, code)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos.MarkToMarket(price)
	return e.pos, nil
}

// Get returns a snapshot of an owner's position for one instrument.
func (l *Ledger) Get(owner, code string) (portfolio.Position, bool) {
	e, ok := l.lookup(owner, code)
	if !ok {
		return portfolio.Position{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos, true
}

// List returns snapshots of all positions held by an owner, including closed
// ones (a fully sold position keeps its record).
func (l *Ledger) List(owner string) []portfolio.Position {
	l.mu.Lock()
	entries := make([]*entry, 0)
	for k, e := range l.entries {
		if k.owner == owner {
			entries = append(entries, e)
		}
	}
	l.mu.Unlock()

	out := make([]portfolio.Position, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.pos)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (l *Ledger) lookup(owner, code string) (*entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key{owner: owner, code: code}]
	return e, ok
}
