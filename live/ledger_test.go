package live

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklab/stocklab/journal"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

var moutai = market.Instrument{Code: "600519", Name: "Kweichow Moutai"}

// memorySink captures recorded trades in memory.
type memorySink struct {
	mu   sync.Mutex
	recs []journal.LiveTradeRecord
	fail bool
}

func (s *memorySink) RecordLiveTrade(r journal.LiveTradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.recs = append(s.recs, r)
	return nil
}

func TestLedger_ApplyTrade(t *testing.T) {
	t.Parallel()

	t.Run("buy then partial sell", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(nil)
		pos, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, 100, pos.Shares)
		assert.Equal(t, 10.0, pos.AvgCost)

		pos, err = l.ApplyTrade("alice", moutai, portfolio.Sell, 40, 12)
		require.NoError(t, err)
		assert.Equal(t, 60, pos.Shares)
		assert.Equal(t, 10.0, pos.AvgCost)
		assert.InDelta(t, 80, pos.RealizedPnL, 1e-9)
		// The trade price marks the remaining shares.
		assert.InDelta(t, 60*12.0, pos.MarketValue, 1e-9)
	})

	t.Run("oversell propagates and leaves the position untouched", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(nil)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 50, 10)
		require.NoError(t, err)
		before, ok := l.Get("alice", moutai.Code)
		require.True(t, ok)

		_, err = l.ApplyTrade("alice", moutai, portfolio.Sell, 51, 12)
		require.ErrorIs(t, err, portfolio.ErrInsufficientPosition)

		after, ok := l.Get("alice", moutai.Code)
		require.True(t, ok)
		assert.Equal(t, before, after)
	})

	t.Run("selling with no position at all", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(nil)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Sell, 10, 12)
		assert.ErrorIs(t, err, portfolio.ErrInsufficientPosition)
	})

	t.Run("rejects non-positive size and price", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(nil)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 0, 10)
		assert.Error(t, err)
		_, err = l.ApplyTrade("alice", moutai, portfolio.Buy, 10, 0)
		assert.Error(t, err)
	})

	t.Run("owners are isolated", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(nil)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 100, 10)
		require.NoError(t, err)

		_, ok := l.Get("bob", moutai.Code)
		assert.False(t, ok)
		_, err = l.ApplyTrade("bob", moutai, portfolio.Sell, 1, 10)
		assert.ErrorIs(t, err, portfolio.ErrInsufficientPosition)
	})
}

func TestLedger_Sink(t *testing.T) {
	t.Parallel()

	t.Run("applied trades are recorded with realized pnl", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		l := NewLedger(sink)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 100, 10)
		require.NoError(t, err)
		_, err = l.ApplyTrade("alice", moutai, portfolio.Sell, 100, 12)
		require.NoError(t, err)

		require.Len(t, sink.recs, 2)
		assert.Equal(t, "BUY", sink.recs[0].Side)
		assert.Equal(t, 0.0, sink.recs[0].RealizedPL)
		assert.Equal(t, "SELL", sink.recs[1].Side)
		assert.InDelta(t, 200, sink.recs[1].RealizedPL, 1e-9)
		assert.NotEqual(t, sink.recs[0].TradeID, sink.recs[1].TradeID)
	})

	t.Run("rejected trades are never recorded", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		l := NewLedger(sink)
		_, err := l.ApplyTrade("alice", moutai, portfolio.Sell, 10, 12)
		require.Error(t, err)
		assert.Empty(t, sink.recs)
	})

	t.Run("sink failure surfaces to the caller", func(t *testing.T) {
		t.Parallel()

		l := NewLedger(&memorySink{fail: true})
		_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 10, 10)
		assert.Error(t, err)
	})
}

func TestLedger_ConcurrentTrades(t *testing.T) {
	t.Parallel()

	// 50 goroutines buy 10 shares each of the same holding; serialization
	// must leave exactly 500 shares at the common price.
	l := NewLedger(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 10, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	pos, ok := l.Get("alice", moutai.Code)
	require.True(t, ok)
	assert.Equal(t, 500, pos.Shares)
	assert.InDelta(t, 10, pos.AvgCost, 1e-9)
	assert.InDelta(t, 5000, pos.MarketValue, 1e-9)
}

func TestLedger_Restore(t *testing.T) {
	t.Parallel()

	t.Run("replays journaled trades without re-recording", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
		recs := []journal.LiveTradeRecord{
			{TradeID: "T1", Owner: "alice", Instrument: "600519", Side: "BUY", Size: 100, Price: 10, Time: now},
			{TradeID: "T2", Owner: "alice", Instrument: "600519", Side: "SELL", Size: 40, Price: 12, Time: now.Add(time.Hour)},
			{TradeID: "T3", Owner: "alice", Instrument: "000858", Side: "BUY", Size: 200, Price: 50, Time: now},
		}

		sink := &memorySink{}
		l := NewLedger(sink)
		require.NoError(t, l.Restore(recs))
		assert.Empty(t, sink.recs)

		pos, ok := l.Get("alice", "600519")
		require.True(t, ok)
		assert.Equal(t, 60, pos.Shares)
		assert.Equal(t, 10.0, pos.AvgCost)
		assert.InDelta(t, 80, pos.RealizedPnL, 1e-9)

		all := l.List("alice")
		require.Len(t, all, 2)
		assert.Equal(t, "000858", all[0].Code)
		assert.Equal(t, "600519", all[1].Code)
	})

	t.Run("corrupt history fails fast", func(t *testing.T) {
		t.Parallel()

		recs := []journal.LiveTradeRecord{
			{TradeID: "T1", Owner: "alice", Instrument: "600519", Side: "SELL", Size: 10, Price: 12},
		}
		l := NewLedger(nil)
		assert.ErrorIs(t, l.Restore(recs), portfolio.ErrInsufficientPosition)
	})
}

func TestLedger_MarkToMarket(t *testing.T) {
	t.Parallel()

	l := NewLedger(nil)
	_, err := l.ApplyTrade("alice", moutai, portfolio.Buy, 100, 10)
	require.NoError(t, err)

	pos, err := l.MarkToMarket("alice", moutai.Code, 13)
	require.NoError(t, err)
	assert.InDelta(t, 1300, pos.MarketValue, 1e-9)
	assert.InDelta(t, 300, pos.UnrealizedPnL, 1e-9)

	_, err = l.MarkToMarket("alice", "unknown", 13)
	assert.Error(t, err)
}
