// Package strategy defines the bar-driven trading strategies and the registry
// that catalogs them for callers building backtest requests.
package strategy

import (
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

// Signal is an order intent emitted by a strategy: buy Size shares, or sell
// the entire open position (Size is ignored for sells; the engine sells all
// held shares).
type Signal struct {
	Side portfolio.Side
	Size int
}

// Strategy is a per-bar signal state machine. OnBar is called once per bar in
// ascending date order and returns at most one signal; during indicator
// warm-up it must return nil.
//
// Strategies are stateful and single-owner: one instance drives exactly one
// run and is never shared.
type Strategy interface {
	// Name returns the registry identifier, e.g. "sma_cross".
	Name() string

	// Reset clears indicator and crossover state so the instance can be
	// reused for a fresh run.
	Reset()

	// OnBar consumes the next bar. hasPosition reports whether the run
	// currently holds shares.
	OnBar(bar market.Bar, hasPosition bool) *Signal
}
