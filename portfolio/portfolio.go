// Package portfolio implements weighted-average-cost position accounting.
//
// The same Position ledger is used by the backtest simulator and by the live
// holdings service, so both report identical accounting semantics.
package portfolio

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientPosition is returned when a sell exceeds the held shares.
	ErrInsufficientPosition = errors.New("portfolio: insufficient position")

	// ErrInsufficientFunds is returned when a buy exceeds available cash.
	ErrInsufficientFunds = errors.New("portfolio: insufficient funds")
)

// Side is the direction of an order or fill.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Order is a market order intent produced by a strategy. Orders are immutable
// once created; one order yields at most one fill (no partial fills).
type Order struct {
	Side Side
	Size int // positive number of shares
	Date time.Time
}

// Fill is the executed result of an order, appended to the trade blotter.
// RealizedPnL is only meaningful on sell fills and excludes commission (the
// commission is netted into cash separately).
type Fill struct {
	ID          string
	Side        Side
	Size        int
	Price       float64
	Commission  float64
	Date        time.Time
	RealizedPnL float64
}
