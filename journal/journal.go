// Package journal persists backtest results and live ledger trades. The
// SQLite journal is the durable store; the CSV journal is a lightweight
// export for spreadsheets.
package journal

import "time"

// RunRecord is the immutable result of one backtest run: request parameters,
// performance metrics and the full trade blotter and equity curve.
type RunRecord struct {
	RunID          string
	Instrument     string
	InstrumentName string
	StrategyID     string
	Params         string // JSON-encoded parameter map
	Start          time.Time
	End            time.Time
	InitialCash    float64
	CommissionRate float64

	FinalEquity  float64
	TotalReturn  float64
	AnnualReturn float64
	MaxDrawdown  float64
	SharpeRatio  float64
	TradeCount   int
	WinRate      float64

	CreatedAt time.Time

	Trades []TradeRecord
	Equity []EquityRecord
}

// TradeRecord is one fill of a run's blotter. RealizedPL is only meaningful
// on sells.
type TradeRecord struct {
	RunID      string
	FillID     string
	Side       string
	Size       int
	Price      float64
	Commission float64
	Date       time.Time
	RealizedPL float64
}

// EquityRecord is one point of a run's equity curve.
type EquityRecord struct {
	RunID  string
	Date   time.Time
	Equity float64
}

// LiveTradeRecord is one trade applied to a live portfolio ledger.
type LiveTradeRecord struct {
	TradeID    string
	Owner      string
	Instrument string
	Side       string
	Size       int
	Price      float64
	RealizedPL float64
	Time       time.Time
}

// Journal is the results sink a backtest run writes to.
type Journal interface {
	RecordRun(RunRecord) error
	Close() error
}
