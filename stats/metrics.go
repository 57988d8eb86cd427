// Package stats derives risk/return metrics from an equity curve and a trade
// blotter.
package stats

import (
	"math"
	"time"

	"github.com/stocklab/stocklab/portfolio"
)

// tradingDaysPerYear annualizes the Sharpe ratio of daily bars.
const tradingDaysPerYear = 252

// EquityPoint is the total portfolio value (cash + market value) after one
// bar. The append-only sequence of points forms the equity curve.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// Metrics is the performance summary of one run. All trade-derived fields
// default to 0 when no trades occurred.
type Metrics struct {
	FinalEquity  float64
	TotalReturn  float64 // final/initial - 1
	AnnualReturn float64 // compounded over 365-day years
	MaxDrawdown  float64 // worst peak-to-trough fraction, 0..1
	SharpeRatio  float64
	TradeCount   int // closed (sell) fills
	WinRate      float64
}

// Compute analyzes a completed run. A nil/empty equity curve yields zero
// metrics.
func Compute(initialCash float64, equity []EquityPoint, blotter []portfolio.Fill) Metrics {
	m := Metrics{}
	if len(equity) == 0 || initialCash <= 0 {
		return m
	}

	m.FinalEquity = equity[len(equity)-1].Equity
	m.TotalReturn = m.FinalEquity/initialCash - 1
	m.AnnualReturn = annualize(m.TotalReturn, equity[0].Date, equity[len(equity)-1].Date)
	m.MaxDrawdown = MaxDrawdown(equity)
	m.SharpeRatio = SharpeRatio(equity)
	m.TradeCount, m.WinRate = winRate(blotter)
	return m
}

// annualize compounds a total return over 365-day years. A zero-length range
// yields 0 rather than a division blowup.
func annualize(totalReturn float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days <= 0 {
		return 0
	}
	return math.Pow(1+totalReturn, 365/days) - 1
}

// MaxDrawdown is the worst percentage decline from any running peak of the
// equity curve. A monotonically rising curve has drawdown 0.
func MaxDrawdown(equity []EquityPoint) float64 {
	var peak, worst float64
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p.Equity) / peak; dd > worst {
			worst = dd
		}
	}
	return worst
}

// SharpeRatio is mean/stddev of the per-bar percentage equity changes, scaled
// by sqrt(252). A zero-variance series (or a curve too short to have returns)
// yields 0, not NaN.
func SharpeRatio(equity []EquityPoint) float64 {
	var returns []float64
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, equity[i].Equity/prev-1)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// winRate counts sell fills (a buy opens a trade, it does not close one) and
// the fraction with strictly positive realized P&L.
func winRate(blotter []portfolio.Fill) (trades int, rate float64) {
	wins := 0
	for _, f := range blotter {
		if f.Side != portfolio.Sell {
			continue
		}
		trades++
		if f.RealizedPnL > 0 {
			wins++
		}
	}
	if trades == 0 {
		return 0, 0
	}
	return trades, float64(wins) / float64(trades)
}
