package strategy

import (
	"github.com/stocklab/stocklab/indicators"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

// DualSMACross trades a fast/slow moving-average crossover: buy when the fast
// average crosses above the slow one while flat, sell the position when it
// crosses back below.
type DualSMACross struct {
	fastPeriod int
	slowPeriod int
	size       int

	fast *indicators.SimpleMA
	slow *indicators.SimpleMA

	lastDiff float64
	haveLast bool
}

func NewDualSMACross(fastPeriod, slowPeriod, size int) *DualSMACross {
	return &DualSMACross{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		size:       size,
		fast:       indicators.NewSMA(fastPeriod),
		slow:       indicators.NewSMA(slowPeriod),
	}
}

func (s *DualSMACross) Name() string { return "dual_sma_cross" }

func (s *DualSMACross) Reset() {
	s.fast.Reset()
	s.slow.Reset()
	s.lastDiff = 0
	s.haveLast = false
}

func (s *DualSMACross) OnBar(bar market.Bar, hasPosition bool) *Signal {
	s.fast.Update(bar.Close)
	s.slow.Update(bar.Close)
	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()

	if !s.haveLast {
		s.lastDiff = diff
		s.haveLast = true
		return nil
	}

	up := diff > 0 && s.lastDiff <= 0
	down := diff < 0 && s.lastDiff >= 0
	s.lastDiff = diff

	switch {
	case up && !hasPosition:
		return &Signal{Side: portfolio.Buy, Size: s.size}
	case down && hasPosition:
		return &Signal{Side: portfolio.Sell}
	}
	return nil
}
