package strategy

import (
	"github.com/stocklab/stocklab/indicators"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

// SMACross trades a single simple-moving-average crossover:
//   - entry: close crosses from at-or-below the SMA to above it while flat
//   - exit: close crosses from at-or-above the SMA to below it while holding
type SMACross struct {
	period int
	size   int

	sma      *indicators.SimpleMA
	lastDiff float64
	haveLast bool
}

func NewSMACross(period, size int) *SMACross {
	return &SMACross{
		period: period,
		size:   size,
		sma:    indicators.NewSMA(period),
	}
}

func (s *SMACross) Name() string { return "sma_cross" }

func (s *SMACross) Reset() {
	s.sma.Reset()
	s.lastDiff = 0
	s.haveLast = false
}

func (s *SMACross) OnBar(bar market.Bar, hasPosition bool) *Signal {
	s.sma.Update(bar.Close)
	if !s.sma.Ready() {
		return nil
	}

	diff := bar.Close - s.sma.Value()

	// A cross needs a previous diff; the first ready bar only records it.
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
