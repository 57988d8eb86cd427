package strategy

import (
	"github.com/stocklab/stocklab/indicators"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

// RSIThreshold buys when the RSI drops below the oversold threshold while
// flat and sells the position when it rises above the overbought threshold.
type RSIThreshold struct {
	period     int
	oversold   float64
	overbought float64
	size       int

	rsi *indicators.RSI
}

func NewRSIThreshold(period int, oversold, overbought float64, size int) *RSIThreshold {
	return &RSIThreshold{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		size:       size,
		rsi:        indicators.NewRSI(period),
	}
}

func (s *RSIThreshold) Name() string { return "rsi" }

func (s *RSIThreshold) Reset() {
	s.rsi.Reset()
}

func (s *RSIThreshold) OnBar(bar market.Bar, hasPosition bool) *Signal {
	s.rsi.Update(bar.Close)
	if !s.rsi.Ready() {
		return nil
	}

	v := s.rsi.Value()
	switch {
	case v < s.oversold && !hasPosition:
		return &Signal{Side: portfolio.Buy, Size: s.size}
	case v > s.overbought && hasPosition:
		return &Signal{Side: portfolio.Sell}
	}
	return nil
}
