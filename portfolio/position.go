package portfolio

import "fmt"

// Position tracks shares, weighted-average cost and P&L for one instrument
// held by one owner. It is mutated only through ApplyFill and MarkToMarket.
//
// Invariants: Shares >= 0 and MarketValue == Shares * CurrentPrice. AvgCost
// only changes on buys; a fully sold position keeps its last cost basis.
type Position struct {
	Code          string
	Shares        int
	AvgCost       float64
	CurrentPrice  float64
	MarketValue   float64
	UnrealizedPnL float64
	RealizedPnL   float64 // cumulative, across all sells
}

func NewPosition(code string) *Position {
	return &Position{Code: code}
}

// ApplyFill applies a buy or sell fill and returns the P&L realized by it
// (0 for buys).
//
// Buys fold the fill into the weighted-average cost. Sells realize
// size*(price-avgCost) against the current cost basis and leave the basis
// unchanged; selling more shares than held fails with ErrInsufficientPosition
// and leaves the position untouched. A fully sold position is closed but the
// record is kept, with MarketValue 0.
func (p *Position) ApplyFill(f Fill) (float64, error) {
	switch f.Side {
	case Buy:
		newShares := p.Shares + f.Size
		if newShares == 0 {
			p.AvgCost = 0
		} else {
			p.AvgCost = (float64(p.Shares)*p.AvgCost + float64(f.Size)*f.Price) / float64(newShares)
		}
		p.Shares = newShares
		p.refresh()
		return 0, nil

	case Sell:
		if f.Size > p.Shares {
			return 0, fmt.Errorf("%w: sell %d, held %d", ErrInsufficientPosition, f.Size, p.Shares)
		}
		realized := float64(f.Size) * (f.Price - p.AvgCost)
		p.RealizedPnL += realized
		p.Shares -= f.Size
		p.refresh()
		return realized, nil

	default:
		return 0, fmt.Errorf("portfolio: unknown side %q", f.Side)
	}
}

// MarkToMarket revalues the position at the given price. It is the only way
// CurrentPrice changes.
func (p *Position) MarkToMarket(price float64) {
	p.CurrentPrice = price
	p.refresh()
}

// refresh recomputes the derived fields from Shares, AvgCost and CurrentPrice.
func (p *Position) refresh() {
	p.MarketValue = float64(p.Shares) * p.CurrentPrice
	p.UnrealizedPnL = float64(p.Shares) * (p.CurrentPrice - p.AvgCost)
}
