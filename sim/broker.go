// Package sim provides the simulated broker used by backtest runs. Market
// orders fill at the close of the bar that produced the signal, with
// commission charged at the account's rate.
package sim

import (
	"math"

	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/pkg/id"
	"github.com/stocklab/stocklab/portfolio"
)

// Broker owns one account, one position ledger and the trade blotter for a
// single run. It is not safe for concurrent use; a run drives it from one
// goroutine.
type Broker struct {
	Account *portfolio.Account
	Ledger  *portfolio.Position
	Blotter []portfolio.Fill
}

func NewBroker(code string, initialCash, commissionRate float64) *Broker {
	return &Broker{
		Account: portfolio.NewAccount(initialCash, commissionRate),
		Ledger:  portfolio.NewPosition(code),
	}
}

// Commission is price*size*rate rounded to the cent.
func Commission(price float64, size int, rate float64) float64 {
	return math.Round(price*float64(size)*rate*100) / 100
}

// Submit converts an order into a fill at the bar's closing price. Rejections
// (insufficient funds for a buy, insufficient shares for a sell) are
// non-fatal: the order is dropped and (nil, false) is returned.
//
// On acceptance the account cash, the ledger and the blotter are all updated
// before returning.
func (b *Broker) Submit(o portfolio.Order, bar market.Bar) (*portfolio.Fill, bool) {
	if o.Size <= 0 {
		return nil, false
	}

	price := bar.Close
	commission := Commission(price, o.Size, b.Account.CommissionRate)

	switch o.Side {
	case portfolio.Buy:
		if err := b.Account.Debit(price*float64(o.Size) + commission); err != nil {
			return nil, false
		}
	case portfolio.Sell:
		if o.Size > b.Ledger.Shares {
			return nil, false
		}
		b.Account.Credit(price*float64(o.Size) - commission)
	default:
		return nil, false
	}

	f := portfolio.Fill{
		ID:         id.New(),
		Side:       o.Side,
		Size:       o.Size,
		Price:      price,
		Commission: commission,
		Date:       bar.Date,
	}

	// Cannot fail: buys always apply, and the sell size was checked above.
	realized, err := b.Ledger.ApplyFill(f)
	if err != nil {
		panic(err)
	}
	f.RealizedPnL = realized

	b.Blotter = append(b.Blotter, f)
	return &f, true
}

// Equity is cash plus the marked value of the position.
func (b *Broker) Equity() float64 {
	return b.Account.Cash + b.Ledger.MarketValue
}
