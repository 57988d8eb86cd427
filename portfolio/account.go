package portfolio

import "fmt"

// Account holds the cash balance and commission rate for one owner (a backtest
// run or a live portfolio). Cash never goes negative: a debit that would
// overdraw fails with ErrInsufficientFunds.
type Account struct {
	Cash           float64
	InitialCash    float64
	CommissionRate float64
}

func NewAccount(initialCash, commissionRate float64) *Account {
	return &Account{
		Cash:           initialCash,
		InitialCash:    initialCash,
		CommissionRate: commissionRate,
	}
}

// Debit removes cash for a buy (price*size + commission).
func (a *Account) Debit(amount float64) error {
	if amount > a.Cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, amount, a.Cash)
	}
	a.Cash -= amount
	return nil
}

// Credit adds the net proceeds of a sell (price*size - commission).
func (a *Account) Credit(amount float64) {
	a.Cash += amount
}
