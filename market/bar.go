// Package market defines daily OHLCV price data and the sources that supply it.
package market

import "time"

// Bar is one trading day's OHLCV record for an instrument. Bars are immutable
// and always delivered in strictly ascending date order.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Instrument identifies a tradeable security. Code is the identity; Name is
// descriptive only.
type Instrument struct {
	Code string
	Name string
}
