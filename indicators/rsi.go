package indicators

import "fmt"

// RSI is a streaming relative strength index using Wilder smoothing. The first
// N price changes are averaged directly; subsequent changes are smoothed with
// avg = (avg*(N-1) + change) / N.
//
// A flat series has no gains and no losses; by convention Value() is 50 then.
type RSI struct {
	period   int
	prev     float64
	havePrev bool
	count    int // price changes consumed
	avgGain  float64
	avgLoss  float64
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

// Warmup is period+1 closes: the first close only establishes the previous
// price, then period changes are needed.
func (r *RSI) Warmup() int { return r.period + 1 }

func (r *RSI) Reset() {
	r.prev = 0
	r.havePrev = false
	r.count = 0
	r.avgGain = 0
	r.avgLoss = 0
}

func (r *RSI) Update(close float64) {
	if !r.havePrev {
		r.prev = close
		r.havePrev = true
		return
	}

	change := close - r.prev
	r.prev = close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	r.count++
	if r.count <= r.period {
		r.avgGain += gain
		r.avgLoss += loss
		if r.count == r.period {
			r.avgGain /= float64(r.period)
			r.avgLoss /= float64(r.period)
		}
		return
	}

	n := float64(r.period)
	r.avgGain = (r.avgGain*(n-1) + gain) / n
	r.avgLoss = (r.avgLoss*(n-1) + loss) / n
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
