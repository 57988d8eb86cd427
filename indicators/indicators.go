// Package indicators provides streaming technical indicators for daily closes.
package indicators

// Indicator computes a single streaming value from closing prices. Indicators
// are deterministic: the same sequence of updates always yields the same value.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next bar's closing price.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value, or 0 before warmup completes.
	// Callers should always check Ready() first.
	Value() float64
}
