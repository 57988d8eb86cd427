package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrDataUnavailable is returned when a source has no bars for the requested
// instrument or date range.
var ErrDataUnavailable = errors.New("market: data unavailable")

// BarSource supplies daily bars for an instrument over a date range, ordered by
// ascending date. A source may return fewer bars than the range suggests
// (non-trading days); callers must not assume fixed-length series.
type BarSource interface {
	GetBars(ctx context.Context, code string, start, end time.Time) ([]Bar, error)
}

// MemorySource is an in-memory BarSource, used for tests and fixtures.
type MemorySource struct {
	bars map[string][]Bar
}

func NewMemorySource() *MemorySource {
	return &MemorySource{bars: make(map[string][]Bar)}
}

// Add appends bars for an instrument code and keeps the series date-sorted.
func (s *MemorySource) Add(code string, bars ...Bar) {
	s.bars[code] = append(s.bars[code], bars...)
	sort.Slice(s.bars[code], func(i, j int) bool {
		return s.bars[code][i].Date.Before(s.bars[code][j].Date)
	})
}

func (s *MemorySource) GetBars(_ context.Context, code string, start, end time.Time) ([]Bar, error) {
	series, ok := s.bars[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown instrument %q", ErrDataUnavailable, code)
	}

	out := filterRange(series, start, end)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars in [%s, %s]",
			ErrDataUnavailable, code,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return out, nil
}

// filterRange returns the bars with start <= date <= end.
func filterRange(series []Bar, start, end time.Time) []Bar {
	var out []Bar
	for _, b := range series {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
