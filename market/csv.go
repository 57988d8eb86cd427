package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// CSVSource reads daily bars from per-instrument CSV files in a directory.
// It looks for <CODE>.csv first, then <CODE>.csv.xz (archived history files
// stay xz-compressed on disk and are decompressed on read).
//
// Expected columns: date,open,high,low,close,volume with dates as YYYY-MM-DD.
// A header row is detected and skipped.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

func (s *CSVSource) GetBars(_ context.Context, code string, start, end time.Time) ([]Bar, error) {
	r, closeFn, err := s.open(code)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	series, err := readBars(r)
	if err != nil {
		return nil, fmt.Errorf("market: read bars for %s: %w", code, err)
	}

	out := filterRange(series, start, end)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars in [%s, %s]",
			ErrDataUnavailable, code,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return out, nil
}

func (s *CSVSource) open(code string) (io.Reader, func() error, error) {
	plain := filepath.Join(s.Dir, code+".csv")
	if f, err := os.Open(plain); err == nil {
		return f, f.Close, nil
	}

	packed := filepath.Join(s.Dir, code+".csv.xz")
	f, err := os.Open(packed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: unknown instrument %q", ErrDataUnavailable, code)
	}
	xr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("market: open %s: %w", packed, err)
	}
	return xr, f.Close, nil
}

func readBars(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var out []Bar
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && isHeader(row) {
			continue
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, b)
	}

	// Files are expected date-sorted; enforce the ordering contract anyway.
	for i := 1; i < len(out); i++ {
		if !out[i].Date.After(out[i-1].Date) {
			return nil, fmt.Errorf("bars not in strictly ascending date order at %s",
				out[i].Date.Format("2006-01-02"))
		}
	}
	return out, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date")
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 6 {
		return Bar{}, fmt.Errorf("want 6 columns, got %d", len(row))
	}

	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[0]), time.UTC)
	if err != nil {
		return Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}

	var px [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad price %q: %w", row[i+1], err)
		}
		px[i] = v
	}

	vol, err := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
	}

	return Bar{
		Date:   date,
		Open:   px[0],
		High:   px[1],
		Low:    px[2],
		Close:  px[3],
		Volume: vol,
	}, nil
}
