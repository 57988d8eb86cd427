package market

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-01,10.0,10.5,9.8,10.2,1000
2024-01-02,10.2,10.8,10.1,10.6,1500
2024-01-03,10.6,11.0,10.4,10.9,1200
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeXZ(t *testing.T, dir, name, content string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestCSVSource(t *testing.T) {
	t.Parallel()

	t.Run("reads plain csv with header", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "600519.csv", sampleCSV)

		bars, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 3))
		require.NoError(t, err)
		require.Len(t, bars, 3)

		assert.Equal(t, date(2024, 1, 1), bars[0].Date)
		assert.Equal(t, 10.0, bars[0].Open)
		assert.Equal(t, 10.5, bars[0].High)
		assert.Equal(t, 9.8, bars[0].Low)
		assert.Equal(t, 10.2, bars[0].Close)
		assert.Equal(t, int64(1000), bars[0].Volume)
	})

	t.Run("reads headerless csv", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "600519.csv", "2024-01-01,10,10,10,10,500\n")

		bars, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 1))
		require.NoError(t, err)
		assert.Len(t, bars, 1)
	})

	t.Run("falls back to xz archive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeXZ(t, dir, "600519.csv.xz", sampleCSV)

		bars, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 3))
		require.NoError(t, err)
		assert.Len(t, bars, 3)
	})

	t.Run("plain file wins over the archive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "600519.csv", "2024-01-01,1,1,1,1,1\n")
		writeXZ(t, dir, "600519.csv.xz", sampleCSV)

		bars, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 3))
		require.NoError(t, err)
		assert.Len(t, bars, 1)
	})

	t.Run("date range filters rows", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "600519.csv", sampleCSV)

		bars, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 2), date(2024, 1, 2))
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, 10.6, bars[0].Close)
	})

	t.Run("missing instrument", func(t *testing.T) {
		t.Parallel()

		_, err := NewCSVSource(t.TempDir()).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 3))
		assert.ErrorIs(t, err, ErrDataUnavailable)
	})

	t.Run("malformed rows are rejected", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name string
			body string
		}{
			{"bad date", "01/02/2024,10,10,10,10,100\n"},
			{"bad price", "2024-01-01,ten,10,10,10,100\n"},
			{"bad volume", "2024-01-01,10,10,10,10,1.5\n"},
			{"short row", "2024-01-01,10,10\n"},
			{"duplicate date", "2024-01-01,10,10,10,10,100\n2024-01-01,10,10,10,10,100\n"},
			{"descending dates", "2024-01-02,10,10,10,10,100\n2024-01-01,10,10,10,10,100\n"},
		}

		for _, tc := range cases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				dir := t.TempDir()
				writeFile(t, dir, "600519.csv", tc.body)

				_, err := NewCSVSource(dir).GetBars(context.Background(), "600519", date(2024, 1, 1), date(2024, 1, 3))
				assert.Error(t, err)
			})
		}
	})
}
