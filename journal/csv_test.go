package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_RecordRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	created := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordRun(sampleRun("RUN1", created)))
	require.NoError(t, j.Close())

	readAll := func(path string) [][]string {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	t.Run("trades file has a header and one row per fill", func(t *testing.T) {
		rows := readAll(tradesPath)
		require.Len(t, rows, 3)

		assert.Equal(t, "run_id", rows[0][0])
		assert.Equal(t, []string{"RUN1", "01A", "BUY", "100"}, rows[1][:4])
		assert.Equal(t, "SELL", rows[2][2])
		assert.Equal(t, "200.000000", rows[2][7])
	})

	t.Run("equity file has one row per bar", func(t *testing.T) {
		rows := readAll(equityPath)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"run_id", "date", "equity"}, rows[0])
		assert.Equal(t, "10100.000000", rows[3][2])
	})
}
