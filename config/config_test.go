package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100000.0, cfg.Account.InitialCash)
	assert.Equal(t, "sma_cross", cfg.Backtest.Strategy)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		bc := BacktestConfig{Start: "2024-01-01", End: "2024-06-30"}
		start, end, err := bc.DateRange()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("bad format", func(t *testing.T) {
		t.Parallel()

		bc := BacktestConfig{Start: "01/01/2024", End: "2024-06-30"}
		_, _, err := bc.DateRange()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config { return Default() }

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cash", func(c *Config) { c.Account.InitialCash = 0 }},
		{"negative commission", func(c *Config) { c.Account.CommissionRate = -0.001 }},
		{"commission of one", func(c *Config) { c.Account.CommissionRate = 1 }},
		{"missing instrument", func(c *Config) { c.Backtest.Instrument = "" }},
		{"missing strategy", func(c *Config) { c.Backtest.Strategy = "" }},
		{"bad start date", func(c *Config) { c.Backtest.Start = "not-a-date" }},
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }},
		{"sqlite journal without path", func(c *Config) { c.Journal.DBPath = "" }},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "kafka" }},
		{"csv journal without files", func(c *Config) {
			c.Journal = JournalConfig{Type: "csv"}
		}},
		{"file logging without path", func(c *Config) {
			c.Logging.File = true
			c.Logging.FilePath = ""
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("journal none needs no paths", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Journal = JournalConfig{Type: "none"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	t.Run("yaml round-trip", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "stocklab.yaml")
		want := Default()
		want.Backtest.Params = map[string]float64{"period": 10}
		require.NoError(t, want.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("json round-trip", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "stocklab.json")
		want := Default()
		require.NoError(t, want.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("garbage content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{{{not config"), 0o644))
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid config is rejected on load", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "stocklab.yaml")
		cfg := Default()
		require.NoError(t, cfg.SaveToFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data = append(data, []byte("\naccount:\n  initial_cash: -5\n")...)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err = LoadFromFile(path)
		assert.Error(t, err)
	})
}
