// Package config loads and validates the stocklab configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// AccountConfig sets the simulated account parameters.
type AccountConfig struct {
	InitialCash    float64 `json:"initial_cash" yaml:"initial_cash"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
}

// BacktestConfig names the default instrument, strategy and date range for a
// run; flags override these.
type BacktestConfig struct {
	Instrument     string             `json:"instrument" yaml:"instrument"`
	InstrumentName string             `json:"instrument_name,omitempty" yaml:"instrument_name,omitempty"`
	Strategy       string             `json:"strategy" yaml:"strategy"`
	Params         map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	Start          string             `json:"start" yaml:"start"` // YYYY-MM-DD
	End            string             `json:"end" yaml:"end"`     // YYYY-MM-DD
}

// DataConfig locates the bar data.
type DataConfig struct {
	Dir string `json:"dir" yaml:"dir"` // directory of <CODE>.csv / <CODE>.csv.xz files
}

// JournalConfig selects the results sink.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`
	Console    bool   `json:"console" yaml:"console"`
	File       bool   `json:"file" yaml:"file"`
	FilePath   string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// DateRange parses the configured start/end dates.
func (c BacktestConfig) DateRange() (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02", c.Start, time.UTC)
	if err != nil {
		return start, end, fmt.Errorf("config: bad start date %q: %w", c.Start, err)
	}
	end, err = time.ParseInLocation("2006-01-02", c.End, time.UTC)
	if err != nil {
		return start, end, fmt.Errorf("config: bad end date %q: %w", c.End, err)
	}
	return start, end, nil
}

// LoadFromFile reads a YAML or JSON config file, trying YAML first.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if yErr := yaml.Unmarshal(data, cfg); yErr != nil {
		if jErr := json.Unmarshal(data, cfg); jErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yErr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the config, YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Account.CommissionRate < 0 || c.Account.CommissionRate >= 1 {
		return fmt.Errorf("account.commission_rate must be in [0, 1)")
	}
	if c.Backtest.Instrument == "" {
		return fmt.Errorf("backtest.instrument is required")
	}
	if c.Backtest.Strategy == "" {
		return fmt.Errorf("backtest.strategy is required")
	}
	if _, _, err := c.Backtest.DateRange(); err != nil {
		return err
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.trades_file and journal.equity_file required for csv journal")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}

	if c.Logging.File && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path required when file logging is enabled")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCash:    100000,
			CommissionRate: 0.001,
		},
		Backtest: BacktestConfig{
			Instrument: "600519",
			Strategy:   "sma_cross",
			Start:      "2024-01-01",
			End:        "2024-12-31",
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./stocklab.sqlite",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}
