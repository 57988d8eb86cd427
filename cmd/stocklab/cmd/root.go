// Package cmd implements the stocklab command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stocklab/stocklab/config"
	"github.com/stocklab/stocklab/journal"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stocklab",
	Short: "Stock strategy backtester and portfolio ledger",
	Long: `Stocklab replays historical daily bars through trading strategies,
simulates order execution against a cash account, and reports standard
risk/return statistics. The same weighted-average-cost ledger also tracks
live portfolio holdings.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./stocklab.yaml)")
}

// loadConfig reads the configured file, falling back to ./stocklab.yaml and
// then to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("stocklab.yaml"); err == nil {
			path = "stocklab.yaml"
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// openJournal builds the configured results sink; a "none" journal returns
// (nil, nil).
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}
