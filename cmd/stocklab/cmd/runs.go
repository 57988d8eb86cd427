package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocklab/stocklab/journal"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted backtest runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Journal.Type != "sqlite" {
			return fmt.Errorf("listing runs needs journal.type=sqlite, got %q", cfg.Journal.Type)
		}

		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()

		runs, err := j.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("no runs recorded")
			return nil
		}

		for _, r := range runs {
			cmd.Printf("%s  %-10s %-16s %s..%s  return %7.2f%%  dd %6.2f%%  trades %3d\n",
				r.RunID, r.Instrument, r.StrategyID,
				r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
				r.TotalReturn*100, r.MaxDrawdown*100, r.TradeCount)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
