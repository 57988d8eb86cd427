package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stocklab/stocklab/journal"
	"github.com/stocklab/stocklab/live"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/portfolio"
)

var tradeFlags struct {
	owner      string
	instrument string
	name       string
	side       string
	size       int
	price      float64
}

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Apply a buy or sell to a live portfolio ledger",
	Long: `Applies one trade to the owner's position for an instrument using
weighted-average-cost accounting, records it in the sqlite journal, and
prints the updated position. Prior trades are replayed from the journal so
the position carries over between invocations.`,
	RunE: runTrade,
}

func init() {
	f := tradeCmd.Flags()
	f.StringVar(&tradeFlags.owner, "owner", "", "portfolio owner id")
	f.StringVar(&tradeFlags.instrument, "instrument", "", "instrument code")
	f.StringVar(&tradeFlags.name, "name", "", "instrument display name")
	f.StringVar(&tradeFlags.side, "side", "", "BUY or SELL")
	f.IntVar(&tradeFlags.size, "size", 0, "number of shares")
	f.Float64Var(&tradeFlags.price, "price", 0, "trade price")
	for _, req := range []string{"owner", "instrument", "side", "size", "price"} {
		_ = tradeCmd.MarkFlagRequired(req)
	}

	rootCmd.AddCommand(tradeCmd)
}

func runTrade(cmd *cobra.Command, _ []string) error {
	side := portfolio.Side(strings.ToUpper(tradeFlags.side))
	if side != portfolio.Buy && side != portfolio.Sell {
		return fmt.Errorf("bad --side %q, want BUY or SELL", tradeFlags.side)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Type != "sqlite" {
		return fmt.Errorf("the live ledger needs journal.type=sqlite, got %q", cfg.Journal.Type)
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	ledger := live.NewLedger(j)
	prior, err := j.ListLiveTrades(tradeFlags.owner)
	if err != nil {
		return err
	}
	if err := ledger.Restore(prior); err != nil {
		return err
	}

	pos, err := ledger.ApplyTrade(
		tradeFlags.owner,
		market.Instrument{Code: tradeFlags.instrument, Name: tradeFlags.name},
		side,
		tradeFlags.size,
		tradeFlags.price,
	)
	if err != nil {
		return err
	}

	cmd.Printf("%s %s %d %s @ %.2f\n", tradeFlags.owner, side, tradeFlags.size, tradeFlags.instrument, tradeFlags.price)
	cmd.Printf("  shares:          %12d\n", pos.Shares)
	cmd.Printf("  avg cost:        %12.4f\n", pos.AvgCost)
	cmd.Printf("  market value:    %12.2f\n", pos.MarketValue)
	cmd.Printf("  unrealized pnl:  %12.2f\n", pos.UnrealizedPnL)
	cmd.Printf("  realized pnl:    %12.2f\n", pos.RealizedPnL)
	return nil
}
