package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stocklab/stocklab/backtest"
	"github.com/stocklab/stocklab/config"
	"github.com/stocklab/stocklab/logging"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/strategy"
)

var backtestFlags struct {
	instrument string
	name       string
	strategyID string
	params     []string
	start      string
	end        string
	cash       float64
	commission float64
	dataDir    string
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy backtest over historical daily bars",
	Example: `  stocklab backtest --instrument 600519 --strategy sma_cross --param period=20 \
      --start 2024-01-01 --end 2024-12-31 --cash 100000`,
	RunE: runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.instrument, "instrument", "", "instrument code (defaults to config)")
	f.StringVar(&backtestFlags.name, "name", "", "instrument display name")
	f.StringVar(&backtestFlags.strategyID, "strategy", "", "strategy id (see 'stocklab strategies')")
	f.StringArrayVar(&backtestFlags.params, "param", nil, "strategy parameter as name=value (repeatable)")
	f.StringVar(&backtestFlags.start, "start", "", "start date YYYY-MM-DD")
	f.StringVar(&backtestFlags.end, "end", "", "end date YYYY-MM-DD")
	f.Float64Var(&backtestFlags.cash, "cash", 0, "initial cash")
	f.Float64Var(&backtestFlags.commission, "commission", -1, "commission rate, e.g. 0.001")
	f.StringVar(&backtestFlags.dataDir, "data", "", "bar data directory")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBacktestFlags(cfg)

	start, end, err := cfg.Backtest.DateRange()
	if err != nil {
		return err
	}

	params := cfg.Backtest.Params
	if len(backtestFlags.params) > 0 {
		params, err = parseParams(backtestFlags.params)
		if err != nil {
			return err
		}
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	runner := backtest.NewRunner(
		market.NewCSVSource(cfg.Data.Dir),
		strategy.DefaultRegistry(),
		j,
		logging.New(cfg.Logging),
	)

	res, err := runner.Run(cmd.Context(), backtest.Request{
		Instrument:     market.Instrument{Code: cfg.Backtest.Instrument, Name: cfg.Backtest.InstrumentName},
		StrategyID:     cfg.Backtest.Strategy,
		Params:         params,
		Start:          start,
		End:            end,
		InitialCash:    cfg.Account.InitialCash,
		CommissionRate: cfg.Account.CommissionRate,
	})
	if err != nil {
		return err
	}

	printResult(cmd, res)
	return nil
}

func applyBacktestFlags(cfg *config.Config) {
	if backtestFlags.instrument != "" {
		cfg.Backtest.Instrument = backtestFlags.instrument
	}
	if backtestFlags.name != "" {
		cfg.Backtest.InstrumentName = backtestFlags.name
	}
	if backtestFlags.strategyID != "" {
		cfg.Backtest.Strategy = backtestFlags.strategyID
	}
	if backtestFlags.start != "" {
		cfg.Backtest.Start = backtestFlags.start
	}
	if backtestFlags.end != "" {
		cfg.Backtest.End = backtestFlags.end
	}
	if backtestFlags.cash > 0 {
		cfg.Account.InitialCash = backtestFlags.cash
	}
	if backtestFlags.commission >= 0 {
		cfg.Account.CommissionRate = backtestFlags.commission
	}
	if backtestFlags.dataDir != "" {
		cfg.Data.Dir = backtestFlags.dataDir
	}
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad --param %q, want name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("bad --param %q: %w", pair, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func printResult(cmd *cobra.Command, res *backtest.Result) {
	m := res.Metrics
	cmd.Printf("Run %s  %s [%s]  %s .. %s\n",
		res.RunID,
		res.Request.Instrument.Code,
		res.Request.StrategyID,
		res.Request.Start.Format("2006-01-02"),
		res.Request.End.Format("2006-01-02"))
	cmd.Printf("  initial cash:   %12.2f\n", res.Request.InitialCash)
	cmd.Printf("  final equity:   %12.2f\n", m.FinalEquity)
	cmd.Printf("  total return:   %11.2f%%\n", m.TotalReturn*100)
	cmd.Printf("  annual return:  %11.2f%%\n", m.AnnualReturn*100)
	cmd.Printf("  max drawdown:   %11.2f%%\n", m.MaxDrawdown*100)
	cmd.Printf("  sharpe ratio:   %12.4f\n", m.SharpeRatio)
	cmd.Printf("  trades:         %12d\n", m.TradeCount)
	cmd.Printf("  win rate:       %11.2f%%\n", m.WinRate*100)

	if len(res.Trades) > 0 {
		cmd.Println("  blotter:")
		for _, t := range res.Trades {
			line := fmt.Sprintf("    %s  %-4s %6d @ %10.2f  comm %8.2f",
				t.Date.Format("2006-01-02"), t.Side, t.Size, t.Price, t.Commission)
			if t.Side == "SELL" {
				line += fmt.Sprintf("  pnl %10.2f", t.RealizedPnL)
			}
			cmd.Println(line)
		}
	}
}
