package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists runs, their blotters and equity curves, and live ledger
// trades in a single database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// RecordRun writes the run row, its trades and its equity curve in one
// transaction; a run is either fully persisted or not at all.
func (j *SQLite) RecordRun(r RunRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, instrument, instrument_name, strategy_id, params, start_date, end_date,
		 initial_cash, commission_rate, final_equity, total_return, annual_return,
		 max_drawdown, sharpe_ratio, trade_count, win_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Instrument, r.InstrumentName, r.StrategyID, r.Params, r.Start, r.End,
		r.InitialCash, r.CommissionRate, r.FinalEquity, r.TotalReturn, r.AnnualReturn,
		r.MaxDrawdown, r.SharpeRatio, r.TradeCount, r.WinRate, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("journal: insert run %s: %w", r.RunID, err)
	}

	for _, t := range r.Trades {
		_, err = tx.Exec(`
			INSERT INTO run_trades
			(run_id, fill_id, side, size, price, commission, trade_date, realized_pl)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, t.FillID, t.Side, t.Size, t.Price, t.Commission, t.Date, t.RealizedPL,
		)
		if err != nil {
			return fmt.Errorf("journal: insert trade %s: %w", t.FillID, err)
		}
	}

	for _, e := range r.Equity {
		_, err = tx.Exec(`
			INSERT INTO run_equity (run_id, equity_date, equity)
			VALUES (?, ?, ?)`,
			r.RunID, e.Date, e.Equity,
		)
		if err != nil {
			return fmt.Errorf("journal: insert equity point: %w", err)
		}
	}

	return tx.Commit()
}

// RecordLiveTrade appends one applied live ledger trade.
func (j *SQLite) RecordLiveTrade(t LiveTradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO live_trades
		(trade_id, owner, instrument, side, size, price, realized_pl, trade_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Owner, t.Instrument, t.Side, t.Size, t.Price, t.RealizedPL, t.Time,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
