package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a run summary by ID, without its trades or equity curve.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`
		SELECT run_id, instrument, instrument_name, strategy_id, params, start_date, end_date,
		       initial_cash, commission_rate, final_equity, total_return, annual_return,
		       max_drawdown, sharpe_ratio, trade_count, win_rate, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("journal: run %q not found", runID)
	}
	return rec, err
}

// ListRuns returns run summaries, most recent first.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, instrument, instrument_name, strategy_id, params, start_date, end_date,
		       initial_cash, commission_rate, final_equity, total_return, annual_return,
		       max_drawdown, sharpe_ratio, trade_count, win_rate, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTradesByRun returns a run's blotter in fill order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, fill_id, side, size, price, commission, trade_date, realized_pl
		FROM run_trades
		WHERE run_id = ?
		ORDER BY fill_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.RunID, &t.FillID, &t.Side, &t.Size, &t.Price,
			&t.Commission, &t.Date, &t.RealizedPL); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquityByRun returns a run's equity curve in date order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, equity_date, equity
		FROM run_equity
		WHERE run_id = ?
		ORDER BY equity_date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var e EquityRecord
		if err := rows.Scan(&e.RunID, &e.Date, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListLiveTrades returns an owner's applied trades, oldest first.
func (j *SQLite) ListLiveTrades(owner string) ([]LiveTradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, owner, instrument, side, size, price, realized_pl, trade_time
		FROM live_trades
		WHERE owner = ?
		ORDER BY trade_time ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LiveTradeRecord
	for rows.Next() {
		var t LiveTradeRecord
		if err := rows.Scan(&t.TradeID, &t.Owner, &t.Instrument, &t.Side,
			&t.Size, &t.Price, &t.RealizedPL, &t.Time); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var r RunRecord
	err := s.Scan(
		&r.RunID, &r.Instrument, &r.InstrumentName, &r.StrategyID, &r.Params,
		&r.Start, &r.End, &r.InitialCash, &r.CommissionRate, &r.FinalEquity,
		&r.TotalReturn, &r.AnnualReturn, &r.MaxDrawdown, &r.SharpeRatio,
		&r.TradeCount, &r.WinRate, &r.CreatedAt,
	)
	return r, err
}
