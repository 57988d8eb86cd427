package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	instrument_name TEXT NOT NULL,
	strategy_id TEXT NOT NULL,
	params TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	initial_cash REAL NOT NULL,
	commission_rate REAL NOT NULL,
	final_equity REAL NOT NULL,
	total_return REAL NOT NULL,
	annual_return REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	trade_count INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS run_trades (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	fill_id TEXT NOT NULL,
	side TEXT NOT NULL,
	size INTEGER NOT NULL,
	price REAL NOT NULL,
	commission REAL NOT NULL,
	trade_date DATETIME NOT NULL,
	realized_pl REAL NOT NULL,
	PRIMARY KEY (run_id, fill_id)
);

CREATE TABLE IF NOT EXISTS run_equity (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	equity_date DATETIME NOT NULL,
	equity REAL NOT NULL,
	PRIMARY KEY (run_id, equity_date)
);

CREATE TABLE IF NOT EXISTS live_trades (
	trade_id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	size INTEGER NOT NULL,
	price REAL NOT NULL,
	realized_pl REAL NOT NULL,
	trade_time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_live_trades_owner ON live_trades(owner, instrument);
`
