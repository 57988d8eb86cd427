// Package backtest replays historical bars through a strategy against a
// simulated broker and produces a performance report.
package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocklab/stocklab/journal"
	"github.com/stocklab/stocklab/market"
	"github.com/stocklab/stocklab/pkg/id"
	"github.com/stocklab/stocklab/portfolio"
	"github.com/stocklab/stocklab/sim"
	"github.com/stocklab/stocklab/stats"
	"github.com/stocklab/stocklab/strategy"
)

// State is a run's lifecycle phase. A run advances Initialized -> Validated ->
// Running -> Completed, or drops to Failed at any point; a failed run keeps
// nothing (no partial blotter or equity curve escapes).
type State string

const (
	StateInitialized State = "initialized"
	StateValidated   State = "validated"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

var (
	// ErrInvalidDateRange is returned when start is not before end.
	ErrInvalidDateRange = errors.New("backtest: start date must be before end date")

	// ErrNoData is returned when the data source has no bars for the
	// instrument/date range.
	ErrNoData = errors.New("backtest: no bars for instrument and date range")
)

// Request describes one backtest run. Params may be nil to take the
// strategy's declared defaults.
type Request struct {
	Instrument     market.Instrument
	StrategyID     string
	Params         map[string]float64
	Start          time.Time
	End            time.Time
	InitialCash    float64
	CommissionRate float64
}

// Result is the immutable record of a completed run.
type Result struct {
	RunID     string
	Request   Request
	State     State
	Metrics   stats.Metrics
	Trades    []portfolio.Fill
	Equity    []stats.EquityPoint
	CreatedAt time.Time
}

// Runner executes backtest requests. Runners are stateless and safe for
// concurrent use: every run owns a private broker, ledger and strategy
// instance, so independent runs need no synchronization.
type Runner struct {
	Source   market.BarSource
	Registry *strategy.Registry
	Journal  journal.Journal // optional results sink
	Log      zerolog.Logger
}

func NewRunner(source market.BarSource, registry *strategy.Registry, j journal.Journal, log zerolog.Logger) *Runner {
	return &Runner{
		Source:   source,
		Registry: registry,
		Journal:  j,
		Log:      log,
	}
}

// Run executes one request to completion. Configuration and data errors
// (ErrInvalidDateRange, strategy.ErrUnsupportedStrategy, ErrNoData) abort
// before simulation; per-bar order rejections never abort. On any failure the
// result is discarded and only the error is returned.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	state := StateInitialized
	log := r.Log.With().
		Str("instrument", req.Instrument.Code).
		Str("strategy", req.StrategyID).
		Logger()

	// Initialized -> Validated.
	if !req.Start.Before(req.End) {
		return nil, r.fail(log, state, ErrInvalidDateRange)
	}
	if req.InitialCash <= 0 {
		return nil, r.fail(log, state, fmt.Errorf("backtest: initial cash must be positive, got %v", req.InitialCash))
	}

	strat, err := r.Registry.New(req.StrategyID, req.Params)
	if err != nil {
		return nil, r.fail(log, state, err)
	}

	// The bulk fetch is the only blocking call; it happens once, before the
	// simulation loop.
	bars, err := r.Source.GetBars(ctx, req.Instrument.Code, req.Start, req.End)
	if err != nil {
		if errors.Is(err, market.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %v", ErrNoData, err)
		}
		return nil, r.fail(log, state, err)
	}
	if len(bars) == 0 {
		return nil, r.fail(log, state, ErrNoData)
	}
	state = StateValidated
	log.Debug().Int("bars", len(bars)).Msg("backtest validated")

	// Validated -> Running. Bars are processed strictly in order: indicator
	// state and the ledger are order-dependent.
	state = StateRunning
	broker := sim.NewBroker(req.Instrument.Code, req.InitialCash, req.CommissionRate)
	strat.Reset()

	equity := make([]stats.EquityPoint, 0, len(bars))
	for _, bar := range bars {
		if sig := strat.OnBar(bar, broker.Ledger.Shares > 0); sig != nil {
			r.submit(log, broker, sig, bar)
		}

		broker.Ledger.MarkToMarket(bar.Close)
		equity = append(equity, stats.EquityPoint{Date: bar.Date, Equity: broker.Equity()})
	}

	// Running -> Completed.
	res := &Result{
		RunID:     id.New(),
		Request:   req,
		State:     StateCompleted,
		Metrics:   stats.Compute(req.InitialCash, equity, broker.Blotter),
		Trades:    broker.Blotter,
		Equity:    equity,
		CreatedAt: time.Now().UTC(),
	}

	if r.Journal != nil {
		rec, err := toRecord(res)
		if err != nil {
			return nil, r.fail(log, state, err)
		}
		if err := r.Journal.RecordRun(rec); err != nil {
			return nil, r.fail(log, state, fmt.Errorf("backtest: persist run: %w", err))
		}
	}

	log.Info().
		Str("run_id", res.RunID).
		Float64("final_equity", res.Metrics.FinalEquity).
		Int("trades", res.Metrics.TradeCount).
		Msg("backtest completed")
	return res, nil
}

// submit turns a signal into an order. Sell signals always flatten the whole
// position. Rejections are logged and dropped; the run continues.
func (r *Runner) submit(log zerolog.Logger, broker *sim.Broker, sig *strategy.Signal, bar market.Bar) {
	order := portfolio.Order{Side: sig.Side, Size: sig.Size, Date: bar.Date}
	if sig.Side == portfolio.Sell {
		order.Size = broker.Ledger.Shares
	}

	fill, ok := broker.Submit(order, bar)
	if !ok {
		log.Debug().
			Str("side", string(order.Side)).
			Int("size", order.Size).
			Time("date", bar.Date).
			Msg("order rejected")
		return
	}
	log.Debug().
		Str("side", string(fill.Side)).
		Int("size", fill.Size).
		Float64("price", fill.Price).
		Time("date", fill.Date).
		Msg("order filled")
}

func (r *Runner) fail(log zerolog.Logger, state State, err error) error {
	log.Error().Str("state", string(state)).Err(err).Msg("backtest failed")
	return err
}

// toRecord flattens a result into the journal's run record.
func toRecord(res *Result) (journal.RunRecord, error) {
	params, err := json.Marshal(res.Request.Params)
	if err != nil {
		return journal.RunRecord{}, fmt.Errorf("backtest: encode params: %w", err)
	}

	rec := journal.RunRecord{
		RunID:          res.RunID,
		Instrument:     res.Request.Instrument.Code,
		InstrumentName: res.Request.Instrument.Name,
		StrategyID:     res.Request.StrategyID,
		Params:         string(params),
		Start:          res.Request.Start,
		End:            res.Request.End,
		InitialCash:    res.Request.InitialCash,
		CommissionRate: res.Request.CommissionRate,
		FinalEquity:    res.Metrics.FinalEquity,
		TotalReturn:    res.Metrics.TotalReturn,
		AnnualReturn:   res.Metrics.AnnualReturn,
		MaxDrawdown:    res.Metrics.MaxDrawdown,
		SharpeRatio:    res.Metrics.SharpeRatio,
		TradeCount:     res.Metrics.TradeCount,
		WinRate:        res.Metrics.WinRate,
		CreatedAt:      res.CreatedAt,
	}

	for _, t := range res.Trades {
		rec.Trades = append(rec.Trades, journal.TradeRecord{
			RunID:      res.RunID,
			FillID:     t.ID,
			Side:       string(t.Side),
			Size:       t.Size,
			Price:      t.Price,
			Commission: t.Commission,
			Date:       t.Date,
			RealizedPL: t.RealizedPnL,
		})
	}
	for _, e := range res.Equity {
		rec.Equity = append(rec.Equity, journal.EquityRecord{
			RunID:  res.RunID,
			Date:   e.Date,
			Equity: e.Equity,
		})
	}
	return rec, nil
}
