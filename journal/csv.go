package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes each run's trades and equity curve to two flat files, one row
// per fill / per bar, keyed by run_id.
type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{
		trades: csv.NewWriter(tf),
		equity: csv.NewWriter(ef),
		tf:     tf,
		ef:     ef,
	}

	if err := j.trades.Write([]string{"run_id", "fill_id", "side", "size", "price", "commission", "date", "realized_pl"}); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.equity.Write([]string{"run_id", "date", "equity"}); err != nil {
		j.Close()
		return nil, err
	}
	j.trades.Flush()
	j.equity.Flush()
	if err := j.trades.Error(); err != nil {
		return nil, err
	}
	if err := j.equity.Error(); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	for _, t := range r.Trades {
		j.trades.Write([]string{
			r.RunID,
			t.FillID,
			t.Side,
			strconv.Itoa(t.Size),
			f(t.Price),
			f(t.Commission),
			t.Date.Format(time.RFC3339),
			f(t.RealizedPL),
		})
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}

	for _, e := range r.Equity {
		j.equity.Write([]string{
			r.RunID,
			e.Date.Format(time.RFC3339),
			f(e.Equity),
		})
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
