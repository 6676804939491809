package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteTradesCSV writes the trade log in close order.
func WriteTradesCSV(path string, trades []Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"entry_time",
		"exit_time",
		"side",
		"shares",
		"entry_price",
		"exit_price",
		"gross_pnl",
		"costs",
		"net_pnl",
		"exit_reason",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			fmtTime(t.EntryTime),
			fmtTime(t.ExitTime),
			t.Side.String(),
			fmtFloat(t.Shares),
			fmtFloat(t.EntryPrice),
			fmtFloat(t.ExitPrice),
			fmtFloat(t.GrossPNL),
			fmtFloat(t.Costs),
			fmtFloat(t.NetPNL),
			string(t.ExitReason),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteEquityCSV writes the per-session equity ledger, ascending by date.
func WriteEquityCSV(path string, equity []EquityRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date",
		"equity_start",
		"daily_pnl",
		"equity_end",
		"vol_est",
		"shares",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range equity {
		volEst := ""
		if r.VolEst.Valid {
			volEst = fmtFloat(r.VolEst.Value)
		}
		row := []string{
			r.Date,
			fmtFloat(r.EquityStart),
			fmtFloat(r.DailyPNL),
			fmtFloat(r.EquityEnd),
			volEst,
			fmtFloat(r.Shares),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
