package backtest

import (
	"time"

	"intraday-backtest/internal/model"
)

// Side of an open position or a closed trade.
type Side int

const (
	Flat Side = iota
	Long
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// ExitReason records why a trade was closed.
type ExitReason string

const (
	ExitStop     ExitReason = "stop"      // trailing stop at a decision time
	ExitReverse  ExitReason = "reverse"   // flipped to the opposite side
	ExitBandExit ExitReason = "band_exit" // price fell back inside the band
	ExitEOD      ExitReason = "eod"       // forced flatten at session end
)

// Trade is an immutable round-trip record, appended by the engine in close
// order and never mutated afterwards.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	Side       Side
	Shares     float64
	EntryPrice float64
	ExitPrice  float64
	GrossPNL   float64
	Costs      float64
	NetPNL     float64
	ExitReason ExitReason
}

// EquityRow is one session's capital ledger entry. EquityEnd of session N is
// EquityStart of session N+1; capital chains additively across sessions.
type EquityRow struct {
	Date        string // "YYYY-MM-DD"
	EquityStart float64
	DailyPNL    float64
	EquityEnd   float64
	VolEst      model.Float
	Shares      float64
}

// Result is one backtest run's output, handed to the reporter as-is.
type Result struct {
	Trades []Trade
	Equity []EquityRow
}

// FinalEquity is the last session's closing equity, or 0 for an empty run.
func (r *Result) FinalEquity() float64 {
	if len(r.Equity) == 0 {
		return 0
	}
	return r.Equity[len(r.Equity)-1].EquityEnd
}
