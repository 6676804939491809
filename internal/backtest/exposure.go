package backtest

import (
	"fmt"
	"time"

	"intraday-backtest/internal/model"
	"intraday-backtest/internal/strategy"
)

// ExposureSimulator is the lightweight fractional-exposure variant:
// it applies a generator's fractional positions to bar-to-bar returns with a
// proportional turnover cost, instead of simulating discrete entries and
// exits. It emits no Trade records; its equity ledger aggregates the per-bar
// curve to one row per session so the reporter sees the same shape as the
// event engine's output.
type ExposureSimulator struct {
	cfg       Config
	generator strategy.Generator

	// TransactionCostBps is charged on turnover (change in exposure).
	TransactionCostBps float64
}

func NewExposureSimulator(cfg Config, gen strategy.Generator) *ExposureSimulator {
	return &ExposureSimulator{cfg: cfg.WithDefaults(), generator: gen, TransactionCostBps: 0.5}
}

func (s *ExposureSimulator) Name() string { return "exposure" }

func (s *ExposureSimulator) Run(intraday []model.Bar, daily []model.DailyBar) (*Result, error) {
	_ = daily // sizing is positional, not volatility-targeted, in this variant
	cfg := s.cfg
	if len(intraday) == 0 {
		return nil, fmt.Errorf("no intraday bars")
	}
	for i := 1; i < len(intraday); i++ {
		if !intraday[i].Time.After(intraday[i-1].Time) {
			return nil, fmt.Errorf("intraday bars not strictly chronological at %s",
				intraday[i].Time.Format(time.RFC3339))
		}
	}

	bars := model.FilterRTH(intraday, cfg.RTHStart, cfg.RTHEnd)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars inside regular trading hours")
	}
	sessions := model.SplitSessions(bars)
	points := s.generator.Generate(bars, sessions)

	res := &Result{}
	equity := cfg.InitialCapital
	prevPos := 0.0

	for _, span := range sessions {
		start := equity
		for i := span.Start; i < span.End; i++ {
			ret := 0.0
			if i > 0 && bars[i-1].Close != 0 {
				ret = bars[i].Close/bars[i-1].Close - 1
			}
			pos := points[i].Position
			turnover := abs(pos - prevPos)
			cost := turnover * s.TransactionCostBps / 10_000

			// Exposure held over the bar is the previous bar's position.
			net := prevPos*ret - cost
			equity *= 1 + net
			prevPos = pos
		}
		res.Equity = append(res.Equity, EquityRow{
			Date:        span.Date,
			EquityStart: start,
			DailyPNL:    equity - start,
			EquityEnd:   equity,
		})
	}
	return res, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
