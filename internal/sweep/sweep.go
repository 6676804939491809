// Package sweep runs a parameter grid of backtests. Cells are independent:
// each gets its own engine and its own copy of the configuration, so they
// run in parallel without any cross-cell synchronization.
package sweep

import (
	"sort"
	"sync"

	"intraday-backtest/internal/analysis"
	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/model"

	"go.uber.org/zap"
)

// Grid is the parameter grid: every volatility multiplier is crossed with
// every target daily vol.
type Grid struct {
	VolatilityMultipliers []float64
	TargetDailyVols       []float64
}

// Cell is one grid cell's parameters and resulting summary.
type Cell struct {
	VolatilityMultiplier float64          `json:"volatility_multiplier"`
	TargetDailyVol       float64          `json:"target_daily_vol"`
	Summary              analysis.Summary `json:"summary"`
	Err                  string           `json:"error,omitempty"`
}

// Run executes the grid with at most workers engines in flight and returns
// cells sorted by Sharpe, best first. Failed cells sort last and carry the
// error text.
func Run(intraday []model.Bar, daily []model.DailyBar, base backtest.Config,
	grid Grid, workers int, logger *zap.Logger) []Cell {

	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 4
	}
	base = base.WithDefaults()

	type job struct {
		idx int
		vm  float64
		tv  float64
	}
	var jobs []job
	for _, vm := range grid.VolatilityMultipliers {
		for _, tv := range grid.TargetDailyVols {
			jobs = append(jobs, job{idx: len(jobs), vm: vm, tv: tv})
		}
	}

	cells := make([]Cell, len(jobs))
	benchmark := analysis.BenchmarkReturns(daily)

	ch := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				cfg := base // value copy, nothing shared with other cells
				cfg.VolatilityMultiplier = j.vm
				cfg.TargetDailyVol = j.tv

				cell := Cell{VolatilityMultiplier: j.vm, TargetDailyVol: j.tv}
				res, err := backtest.NewEngine(cfg).Run(intraday, daily)
				if err != nil {
					cell.Err = err.Error()
					logger.Warn("sweep cell failed",
						zap.Float64("vm", j.vm), zap.Float64("target_vol", j.tv),
						zap.Error(err))
				} else {
					cell.Summary = analysis.Summarize(res.Equity, benchmark, float64(cfg.PeriodsPerYear))
					logger.Info("sweep cell done",
						zap.Float64("vm", j.vm), zap.Float64("target_vol", j.tv),
						zap.Float64("sharpe", cell.Summary.Sharpe))
				}
				cells[j.idx] = cell
			}
		}()
	}
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()

	sort.SliceStable(cells, func(i, j int) bool {
		if (cells[i].Err == "") != (cells[j].Err == "") {
			return cells[i].Err == ""
		}
		return cells[i].Summary.Sharpe > cells[j].Summary.Sharpe
	})
	return cells
}
