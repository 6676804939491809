package backtest

import (
	"fmt"

	"intraday-backtest/internal/model"
	"intraday-backtest/internal/strategy"
)

// Simulator is the capability both variants implement: the per-bar
// event-driven Engine and the fractional ExposureSimulator. Both
// produce the same Result shape so the reporter and writers are shared.
type Simulator interface {
	Name() string
	Run(intraday []model.Bar, daily []model.DailyBar) (*Result, error)
}

// New selects a simulator variant by name.
func New(name string, cfg Config, scfg strategy.MomentumConfig) (Simulator, error) {
	switch name {
	case "", "event":
		return NewEngine(cfg), nil
	case "exposure":
		return NewExposureSimulator(cfg, strategy.NewMomentum(scfg)), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want \"event\" or \"exposure\")", name)
	}
}
