package strategy

import (
	"intraday-backtest/internal/model"
	"intraday-backtest/internal/noise"
	"intraday-backtest/internal/vwap"
)

// MomentumConfig tunes the intraday momentum generator.
type MomentumConfig struct {
	Lookback           int     // momentum and band/volatility window, bars
	VolatilityMultiple float64 // scales both the band width and the signal threshold
	MaxPosition        float64 // exposure cap (fraction of capital)
	HoldBars           int     // how long a signal is held without refresh
	PeriodsPerYear     float64 // annualization basis for the volatility proxy
}

func (c MomentumConfig) withDefaults() MomentumConfig {
	q := c
	if q.Lookback == 0 {
		q.Lookback = 20
	}
	if q.VolatilityMultiple == 0 {
		q.VolatilityMultiple = 1.0
	}
	if q.MaxPosition == 0 {
		q.MaxPosition = 1.0
	}
	if q.HoldBars == 0 {
		q.HoldBars = 30
	}
	if q.PeriodsPerYear == 0 {
		q.PeriodsPerYear = 252
	}
	return q
}

// Momentum generates breakout signals: momentum over the lookback horizon
// compared against a volatility-scaled threshold, forced flat while price
// sits inside the ATR noise band.
type Momentum struct {
	cfg MomentumConfig
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	return &Momentum{cfg: cfg.withDefaults()}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Generate(bars []model.Bar, sessions []model.SessionSpan) []Point {
	cfg := m.cfg
	points := make([]Point, len(bars))

	bands := noise.ComputeATRBands(bars, cfg.Lookback, cfg.VolatilityMultiple)
	vol := noise.RollingVolatility(bars, cfg.Lookback, cfg.PeriodsPerYear)
	vw := vwap.Compute(bars, sessions)

	heldFor := 0 // bars since the position was last refreshed by a signal
	position := 0.0

	for i := range bars {
		p := &points[i]
		p.Volatility = vol[i]
		p.VWAP = vw[i]

		if i >= cfg.Lookback && bars[i-cfg.Lookback].Close != 0 {
			p.Momentum = model.Some(bars[i].Close/bars[i-cfg.Lookback].Close - 1)
		}
		if bands[i].Upper.Valid && bands[i].Lower.Valid {
			c := bars[i].Close
			p.InNoise = c >= bands[i].Lower.Value && c <= bands[i].Upper.Value
		}

		if p.Momentum.Valid && p.Volatility.Valid {
			threshold := p.Volatility.Value * cfg.VolatilityMultiple
			switch {
			case p.Momentum.Value > threshold:
				p.Signal = 1
			case p.Momentum.Value < -threshold:
				p.Signal = -1
			}
		}
		// Band membership overrides momentum: inside the noise area there is
		// no signal, whatever the momentum says.
		if p.InNoise {
			p.Signal = 0
		}

		if p.Signal != 0 {
			position = p.Signal
			heldFor = 0
		} else if position != 0 {
			heldFor++
			if heldFor > cfg.HoldBars {
				position = 0
			}
		}

		p.Position = clip(position, cfg.MaxPosition)
	}
	return points
}

func clip(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
