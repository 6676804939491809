package backtest

import (
	"fmt"
	"time"

	"intraday-backtest/internal/model"
	"intraday-backtest/internal/noise"
	"intraday-backtest/internal/vwap"
)

// Engine is the event-driven session simulator. One Engine instance owns one
// run's position and capital state; instances share nothing, so parameter
// sweeps can run engines in parallel.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.WithDefaults()}
}

func (e *Engine) Name() string { return "event" }

// position is the per-session mutable state. It is reset to flat before
// every session and force-flattened at session end.
type position struct {
	side       Side
	entryPrice float64
	entryTime  time.Time
}

// Run walks every session chronologically and emits closed trades plus one
// equity row per session.
//
// Within a session, each decision bar is evaluated in a fixed precedence:
// trailing stop first, then entry/flip/exit against the noise band. Bars
// whose bands are undefined (estimator warm-up) are skipped entirely. After
// the last bar any open position is closed at the session close.
func (e *Engine) Run(intraday []model.Bar, daily []model.DailyBar) (*Result, error) {
	cfg := e.cfg
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
	bands := noise.ComputeBands(bars, sessions, cfg.LookbackDays, cfg.VolatilityMultiplier)
	vw := vwap.Compute(bars, sessions)
	dailyVol := noise.DailyVolatility(daily, cfg.DailyVolLookback)

	res := &Result{}
	capital := cfg.InitialCapital

	for _, s := range sessions {
		volEst := dailyVol[s.Date]
		shares := Shares(capital, s.Open(bars), volEst, cfg.TargetDailyVol, cfg.MaxLeverage)
		if shares == 0 {
			// Deliberate skip: undefined risk estimate, no trading today.
			res.Equity = append(res.Equity, EquityRow{
				Date:        s.Date,
				EquityStart: capital,
				EquityEnd:   capital,
				VolEst:      volEst,
				Shares:      0,
			})
			continue
		}

		dailyPNL := e.walkSession(bars, bands, vw, s, shares, &res.Trades)

		res.Equity = append(res.Equity, EquityRow{
			Date:        s.Date,
			EquityStart: capital,
			DailyPNL:    dailyPNL,
			EquityEnd:   capital + dailyPNL,
			VolEst:      volEst,
			Shares:      shares,
		})
		capital += dailyPNL
	}

	return res, nil
}

func (e *Engine) walkSession(bars []model.Bar, bands []noise.Band, vw []model.Float,
	s model.SessionSpan, shares float64, trades *[]Trade) float64 {

	pos := position{}
	dailyPNL := 0.0
	last := bars[s.End-1]

	for i := s.Start; i < s.End; i++ {
		bar := bars[i]
		band := bands[i]
		if !band.Upper.Valid || !band.Lower.Valid {
			continue
		}
		if !e.isDecisionTime(bar.Time) {
			continue
		}

		price := bar.Close
		upper := band.Upper.Value
		lower := band.Lower.Value
		// 1. Trailing stop. VWAP tightens the stop when defined; with zero
		// cumulative volume the band alone is the stop.
		if pos.side == Long {
			stop := upper
			if vw[i].Valid && vw[i].Value > stop {
				stop = vw[i].Value
			}
			if price <= stop {
				dailyPNL += e.close(&pos, bar.Time, price, shares, ExitStop, trades)
			}
		} else if pos.side == Short {
			stop := lower
			if vw[i].Valid && vw[i].Value < stop {
				stop = vw[i].Value
			}
			if price >= stop {
				dailyPNL += e.close(&pos, bar.Time, price, shares, ExitStop, trades)
			}
		}

		// 2. Entry / flip against the raw band.
		desired := Flat
		switch {
		case price > upper:
			desired = Long
		case price < lower:
			desired = Short
		}
		if desired == pos.side {
			continue
		}

		if pos.side != Flat {
			reason := ExitBandExit
			if desired != Flat {
				reason = ExitReverse
			}
			dailyPNL += e.close(&pos, bar.Time, price, shares, reason, trades)
		}

		if desired != Flat && e.mayOpen(bar.Time, desired, price, upper, lower) {
			pos = position{side: desired, entryPrice: price, entryTime: bar.Time}
		}
	}

	// 3. End-of-session forced flatten.
	if pos.side != Flat {
		dailyPNL += e.close(&pos, last.Time, last.Close, shares, ExitEOD, trades)
	}
	return dailyPNL
}

// mayOpen applies the entry gates: no opens before the earliest entry time,
// and the breakout must clear the band by the configured buffer.
func (e *Engine) mayOpen(ts time.Time, side Side, price, upper, lower float64) bool {
	if e.cfg.EarliestEntry > 0 && model.Minute(ts) < e.cfg.EarliestEntry {
		return false
	}
	if e.cfg.EntryBufferPct > 0 {
		if side == Long {
			return price > upper*(1+e.cfg.EntryBufferPct)
		}
		return price < lower*(1-e.cfg.EntryBufferPct)
	}
	return true
}

func (e *Engine) close(pos *position, ts time.Time, price, shares float64,
	reason ExitReason, trades *[]Trade) float64 {

	gross := (price - pos.entryPrice) * shares
	if pos.side == Short {
		gross = (pos.entryPrice - price) * shares
	}
	// Entry plus exit legs of commission and slippage.
	costs := shares * (e.cfg.CommissionPerShare + e.cfg.SlippagePerShare) * 2
	net := gross - costs

	*trades = append(*trades, Trade{
		EntryTime:  pos.entryTime,
		ExitTime:   ts,
		Side:       pos.side,
		Shares:     shares,
		EntryPrice: pos.entryPrice,
		ExitPrice:  price,
		GrossPNL:   gross,
		Costs:      costs,
		NetPNL:     net,
		ExitReason: reason,
	})
	*pos = position{}
	return net
}

func (e *Engine) isDecisionTime(ts time.Time) bool {
	if ts.Second() != 0 {
		return false
	}
	for _, m := range e.cfg.DecisionMinutes {
		if ts.Minute() == m {
			return true
		}
	}
	return false
}
