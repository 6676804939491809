package noise

import (
	"math"

	"intraday-backtest/internal/model"
)

// ATRBand is the legacy/alternate noise estimator: ATR around a rolling mean
// of closes. The signal generator uses it; the session engine uses the
// gap-adjusted time-of-day bands from ComputeBands.
type ATRBand struct {
	Basis model.Float
	Upper model.Float
	Lower model.Float
}

// TrueRange for bar i given the prior close (missing on the first bar).
func TrueRange(bar model.Bar, prevClose model.Float) float64 {
	hl := bar.High - bar.Low
	if !prevClose.Valid {
		return hl
	}
	hc := math.Abs(bar.High - prevClose.Value)
	lc := math.Abs(bar.Low - prevClose.Value)
	return math.Max(hl, math.Max(hc, lc))
}

// ComputeATRBands builds the basis +/- multiple*ATR envelope. Values are
// missing until lookback bars of history exist.
func ComputeATRBands(bars []model.Bar, lookback int, multiple float64) []ATRBand {
	out := make([]ATRBand, len(bars))
	tr := NewWindow(lookback)
	basis := NewWindow(lookback)

	prevClose := model.None()
	for i, b := range bars {
		tr.Push(TrueRange(b, prevClose))
		basis.Push(b.Close)
		prevClose = model.Some(b.Close)

		if !tr.Full() || !basis.Full() {
			continue
		}
		atr := tr.Mean()
		mid := basis.Mean()
		out[i] = ATRBand{
			Basis: model.Some(mid),
			Upper: model.Some(mid + multiple*atr),
			Lower: model.Some(mid - multiple*atr),
		}
	}
	return out
}
