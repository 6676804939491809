package model

// Float is an optional float64. It replaces NaN sentinels at every boundary
// where "insufficient history" or "no value" must be representable: sigma,
// noise bounds, VWAP before any volume, volatility estimates.
//
// The zero value is "missing".
type Float struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Float { return Float{Value: v, Valid: true} }

// None is the missing value.
func None() Float { return Float{} }

// Or returns the value if defined, otherwise fallback.
func (f Float) Or(fallback float64) float64 {
	if f.Valid {
		return f.Value
	}
	return fallback
}
