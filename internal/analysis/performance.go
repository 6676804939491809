// Package analysis holds the pure performance statistics computed over a
// realized equity series, optionally against a benchmark return series.
package analysis

import (
	"math"
	"sort"

	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/model"
)

// Summary is the fixed record of risk-adjusted performance statistics.
type Summary struct {
	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	HitRatio    float64 `json:"hit_ratio"`
}

// SessionReturns extracts the per-session return series from the equity
// ledger. Rows with zero starting equity are skipped.
func SessionReturns(equity []backtest.EquityRow) []float64 {
	out := make([]float64, 0, len(equity))
	for _, r := range equity {
		if r.EquityStart == 0 {
			continue
		}
		out = append(out, r.EquityEnd/r.EquityStart-1)
	}
	return out
}

// AnnualizedReturn compounds the returns and annualizes by the periods/year
// root, guarding the elapsed-years divisor.
func AnnualizedReturn(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	compounded := 1.0
	for _, r := range returns {
		compounded *= 1 + r
	}
	years := float64(len(returns)) / periodsPerYear
	if years < 1e-9 {
		years = 1e-9
	}
	return math.Pow(compounded, 1/years) - 1
}

// AnnualizedVolatility is the sample standard deviation of returns scaled by
// sqrt(periods/year).
func AnnualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	return stddev(returns) * math.Sqrt(periodsPerYear)
}

// SharpeRatio of the excess-return series. Defined as 0 when the volatility
// is exactly 0 rather than a division fault.
func SharpeRatio(returns []float64, rfRate, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - rfRate/periodsPerYear
	}
	vol := AnnualizedVolatility(excess, periodsPerYear)
	if vol == 0 {
		return 0
	}
	return mean(excess) / vol
}

// MaxDrawdown is the worst peak-to-trough decline of the equity curve as a
// non-positive fraction. Zero only for a non-decreasing curve.
func MaxDrawdown(equity []float64) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if peak > 0 {
			if dd := e/peak - 1; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// AlphaBeta fits strategy excess returns against benchmark excess returns by
// ordinary least squares. Returns (0, 0) when there is no overlap or the
// benchmark variance is zero; alpha is annualized by periods/year.
func AlphaBeta(strategyRets, benchmarkRets []float64, rfRate, periodsPerYear float64) (alpha, beta float64) {
	n := len(strategyRets)
	if len(benchmarkRets) < n {
		n = len(benchmarkRets)
	}
	if n == 0 {
		return 0, 0
	}
	rf := rfRate / periodsPerYear
	sx := make([]float64, n)
	bx := make([]float64, n)
	for i := 0; i < n; i++ {
		sx[i] = strategyRets[i] - rf
		bx[i] = benchmarkRets[i] - rf
	}
	varB := variance(bx)
	if varB == 0 {
		return 0, 0
	}
	beta = covariance(sx, bx) / varB
	alpha = (mean(sx) - beta*mean(bx)) * periodsPerYear
	return alpha, beta
}

// HitRatio is the fraction of periods with strictly positive return; 0 for
// an empty series.
func HitRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// MonthlyReturn is one calendar month's compounded return.
type MonthlyReturn struct {
	Month  string  `json:"month"` // "YYYY-MM"
	Return float64 `json:"return"`
}

// MonthlyReturns compounds per-session returns within each calendar month,
// ascending by month.
func MonthlyReturns(equity []backtest.EquityRow) []MonthlyReturn {
	compounded := make(map[string]float64)
	for _, r := range equity {
		if r.EquityStart == 0 || len(r.Date) < 7 {
			continue
		}
		month := r.Date[:7]
		if _, ok := compounded[month]; !ok {
			compounded[month] = 1
		}
		compounded[month] *= r.EquityEnd / r.EquityStart
	}
	out := make([]MonthlyReturn, 0, len(compounded))
	for m, c := range compounded {
		out = append(out, MonthlyReturn{Month: m, Return: c - 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Summarize produces the full summary for an equity ledger. The benchmark is
// a per-date return map (e.g. daily close-to-close of the instrument); only
// dates present in both series enter the alpha/beta fit.
func Summarize(equity []backtest.EquityRow, benchmark map[string]float64, periodsPerYear float64) Summary {
	rets := SessionReturns(equity)

	curve := make([]float64, 0, len(equity))
	for _, r := range equity {
		curve = append(curve, r.EquityEnd)
	}

	totalReturn := 0.0
	if len(equity) > 0 && equity[0].EquityStart != 0 {
		totalReturn = equity[len(equity)-1].EquityEnd/equity[0].EquityStart - 1
	}

	var alignedS, alignedB []float64
	for _, r := range equity {
		b, ok := benchmark[r.Date]
		if !ok || r.EquityStart == 0 {
			continue
		}
		alignedS = append(alignedS, r.EquityEnd/r.EquityStart-1)
		alignedB = append(alignedB, b)
	}
	alpha, beta := AlphaBeta(alignedS, alignedB, 0, periodsPerYear)

	return Summary{
		TotalReturn: totalReturn,
		CAGR:        AnnualizedReturn(rets, periodsPerYear),
		Sharpe:      SharpeRatio(rets, 0, periodsPerYear),
		MaxDrawdown: MaxDrawdown(curve),
		Alpha:       alpha,
		Beta:        beta,
		HitRatio:    HitRatio(rets),
	}
}

// BenchmarkReturns derives the daily close-to-close return map from a daily
// bar series.
func BenchmarkReturns(days []model.DailyBar) map[string]float64 {
	out := make(map[string]float64, len(days))
	for i := 1; i < len(days); i++ {
		if days[i-1].Close == 0 {
			continue
		}
		out[model.SessionDate(days[i].Date)] = days[i].Close/days[i-1].Close - 1
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func stddev(xs []float64) float64 { return math.Sqrt(variance(xs)) }

func covariance(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}
