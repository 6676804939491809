package backtest

import "intraday-backtest/internal/model"

// Shares converts a prior-day volatility estimate into the session's share
// count under volatility targeting: leverage = min(max_leverage,
// target_daily_vol / vol). A missing, zero or negative estimate means the
// risk of the session is undefined, so the sizer declines to trade at all.
func Shares(capital, sessionOpen float64, vol model.Float, targetVol, maxLeverage float64) float64 {
	if !vol.Valid || vol.Value <= 0 || sessionOpen <= 0 {
		return 0
	}
	leverage := targetVol / vol.Value
	if leverage > maxLeverage {
		leverage = maxLeverage
	}
	return capital * leverage / sessionOpen
}
