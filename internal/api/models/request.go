package models

import "intraday-backtest/internal/config"

// BacktestRequest represents the request body for running a backtest.
type BacktestRequest struct {
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	Config     config.Config    `json:"config"`
	Options    BacktestOptions  `json:"options,omitempty"`
}

// DataSourceConfig points at the input series. Paths are resolved on the
// server; fetching from the market-data provider is the fetch command's job,
// not the API's.
type DataSourceConfig struct {
	IntradayPath string `json:"intraday_path" binding:"required"`
	DailyPath    string `json:"daily_path" binding:"required"`
	StartDate    string `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive
	EndDate      string `json:"end_date,omitempty"`
}

// BacktestOptions contains optional backtest parameters.
type BacktestOptions struct {
	IncludeTrades bool `json:"include_trades,omitempty"`
	IncludeEquity bool `json:"include_equity,omitempty"`
}

// SweepRequest represents a parameter-sweep run over one dataset.
type SweepRequest struct {
	DataSource            DataSourceConfig `json:"data_source" binding:"required"`
	Config                config.Config    `json:"config"`
	VolatilityMultipliers []float64        `json:"volatility_multipliers" binding:"required"`
	TargetDailyVols       []float64        `json:"target_daily_vols" binding:"required"`
	Workers               int              `json:"workers,omitempty"`
}
