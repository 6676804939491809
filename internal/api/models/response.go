package models

import (
	"time"

	"intraday-backtest/internal/analysis"
	"intraday-backtest/internal/sweep"
)

// BacktestResponse represents the response from a backtest run.
type BacktestResponse struct {
	ID             string                   `json:"id"`
	Status         string                   `json:"status"`
	Engine         string                   `json:"engine"`
	Summary        analysis.Summary         `json:"summary"`
	MonthlyReturns []analysis.MonthlyReturn `json:"monthly_returns,omitempty"`
	Trades         []TradeRow               `json:"trades,omitempty"`
	Equity         []EquityRow              `json:"equity,omitempty"`
}

// TradeRow is one closed trade in the response.
type TradeRow struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	Side       string    `json:"side"`
	Shares     float64   `json:"shares"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	GrossPNL   float64   `json:"gross_pnl"`
	Costs      float64   `json:"costs"`
	NetPNL     float64   `json:"net_pnl"`
	ExitReason string    `json:"exit_reason"`
}

// EquityRow is one session in the response ledger. VolEst is null while the
// estimator had insufficient history.
type EquityRow struct {
	Date        string   `json:"date"`
	EquityStart float64  `json:"equity_start"`
	DailyPNL    float64  `json:"daily_pnl"`
	EquityEnd   float64  `json:"equity_end"`
	VolEst      *float64 `json:"vol_est"`
	Shares      float64  `json:"shares"`
}

// SweepResponse represents the response from a sweep run, best Sharpe first.
type SweepResponse struct {
	ID    string       `json:"id"`
	Cells []sweep.Cell `json:"cells"`
}

// StrategyInfo describes a selectable engine/strategy for the UI.
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes one tunable parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
