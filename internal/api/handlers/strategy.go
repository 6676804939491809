package handlers

import (
	"net/http"

	"intraday-backtest/internal/api/models"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests.
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler.
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies.
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "event",
			Description: "Event-driven session engine. Breakouts beyond the gap-adjusted noise band open positions; VWAP-tightened stops, reversals and a forced end-of-day flatten close them.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "lookback_days",
					Type:        "int",
					Description: "Prior sessions used by the time-of-day volatility estimator",
					Default:     14,
				},
				{
					Name:        "volatility_multiplier",
					Type:        "float",
					Description: "Widens or narrows the noise bands",
					Default:     1.0,
				},
				{
					Name:        "target_daily_vol",
					Type:        "float",
					Description: "Volatility-targeting fraction of capital",
					Default:     0.02,
				},
				{
					Name:        "max_leverage",
					Type:        "float",
					Description: "Hard leverage cap for the position sizer",
					Default:     4.0,
				},
				{
					Name:        "decision_minutes",
					Type:        "[]int",
					Description: "Minute marks within the hour at which decisions are made",
					Default:     []int{0, 30},
				},
				{
					Name:        "earliest_entry",
					Type:        "string",
					Description: "Earliest HH:MM at which new positions may open",
					Default:     "",
				},
				{
					Name:        "entry_buffer_pct",
					Type:        "float",
					Description: "Fraction by which price must clear the band before an entry",
					Default:     0.0,
				},
			},
		},
		{
			Name:        "exposure",
			Description: "Fractional-exposure simulator. Applies the momentum generator's held positions to bar returns with a turnover cost, without discrete trades.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "lookback",
					Type:        "int",
					Description: "Momentum horizon and band/volatility window, in bars",
					Default:     20,
				},
				{
					Name:        "volatility_multiple",
					Type:        "float",
					Description: "Scales both the ATR band width and the signal threshold",
					Default:     1.0,
				},
				{
					Name:        "max_position",
					Type:        "float",
					Description: "Exposure cap as a fraction of capital",
					Default:     1.0,
				},
				{
					Name:        "hold_bars",
					Type:        "int",
					Description: "Bars a signal is held without a refresh before flattening",
					Default:     30,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
