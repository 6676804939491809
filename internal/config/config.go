package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"intraday-backtest/internal/backtest"
	"intraday-backtest/internal/model"
	"intraday-backtest/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). The same shape is
// accepted as JSON by the API, with request-level overrides.
type Config struct {
	// Engine selects the simulator variant: "event" (default) or "exposure".
	Engine   string         `yaml:"engine" json:"engine,omitempty"`
	Backtest BacktestConfig `yaml:"backtest" json:"backtest,omitempty"`
	Strategy StrategyConfig `yaml:"strategy" json:"strategy,omitempty"`
	Timezone string         `yaml:"timezone" json:"timezone,omitempty"` // exchange tz, default America/New_York
}

// BacktestConfig maps onto backtest.Config.
type BacktestConfig struct {
	LookbackDays         int     `yaml:"lookback_days" json:"lookback_days,omitempty"`
	VolatilityMultiplier float64 `yaml:"volatility_multiplier" json:"volatility_multiplier,omitempty"`
	TargetDailyVol       float64 `yaml:"target_daily_vol" json:"target_daily_vol,omitempty"`
	MaxLeverage          float64 `yaml:"max_leverage" json:"max_leverage,omitempty"`
	CommissionPerShare   float64 `yaml:"commission_per_share" json:"commission_per_share,omitempty"`
	SlippagePerShare     float64 `yaml:"slippage_per_share" json:"slippage_per_share,omitempty"`
	InitialCapital       float64 `yaml:"initial_capital" json:"initial_capital,omitempty"`
	DecisionMinutes      []int   `yaml:"decision_minutes" json:"decision_minutes,omitempty"`
	EarliestEntry        string  `yaml:"earliest_entry" json:"earliest_entry,omitempty"` // "HH:MM"
	EntryBufferPct       float64 `yaml:"entry_buffer_pct" json:"entry_buffer_pct,omitempty"`
	RTHStart             string  `yaml:"rth_start" json:"rth_start,omitempty"` // "HH:MM"
	RTHEnd               string  `yaml:"rth_end" json:"rth_end,omitempty"`
	DailyVolLookback     int     `yaml:"daily_vol_lookback" json:"daily_vol_lookback,omitempty"`
	PeriodsPerYear       int     `yaml:"periods_per_year" json:"periods_per_year,omitempty"`
	ResampleMinutes      int     `yaml:"resample_minutes" json:"resample_minutes,omitempty"`
}

// StrategyConfig maps onto strategy.MomentumConfig (the exposure variant).
type StrategyConfig struct {
	Lookback           int     `yaml:"lookback" json:"lookback,omitempty"`
	VolatilityMultiple float64 `yaml:"volatility_multiple" json:"volatility_multiple,omitempty"`
	MaxPosition        float64 `yaml:"max_position" json:"max_position,omitempty"`
	HoldBars           int     `yaml:"hold_bars" json:"hold_bars,omitempty"`
}

// Load reads, defaults and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{Engine: "event", Timezone: "America/New_York"}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Engine {
	case "", "event", "exposure":
	default:
		return fmt.Errorf("engine must be \"event\" or \"exposure\", got %q", c.Engine)
	}
	b := c.Backtest
	if b.LookbackDays < 0 || b.DailyVolLookback < 0 || b.PeriodsPerYear < 0 {
		return errors.New("lookback windows must be >= 0")
	}
	if b.VolatilityMultiplier < 0 {
		return errors.New("volatility_multiplier must be >= 0")
	}
	if b.TargetDailyVol < 0 || b.MaxLeverage < 0 {
		return errors.New("target_daily_vol and max_leverage must be >= 0")
	}
	if b.CommissionPerShare < 0 || b.SlippagePerShare < 0 {
		return errors.New("per-share costs must be >= 0")
	}
	if b.InitialCapital < 0 {
		return errors.New("initial_capital must be >= 0")
	}
	for _, m := range b.DecisionMinutes {
		if m < 0 || m > 59 {
			return fmt.Errorf("decision minute %d out of range", m)
		}
	}
	for _, hhmm := range []string{b.EarliestEntry, b.RTHStart, b.RTHEnd} {
		if hhmm == "" {
			continue
		}
		if _, err := model.ParseHHMM(hhmm); err != nil {
			return fmt.Errorf("bad HH:MM value %q", hhmm)
		}
	}
	if c.Strategy.HoldBars < 0 {
		return errors.New("hold_bars must be >= 0")
	}
	if c.Timezone != "" {
		if _, err := c.Location(); err != nil {
			return fmt.Errorf("bad timezone: %w", err)
		}
	}
	return nil
}

// Location resolves the exchange timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	return time.LoadLocation(tz)
}

// ToBacktest converts the file shape into the engine config. Unset fields
// are resolved by backtest.Config.WithDefaults.
func (c *Config) ToBacktest() backtest.Config {
	b := c.Backtest
	out := backtest.Config{
		LookbackDays:         b.LookbackDays,
		VolatilityMultiplier: b.VolatilityMultiplier,
		TargetDailyVol:       b.TargetDailyVol,
		MaxLeverage:          b.MaxLeverage,
		CommissionPerShare:   b.CommissionPerShare,
		SlippagePerShare:     b.SlippagePerShare,
		InitialCapital:       b.InitialCapital,
		DecisionMinutes:      b.DecisionMinutes,
		EntryBufferPct:       b.EntryBufferPct,
		DailyVolLookback:     b.DailyVolLookback,
		PeriodsPerYear:       b.PeriodsPerYear,
	}
	if b.EarliestEntry != "" {
		out.EarliestEntry, _ = model.ParseHHMM(b.EarliestEntry)
	}
	if b.RTHStart != "" {
		out.RTHStart, _ = model.ParseHHMM(b.RTHStart)
	}
	if b.RTHEnd != "" {
		out.RTHEnd, _ = model.ParseHHMM(b.RTHEnd)
	}
	return out.WithDefaults()
}

// ToStrategy converts the strategy section for the exposure variant.
func (c *Config) ToStrategy() strategy.MomentumConfig {
	s := c.Strategy
	return strategy.MomentumConfig{
		Lookback:           s.Lookback,
		VolatilityMultiple: s.VolatilityMultiple,
		MaxPosition:        s.MaxPosition,
		HoldBars:           s.HoldBars,
	}
}
