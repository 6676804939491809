package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
engine: event
timezone: America/New_York
backtest:
  lookback_days: 10
  volatility_multiplier: 1.5
  target_daily_vol: 0.015
  decision_minutes: [0, 15, 30, 45]
  earliest_entry: "10:00"
  entry_buffer_pct: 0.001
strategy:
  lookback: 30
  hold_bars: 20
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Engine != "event" || c.Backtest.LookbackDays != 10 {
		t.Fatalf("unexpected config: %+v", c)
	}

	b := c.ToBacktest()
	if b.LookbackDays != 10 || b.VolatilityMultiplier != 1.5 {
		t.Fatalf("ToBacktest lost explicit fields: %+v", b)
	}
	if b.EarliestEntry != 600 {
		t.Fatalf("earliest entry = %d, want 600", b.EarliestEntry)
	}
	if len(b.DecisionMinutes) != 4 {
		t.Fatalf("decision minutes = %v", b.DecisionMinutes)
	}
	// Unset fields come back as documented defaults.
	if b.MaxLeverage != 4.0 || b.InitialCapital != 100_000 {
		t.Fatalf("defaults not applied: %+v", b)
	}

	s := c.ToStrategy()
	if s.Lookback != 30 || s.HoldBars != 20 {
		t.Fatalf("ToStrategy: %+v", s)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad engine", func(c *Config) { c.Engine = "vectorized" }, "engine"},
		{"negative multiplier", func(c *Config) { c.Backtest.VolatilityMultiplier = -1 }, "volatility_multiplier"},
		{"decision minute range", func(c *Config) { c.Backtest.DecisionMinutes = []int{60} }, "decision minute"},
		{"bad hhmm", func(c *Config) { c.Backtest.EarliestEntry = "25:99" }, "HH:MM"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"negative hold", func(c *Config) { c.Strategy.HoldBars = -1 }, "hold_bars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	loc, err := c.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Fatalf("location = %s", loc)
	}
}
