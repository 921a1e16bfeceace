package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.CheckInterval())
	assert.Equal(t, 24*time.Hour, cfg.BaselineWindow())
	assert.Equal(t, time.Hour, cfg.Cooldown.Window())
}

func TestNormalizeFloorsCheckInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckIntervalMs = 500
	cfg.Normalize()
	assert.Equal(t, int64(MinCheckIntervalMs), cfg.CheckIntervalMs)

	// Values above the floor pass through untouched
	cfg.CheckIntervalMs = 30_000
	cfg.Normalize()
	assert.Equal(t, int64(30_000), cfg.CheckIntervalMs)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero baseline window", func(c *Config) { c.BaselineWindowMs = 0 }},
		{"hashrate drop over 100", func(c *Config) { c.Thresholds.HashrateDropPct = 150 }},
		{"negative latency", func(c *Config) { c.Thresholds.LatencyMs = -1 }},
		{"disk over 100", func(c *Config) { c.Thresholds.DiskPct = 101 }},
		{"zero memory", func(c *Config) { c.Thresholds.MemoryPct = 0 }},
		{"zero offline minutes", func(c *Config) { c.Thresholds.OfflineMinutes = 0 }},
		{"zero cooldown budget", func(c *Config) { c.Cooldown.MaxPerHour = 0 }},
		{"zero cooldown window", func(c *Config) { c.Cooldown.WindowMs = 0 }},
		{"zero log cap", func(c *Config) { c.MaxLogEntries = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, -1, Severity("bogus").Rank())
}

func TestActionInformational(t *testing.T) {
	assert.True(t, ActionAlert.Informational())
	assert.True(t, ActionRecovered.Informational())
	assert.True(t, ActionSkipped.Informational())
	assert.False(t, ActionRestart.Informational())
	assert.False(t, ActionClearRestart.Informational())
	assert.False(t, ActionDeadProv.Informational())
}
