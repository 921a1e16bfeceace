package types

import (
	"fmt"
	"time"
)

// MinCheckIntervalMs is the floor applied to operator-supplied check
// intervals so a bad update cannot spin the control loop.
const MinCheckIntervalMs = 10_000

// Thresholds holds the static anomaly detection thresholds
type Thresholds struct {
	HashrateDropPct float64 `json:"hashrateDropPct" yaml:"hashrateDropPct"`
	LatencyMs       float64 `json:"latencyMs" yaml:"latencyMs"`
	DiskPct         float64 `json:"diskPct" yaml:"diskPct"`
	MemoryPct       float64 `json:"memoryPct" yaml:"memoryPct"`
	OfflineMinutes  float64 `json:"offlineMinutes" yaml:"offlineMinutes"`
}

// Cooldown bounds how many remediations may hit one node per window
type Cooldown struct {
	MaxPerHour int   `json:"maxPerHour" yaml:"maxPerHour"`
	WindowMs   int64 `json:"windowMs" yaml:"windowMs"`
}

// Window returns the cooldown window as a duration
func (c Cooldown) Window() time.Duration {
	return time.Duration(c.WindowMs) * time.Millisecond
}

// Config is the operator-mutable healer configuration. Millisecond fields
// keep the persisted and wire representation identical to the control
// plane's existing records.
type Config struct {
	Enabled          bool       `json:"enabled" yaml:"enabled"`
	CheckIntervalMs  int64      `json:"checkIntervalMs" yaml:"checkIntervalMs"`
	BaselineWindowMs int64      `json:"baselineWindowMs" yaml:"baselineWindowMs"`
	Thresholds       Thresholds `json:"thresholds" yaml:"thresholds"`
	Cooldown         Cooldown   `json:"cooldown" yaml:"cooldown"`
	MaxLogEntries    int        `json:"maxLogEntries" yaml:"maxLogEntries"`
	AutoProvision    bool       `json:"autoProvision" yaml:"autoProvision"`
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		CheckIntervalMs:  60_000,
		BaselineWindowMs: (24 * time.Hour).Milliseconds(),
		Thresholds: Thresholds{
			HashrateDropPct: 50,
			LatencyMs:       5000,
			DiskPct:         90,
			MemoryPct:       95,
			OfflineMinutes:  5,
		},
		Cooldown: Cooldown{
			MaxPerHour: 3,
			WindowMs:   time.Hour.Milliseconds(),
		},
		MaxLogEntries: 200,
		AutoProvision: true,
	}
}

// CheckInterval returns the tick interval as a duration, floored at the
// safe minimum.
func (c Config) CheckInterval() time.Duration {
	ms := c.CheckIntervalMs
	if ms < MinCheckIntervalMs {
		ms = MinCheckIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// BaselineWindow returns the rolling baseline window as a duration
func (c Config) BaselineWindow() time.Duration {
	return time.Duration(c.BaselineWindowMs) * time.Millisecond
}

// Normalize clamps fields that are floored rather than rejected
func (c *Config) Normalize() {
	if c.CheckIntervalMs < MinCheckIntervalMs {
		c.CheckIntervalMs = MinCheckIntervalMs
	}
}

// Validate rejects configurations that would break the control loop.
// Normalize handles floored fields; everything else must be positive.
func (c Config) Validate() error {
	if c.BaselineWindowMs <= 0 {
		return fmt.Errorf("baselineWindowMs must be positive, got %d", c.BaselineWindowMs)
	}
	if c.Thresholds.HashrateDropPct <= 0 || c.Thresholds.HashrateDropPct > 100 {
		return fmt.Errorf("hashrateDropPct must be in (0,100], got %v", c.Thresholds.HashrateDropPct)
	}
	if c.Thresholds.LatencyMs <= 0 {
		return fmt.Errorf("latencyMs threshold must be positive, got %v", c.Thresholds.LatencyMs)
	}
	if c.Thresholds.DiskPct <= 0 || c.Thresholds.DiskPct > 100 {
		return fmt.Errorf("diskPct must be in (0,100], got %v", c.Thresholds.DiskPct)
	}
	if c.Thresholds.MemoryPct <= 0 || c.Thresholds.MemoryPct > 100 {
		return fmt.Errorf("memoryPct must be in (0,100], got %v", c.Thresholds.MemoryPct)
	}
	if c.Thresholds.OfflineMinutes <= 0 {
		return fmt.Errorf("offlineMinutes must be positive, got %v", c.Thresholds.OfflineMinutes)
	}
	if c.Cooldown.MaxPerHour <= 0 {
		return fmt.Errorf("cooldown.maxPerHour must be positive, got %d", c.Cooldown.MaxPerHour)
	}
	if c.Cooldown.WindowMs <= 0 {
		return fmt.Errorf("cooldown.windowMs must be positive, got %d", c.Cooldown.WindowMs)
	}
	if c.MaxLogEntries <= 0 {
		return fmt.Errorf("maxLogEntries must be positive, got %d", c.MaxLogEntries)
	}
	return nil
}
