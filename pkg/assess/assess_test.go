package assess

import (
	"testing"
	"time"

	"github.com/rigmend/rigmend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAssessor() *Assessor {
	return &Assessor{now: func() time.Time { return testNow }}
}

func defaultThresholds() types.Thresholds {
	return types.DefaultConfig().Thresholds
}

// healthyMetrics returns telemetry that trips no rule
func healthyMetrics() types.Metrics {
	return types.Metrics{
		Throughput: 100,
		CPU:        40,
		RAM:        50,
		Disk:       60,
		LatencyMs:  100,
		LastSeen:   testNow.Add(-time.Minute),
	}
}

func TestHealthyNodeProducesNoIssues(t *testing.T) {
	a := newTestAssessor()
	issues := a.Assess(healthyMetrics(), nil, defaultThresholds())
	assert.Empty(t, issues)
}

func TestOfflineTiering(t *testing.T) {
	tests := []struct {
		name     string
		lastSeen time.Duration
		expected types.Severity
	}{
		{"10 minutes ago", 10 * time.Minute, types.SeverityMedium},
		{"20 minutes ago", 20 * time.Minute, types.SeverityHigh},
		{"40 minutes ago", 40 * time.Minute, types.SeverityCritical},
	}

	a := newTestAssessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := healthyMetrics()
			current.LastSeen = testNow.Add(-tt.lastSeen)

			issues := a.Assess(current, nil, defaultThresholds())
			require.Len(t, issues, 1)
			assert.Equal(t, types.MetricOffline, issues[0].Metric)
			assert.Equal(t, tt.expected, issues[0].Severity)
		})
	}
}

func TestOfflineWithinGraceProducesNothing(t *testing.T) {
	a := newTestAssessor()
	current := healthyMetrics()
	current.LastSeen = testNow.Add(-4 * time.Minute)

	assert.Empty(t, a.Assess(current, nil, defaultThresholds()))
}

func TestThroughputDropRequiresTrustedBaseline(t *testing.T) {
	a := newTestAssessor()
	current := healthyMetrics()
	current.Throughput = 0

	// No baseline at all
	assert.Empty(t, a.Assess(current, nil, defaultThresholds()))

	// Baseline present but throughput average is zero (all-idle history)
	assert.Empty(t, a.Assess(current, &types.BaselineSnapshot{AvgThroughput: 0, SampleCount: 5}, defaultThresholds()))
}

func TestThroughputDropSeverity(t *testing.T) {
	tests := []struct {
		name       string
		throughput float64
		expectLen  int
		expected   types.Severity
	}{
		{"above threshold", 60, 0, ""},
		{"partial drop", 40, 1, types.SeverityMedium},
		{"zero throughput beats partial drop", 0, 1, types.SeverityHigh},
	}

	a := newTestAssessor()
	snap := &types.BaselineSnapshot{AvgThroughput: 100, SampleCount: 10}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := healthyMetrics()
			current.Throughput = tt.throughput

			issues := a.Assess(current, snap, defaultThresholds())
			require.Len(t, issues, tt.expectLen)
			if tt.expectLen > 0 {
				assert.Equal(t, types.MetricThroughput, issues[0].Metric)
				assert.Equal(t, tt.expected, issues[0].Severity)
			}
		})
	}
}

func TestLatencyTiering(t *testing.T) {
	tests := []struct {
		name     string
		latency  float64
		expected types.Severity
	}{
		{"just over threshold", 6000, types.SeverityLow},
		{"over 2x", 10001, types.SeverityMedium},
		{"over 3x", 15001, types.SeverityHigh},
	}

	a := newTestAssessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := healthyMetrics()
			current.LatencyMs = tt.latency

			issues := a.Assess(current, nil, defaultThresholds())
			require.Len(t, issues, 1)
			assert.Equal(t, types.MetricLatency, issues[0].Metric)
			assert.Equal(t, tt.expected, issues[0].Severity)
		})
	}
}

func TestDiskTiering(t *testing.T) {
	tests := []struct {
		name     string
		disk     float64
		expected types.Severity
	}{
		{"just over threshold", 91, types.SeverityMedium},
		{"over 95", 96, types.SeverityHigh},
		{"over 98", 98.5, types.SeverityCritical},
	}

	a := newTestAssessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := healthyMetrics()
			current.Disk = tt.disk

			issues := a.Assess(current, nil, defaultThresholds())
			require.Len(t, issues, 1)
			assert.Equal(t, types.MetricDisk, issues[0].Metric)
			assert.Equal(t, tt.expected, issues[0].Severity)
		})
	}
}

func TestMemoryTiering(t *testing.T) {
	tests := []struct {
		name     string
		ram      float64
		expected types.Severity
	}{
		{"just over threshold", 96, types.SeverityMedium},
		{"over 99", 99.5, types.SeverityHigh},
	}

	a := newTestAssessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := healthyMetrics()
			current.RAM = tt.ram

			issues := a.Assess(current, nil, defaultThresholds())
			require.Len(t, issues, 1)
			assert.Equal(t, types.MetricMemory, issues[0].Metric)
			assert.Equal(t, tt.expected, issues[0].Severity)
		})
	}
}

func TestMultipleIssuesAccumulate(t *testing.T) {
	a := newTestAssessor()
	current := healthyMetrics()
	current.LatencyMs = 12000 // MEDIUM
	current.Disk = 99         // CRITICAL
	current.RAM = 96          // MEDIUM

	issues := a.Assess(current, nil, defaultThresholds())
	assert.Len(t, issues, 3)
}

func TestSelectWorst(t *testing.T) {
	tests := []struct {
		name     string
		issues   []types.Issue
		expected *types.Issue
	}{
		{
			name:     "empty list",
			issues:   nil,
			expected: nil,
		},
		{
			name: "critical beats medium",
			issues: []types.Issue{
				{Severity: types.SeverityMedium, Metric: types.MetricLatency},
				{Severity: types.SeverityCritical, Metric: types.MetricDisk},
			},
			expected: &types.Issue{Severity: types.SeverityCritical, Metric: types.MetricDisk},
		},
		{
			name: "tie broken by detection order",
			issues: []types.Issue{
				{Severity: types.SeverityMedium, Metric: types.MetricThroughput},
				{Severity: types.SeverityMedium, Metric: types.MetricMemory},
			},
			expected: &types.Issue{Severity: types.SeverityMedium, Metric: types.MetricThroughput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectWorst(tt.issues)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected.Severity, got.Severity)
			assert.Equal(t, tt.expected.Metric, got.Metric)
		})
	}
}

func TestSelectWorstDoesNotMutateInput(t *testing.T) {
	issues := []types.Issue{
		{Severity: types.SeverityLow, Metric: types.MetricLatency},
		{Severity: types.SeverityHigh, Metric: types.MetricDisk},
	}
	_ = SelectWorst(issues)
	assert.Equal(t, types.SeverityLow, issues[0].Severity, "input order must be preserved")
}
