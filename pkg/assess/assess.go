package assess

import (
	"fmt"
	"sort"
	"time"

	"github.com/rigmend/rigmend/pkg/types"
)

// Severity break-points. These mirror the control plane's established
// classification and are relied on by compatibility tests; they are not
// tunable heuristics.
const (
	offlineHighMinutes     = 15
	offlineCriticalMinutes = 30
	latencyMediumFactor    = 2
	latencyHighFactor      = 3
	diskHighPct            = 95
	diskCriticalPct        = 98
	memoryHighPct          = 99
)

// Assessor compares current node telemetry against static thresholds and
// the node's trusted baseline, producing zero or more classified issues.
type Assessor struct {
	now func() time.Time
}

// NewAssessor creates an assessor using the wall clock
func NewAssessor() *Assessor {
	return &Assessor{now: time.Now}
}

// Assess evaluates every rule independently, so one node can accumulate
// multiple issues in a single tick. A nil baseline disables the
// relative-degradation checks but never the static ones.
func (a *Assessor) Assess(current types.Metrics, baseline *types.BaselineSnapshot, th types.Thresholds) []types.Issue {
	var issues []types.Issue

	if issue := a.assessOffline(current, th); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := assessThroughput(current, baseline, th); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := assessLatency(current, th); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := assessDisk(current, th); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := assessMemory(current, th); issue != nil {
		issues = append(issues, *issue)
	}

	return issues
}

func (a *Assessor) assessOffline(current types.Metrics, th types.Thresholds) *types.Issue {
	elapsed := a.now().Sub(current.LastSeen)
	minutes := elapsed.Minutes()
	if minutes <= th.OfflineMinutes {
		return nil
	}

	severity := types.SeverityMedium
	switch {
	case minutes > offlineCriticalMinutes:
		severity = types.SeverityCritical
	case minutes > offlineHighMinutes:
		severity = types.SeverityHigh
	}

	return &types.Issue{
		Severity:    severity,
		Metric:      types.MetricOffline,
		Description: fmt.Sprintf("no telemetry for %.0f minutes", minutes),
	}
}

func assessThroughput(current types.Metrics, baseline *types.BaselineSnapshot, th types.Thresholds) *types.Issue {
	if baseline == nil || baseline.AvgThroughput <= 0 {
		return nil
	}

	dropPct := (baseline.AvgThroughput - current.Throughput) / baseline.AvgThroughput * 100
	if dropPct <= th.HashrateDropPct {
		return nil
	}

	// A fully stalled node is categorically worse than a partial drop,
	// regardless of the drop percentage.
	severity := types.SeverityMedium
	if current.Throughput == 0 {
		severity = types.SeverityHigh
	}

	return &types.Issue{
		Severity: severity,
		Metric:   types.MetricThroughput,
		Description: fmt.Sprintf("throughput %.1f is %.0f%% below baseline %.1f",
			current.Throughput, dropPct, baseline.AvgThroughput),
	}
}

func assessLatency(current types.Metrics, th types.Thresholds) *types.Issue {
	if current.LatencyMs <= th.LatencyMs {
		return nil
	}

	severity := types.SeverityLow
	switch {
	case current.LatencyMs > latencyHighFactor*th.LatencyMs:
		severity = types.SeverityHigh
	case current.LatencyMs > latencyMediumFactor*th.LatencyMs:
		severity = types.SeverityMedium
	}

	return &types.Issue{
		Severity:    severity,
		Metric:      types.MetricLatency,
		Description: fmt.Sprintf("latency %.0fms exceeds %.0fms threshold", current.LatencyMs, th.LatencyMs),
	}
}

func assessDisk(current types.Metrics, th types.Thresholds) *types.Issue {
	if current.Disk <= th.DiskPct {
		return nil
	}

	severity := types.SeverityMedium
	switch {
	case current.Disk > diskCriticalPct:
		severity = types.SeverityCritical
	case current.Disk > diskHighPct:
		severity = types.SeverityHigh
	}

	return &types.Issue{
		Severity:    severity,
		Metric:      types.MetricDisk,
		Description: fmt.Sprintf("disk usage %.1f%% exceeds %.0f%% threshold", current.Disk, th.DiskPct),
	}
}

func assessMemory(current types.Metrics, th types.Thresholds) *types.Issue {
	if current.RAM <= th.MemoryPct {
		return nil
	}

	severity := types.SeverityMedium
	if current.RAM > memoryHighPct {
		severity = types.SeverityHigh
	}

	return &types.Issue{
		Severity:    severity,
		Metric:      types.MetricMemory,
		Description: fmt.Sprintf("memory usage %.1f%% exceeds %.0f%% threshold", current.RAM, th.MemoryPct),
	}
}

// SelectWorst picks the single issue to act on this tick: the
// highest-severity issue, ties broken by detection order (the sort is
// stable, so first-inserted wins).
func SelectWorst(issues []types.Issue) *types.Issue {
	if len(issues) == 0 {
		return nil
	}

	sorted := make([]types.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
	})

	worst := sorted[0]
	return &worst
}
