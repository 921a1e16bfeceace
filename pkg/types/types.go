package types

import (
	"time"
)

// Severity classifies how bad a detected issue is
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// severityRanks defines the total order LOW < MEDIUM < HIGH < CRITICAL
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the numeric rank of a severity. Unknown severities rank
// below LOW so they never win escalation.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// NodeState represents the lifecycle state of a node
type NodeState string

const (
	NodeStateActive NodeState = "active"
	NodeStateDead   NodeState = "dead"
)

// Metrics is the latest observed telemetry for a node
type Metrics struct {
	Throughput float64   `json:"throughput"` // hashrate-equivalent work rate
	CPU        float64   `json:"cpu"`        // percent
	RAM        float64   `json:"ram"`        // percent
	Disk       float64   `json:"disk"`       // percent
	LatencyMs  float64   `json:"latencyMs"`  // round-trip latency
	LastSeen   time.Time `json:"lastSeen"`
}

// Node represents a tracked worker node in the fleet
type Node struct {
	ID        string    `json:"id"`
	Metrics   Metrics   `json:"metrics"`
	State     NodeState `json:"state"`
	DeadSince time.Time `json:"deadSince,omitempty"`
}

// Snapshot is one fleet-wide telemetry observation
type Snapshot struct {
	Nodes map[string]Metrics `json:"nodes"`
}

// Sample is one timestamped baseline observation for a node
type Sample struct {
	Timestamp  time.Time `json:"t"`
	Throughput float64   `json:"throughput"`
	CPU        float64   `json:"cpu"`
	RAM        float64   `json:"ram"`
	Latency    float64   `json:"latency"`
}

// BaselineSnapshot is the computed trusted rolling average for a node.
// It is absent (nil) until at least 3 samples are inside the window.
type BaselineSnapshot struct {
	AvgThroughput float64   `json:"avgThroughput"`
	AvgCPU        float64   `json:"avgCpu"`
	AvgRAM        float64   `json:"avgRam"`
	AvgLatency    float64   `json:"avgLatency"`
	SampleCount   int       `json:"sampleCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IssueMetric names the metric an issue was detected on
type IssueMetric string

const (
	MetricOffline    IssueMetric = "offline"
	MetricThroughput IssueMetric = "throughput"
	MetricLatency    IssueMetric = "latency"
	MetricDisk       IssueMetric = "disk"
	MetricMemory     IssueMetric = "memory"
)

// Issue is a single classified problem detected on a node during one tick
type Issue struct {
	Severity    Severity    `json:"severity"`
	Metric      IssueMetric `json:"metric"`
	Description string      `json:"description"`
}

// Action identifies a remediation (or informational) outcome type
type Action string

const (
	ActionAlert        Action = "alert"
	ActionRestart      Action = "restart"
	ActionClearRestart Action = "clear+restart"
	ActionDeadProv     Action = "dead+provision"
	ActionSkipped      Action = "skipped"
	ActionRecovered    Action = "recovered"
)

// Informational reports whether the action is purely informational.
// Informational actions never count toward the cooldown limit.
func (a Action) Informational() bool {
	switch a {
	case ActionAlert, ActionRecovered, ActionSkipped:
		return true
	}
	return false
}

// ActionEntry is one immutable record in the append-only action log
type ActionEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	NodeID    string    `json:"nodeId"`
	Severity  Severity  `json:"severity"`
	Issue     string    `json:"issue"`
	Action    Action    `json:"action"`
	Result    string    `json:"result"`
}
