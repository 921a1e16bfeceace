package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fleet metrics
	NodesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigmend_nodes_tracked",
			Help: "Number of nodes currently tracked by the healer",
		},
	)

	NodesDead = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigmend_nodes_dead",
			Help: "Number of nodes currently marked dead",
		},
	)

	BaselinesTrusted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigmend_baselines_trusted",
			Help: "Number of nodes with a trusted baseline",
		},
	)

	// Detection metrics
	IssuesDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmend_issues_detected_total",
			Help: "Total issues detected by severity and metric",
		},
		[]string{"severity", "metric"},
	)

	// Remediation metrics
	RemediationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmend_remediations_total",
			Help: "Total remediation actions by action and result",
		},
		[]string{"action", "result"},
	)

	CooldownSkips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rigmend_cooldown_skips_total",
			Help: "Total remediations refused by the cooldown limiter",
		},
	)

	NodesRecovered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rigmend_nodes_recovered_total",
			Help: "Total dead-to-active node recoveries",
		},
	)

	// Control loop metrics
	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rigmend_tick_duration_seconds",
			Help:    "Duration of one full fleet scan in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rigmend_ticks_total",
			Help: "Total control loop ticks executed",
		},
	)

	SnapshotFetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rigmend_snapshot_fetch_errors_total",
			Help: "Total failed fleet snapshot fetches",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigmend_api_requests_total",
			Help: "Total operator API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(NodesTracked)
	prometheus.MustRegister(NodesDead)
	prometheus.MustRegister(BaselinesTrusted)
	prometheus.MustRegister(IssuesDetected)
	prometheus.MustRegister(RemediationsTotal)
	prometheus.MustRegister(CooldownSkips)
	prometheus.MustRegister(NodesRecovered)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(SnapshotFetchErrors)
	prometheus.MustRegister(APIRequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
