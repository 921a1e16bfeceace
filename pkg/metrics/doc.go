/*
Package metrics exposes Prometheus metrics for the healer.

All collectors are package-level and registered in init, following the
convention of one metric family per concern:

  - fleet gauges: tracked nodes, dead nodes, trusted baselines
  - detection counters: issues by severity and metric
  - remediation counters: actions by action and result, cooldown skips,
    recoveries
  - control loop: tick count and duration histogram, snapshot fetch errors
  - operator API request counts

Handler returns the promhttp handler mounted at /metrics on the operator
API server. The Timer helper times a code path and observes the elapsed
seconds into a histogram.
*/
package metrics
