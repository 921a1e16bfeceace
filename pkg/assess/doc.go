/*
Package assess classifies node health problems by severity.

The Assessor runs five independent rules against a node's current telemetry:
offline age, throughput drop relative to the trusted baseline, round-trip
latency, disk usage, and memory usage. Each rule either produces nothing or
one Issue ranked LOW, MEDIUM, HIGH, or CRITICAL, so a single node can
accumulate several issues per tick.

Relative checks (throughput drop) require a trusted baseline from
pkg/baseline; without one they are skipped entirely rather than compared
against zero. Static checks always run.

SelectWorst reduces an issue list to the single issue acted on per tick,
ordered by severity rank with detection order breaking ties.
*/
package assess
