/*
Package types defines the core data structures shared across rigmend.

This package contains the domain model for the fleet auto-healer: nodes and
their telemetry, baseline samples and computed averages, classified issues,
remediation actions, the append-only action log entry, and the
operator-mutable configuration with its production defaults.

Types here have no behavior beyond small helpers (severity ranking, duration
conversion, config validation) so every other package can depend on them
without import cycles.
*/
package types
