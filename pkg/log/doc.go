/*
Package log provides structured logging for rigmend using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Usage

Initializing the logger:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Component loggers:

	healerLog := log.WithComponent("healer")
	healerLog.Info().Str("node_id", "rig-07").Msg("remediation dispatched")

Structured logging:

	log.Logger.Error().
		Err(err).
		Str("node_id", "rig-07").
		Msg("snapshot fetch failed")

# Integration Points

This package integrates with:

  - pkg/healer: logs tick execution and remediation decisions
  - pkg/controlplane: logs snapshot fetches and command dispatch
  - pkg/storage: logs persistence failures (best-effort writes)
  - pkg/api: logs operator API requests and rejected config updates
*/
package log
