/*
Package actionlog records every remediation decision the healer makes.

The Log is an append-only, FIFO-capped history of ActionEntry records:
alerts, restarts, cache clears, dead/provision decisions, cooldown skips,
and recovery notices. Entries are immutable once written. When the cap is
reached the oldest entry is dropped, never one from the middle.

Besides serving the operator API, the log is the source of truth for the
cooldown limiter: CountRemediations counts only non-informational entries
in a trailing window, so alerts and recovery notices never consume the
remediation budget.
*/
package actionlog
