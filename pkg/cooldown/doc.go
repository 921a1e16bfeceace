/*
Package cooldown prevents remediation thrashing.

The Limiter counts a node's recent remediation attempts over a trailing
window (default three per hour) and refuses further remediations once the
budget is spent. Counting is delegated to the action log, which already
excludes informational entries, so a flood of LOW alerts never blocks a
genuine restart and a cooldown skip never extends its own cooldown.
*/
package cooldown
