// Package notify delivers best-effort operator alerts. A failed or
// unconfigured notification channel degrades alerts to log entries; it
// never blocks remediation.
package notify
