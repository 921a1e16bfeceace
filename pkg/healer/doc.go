/*
Package healer implements the fleet auto-healing control loop.

One Healer instance owns all mutable state: the runtime configuration,
per-node lifecycle records, the baseline tracker, and the action log.
Collaborators (snapshot source, command dispatcher, notifier, provisioner,
state store, event broker) are injected through Options so the loop can be
exercised with fakes.

# Control flow

Each tick runs one full sequential fleet scan:

	fetch snapshot
	for each node:
	    update baseline
	    if dead: check recovery, continue
	    assess issues
	    if none: continue
	    select worst issue
	    remediate (subject to cooldown)
	    log outcome

Remediation is graduated by severity: LOW alerts, MEDIUM restarts the
node's service, HIGH clears the cache then forces a restart (both
sub-commands attempted even on partial failure), and CRITICAL marks the
node dead and requests a replacement. The cooldown limiter bounds
non-informational remediations per node per trailing window; a refused
remediation is logged as a skip that never counts toward future cooldowns.

A node marked dead is excluded from assessment until it reports telemetry
fresher than 60 seconds with positive throughput, at which point it
transitions back to active with a LOW recovery entry.

# Failure posture

There are no fatal conditions here. Transport errors, malformed telemetry,
and persistence failures are all recovered locally: the affected node or
write is skipped and the scan continues. Overlapping ticks are refused via
a re-entrancy guard rather than queued.
*/
package healer
