/*
Package controlplane talks to the fleet control plane.

It defines the two boundary contracts the healer consumes: SnapshotSource
(one fleet-wide telemetry observation per tick) and Commander (delivery of
restart-service and clear-cache commands to individual nodes), plus an
HTTP implementation of both with bounded timeouts.

Snapshot decoding is deliberately forgiving: missing fields default to
zero and a malformed node entry is skipped with a warning rather than
failing the whole fetch, so one broken agent never blinds the healer to
the rest of the fleet.
*/
package controlplane
