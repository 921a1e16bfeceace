/*
Package storage persists healer state across restarts.

The Store interface exposes three independent aggregates, each saved and
loaded wholesale: the operator-mutable configuration, the per-node baseline
sample windows, and the capped action log. Keeping the aggregates
independent means a corrupt or missing one degrades only itself; the healer
falls back to defaults for that aggregate and keeps running.

Two backends are provided:

  - BoltStore: an embedded BoltDB file (bucket per aggregate, JSON values),
    the default for single-binary deployments.
  - RedisStore: a key per aggregate on a shared Redis server, for
    deployments that already run one.

All writes from the healer are best-effort: the control loop's availability
matters more than any single persisted write.
*/
package storage
