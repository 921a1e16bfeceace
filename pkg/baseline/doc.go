/*
Package baseline maintains per-node rolling metric baselines.

The Tracker keeps an ordered window of timestamped samples for each node
(default 24h) and recomputes trusted rolling averages on every update.
Samples older than the window are pruned before each recomputation, and a
baseline is only trusted once at least three samples are inside the window.

The throughput average excludes zero-throughput samples: an idle node should
not drag its own baseline down and then alert on a "drop" when it resumes
work. CPU, RAM, and latency averages cover all samples.

Baselines feed the anomaly assessor's relative-degradation checks and are
persisted wholesale through pkg/storage so learned history survives restarts.
*/
package baseline
