package baseline

import (
	"sync"
	"time"

	"github.com/rigmend/rigmend/pkg/types"
)

// minTrustedSamples is how many in-window samples a node needs before its
// computed baseline is trusted. Below this the snapshot is absent, which
// downstream consumers must treat as "no baseline", never as zero.
const minTrustedSamples = 3

// Tracker maintains a rolling window of metric samples per node and the
// computed trusted averages derived from them.
type Tracker struct {
	mu       sync.RWMutex
	window   time.Duration
	samples  map[string][]types.Sample
	computed map[string]*types.BaselineSnapshot
	now      func() time.Time
}

// NewTracker creates a tracker with the given rolling window
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window:   window,
		samples:  make(map[string][]types.Sample),
		computed: make(map[string]*types.BaselineSnapshot),
		now:      time.Now,
	}
}

// SetWindow updates the rolling window. Old samples age out on the next
// Update for each node.
func (t *Tracker) SetWindow(window time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window = window
}

// Update appends a sample for the node stamped with the current time,
// prunes samples that fell out of the window, and recomputes the averages.
// Must be called for every node on every tick, before assessment, so the
// baseline stays current even when no issues are detected.
func (t *Tracker) Update(nodeID string, sample types.Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	sample.Timestamp = now
	pruned := pruneSamples(append(t.samples[nodeID], sample), now.Add(-t.window))
	t.samples[nodeID] = pruned

	if len(pruned) < minTrustedSamples {
		delete(t.computed, nodeID)
		return
	}
	t.computed[nodeID] = computeSnapshot(pruned, now)
}

// Snapshot returns a copy of the node's computed baseline, or nil if the
// baseline is not yet trusted.
func (t *Tracker) Snapshot(nodeID string) *types.BaselineSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.computed[nodeID]
	if !ok {
		return nil
	}
	out := *snap
	return &out
}

// Samples returns a copy of the node's in-window samples
func (t *Tracker) Samples(nodeID string) []types.Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.Sample, len(t.samples[nodeID]))
	copy(out, t.samples[nodeID])
	return out
}

// Export returns all per-node samples for persistence
func (t *Tracker) Export() map[string][]types.Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]types.Sample, len(t.samples))
	for id, s := range t.samples {
		cp := make([]types.Sample, len(s))
		copy(cp, s)
		out[id] = cp
	}
	return out
}

// Load replaces all tracked samples, pruning and recomputing each node.
// Used to restore persisted baselines on startup.
func (t *Tracker) Load(samples map[string][]types.Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)
	t.samples = make(map[string][]types.Sample, len(samples))
	t.computed = make(map[string]*types.BaselineSnapshot, len(samples))
	for id, s := range samples {
		pruned := pruneSamples(s, cutoff)
		if len(pruned) == 0 {
			continue
		}
		t.samples[id] = pruned
		if len(pruned) >= minTrustedSamples {
			t.computed[id] = computeSnapshot(pruned, now)
		}
	}
}

// pruneSamples drops samples at or before the cutoff, preserving order
func pruneSamples(samples []types.Sample, cutoff time.Time) []types.Sample {
	kept := samples[:0:0]
	for _, s := range samples {
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

// computeSnapshot averages the given samples. The throughput average only
// covers samples with positive throughput so idle periods do not depress
// the baseline and trigger false drop alerts.
func computeSnapshot(samples []types.Sample, now time.Time) *types.BaselineSnapshot {
	var cpu, ram, latency float64
	var throughput float64
	var active int

	for _, s := range samples {
		cpu += s.CPU
		ram += s.RAM
		latency += s.Latency
		if s.Throughput > 0 {
			throughput += s.Throughput
			active++
		}
	}

	n := float64(len(samples))
	snap := &types.BaselineSnapshot{
		AvgCPU:      cpu / n,
		AvgRAM:      ram / n,
		AvgLatency:  latency / n,
		SampleCount: len(samples),
		UpdatedAt:   now,
	}
	if active > 0 {
		snap.AvgThroughput = throughput / float64(active)
	}
	return snap
}
