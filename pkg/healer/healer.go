package healer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rigmend/rigmend/pkg/actionlog"
	"github.com/rigmend/rigmend/pkg/assess"
	"github.com/rigmend/rigmend/pkg/baseline"
	"github.com/rigmend/rigmend/pkg/controlplane"
	"github.com/rigmend/rigmend/pkg/cooldown"
	"github.com/rigmend/rigmend/pkg/events"
	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/metrics"
	"github.com/rigmend/rigmend/pkg/notify"
	"github.com/rigmend/rigmend/pkg/provision"
	"github.com/rigmend/rigmend/pkg/storage"
	"github.com/rigmend/rigmend/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// fetchTimeout bounds the fleet snapshot fetch
	fetchTimeout = 15 * time.Second

	// nodeTimeout bounds the network calls made while processing one node.
	// Each node gets a fresh deadline, so one hung call cannot starve
	// remediation for the rest of the scan.
	nodeTimeout = 15 * time.Second

	// recoveryWindow is how fresh a dead node's telemetry must be to
	// transition back to active
	recoveryWindow = 60 * time.Second
)

// Options holds the injected collaborators for a Healer. Source and
// Commander are required; Notifier defaults to a no-op, Provisioner and
// Store may be nil (no provisioning, no persistence).
type Options struct {
	Source      controlplane.SnapshotSource
	Commander   controlplane.Commander
	Notifier    notify.Notifier
	Provisioner provision.Provisioner
	Store       storage.Store
	Broker      *events.Broker
}

// Healer is the fleet auto-healing control loop. All mutable state
// (config, node lifecycle, baselines, action log) is owned by one Healer
// instance; collaborators are injected so the loop is testable with fakes.
type Healer struct {
	mu    sync.RWMutex
	cfg   types.Config
	nodes map[string]*types.Node

	tracker  *baseline.Tracker
	assessor *assess.Assessor
	alog     *actionlog.Log
	limiter  *cooldown.Limiter

	source      controlplane.SnapshotSource
	commander   controlplane.Commander
	notifier    notify.Notifier
	provisioner provision.Provisioner
	store       storage.Store
	broker      *events.Broker

	logger      zerolog.Logger
	now         func() time.Time
	nodeTimeout time.Duration

	ticking  atomic.Bool
	reloadCh chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a healer, restoring persisted config, baselines, and the
// action log. A missing or corrupt aggregate falls back to defaults;
// persistence problems never prevent the healer from starting.
func New(opts Options) *Healer {
	h := &Healer{
		cfg:         types.DefaultConfig(),
		nodes:       make(map[string]*types.Node),
		source:      opts.Source,
		commander:   opts.Commander,
		notifier:    opts.Notifier,
		provisioner: opts.Provisioner,
		store:       opts.Store,
		broker:      opts.Broker,
		logger:      log.WithComponent("healer"),
		now:         time.Now,
		nodeTimeout: nodeTimeout,
		reloadCh:    make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	if h.notifier == nil {
		h.notifier = notify.Noop{}
	}

	h.restore()

	h.tracker = baseline.NewTracker(h.cfg.BaselineWindow())
	h.assessor = assess.NewAssessor()
	h.alog = actionlog.NewLog(h.cfg.MaxLogEntries)
	h.limiter = cooldown.NewLimiter(h.alog)

	h.restoreState()
	return h
}

// restore loads the persisted config aggregate
func (h *Healer) restore() {
	if h.store == nil {
		return
	}

	cfg, err := h.store.LoadConfig()
	switch {
	case err == nil:
		cfg.Normalize()
		if verr := cfg.Validate(); verr != nil {
			h.logger.Warn().Err(verr).Msg("persisted config invalid, using defaults")
			return
		}
		h.cfg = cfg
	case errors.Is(err, storage.ErrNotFound):
		// First run, defaults apply
	default:
		h.logger.Warn().Err(err).Msg("failed to load config, using defaults")
	}
}

// restoreState loads the persisted baselines and action log
func (h *Healer) restoreState() {
	if h.store == nil {
		return
	}

	if samples, err := h.store.LoadBaselines(); err == nil {
		h.tracker.Load(samples)
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Warn().Err(err).Msg("failed to load baselines, starting fresh")
	}

	if entries, err := h.store.LoadActionLog(); err == nil {
		h.alog.Load(entries)
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Warn().Err(err).Msg("failed to load action log, starting fresh")
	}
}

// Start begins the periodic control loop
func (h *Healer) Start() {
	go h.run()
}

// Stop cancels the timer and waits for an in-flight tick to finish
func (h *Healer) Stop() {
	close(h.stopCh)
	<-h.doneCh
}

func (h *Healer) run() {
	defer close(h.doneCh)

	ticker := time.NewTicker(h.Config().CheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.RunTick(context.Background())
		case <-h.reloadCh:
			interval := h.Config().CheckInterval()
			ticker.Reset(interval)
			h.logger.Info().Dur("interval", interval).Msg("check interval updated, timer restarted")
		case <-h.stopCh:
			return
		}
	}
}

// RunTick executes one full fleet scan: fetch snapshot, then per node
// update baseline, handle lifecycle, assess, and remediate. Overlapping
// ticks are refused so a slow scan cannot race the next one.
func (h *Healer) RunTick(ctx context.Context) {
	if !h.Config().Enabled {
		return
	}

	if !h.ticking.CompareAndSwap(false, true) {
		h.logger.Warn().Msg("previous tick still running, skipping")
		return
	}
	defer h.ticking.Store(false)

	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.TickDuration)
		metrics.TicksTotal.Inc()
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	snapshot, err := h.source.FetchSnapshot(fetchCtx)
	cancel()
	if err != nil {
		metrics.SnapshotFetchErrors.Inc()
		h.logger.Error().Err(err).Msg("snapshot fetch failed, skipping tick")
		h.publish(&events.Event{
			Type:    events.EventSnapshotFetchFail,
			Message: err.Error(),
		})
		return
	}

	// Sequential, deterministic order keeps cooldown and log writes
	// trivially consistent.
	nodeIDs := make([]string, 0, len(snapshot.Nodes))
	for id := range snapshot.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	for _, nodeID := range nodeIDs {
		nodeCtx, cancel := context.WithTimeout(ctx, h.nodeTimeout)
		h.processNode(nodeCtx, nodeID, snapshot.Nodes[nodeID])
		cancel()
	}

	h.updateGauges()
	h.persist()
}

// processNode runs one node through the control flow: baseline update,
// dead-node recovery check, assessment, and remediation of the worst issue.
func (h *Healer) processNode(ctx context.Context, nodeID string, current types.Metrics) {
	// Baseline is updated for every node on every tick, dead or not, so
	// history stays current for when the node returns.
	h.tracker.Update(nodeID, types.Sample{
		Throughput: current.Throughput,
		CPU:        current.CPU,
		RAM:        current.RAM,
		Latency:    current.LatencyMs,
	})

	node := h.trackNode(nodeID, current)

	if node.State == types.NodeStateDead {
		h.checkRecovery(ctx, node)
		return
	}

	issues := h.assessor.Assess(current, h.tracker.Snapshot(nodeID), h.Config().Thresholds)
	for _, issue := range issues {
		metrics.IssuesDetected.WithLabelValues(string(issue.Severity), string(issue.Metric)).Inc()
		h.publish(&events.Event{
			Type:    events.EventIssueDetected,
			Message: issue.Description,
			Metadata: map[string]string{
				"node_id":  nodeID,
				"severity": string(issue.Severity),
				"metric":   string(issue.Metric),
			},
		})
	}
	if len(issues) == 0 {
		return
	}

	worst := assess.SelectWorst(issues)
	nodeLogger := log.WithNodeID(nodeID)
	nodeLogger.Info().
		Str("severity", string(worst.Severity)).
		Str("metric", string(worst.Metric)).
		Int("issue_count", len(issues)).
		Msg("issue selected for remediation")

	h.remediate(ctx, nodeID, *worst)
}

// trackNode upserts the node record and returns it
func (h *Healer) trackNode(nodeID string, current types.Metrics) *types.Node {
	h.mu.Lock()
	defer h.mu.Unlock()

	node, ok := h.nodes[nodeID]
	if !ok {
		node = &types.Node{ID: nodeID, State: types.NodeStateActive}
		h.nodes[nodeID] = node
	}
	node.Metrics = current
	return node
}

// checkRecovery transitions a dead node back to active once it reports
// fresh telemetry and positive throughput. Anything less keeps it dead
// indefinitely; there is no timeout-based un-dead transition.
func (h *Healer) checkRecovery(ctx context.Context, node *types.Node) {
	now := h.now()
	if now.Sub(node.Metrics.LastSeen) >= recoveryWindow || node.Metrics.Throughput <= 0 {
		return
	}

	h.mu.Lock()
	node.State = types.NodeStateActive
	node.DeadSince = time.Time{}
	h.mu.Unlock()

	metrics.NodesRecovered.Inc()
	h.logger.Info().Str("node_id", node.ID).Msg("node recovered")

	entry := h.alog.Append(types.ActionEntry{
		Timestamp: now,
		NodeID:    node.ID,
		Severity:  types.SeverityLow,
		Issue:     "node recovered",
		Action:    types.ActionRecovered,
		Result:    "active",
	})
	h.publish(&events.Event{
		Type:    events.EventNodeRecovered,
		Message: "node " + node.ID + " recovered",
		Metadata: map[string]string{
			"node_id":  node.ID,
			"entry_id": entry.ID,
		},
	})
	h.notify(ctx, "node "+node.ID+" recovered and is active again")
}

// notify sends a best-effort operator notification
func (h *Healer) notify(ctx context.Context, text string) {
	if err := h.notifier.Send(ctx, text); err != nil {
		h.logger.Warn().Err(err).Msg("notification delivery failed")
	}
}

// publish emits an event if a broker is wired
func (h *Healer) publish(event *events.Event) {
	if h.broker != nil {
		h.broker.Publish(event)
	}
}

// updateGauges refreshes the fleet-level metrics
func (h *Healer) updateGauges() {
	h.mu.RLock()
	tracked := len(h.nodes)
	dead := 0
	trusted := 0
	for id, node := range h.nodes {
		if node.State == types.NodeStateDead {
			dead++
		}
		if h.tracker.Snapshot(id) != nil {
			trusted++
		}
	}
	h.mu.RUnlock()

	metrics.NodesTracked.Set(float64(tracked))
	metrics.NodesDead.Set(float64(dead))
	metrics.BaselinesTrusted.Set(float64(trusted))
}

// persist saves baselines and the action log, best-effort. A failed write
// is logged and dropped; the loop's availability wins.
func (h *Healer) persist() {
	if h.store == nil {
		return
	}
	if err := h.store.SaveBaselines(h.tracker.Export()); err != nil {
		h.logger.Warn().Err(err).Msg("baseline save failed")
	}
	if err := h.store.SaveActionLog(h.alog.All()); err != nil {
		h.logger.Warn().Err(err).Msg("action log save failed")
	}
}
