package healer

import (
	"sort"
	"time"

	"github.com/rigmend/rigmend/pkg/events"
	"github.com/rigmend/rigmend/pkg/types"
)

// Config returns a copy of the current configuration
func (h *Healer) Config() types.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// ApplyConfig validates and installs a new configuration, persists it,
// and restarts the tick timer if the interval changed. Invalid configs
// are rejected without touching the live one.
func (h *Healer) ApplyConfig(cfg types.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	intervalChanged := cfg.CheckIntervalMs != h.cfg.CheckIntervalMs
	h.cfg = cfg
	h.mu.Unlock()

	h.alog.SetMax(cfg.MaxLogEntries)
	h.tracker.SetWindow(cfg.BaselineWindow())

	if h.store != nil {
		if err := h.store.SaveConfig(cfg); err != nil {
			h.logger.Warn().Err(err).Msg("config save failed")
		}
	}

	if intervalChanged {
		select {
		case h.reloadCh <- struct{}{}:
		default:
		}
	}

	h.publish(&events.Event{
		Type:    events.EventConfigUpdated,
		Message: "configuration updated",
	})
	h.logger.Info().Msg("configuration updated")
	return nil
}

// Nodes returns a copy of every tracked node
func (h *Healer) Nodes() []types.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]types.Node, 0, len(h.nodes))
	for _, node := range h.nodes {
		out = append(out, *node)
	}
	return out
}

// DeadNodes returns the IDs of nodes currently marked dead
func (h *Healer) DeadNodes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var dead []string
	for id, node := range h.nodes {
		if node.State == types.NodeStateDead {
			dead = append(dead, id)
		}
	}
	sort.Strings(dead)
	return dead
}

// Baseline returns the node's trusted baseline or nil while it is still
// learning.
func (h *Healer) Baseline(nodeID string) *types.BaselineSnapshot {
	return h.tracker.Snapshot(nodeID)
}

// RecentActions returns up to limit log entries, newest first
func (h *Healer) RecentActions(limit int) []types.ActionEntry {
	return h.alog.Recent(limit)
}

// ActionLogLen returns the number of retained log entries
func (h *Healer) ActionLogLen() int {
	return h.alog.Len()
}

// ActionCounts tallies log entries in the trailing window by severity
func (h *Healer) ActionCounts(window time.Duration) map[types.Severity]int {
	return h.alog.CountBySeverity(h.now().Add(-window))
}
