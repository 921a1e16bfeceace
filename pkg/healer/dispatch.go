package healer

import (
	"context"
	"fmt"

	"github.com/rigmend/rigmend/pkg/controlplane"
	"github.com/rigmend/rigmend/pkg/events"
	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/metrics"
	"github.com/rigmend/rigmend/pkg/provision"
	"github.com/rigmend/rigmend/pkg/types"
)

// remediate maps the selected issue's severity to a concrete action.
// Every branch tolerates unreachable collaborators: the attempt is still
// logged with its failure result and the tick moves on to the next node.
func (h *Healer) remediate(ctx context.Context, nodeID string, issue types.Issue) {
	switch issue.Severity {
	case types.SeverityLow:
		h.dispatchAlert(ctx, nodeID, issue)
	case types.SeverityMedium:
		h.dispatchRestart(ctx, nodeID, issue)
	case types.SeverityHigh:
		h.dispatchClearRestart(ctx, nodeID, issue)
	case types.SeverityCritical:
		h.dispatchDead(ctx, nodeID, issue)
	}
}

// dispatchAlert notifies only. Alerts are informational and never consume
// cooldown budget, so no limiter check happens here.
func (h *Healer) dispatchAlert(ctx context.Context, nodeID string, issue types.Issue) {
	result, ok := "notified", true
	if err := h.notifier.Send(ctx, fmt.Sprintf("[%s] %s: %s", issue.Severity, nodeID, issue.Description)); err != nil {
		result, ok = "notify failed: "+err.Error(), false
		h.logger.Warn().Err(err).Str("node_id", nodeID).Msg("alert delivery failed")
	}
	h.record(nodeID, issue, types.ActionAlert, result, ok)
}

// dispatchRestart issues a restart-service command
func (h *Healer) dispatchRestart(ctx context.Context, nodeID string, issue types.Issue) {
	if h.cooldownSkip(nodeID, issue, types.ActionRestart) {
		return
	}

	result, ok := "restarted", true
	err := h.commander.SendCommand(ctx, nodeID, controlplane.Command{Command: controlplane.CommandRestartService})
	if err != nil {
		result, ok = "restart failed: "+err.Error(), false
		h.logger.Error().Err(err).Str("node_id", nodeID).Msg("restart command failed")
	}

	h.record(nodeID, issue, types.ActionRestart, result, ok)
	h.notify(ctx, fmt.Sprintf("[%s] %s: %s, restart issued (%s)", issue.Severity, nodeID, issue.Description, result))
}

// dispatchClearRestart clears the node's cache then forces a restart.
// Both sub-commands are attempted even if the first fails, and the result
// records both outcomes independently.
func (h *Healer) dispatchClearRestart(ctx context.Context, nodeID string, issue types.Issue) {
	if h.cooldownSkip(nodeID, issue, types.ActionClearRestart) {
		return
	}

	ok := true
	clearResult := "ok"
	if err := h.commander.SendCommand(ctx, nodeID, controlplane.Command{Command: controlplane.CommandClearCache}); err != nil {
		clearResult = err.Error()
		ok = false
		h.logger.Error().Err(err).Str("node_id", nodeID).Msg("clear-cache command failed")
	}

	restartResult := "ok"
	if err := h.commander.SendCommand(ctx, nodeID, controlplane.Command{
		Command: controlplane.CommandRestartService,
		Args:    map[string]string{"force": "true"},
	}); err != nil {
		restartResult = err.Error()
		ok = false
		h.logger.Error().Err(err).Str("node_id", nodeID).Msg("forced restart command failed")
	}

	result := fmt.Sprintf("clear-cache: %s; restart: %s", clearResult, restartResult)
	h.record(nodeID, issue, types.ActionClearRestart, result, ok)
	h.notify(ctx, fmt.Sprintf("[%s] %s: %s, cache cleared and service restarted (%s)", issue.Severity, nodeID, issue.Description, result))
}

// dispatchDead marks the node dead and requests a replacement.
// Provisioning is best-effort: its failure never blocks the dead marking.
func (h *Healer) dispatchDead(ctx context.Context, nodeID string, issue types.Issue) {
	if h.cooldownSkip(nodeID, issue, types.ActionDeadProv) {
		return
	}

	now := h.now()
	h.mu.Lock()
	if node, ok := h.nodes[nodeID]; ok {
		node.State = types.NodeStateDead
		node.DeadSince = now
	}
	h.mu.Unlock()

	h.logger.Warn().Str("node_id", nodeID).Str("reason", issue.Description).Msg("node marked dead")
	h.publish(&events.Event{
		Type:    events.EventNodeDead,
		Message: "node " + nodeID + " marked dead: " + issue.Description,
		Metadata: map[string]string{
			"node_id": nodeID,
			"metric":  string(issue.Metric),
		},
	})

	provResult := "provisioning disabled"
	if h.provisioner != nil && h.Config().AutoProvision {
		result, err := h.provisioner.Provision(ctx, provision.Request{
			ReplacesNodeID: nodeID,
			Reason:         issue.Description,
		})
		switch {
		case err != nil:
			provResult = "provision failed: " + err.Error()
			h.logger.Error().Err(err).Str("node_id", nodeID).Msg("replacement provisioning failed")
		case !result.OK:
			provResult = "provision rejected: " + result.Detail
		default:
			provResult = "replacement requested"
			if result.Detail != "" {
				provResult += ": " + result.Detail
			}
		}
	}

	// The action here is the dead marking, which always succeeds once
	// reached; provisioning is best-effort and recorded in the result text.
	h.record(nodeID, issue, types.ActionDeadProv, "marked dead; "+provResult, true)
	h.notify(ctx, fmt.Sprintf("[%s] %s: %s, node marked dead, %s", issue.Severity, nodeID, issue.Description, provResult))
}

// cooldownSkip logs a skip entry and reports true when the node's
// remediation budget is exhausted. The skip consumes a log slot but is
// informational, so it never counts toward future cooldown totals.
func (h *Healer) cooldownSkip(nodeID string, issue types.Issue, intended types.Action) bool {
	if h.limiter.CanRemediate(nodeID, h.Config().Cooldown) {
		return false
	}

	metrics.CooldownSkips.Inc()
	h.logger.Info().
		Str("node_id", nodeID).
		Str("intended_action", string(intended)).
		Msg("remediation refused by cooldown limiter")

	entry := h.alog.Append(types.ActionEntry{
		Timestamp: h.now(),
		NodeID:    nodeID,
		Severity:  issue.Severity,
		Issue:     issue.Description,
		Action:    types.ActionSkipped,
		Result:    "cooldown: " + string(intended) + " withheld",
	})
	h.publish(&events.Event{
		Type:    events.EventRemediationSkip,
		Message: "remediation for " + nodeID + " withheld by cooldown",
		Metadata: map[string]string{
			"node_id":  nodeID,
			"intended": string(intended),
			"entry_id": entry.ID,
		},
	})
	return true
}

// record appends an action entry, bumps metrics, and publishes the event.
// ok classifies the attempt for the remediations counter.
func (h *Healer) record(nodeID string, issue types.Issue, action types.Action, result string, ok bool) {
	entry := h.alog.Append(types.ActionEntry{
		Timestamp: h.now(),
		NodeID:    nodeID,
		Severity:  issue.Severity,
		Issue:     issue.Description,
		Action:    action,
		Result:    result,
	})

	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	metrics.RemediationsTotal.WithLabelValues(string(action), outcome).Inc()
	actionLogger := log.WithAction(string(action))
	actionLogger.Debug().
		Str("node_id", nodeID).
		Str("result", result).
		Msg("action recorded")

	h.publish(&events.Event{
		Type:    events.EventRemediationSent,
		Message: fmt.Sprintf("%s on %s: %s", action, nodeID, result),
		Metadata: map[string]string{
			"node_id":  nodeID,
			"severity": string(issue.Severity),
			"action":   string(action),
			"entry_id": entry.ID,
		},
	})
}
