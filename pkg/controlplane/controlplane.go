package controlplane

import (
	"context"

	"github.com/rigmend/rigmend/pkg/types"
)

// Commands accepted by the fleet control plane
const (
	CommandRestartService = "restart-service"
	CommandClearCache     = "clear-cache"
)

// Command is a remediation instruction for one node
type Command struct {
	Command string            `json:"command"`
	Args    map[string]string `json:"args,omitempty"`
}

// SnapshotSource provides one fleet-wide telemetry observation per tick
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*types.Snapshot, error)
}

// Commander delivers remediation commands to nodes. Implementations are
// fire-and-continue: a failed command is reported as an error, logged by
// the caller, and never retried within the same tick.
type Commander interface {
	SendCommand(ctx context.Context, nodeID string, cmd Command) error
}
