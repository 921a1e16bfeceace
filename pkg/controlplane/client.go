package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/types"
)

const defaultTimeout = 10 * time.Second

// HTTPClient implements SnapshotSource and Commander against the fleet
// control plane's REST endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the control plane at baseURL
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// flexTime unmarshals either an RFC3339 string or unix milliseconds,
// since node agents report last-seen in both forms.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return f.Time.UnmarshalJSON(data)
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	f.Time = time.UnixMilli(ms)
	return nil
}

// wireNode is the tolerant decode target for one node's telemetry.
// Every field is optional; missing values default to zero.
type wireNode struct {
	LastSeen   flexTime `json:"lastSeen"`
	Throughput float64  `json:"throughput"`
	CPU        float64  `json:"cpu"`
	RAM        float64  `json:"ram"`
	Disk       float64  `json:"disk"`
	Latency    float64  `json:"latency"`
	Status     string   `json:"status"`
}

type wireSnapshot struct {
	Nodes map[string]json.RawMessage `json:"nodes"`
}

// FetchSnapshot retrieves the current fleet state. A malformed node entry
// is skipped with a warning; the rest of the snapshot is still returned.
func (c *HTTPClient) FetchSnapshot(ctx context.Context) (*types.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot fetch returned status %d", resp.StatusCode)
	}

	var wire wireSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("snapshot decode failed: %w", err)
	}

	snapshot := &types.Snapshot{Nodes: make(map[string]types.Metrics, len(wire.Nodes))}
	for nodeID, raw := range wire.Nodes {
		var n wireNode
		if err := json.Unmarshal(raw, &n); err != nil {
			logger := log.WithComponent("controlplane")
			logger.Warn().
				Str("node_id", nodeID).
				Err(err).
				Msg("skipping malformed node in snapshot")
			continue
		}
		snapshot.Nodes[nodeID] = types.Metrics{
			Throughput: n.Throughput,
			CPU:        n.CPU,
			RAM:        n.RAM,
			Disk:       n.Disk,
			LatencyMs:  n.Latency,
			LastSeen:   n.LastSeen.Time,
		}
	}
	return snapshot, nil
}

type commandRequest struct {
	NodeID  string            `json:"nodeId"`
	Command string            `json:"command"`
	Args    map[string]string `json:"args,omitempty"`
}

type commandResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SendCommand posts one remediation command to the control plane
func (c *HTTPClient) SendCommand(ctx context.Context, nodeID string, cmd Command) error {
	body, err := json.Marshal(commandRequest{
		NodeID:  nodeID,
		Command: cmd.Command,
		Args:    cmd.Args,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/command", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("command dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("command dispatch returned status %d", resp.StatusCode)
	}

	var result commandResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("command response decode failed: %w", err)
	}
	if !result.OK {
		if result.Error != "" {
			return fmt.Errorf("command %s rejected: %s", cmd.Command, result.Error)
		}
		return fmt.Errorf("command %s rejected", cmd.Command)
	}
	return nil
}
