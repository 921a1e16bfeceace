package api

import (
	"net/http"
	"time"

	"github.com/rigmend/rigmend/pkg/types"
)

// NodeStatus is the per-node view in the status response. Baseline is
// omitted while the node is still learning.
type NodeStatus struct {
	State         types.NodeState         `json:"state"`
	Metrics       types.Metrics           `json:"metrics"`
	BaselineState string                  `json:"baselineState"` // "trusted" or "learning"
	Baseline      *types.BaselineSnapshot `json:"baseline,omitempty"`
	DeadSince     *time.Time              `json:"deadSince,omitempty"`
}

// StatusResponse is the operator status overview
type StatusResponse struct {
	Config        types.Config           `json:"config"`
	TrackedNodes  int                    `json:"trackedNodes"`
	DeadNodes     []string               `json:"deadNodes"`
	Nodes         map[string]NodeStatus  `json:"nodes"`
	ActionCounts  map[types.Severity]int `json:"lastHourActionCounts"`
	RecentActions []types.ActionEntry    `json:"recentActions"`
}

// statusHandler implements GET /status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "status", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	nodes := s.healer.Nodes()
	nodeViews := make(map[string]NodeStatus, len(nodes))
	for _, node := range nodes {
		view := NodeStatus{
			State:         node.State,
			Metrics:       node.Metrics,
			BaselineState: "learning",
		}
		if snap := s.healer.Baseline(node.ID); snap != nil {
			view.BaselineState = "trusted"
			view.Baseline = snap
		}
		if !node.DeadSince.IsZero() {
			deadSince := node.DeadSince
			view.DeadSince = &deadSince
		}
		nodeViews[node.ID] = view
	}

	dead := s.healer.DeadNodes()
	if dead == nil {
		dead = []string{}
	}

	s.writeJSON(w, "status", http.StatusOK, StatusResponse{
		Config:        s.healer.Config(),
		TrackedNodes:  len(nodes),
		DeadNodes:     dead,
		Nodes:         nodeViews,
		ActionCounts:  s.healer.ActionCounts(time.Hour),
		RecentActions: s.healer.RecentActions(defaultLogLimit),
	})
}

// LogResponse is the action log listing
type LogResponse struct {
	Entries []types.ActionEntry `json:"entries"`
	Total   int                 `json:"total"`
}

// logHandler implements GET /log?limit=N
func (s *Server) logHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "log", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			s.writeError(w, "log", http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries := s.healer.RecentActions(limit)
	if entries == nil {
		entries = []types.ActionEntry{}
	}
	s.writeJSON(w, "log", http.StatusOK, LogResponse{
		Entries: entries,
		Total:   s.healer.ActionLogLen(),
	})
}
