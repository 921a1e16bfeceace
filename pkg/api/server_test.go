package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rigmend/rigmend/pkg/controlplane"
	"github.com/rigmend/rigmend/pkg/healer"
	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true})
}

type stubSource struct {
	snap *types.Snapshot
}

func (s *stubSource) FetchSnapshot(ctx context.Context) (*types.Snapshot, error) {
	return s.snap, nil
}

type stubCommander struct{}

func (stubCommander) SendCommand(ctx context.Context, nodeID string, cmd controlplane.Command) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *healer.Healer, *stubSource) {
	t.Helper()
	source := &stubSource{snap: &types.Snapshot{Nodes: map[string]types.Metrics{}}}
	h := healer.New(healer.Options{
		Source:    source,
		Commander: stubCommander{},
	})
	return NewServer(h, nil), h, source
}

func doRequest(s *Server, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestStatusEndpoint(t *testing.T) {
	s, h, source := newTestServer(t)
	source.snap = &types.Snapshot{Nodes: map[string]types.Metrics{
		"rig-1": {Throughput: 100, LastSeen: time.Now()},
		"rig-2": {Throughput: 50, Disk: 99, LastSeen: time.Now()},
	}}
	h.RunTick(context.Background())

	rec := doRequest(s, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.TrackedNodes)
	assert.Equal(t, []string{"rig-2"}, resp.DeadNodes, "critical disk marks rig-2 dead")
	require.Contains(t, resp.Nodes, "rig-1")
	assert.Equal(t, "learning", resp.Nodes["rig-1"].BaselineState)
	assert.Nil(t, resp.Nodes["rig-1"].Baseline)
	assert.NotNil(t, resp.Nodes["rig-2"].DeadSince)
	assert.Equal(t, 1, resp.ActionCounts[types.SeverityCritical])
}

func TestLogEndpoint(t *testing.T) {
	s, h, source := newTestServer(t)

	// Generate 3 LOW alerts by ticking a high-latency node
	source.snap = &types.Snapshot{Nodes: map[string]types.Metrics{
		"rig-1": {Throughput: 10, LatencyMs: 6000, LastSeen: time.Now()},
	}}
	for i := 0; i < 3; i++ {
		h.RunTick(context.Background())
	}

	rec := doRequest(s, http.MethodGet, "/log?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, 3, resp.Total)
}

func TestLogEndpointRejectsBadLimit(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/log?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet, "/log?limit=-5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigPartialMerge(t *testing.T) {
	s, h, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/config", `{
		"checkIntervalMs": 120000,
		"thresholds": {"diskPct": 85}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := h.Config()
	assert.Equal(t, int64(120000), cfg.CheckIntervalMs)
	assert.Equal(t, float64(85), cfg.Thresholds.DiskPct)
	// Untouched fields retain defaults
	assert.Equal(t, float64(50), cfg.Thresholds.HashrateDropPct)
	assert.Equal(t, 3, cfg.Cooldown.MaxPerHour)
}

func TestConfigIntervalFloored(t *testing.T) {
	s, h, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/config", `{"checkIntervalMs": 1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(types.MinCheckIntervalMs), h.Config().CheckIntervalMs)
}

func TestConfigRejectionLeavesLiveConfigUntouched(t *testing.T) {
	s, h, _ := newTestServer(t)
	before := h.Config()

	rec := doRequest(s, http.MethodPost, "/config", `{"cooldown": {"maxPerHour": 0}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "maxPerHour")
	assert.Equal(t, before, h.Config())
}

func TestConfigRejectsUnknownFields(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/config", `{"bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(s, http.MethodPost, "/status", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(s, http.MethodDelete, "/config", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(s, http.MethodPost, "/log", "").Code)
}

func TestEventsWithoutBroker(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
