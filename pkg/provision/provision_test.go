package provision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvisioner(t *testing.T) {
	var got Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok": true, "detail": "rig-99 queued"}`))
	}))
	defer ts.Close()

	result, err := NewHTTPProvisioner(ts.URL).Provision(context.Background(), Request{
		ReplacesNodeID: "rig-1",
		Reason:         "disk usage 99.0% exceeds 90% threshold",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "rig-99 queued", result.Detail)
	assert.Equal(t, "rig-1", got.ReplacesNodeID)
}

func TestHTTPProvisionerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewHTTPProvisioner(ts.URL).Provision(context.Background(), Request{ReplacesNodeID: "rig-1"})
	assert.Error(t, err)
}
