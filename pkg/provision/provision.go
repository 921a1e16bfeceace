package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Request describes the replacement node to create
type Request struct {
	ReplacesNodeID string `json:"replacesNodeId"`
	Reason         string `json:"reason"`
}

// Result is the provisioning outcome
type Result struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Provisioner requests a replacement node when one is declared permanently
// failed. A single injected implementation with one failure mode; callers
// wanting fallback chains compose provisioners upstream. Provisioning is
// best-effort: failure never blocks marking the node dead.
type Provisioner interface {
	Provision(ctx context.Context, req Request) (Result, error)
}

// HTTPProvisioner posts provisioning requests to an external system
type HTTPProvisioner struct {
	url  string
	http *http.Client
}

// NewHTTPProvisioner creates a provisioner targeting url
func NewHTTPProvisioner(url string) *HTTPProvisioner {
	return &HTTPProvisioner{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Provision requests one replacement node
func (p *HTTPProvisioner) Provision(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("provision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("provisioner returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("provision response decode failed: %w", err)
	}
	return result, nil
}
