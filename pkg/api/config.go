package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// thresholdsPatch carries partial threshold updates
type thresholdsPatch struct {
	HashrateDropPct *float64 `json:"hashrateDropPct"`
	LatencyMs       *float64 `json:"latencyMs"`
	DiskPct         *float64 `json:"diskPct"`
	MemoryPct       *float64 `json:"memoryPct"`
	OfflineMinutes  *float64 `json:"offlineMinutes"`
}

// cooldownPatch carries partial cooldown updates
type cooldownPatch struct {
	MaxPerHour *int   `json:"maxPerHour"`
	WindowMs   *int64 `json:"windowMs"`
}

// configPatch is a partial configuration update. Absent fields leave the
// live value unchanged.
type configPatch struct {
	Enabled          *bool            `json:"enabled"`
	CheckIntervalMs  *int64           `json:"checkIntervalMs"`
	BaselineWindowMs *int64           `json:"baselineWindowMs"`
	Thresholds       *thresholdsPatch `json:"thresholds"`
	Cooldown         *cooldownPatch   `json:"cooldown"`
	MaxLogEntries    *int             `json:"maxLogEntries"`
	AutoProvision    *bool            `json:"autoProvision"`
}

// configHandler implements GET /config and POST /config (partial merge)
func (s *Server) configHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, "config", http.StatusOK, s.healer.Config())
	case http.MethodPost:
		s.updateConfig(w, r)
	default:
		s.writeError(w, "config", http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	var patch configPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		s.writeError(w, "config", http.StatusBadRequest, fmt.Sprintf("invalid config payload: %v", err))
		return
	}

	cfg := s.healer.Config()
	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.CheckIntervalMs != nil {
		cfg.CheckIntervalMs = *patch.CheckIntervalMs
	}
	if patch.BaselineWindowMs != nil {
		cfg.BaselineWindowMs = *patch.BaselineWindowMs
	}
	if patch.MaxLogEntries != nil {
		cfg.MaxLogEntries = *patch.MaxLogEntries
	}
	if patch.AutoProvision != nil {
		cfg.AutoProvision = *patch.AutoProvision
	}
	if patch.Thresholds != nil {
		if patch.Thresholds.HashrateDropPct != nil {
			cfg.Thresholds.HashrateDropPct = *patch.Thresholds.HashrateDropPct
		}
		if patch.Thresholds.LatencyMs != nil {
			cfg.Thresholds.LatencyMs = *patch.Thresholds.LatencyMs
		}
		if patch.Thresholds.DiskPct != nil {
			cfg.Thresholds.DiskPct = *patch.Thresholds.DiskPct
		}
		if patch.Thresholds.MemoryPct != nil {
			cfg.Thresholds.MemoryPct = *patch.Thresholds.MemoryPct
		}
		if patch.Thresholds.OfflineMinutes != nil {
			cfg.Thresholds.OfflineMinutes = *patch.Thresholds.OfflineMinutes
		}
	}
	if patch.Cooldown != nil {
		if patch.Cooldown.MaxPerHour != nil {
			cfg.Cooldown.MaxPerHour = *patch.Cooldown.MaxPerHour
		}
		if patch.Cooldown.WindowMs != nil {
			cfg.Cooldown.WindowMs = *patch.Cooldown.WindowMs
		}
	}

	if err := s.healer.ApplyConfig(cfg); err != nil {
		s.logger.Warn().Err(err).Msg("config update rejected")
		s.writeError(w, "config", http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, "config", http.StatusOK, s.healer.Config())
}

// parsePositiveInt parses a query parameter that must be > 0
func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive: %d", n)
	}
	return n, nil
}
