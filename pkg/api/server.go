package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rigmend/rigmend/pkg/events"
	"github.com/rigmend/rigmend/pkg/healer"
	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/metrics"
	"github.com/rs/zerolog"
)

const defaultLogLimit = 50

// Server exposes the operator-facing HTTP API
type Server struct {
	healer *healer.Healer
	broker *events.Broker
	mux    *http.ServeMux
	http   *http.Server
	logger zerolog.Logger
}

// NewServer creates the operator API server
func NewServer(h *healer.Healer, broker *events.Broker) *Server {
	mux := http.NewServeMux()
	s := &Server{
		healer: h,
		broker: broker,
		mux:    mux,
		logger: log.WithComponent("api"),
	}

	// Register endpoints
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/log", s.logHandler)
	mux.HandleFunc("/config", s.configHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/events", s.eventsHandler)
	mux.Handle("/metrics", metrics.Handler())

	return s
}

// Start starts the HTTP server and blocks until it exits
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("operator API listening")

	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() {
	if s.http == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.http.Shutdown(ctx)
}

// writeJSON encodes v with the given status and counts the request
func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, endpoint string, status int, msg string) {
	s.writeJSON(w, endpoint, status, errorResponse{Error: msg})
}

// HealthResponse is the liveness check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// healthHandler is a simple liveness check
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "health", http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, "health", http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}
