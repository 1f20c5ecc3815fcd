// Package httpdebug serves the operational endpoints: liveness, the
// Prometheus registry, and a JSON dump of the store state for
// inspecting a running session. The server is optional and off by
// default; the TUI is the real interface.
package httpdebug

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skycast-app/skycast/internal/store"
)

// StateReader exposes read access to the store for the /state endpoint.
type StateReader interface {
	State() store.State
}

// Server exposes health, metrics, and state-dump HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a debug server with /healthz, /metrics, and /state
// routes.
func NewServer(addr string, states StateReader, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /state", handleState(states))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("debug server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleState(states StateReader) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state := states.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"weather":        state.Weather,
			"lastLocation":   state.LastLocation,
			"lastUpdated":    state.LastUpdated,
			"recentSearches": state.RecentSearches,
			"selectedDay":    state.SelectedDay,
			"locations":      state.Locations,
			"isLoading":      state.IsLoading,
			"error":          state.Err,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort debug response
}
