package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/mender/internal/healing"
)

// Server provides HTTP endpoints for health monitoring and strategy
// management.
type Server struct {
	monitor *Monitor
	engine  *healing.Engine
	server  *http.Server
}

// NewServer creates a new management server.
func NewServer(monitor *Monitor, engine *healing.Engine, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor: monitor,
		engine:  engine,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleDetailed)
	mux.HandleFunc("GET /strategies", s.handleStrategies)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("POST /strategies/{id}/enable", s.handleEnable)
	mux.HandleFunc("POST /strategies/{id}/disable", s.handleDisable)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler exposes the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth()

	w.Header().Set("Content-Type", "application/json")
	if report.Status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": string(report.Status)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.engine.Strategies())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	strategyID := r.URL.Query().Get("strategy")
	records := s.engine.HistoryFor(strategyID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (s *Server) handleEnable(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	writeToggle(w, id, s.engine.EnableStrategy(id))
}

func (s *Server) handleDisable(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	writeToggle(w, id, s.engine.DisableStrategy(id))
}

func writeToggle(w http.ResponseWriter, id string, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"strategy": id, "success": ok})
}
