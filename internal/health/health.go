// Package health exposes a liveness endpoint for the agent process
// itself — whether the scheduler is ticking and polling nodes — not a
// data surface over the mon schema (SPEC_FULL.md §6, non-goals).
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Config controls the liveness listener.
type Config struct {
	Enabled       bool
	Port          int
	Path          string
	ListenAddress string
}

// Server tracks task-run activity and serves it as JSON on Path. Its
// Mux is exposed so other ambient outputs (the Prometheus exporter)
// can register alongside it on the same listener, per SPEC_FULL.md §6.
type Server struct {
	config *Config
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger

	mu           sync.RWMutex
	lastRunTime  time.Time
	taskRunCount int64
	successCount int64
	failureCount int64
	healthy      bool
}

// Response is the JSON body served at Path.
type Response struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	LastRunTime  time.Time `json:"last_run_time,omitempty"`
	TaskRuns     int64     `json:"task_runs"`
	SuccessCount int64     `json:"success_count"`
	FailureCount int64     `json:"failure_count"`
	Uptime       string    `json:"uptime"`
}

var startTime = time.Now()

// staleAfter is how long since the last recorded task run before the
// endpoint reports unhealthy, the same 5-minute liveness window the
// teacher used for its own test cadence.
const staleAfter = 5 * time.Minute

// NewServer builds the liveness Server. If cfg is disabled, NewServer
// returns (nil, nil); every method on a nil *Server is a no-op, so
// callers never need a separate enabled check.
func NewServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{config: cfg, mux: mux, logger: logger, healthy: true}
	mux.HandleFunc(cfg.Path, s.handleHealth)

	addr := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Mux returns the server's ServeMux so other ambient outputs can
// register additional routes (e.g. /metrics) before Start is called.
func (s *Server) Mux() *http.ServeMux {
	if s == nil {
		return http.NewServeMux()
	}
	return s.mux
}

// Start begins serving in the background. Call it only after every
// other output has finished registering its routes on Mux().
func (s *Server) Start() {
	if s == nil {
		return
	}
	go func() {
		s.logger.Info("liveness endpoint starting", "addr", s.server.Addr, "path", s.config.Path)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("liveness server error", "error", err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "healthy"
	statusCode := http.StatusOK

	if s.taskRunCount > 0 && time.Since(s.lastRunTime) > staleAfter {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}
	if !s.healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	resp := Response{
		Status:       status,
		Timestamp:    time.Now(),
		LastRunTime:  s.lastRunTime,
		TaskRuns:     s.taskRunCount,
		SuccessCount: s.successCount,
		FailureCount: s.failureCount,
		Uptime:       time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode health response failed", "error", err)
	}
}

// RecordTaskRun records the outcome of one Task Runner invocation — a
// task counts as successful if Run returned nil, regardless of any
// per-node error_ rows it recorded along the way.
func (s *Server) RecordTaskRun(success bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunTime = time.Now()
	s.taskRunCount++
	if success {
		s.successCount++
	} else {
		s.failureCount++
	}
}

// SetHealthy overrides the computed status, e.g. to report unhealthy
// when the store's connection pool cannot be reached at all.
func (s *Server) SetHealthy(healthy bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// Stats returns the current counters, mainly for tests.
func (s *Server) Stats() (taskRuns, successCount, failureCount int64, lastRunTime time.Time) {
	if s == nil {
		return 0, 0, 0, time.Time{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskRunCount, s.successCount, s.failureCount, s.lastRunTime
}

// Close shuts down the listener.
func (s *Server) Close() error {
	if s == nil || s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
