// Package api serves run status over HTTP so dashboards and scripts can watch
// a scenario without attaching to the TUI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kerbworks/scenic/catalog"
	"github.com/kerbworks/scenic/internal/runner"
)

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

// Server exposes run state, the scenario catalog, and Prometheus metrics.
type Server struct {
	addr    string
	store   runner.StateStore
	logger  zerolog.Logger
	clock   func() time.Time
	metrics *runner.Metrics
	index   *catalog.Index

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics mounts /metrics backed by the runner's Prometheus registry.
func WithMetrics(m *runner.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithCatalog mounts /v1/scenarios backed by the discovered catalog index.
func WithCatalog(idx *catalog.Index) Option {
	return func(s *Server) {
		s.index = idx
	}
}

// NewServer prepares a status server bound to the given address, reading run
// state from the store.
func NewServer(addr string, store runner.StateStore, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		store:  store,
		logger: zerolog.Nop(),
		clock:  func() time.Time { return time.Now().UTC() },
		status: StatusStarting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("api: server is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("api: server already started")
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()

	server := &http.Server{
		Handler:      s.router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("api: serve error")
		}
	}()
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("api: listening")
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests
// to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/run", s.handleRun)
		if s.index != nil {
			r.Get("/scenarios", s.handleScenarios)
		}
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleRun(w http.ResponseWriter, _ *http.Request) {
	state, err := s.store.Load()
	if err != nil {
		if errors.Is(err, runner.ErrStateNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run recorded yet"})
			return
		}
		s.logger.Error().Err(err).Msg("api: load run state")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to load run state"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type scenarioSummary struct {
	ID          string `json:"id"`
	Scenario    string `json:"scenario"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	files := s.index.All()
	out := make([]scenarioSummary, 0, len(files))
	for _, file := range files {
		out = append(out, scenarioSummary{
			ID:          file.Definition.ID,
			Scenario:    file.Definition.Scenario,
			Name:        file.Definition.Name,
			Description: file.Definition.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(s.startTime).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
