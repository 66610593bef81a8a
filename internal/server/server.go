// Package server exposes the estimate, forecast and report operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/history"
	"github.com/theirongolddev/costcast/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	Currency     string
	Horizon      int
	EventsBuffer int
	// Source backs GET /v1/summary. Nil means the built-in sample.
	Source history.Source
	// Store, when set, records every generated report.
	Store *store.Store
}

// Event records one computed result.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Total     float64   `json:"total,omitempty"`
	Points    int       `json:"points,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt    time.Time `json:"started_at"`
	Requests     int64     `json:"requests"`
	Errors       int64     `json:"errors"`
	Currency     string    `json:"currency"`
	Horizon      int       `json:"horizon"`
	Source       string    `json:"source"`
	EventCount   int       `json:"event_count"`
	StoreEnabled bool      `json:"store_enabled"`
}

// Server provides the HTTP API.
type Server struct {
	cfg Config
	log *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	requests    int64
	errors      int64
	nextEventID int64
	events      []Event
}

// New returns a server with defaults filled in.
func New(cfg Config, log *logrus.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Horizon < 0 {
		cfg.Horizon = forecast.DefaultHorizon
	}
	if cfg.Source == nil {
		cfg.Source = history.Sample()
	}
	return &Server{cfg: cfg, log: log, startedAt: time.Now()}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/v1/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/v1/total", s.handleTotal).Methods(http.MethodPost)
	r.HandleFunc("/v1/forecast", s.handleForecast).Methods(http.MethodPost)
	r.HandleFunc("/v1/report", s.handleReport).Methods(http.MethodPost)
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.mu.Lock()
		s.requests++
		if rec.code >= 400 {
			s.errors++
		}
		s.mu.Unlock()

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.code,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Server) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}

func (s *Server) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		StartedAt:    s.startedAt,
		Requests:     s.requests,
		Errors:       s.errors,
		Currency:     s.cfg.Currency,
		Horizon:      s.cfg.Horizon,
		Source:       s.cfg.Source.Describe(),
		EventCount:   len(s.events),
		StoreEnabled: s.cfg.Store != nil,
	}
}
