// Package httpapi exposes the service over HTTP: health and readiness
// probes, Prometheus metrics, manual ingestion triggers, and the stability
// score read endpoint.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicpulse/incident-etl/internal/observability"
	"github.com/civicpulse/incident-etl/internal/pipeline"
	"github.com/civicpulse/incident-etl/internal/scoring"
)

// Config holds the server's own settings.
type Config struct {
	Addr string

	// IngestToken guards the /ingest endpoints. Empty disables the guard.
	IngestToken string

	// Development additionally disables the guard regardless of token.
	Development bool
}

// Ingestor triggers ingestion runs.
type Ingestor interface {
	RunSource(ctx context.Context, name string) (pipeline.RunResult, error)
	RunAll(ctx context.Context) []pipeline.RunResult
}

// Scorer computes stability scores on demand.
type Scorer interface {
	Score(ctx context.Context, municipality string, days int) (scoring.StabilityScore, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the HTTP API.
type Server struct {
	httpServer *http.Server
	cfg        Config
	ingestor   Ingestor
	scorer     Scorer
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// ingestResponse is the body of the per-source ingestion endpoint. The run
// counters sit flat at the top level next to success.
type ingestResponse struct {
	Success bool `json:"success"`
	pipeline.RunResult
	Error string `json:"error,omitempty"`
}

// ingestAllResponse aggregates one result per source for /ingest/all.
type ingestAllResponse struct {
	Success bool                 `json:"success"`
	Results []pipeline.RunResult `json:"results"`
}

// NewServer wires all routes. ready is typically the store.
func NewServer(cfg Config, ingestor Ingestor, scorer Scorer, ready ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		cfg:      cfg,
		ingestor: ingestor,
		scorer:   scorer,
		logger:   logger,
		metrics:  metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /ingest/all", s.requireToken(s.handleIngestAll))
	mux.HandleFunc("GET /ingest/{source}", s.requireToken(s.handleIngestSource))

	mux.HandleFunc("GET /api/stability-score", s.handleScore)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
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

// requireToken enforces the bearer token on ingestion triggers. The guard is
// skipped in development or when no token is configured.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Development || s.cfg.IngestToken == "" {
			next(w, r)
			return
		}
		want := "Bearer " + s.cfg.IngestToken
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleIngestSource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("source")

	result, err := s.ingestor.RunSource(r.Context(), name)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownSource) {
			writeJSON(w, http.StatusNotFound, ingestResponse{RunResult: result, Error: err.Error()})
			return
		}
		s.logger.Error("ingestion run failed", "source", name, "error", err)
		writeJSON(w, http.StatusBadGateway, ingestResponse{RunResult: result, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Success: true, RunResult: result})
}

func (s *Server) handleIngestAll(w http.ResponseWriter, r *http.Request) {
	results := s.ingestor.RunAll(r.Context())
	writeJSON(w, http.StatusOK, ingestAllResponse{Success: true, Results: results})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	municipality := r.URL.Query().Get("municipality")
	if municipality == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "municipality is required"})
		return
	}

	days := scoring.DefaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be an integer between 1 and 90"})
			return
		}
		days = parsed
	}

	s.metrics.ScoreRequests.Inc()
	start := time.Now()
	score, err := s.scorer.Score(r.Context(), municipality, days)
	s.metrics.ScoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("score computation failed", "municipality", municipality, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "score computation failed"})
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
