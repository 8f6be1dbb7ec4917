// Package http is the web boundary: it parses cross-section forecast
// requests, runs them through the engine, and serves the render model as
// JSON alongside health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/txbridge/bridge-flood-service/internal/domain"
)

// Forecaster runs one forecast request through the engine.
type Forecaster interface {
	Forecast(ctx context.Context, req domain.ForecastRequest) (domain.RenderModel, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the cross-section endpoint plus health, readiness, and
// metrics routes.
type Server struct {
	httpServer *http.Server
	engine     Forecaster
	steps      int // required flow count; 0 accepts any non-empty length
	logger     *slog.Logger
}

// NewServer creates the HTTP server. steps is the required number of forecast
// flows per request (FORECAST_STEPS), zero to accept any count.
func NewServer(addr string, engine Forecaster, ready ReadinessChecker, steps int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		steps:  steps,
		logger: logger,
	}

	mux.HandleFunc("GET /xs", s.handleCrossSection)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleCrossSection serves GET /xs?uuid=…&list_flows=10,20,…&first_utc_time=….
func (s *Server) handleCrossSection(w http.ResponseWriter, r *http.Request) {
	req, reqErr := s.parseForecastRequest(r)
	if reqErr != nil {
		writeError(w, reqErr)
		return
	}

	model, err := s.engine.Forecast(r.Context(), req)
	if err != nil {
		s.logger.Warn("forecast failed", "uuid", req.BridgeUUID, "error", err)
		writeError(w, errorFor(err))
		return
	}
	writeJSON(w, http.StatusOK, model)
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func errorFor(err error) *requestError {
	switch {
	case errors.Is(err, domain.ErrUnknownBridge):
		return codeUnknownBridge(err)
	case errors.Is(err, domain.ErrEmptyForecast):
		return &requestError{status: http.StatusBadRequest, code: "003c", text: "list_flows must contain at least one value"}
	case errors.Is(err, domain.ErrProviderUnavailable):
		return &requestError{status: http.StatusServiceUnavailable, code: "006", text: "bridge data store unavailable"}
	default:
		// Includes ErrInvalidCurve: unusable reference data for this bridge.
		return &requestError{status: http.StatusInternalServerError, code: "007", text: "bridge data could not be processed"}
	}
}

func writeError(w http.ResponseWriter, reqErr *requestError) {
	writeJSON(w, reqErr.status, map[string]string{
		"status":     "Failed",
		"error_code": reqErr.code,
		"error_text": reqErr.text,
	})
}
