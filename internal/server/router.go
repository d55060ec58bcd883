// Package server exposes the solve engine over HTTP. The API is a thin
// layer: one solve endpoint, health, and Prometheus metrics; all search
// semantics live in the orchestration engine.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/metrics"
	"github.com/agbru/sumcalc/internal/orchestration"
)

// NewRouter assembles the HTTP API around the engine. The metrics handler
// may be nil, in which case /metrics is not mounted.
func NewRouter(engine *orchestration.Engine, m *metrics.SolveMetrics, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))

	solve := NewSolveHandler(engine, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", solve.Solve)
		r.Post("/compare", solve.Compare)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
	return r
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.String("request_id", chiMiddleware.GetReqID(r.Context())),
				logging.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// writeJSON renders v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
