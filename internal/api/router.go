// Package api serves the aggregates of a loaded record set over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/michaelscutari/filetally/internal/logging"
	"github.com/michaelscutari/filetally/internal/metrics"
	"github.com/michaelscutari/filetally/internal/record"
)

// NewRouter configures all routes over an immutable record set.
func NewRouter(records []record.FileRecord) *chi.Mux {
	h := &handler{records: records}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/health", h.health)
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/leaves", h.leaves)
		api.Get("/categories", h.categories)
		api.Get("/largest", h.largest)
		api.Get("/rollups/{id}", h.rollup)
	})

	return router
}

// requestLogger logs each request through zap and counts it.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordRequest(r.Method, route, status)
		logging.L().Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
