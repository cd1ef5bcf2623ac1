package routes

import (
	"net/http"
	"time"

	"exam-supervision/proctorate/internal/api"
	"exam-supervision/proctorate/internal/db"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/metrics"
	"exam-supervision/proctorate/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterRoutes wires the HTTP surface: health check, CORS, request
// instrumentation and the authenticated sync API.
func RegisterRoutes(upSince time.Time, metricsReg *metrics.MetricsRegistry, handlers *api.SyncHandlers, authSecret string) http.Handler {

	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check stays public
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	RegisterAPIRoutes(r, handlers, authSecret)

	return r
}
