// Package http wires the analysis API onto a chi router and serves it.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/refsign-check/internal/interfaces/http/handlers"
	"github.com/turtacn/refsign-check/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware settings of the route
// tree.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	HealthHandler   *handlers.HealthHandler

	Logger        logging.Logger
	LoggingConfig middleware.LoggingConfig

	// Metrics records request counts and latencies; MetricsCollector serves
	// them at MetricsPath. Both are optional.
	Metrics          *prometheus.AnalysisMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string

	AllowedOrigins []string
	MaxConcurrent  int
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	var recorder middleware.HTTPRecorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}
	r.Use(middleware.RequestLogging(cfg.Logger.Named("http"), cfg.LoggingConfig, recorder))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle(cfg.MetricsPath, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.MaxConcurrent > 0 {
			api.Use(chimw.Throttle(cfg.MaxConcurrent))
		}
		registerAnalysisRoutes(api, cfg.AnalysisHandler)
	})

	return r
}

// registerAnalysisRoutes mounts the session and check endpoints.
func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Post("/check", h.Check)

	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", h.CreateSession)

		sr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.GetSession)
			item.Delete("/", h.DeleteSession)
			item.Post("/analyze", h.Analyze)
			item.Post("/multi-word", h.SetMultiWord)
			item.Post("/cleared-errors/{bz}", h.ToggleClearedError)
			item.Post("/cleared-positions", h.ToggleClearedPosition)
			item.Delete("/cleared", h.RestoreAllErrors)
			item.Put("/language", h.SetLanguage)
		})
	})
}

//Personal.AI order the ending
