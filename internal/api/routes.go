package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, hc *HealthChecker, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", hc.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/campaign-types", h.CampaignTypes)
		r.Route("/movements", func(r chi.Router) {
			r.Get("/new-pipeline", h.NewPipelineMovements)
			r.Get("/stage-advance", h.StageAdvanceMovements)
		})
		r.Get("/journeys/summary", h.JourneySummary)
		r.Route("/insights", func(r chi.Router) {
			r.Get("/attendee-segments", h.AttendeeSegments)
			r.Get("/target-accounts", h.TargetAccounts)
			r.Get("/strategic-matrix", h.StrategicMatrix)
			r.Get("/reallocation", h.Reallocation)
		})
	})

	return r
}
