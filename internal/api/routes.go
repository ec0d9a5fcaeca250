package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/persiancal/internal/config"
	"github.com/zapponejosh/persiancal/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/fixed/{rd}
//	GET    /api/v1/gregorian/{date}
//	GET    /api/v1/julian/{date}
//	GET    /api/v1/persian/{date}
//	GET    /api/v1/persian/years/{year}
//	GET    /api/v1/persian/leap-years?from=&to=
//	GET    /api/v1/nowruz/{gyear}
//	GET    /api/v1/astro/{moment}
//	GET    /api/v1/admin/cache             (API key)
//	POST   /api/v1/admin/cache/warm        (API key)
//	DELETE /api/v1/admin/cache             (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	baseMiddleware := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		MetricsMiddleware(m),
		CORSMiddleware(),
	)
	r.Use(baseMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Operational routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Get("/metrics", handlers.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		// ======================================================================
		// Public routes
		// ======================================================================
		r.Get("/fixed/{rd}", handlers.GetFixed)
		r.Get("/gregorian/{date}", handlers.GetGregorian)
		r.Get("/julian/{date}", handlers.GetJulian)
		r.Get("/persian/years/{year}", handlers.GetPersianYear)
		r.Get("/persian/leap-years", handlers.GetLeapYears)
		r.Get("/persian/{date}", handlers.GetPersian)
		r.Get("/nowruz/{gyear}", handlers.GetNowruz)
		r.Get("/astro/{moment}", handlers.GetAstro)

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Get("/admin/cache", handlers.GetCacheStats)
			r.Post("/admin/cache/warm", handlers.WarmCache)
			r.Delete("/admin/cache", handlers.ClearCache)
		})
	})

	return r
}
