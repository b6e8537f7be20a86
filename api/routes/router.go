package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmcastillo/ofertazo-backend/api/controllers"
	analyticscontrollers "github.com/dmcastillo/ofertazo-backend/api/controllers/analytics"
	"github.com/dmcastillo/ofertazo-backend/api/middleware"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/config"
	"github.com/dmcastillo/ofertazo-backend/pkg/db"
	"github.com/dmcastillo/ofertazo-backend/pkg/logger"
	"github.com/dmcastillo/ofertazo-backend/pkg/metrics"
	"github.com/dmcastillo/ofertazo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTP,
	engagementService engagement.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
		r.Get("/metrics", httpMetrics.Handler().ServeHTTP)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// Ingestion stays public for client SDKs; it is throttled per IP instead.
	ingestPolicy := middleware.NewRateLimitPolicy(
		"ingest",
		cfg.Ingest.RateLimitWindow,
		cfg.Ingest.RateLimitPerIP,
	)
	r.With(middleware.RateLimit(ingestPolicy, redisClient, logg)).
		Post("/api/v1/events", controllers.RecordEvent(engagementService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/discounts/{discountId}/analytics", func(r chi.Router) {
			r.Get("/summary", analyticscontrollers.DiscountSummary(engagementService, logg))
			r.Get("/demographics", analyticscontrollers.DiscountDemographics(engagementService, logg))
			r.Get("/time-series", analyticscontrollers.DiscountTimeSeries(engagementService, logg))
			r.Get("/time-series-by-action", analyticscontrollers.DiscountTimeSeriesByAction(engagementService, logg))
			r.Get("/active-time", analyticscontrollers.DiscountActiveTime(engagementService, logg))
			r.Get("/retention", analyticscontrollers.DiscountRetention(engagementService, logg))
			r.Get("/totals", analyticscontrollers.DiscountTotals(engagementService, logg))
		})

		r.Route("/companies/{companyId}/analytics", func(r chi.Router) {
			r.Get("/summary", analyticscontrollers.CompanySummary(engagementService, logg))
			r.Get("/demographics", analyticscontrollers.CompanyDemographics(engagementService, logg))
			r.Get("/time-series", analyticscontrollers.CompanyTimeSeries(engagementService, logg))
			r.Get("/time-series-by-action", analyticscontrollers.CompanyTimeSeriesByAction(engagementService, logg))
			r.Get("/active-time", analyticscontrollers.CompanyActiveTime(engagementService, logg))
			r.Get("/retention", analyticscontrollers.CompanyRetention(engagementService, logg))
			r.Get("/totals", analyticscontrollers.CompanyTotals(engagementService, logg))
		})

		r.Get("/analytics/top", analyticscontrollers.TopByAction(engagementService, cfg.Analytics, logg))
	})

	return r
}
