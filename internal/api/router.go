// Package api provides the HTTP API for SunAlert.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sunalert/sunalert/internal/api/handler"
	"github.com/sunalert/sunalert/internal/api/middleware"
	"github.com/sunalert/sunalert/internal/auth"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/solar"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	ScheduleMetrics *middleware.ScheduleMetrics
	AuthService     *auth.Service
	SettingsService *settings.Service
	Scheduler       *schedule.Service
	SolarCache      *solar.Cache
	Lister          handler.NotificationLister
	DB              handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "sunalert-api"
	}

	solarCache := cfg.SolarCache
	if solarCache == nil {
		solarCache = solar.NewCache()
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction

	// A nil *ScheduleMetrics must stay a nil interface for the handlers'
	// nil checks to work.
	var recorder handler.RescheduleRecorder
	if cfg.ScheduleMetrics != nil {
		recorder = cfg.ScheduleMetrics
	}

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService, cfg.Scheduler, recorder)
	scheduleHandler := handler.NewScheduleHandler(cfg.Scheduler, cfg.SettingsService, cfg.Lister, recorder)
	sunHandler := handler.NewSunHandler(solarCache)
	placeHandler := handler.NewPlaceHandler()

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/device", authHandler.DeviceAuth)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Solar times (public) - standard rate limiting
		r.With(standardRateLimit).Get("/sun/today", sunHandler.GetToday)

		// City catalog (public) - standard rate limiting
		r.Route("/places", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", placeHandler.ListPlaces)
			r.Get("/{name}", placeHandler.GetPlace)
		})

		// Me endpoints (authenticated) - device-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByDevice(middleware.StandardRateLimit)) // 100 req/min per device

			r.Get("/settings", settingsHandler.GetSettings)
			r.Patch("/settings", settingsHandler.UpdateSettings)

			r.Get("/notifications", scheduleHandler.ListNotifications)

			// Full window rebuild - expensive, strict rate limiting
			r.With(expensiveRateLimit).Post("/schedule/refresh", scheduleHandler.Refresh)
		})
	})

	return r
}
