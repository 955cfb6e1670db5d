// Package main provides the entrypoint for the SunAlert API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunalert/sunalert/internal/api"
	"github.com/sunalert/sunalert/internal/api/middleware"
	"github.com/sunalert/sunalert/internal/auth"
	"github.com/sunalert/sunalert/internal/database"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/solar"
	"github.com/sunalert/sunalert/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sunalert-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SunAlert API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	scheduleMetrics, err := middleware.NewScheduleMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize schedule metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth service (get keys from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	deviceKey := os.Getenv("DEVICE_KEY")
	if deviceKey == "" {
		deviceKey = "local-dev-device-key-change-in-production"
		log.Warn().Msg("using default device key - not secure for production")
	}

	authService := auth.NewService(auth.Config{
		SigningKey: jwtSigningKey,
		DeviceKey:  deviceKey,
		Issuer:     "https://api.sunalert.dev",
		Audience:   "sunalert-api",
	})
	log.Info().Msg("auth service initialized")

	// Initialize settings repository and service
	settingsRepo := settings.NewPostgresRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	log.Info().Msg("settings service initialized")

	// Initialize the delivery port and scheduler. The delivery store is
	// wrapped in a circuit breaker so a flapping database does not hammer
	// every reschedule.
	delivery := schedule.NewPostgresDelivery(pool)
	resilientDelivery := schedule.NewResilientDelivery(delivery, schedule.BreakerConfig{
		Name: "scheduled-notifications",
	})
	scheduler := schedule.NewService(schedule.ServiceConfig{
		Delivery: resilientDelivery,
		Logger:   log,
	})
	log.Info().Msg("scheduler initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		ScheduleMetrics: scheduleMetrics,
		AuthService:     authService,
		SettingsService: settingsService,
		Scheduler:       scheduler,
		SolarCache:      solar.NewCacheWithStats(scheduleMetrics),
		Lister:          delivery,
		DB:              pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
