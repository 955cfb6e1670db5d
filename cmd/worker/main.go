// Package main provides the entrypoint for the SunAlert worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunalert/sunalert/internal/database"
	"github.com/sunalert/sunalert/internal/schedule"
	"github.com/sunalert/sunalert/internal/settings"
	"github.com/sunalert/sunalert/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sunalert-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SunAlert worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Wire the refresh job
	settingsService := settings.NewService(settings.NewPostgresRepository(pool))
	delivery := schedule.NewResilientDelivery(schedule.NewPostgresDelivery(pool), schedule.BreakerConfig{
		Name: "scheduled-notifications",
	})
	scheduler := schedule.NewService(schedule.ServiceConfig{
		Delivery: delivery,
		Logger:   log,
	})

	refreshConfig := worker.DefaultConfig()
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		if interval, parseErr := time.ParseDuration(raw); parseErr == nil {
			refreshConfig.Interval = interval
		} else {
			log.Warn().Str("value", raw).Msg("invalid REFRESH_INTERVAL, using default")
		}
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:          refreshConfig,
		Logger:          log,
		SettingsService: settingsService,
		Scheduler:       scheduler,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start Pub/Sub handler when configured; interval refreshes run either way.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscriptionName := os.Getenv("PUBSUB_SUBSCRIPTION")
	if projectID != "" && subscriptionName != "" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscriptionName,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub not configured, running on interval only")
	}

	// Interval refresh loop. Run once at startup so a fresh deployment does
	// not wait a full interval for its first window.
	go func() {
		if _, err := refreshJob.Run(ctx); err != nil {
			log.Error().Err(err).Msg("initial refresh failed")
		}

		ticker := time.NewTicker(refreshConfig.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := refreshJob.Run(ctx); err != nil {
					log.Error().Err(err).Msg("scheduled refresh failed")
				}
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
