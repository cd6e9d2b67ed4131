// Package main is the entry point for the property feasibility API.
//
// It serves POST /api/evaluate-property, keeps a history of evaluations in
// history.db and, when a bucket is configured, backs that database up to
// Cloudflare R2 on a schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivibez/portal/internal/config"
	"github.com/ivibez/portal/internal/di"
	"github.com/ivibez/portal/internal/server"
	"github.com/ivibez/portal/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env if present)
// 2. Initializes logging
// 3. Wires databases, clients, services and jobs via the DI container
// 4. Starts the scheduler and HTTP server
// 5. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("data_dir", cfg.DataDir).
		Bool("history", cfg.History.Enabled).
		Bool("backups", cfg.Backup.Enabled()).
		Msg("Starting portal API")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Let in-flight jobs (a backup upload, say) finish before closing the database
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Trim the WAL so the next start (or a copied data dir) is compact
	if err := jobs.Maintenance.Checkpoint(); err != nil {
		log.Warn().Err(err).Msg("Final WAL checkpoint failed")
	}

	log.Info().Msg("Server stopped")
}
