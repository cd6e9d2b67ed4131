package di

import (
	"context"
	"fmt"
	"time"

	"github.com/ivibez/portal/internal/clientdata"
	"github.com/ivibez/portal/internal/clients/geocoding"
	"github.com/ivibez/portal/internal/config"
	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/ivibez/portal/internal/modules/history"
	"github.com/ivibez/portal/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeServices creates clients, repositories and services
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.ClientDataRepo = clientdata.NewRepository(container.ClientDataDB.Conn())

	container.GeocodingClient = geocoding.NewClient(
		cfg.Geocoding.APIKey,
		cfg.Geocoding.BaseURL,
		cfg.Geocoding.Timeout,
		log,
	)
	container.GeocodingClient.SetCache(container.ClientDataRepo, cfg.Geocoding.CacheTTL)
	if cfg.Geocoding.APIKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_SERVER_KEY not set, evaluations will fail until it is configured")
	}

	container.HistoryRepo = history.NewRepository(container.HistoryDB.Conn(), log)

	container.FeasibilityService = feasibility.NewService(container.GeocodingClient, log)
	if cfg.History.Enabled {
		container.FeasibilityService.SetRecorder(container.HistoryRepo)
	}

	if cfg.Backup.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		r2Client, err := reliability.NewR2Client(ctx, reliability.R2Config{
			Bucket:          cfg.Backup.Bucket,
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create r2 client: %w", err)
		}
		container.R2Client = r2Client
		container.BackupService = reliability.NewR2BackupService(
			r2Client,
			[]reliability.Snapshotter{container.HistoryDB},
			cfg.DataDir,
			log,
		)
	}

	return nil
}
