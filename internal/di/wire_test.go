package di

import (
	"testing"
	"time"

	"github.com/ivibez/portal/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir: t.TempDir(),
		Port:    8080,
		Geocoding: config.GeocodingConfig{
			APIKey:   "test-key",
			BaseURL:  "http://127.0.0.1:1",
			Timeout:  time.Second,
			CacheTTL: time.Hour,
		},
		History: config.HistoryConfig{Enabled: true, RetentionDays: 180},
		Backup:  &config.BackupConfig{Schedule: "0 0 3 * * *", Keep: 14},
	}
}

func TestWire_WithoutBackups(t *testing.T) {
	container, jobs, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.HistoryDB)
	assert.NotNil(t, container.ClientDataDB)
	assert.NotNil(t, container.ClientDataRepo)
	assert.NotNil(t, container.GeocodingClient)
	assert.NotNil(t, container.HistoryRepo)
	assert.NotNil(t, container.FeasibilityService)
	assert.NotNil(t, container.Scheduler)
	assert.Nil(t, container.R2Client)
	assert.Nil(t, container.BackupService)

	assert.NotNil(t, jobs.HistoryRetention)
	assert.NotNil(t, jobs.ClientDataCleanup)
	assert.NotNil(t, jobs.Maintenance)
	assert.Nil(t, jobs.Backup)

	assert.Contains(t, container.Databases(), "history")
	assert.Contains(t, container.Databases(), "client_data")
}

func TestWire_WithBackups(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backup.Bucket = "portal-backups"
	cfg.Backup.Endpoint = "https://example.r2.cloudflarestorage.com"
	cfg.Backup.Region = "auto"
	cfg.Backup.AccessKeyID = "id"
	cfg.Backup.SecretAccessKey = "secret"

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.R2Client)
	assert.NotNil(t, container.BackupService)
	assert.NotNil(t, jobs.Backup)
}

func TestWire_InvalidBackupSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backup.Bucket = "portal-backups"
	cfg.Backup.AccessKeyID = "id"
	cfg.Backup.SecretAccessKey = "secret"
	cfg.Backup.Schedule = "whenever"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}
