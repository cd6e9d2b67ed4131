package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, "https://maps.googleapis.com/maps/api", cfg.Geocoding.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Geocoding.Timeout)
	assert.Equal(t, 720*time.Hour, cfg.Geocoding.CacheTTL)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 180, cfg.History.RetentionDays)
	assert.False(t, cfg.Backup.Enabled())
	assert.Equal(t, "0 0 3 * * *", cfg.Backup.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("GOOGLE_MAPS_SERVER_KEY", "server-key")
	t.Setenv("GEOCODING_TIMEOUT", "3s")
	t.Setenv("GEOCODING_CACHE_TTL", "0s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("BACKUP_BUCKET", "backups")
	t.Setenv("BACKUP_KEEP", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "server-key", cfg.Geocoding.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Geocoding.Timeout)
	assert.Zero(t, cfg.Geocoding.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Backup.Enabled())
	assert.Equal(t, 3, cfg.Backup.Keep)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")
	t.Setenv("GEOCODING_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Geocoding.Timeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:      8080,
			Geocoding: GeocodingConfig{Timeout: time.Second},
			History:   HistoryConfig{RetentionDays: 30},
			Backup:    &BackupConfig{Keep: 1},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.History.RetentionDays = -1
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Geocoding.CacheTTL = -time.Hour
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Backup = &BackupConfig{Bucket: "b", Keep: 0}
	assert.Error(t, cfg.Validate())
}
