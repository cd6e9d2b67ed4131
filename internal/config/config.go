// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the front-end origins allowed to call the API.
var DefaultAllowedOrigins = []string{
	"https://www.ivibezsolutions.com",
	"https://ivibezsolutions.com",
	"http://localhost:3000",
}

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for databases and backup staging (always absolute)
	Port           int
	LogLevel       string
	LogPretty      bool
	DevMode        bool
	AllowedOrigins []string

	Geocoding GeocodingConfig
	History   HistoryConfig
	Backup    *BackupConfig
}

// GeocodingConfig configures the outbound address resolver.
type GeocodingConfig struct {
	APIKey  string // Server-held Google Maps key, never sent to clients
	BaseURL string
	Timeout time.Duration
	// CacheTTL is how long successful lookups are kept in client_data.db; 0 disables the cache
	CacheTTL time.Duration
}

// HistoryConfig configures the saved evaluation log.
type HistoryConfig struct {
	Enabled       bool
	RetentionDays int
}

// BackupConfig holds S3-compatible (Cloudflare R2) backup settings.
// Backups are disabled unless a bucket is configured.
type BackupConfig struct {
	Schedule        string // cron expression with seconds field
	Bucket          string
	Endpoint        string // e.g. https://<account>.r2.cloudflarestorage.com
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Keep            int // number of archives retained in the bucket
}

// Enabled reports whether a backup destination has been configured.
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Port:           getEnvAsInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", true),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		Geocoding: GeocodingConfig{
			APIKey:   getEnv("GOOGLE_MAPS_SERVER_KEY", ""),
			BaseURL:  getEnv("GEOCODING_BASE_URL", "https://maps.googleapis.com/maps/api"),
			Timeout:  getEnvAsDuration("GEOCODING_TIMEOUT", 10*time.Second),
			CacheTTL: getEnvAsDuration("GEOCODING_CACHE_TTL", 720*time.Hour),
		},
		History: HistoryConfig{
			Enabled:       getEnvAsBool("HISTORY_ENABLED", true),
			RetentionDays: getEnvAsInt("HISTORY_RETENTION_DAYS", 180),
		},
		Backup: loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("history retention must not be negative, got %d", c.History.RetentionDays)
	}
	if c.Geocoding.CacheTTL < 0 {
		return fmt.Errorf("geocoding cache TTL must not be negative, got %s", c.Geocoding.CacheTTL)
	}

	if c.Geocoding.Timeout <= 0 {
		return fmt.Errorf("geocoding timeout must be positive, got %s", c.Geocoding.Timeout)
	}
	if c.Backup.Enabled() && c.Backup.Keep < 1 {
		return fmt.Errorf("backup keep count must be at least 1, got %d", c.Backup.Keep)
	}

	// Note: the geocoding key is optional at startup; evaluations fail with a
	// server error until it is configured.
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// loadBackupConfig loads backup configuration with hardcoded defaults
func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"), // 03:00 daily
		Bucket:          getEnv("BACKUP_BUCKET", ""),
		Endpoint:        getEnv("BACKUP_ENDPOINT", ""),
		Region:          getEnv("BACKUP_REGION", "auto"),
		AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
		Keep:            getEnvAsInt("BACKUP_KEEP", 14),
	}
}
