package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/ivibez/portal/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

const backupTimeout = 30 * time.Minute

// Disk space thresholds for the maintenance job, in GB
const (
	criticalFreeGB = 0.5
	lowFreeGB      = 2.0
)

// BackupJob uploads a fresh backup and rotates old ones
type BackupJob struct {
	service *R2BackupService
	keep    int
	log     zerolog.Logger
}

// NewBackupJob creates a new backup job keeping the newest keep archives
func NewBackupJob(service *R2BackupService, keep int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service: service,
		keep:    keep,
		log:     log.With().Str("job", "r2_backup").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "r2_backup"
}

// Run executes the backup job. A failed rotation does not fail the job.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	if _, err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if _, err := j.service.RotateOldBackups(ctx, j.keep); err != nil {
		j.log.Error().Err(err).Msg("Backup rotation failed")
	}

	return nil
}

// MaintenanceJob performs daily database maintenance
type MaintenanceJob struct {
	databases map[string]*database.DB
	dataDir   string
	diskUsage func(path string) (*disk.UsageStat, error)
	log       zerolog.Logger
}

// NewMaintenanceJob creates a new daily maintenance job
func NewMaintenanceJob(databases map[string]*database.DB, dataDir string, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		dataDir:   dataDir,
		diskUsage: disk.Usage,
		log:       log.With().Str("job", "daily_maintenance").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *MaintenanceJob) Name() string {
	return "daily_maintenance"
}

// Run executes the daily maintenance job
func (j *MaintenanceJob) Run() error {
	j.log.Info().Msg("Starting daily maintenance")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Step 1: Integrity check
	for name, db := range j.databases {
		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().Str("database", name).Err(err).Msg("CRITICAL: Database failed health check")
			return fmt.Errorf("CRITICAL: %s failed health check: %w", name, err)
		}
	}

	// Step 2: WAL checkpoint (prevent bloat)
	if err := j.Checkpoint(); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	// Step 3: Disk space
	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	// Step 4: Size report
	for name, db := range j.databases {
		stats, err := db.GetStats()
		if err != nil {
			j.log.Warn().Str("database", name).Err(err).Msg("Failed to get database stats")
			continue
		}
		j.log.Info().
			Str("database", name).
			Int64("size_bytes", stats.SizeBytes).
			Int64("wal_size_bytes", stats.WALSizeBytes).
			Int64("freelist_pages", stats.FreelistCount).
			Msg("Database metrics")
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Daily maintenance completed successfully")

	return nil
}

// Checkpoint truncates the WAL of every database. It returns the last error seen.
func (j *MaintenanceJob) Checkpoint() error {
	var lastErr error
	for name, db := range j.databases {
		if _, err := db.Conn().Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			j.log.Warn().Str("database", name).Err(err).Msg("WAL checkpoint failed")
			lastErr = fmt.Errorf("checkpoint %s: %w", name, err)
		}
	}
	return lastErr
}

// checkDiskSpace fails when the data directory's filesystem is nearly full
func (j *MaintenanceJob) checkDiskSpace() error {
	usage, err := j.diskUsage(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	availableGB := float64(usage.Free) / 1e9
	j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")

	if availableGB < criticalFreeGB {
		j.log.Error().Float64("available_gb", availableGB).Msg("CRITICAL: Insufficient disk space")
		return fmt.Errorf("CRITICAL: only %.2f GB free", availableGB)
	}

	if availableGB < lowFreeGB {
		j.log.Warn().Float64("available_gb", availableGB).Msg("Disk space running low")
	}

	return nil
}
