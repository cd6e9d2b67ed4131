package di

import (
	"fmt"

	"github.com/ivibez/portal/internal/clientdata"
	"github.com/ivibez/portal/internal/config"
	"github.com/ivibez/portal/internal/reliability"
	"github.com/ivibez/portal/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	retentionSchedule   = "0 30 2 * * *" // 02:30 daily
	cleanupSchedule     = "0 45 2 * * *" // 02:45 daily
	maintenanceSchedule = "0 0 4 * * *"  // 04:00 daily
)

// RegisterJobs creates the scheduler and registers background jobs
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	container.Scheduler = sched

	jobs := &JobInstances{
		HistoryRetention:  scheduler.NewHistoryRetentionJob(container.HistoryRepo, cfg.History.RetentionDays, log),
		ClientDataCleanup: clientdata.NewCleanupJob(container.ClientDataRepo, log),
		Maintenance:       reliability.NewMaintenanceJob(container.Databases(), cfg.DataDir, log),
	}

	if err := sched.AddJob(retentionSchedule, jobs.HistoryRetention); err != nil {
		return nil, fmt.Errorf("failed to register history_retention job: %w", err)
	}
	if err := sched.AddJob(cleanupSchedule, jobs.ClientDataCleanup); err != nil {
		return nil, fmt.Errorf("failed to register client_data_cleanup job: %w", err)
	}
	if err := sched.AddJob(maintenanceSchedule, jobs.Maintenance); err != nil {
		return nil, fmt.Errorf("failed to register daily_maintenance job: %w", err)
	}

	if container.BackupService != nil {
		jobs.Backup = reliability.NewBackupJob(container.BackupService, cfg.Backup.Keep, log)
		if err := sched.AddJob(cfg.Backup.Schedule, jobs.Backup); err != nil {
			return nil, fmt.Errorf("failed to register r2_backup job: %w", err)
		}
	} else {
		log.Info().Msg("Backups not configured, r2_backup job not registered")
	}

	return jobs, nil
}
