// Package di provides dependency injection wiring and initialization.
//
// The Container holds every long-lived dependency and is the single source of
// truth handed to the HTTP server.
package di

import (
	"github.com/ivibez/portal/internal/clientdata"
	"github.com/ivibez/portal/internal/clients/geocoding"
	"github.com/ivibez/portal/internal/database"
	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/ivibez/portal/internal/modules/history"
	"github.com/ivibez/portal/internal/reliability"
	"github.com/ivibez/portal/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	HistoryDB    *database.DB // saved evaluations
	ClientDataDB *database.DB // external API response cache

	// Clients
	GeocodingClient *geocoding.Client
	R2Client        *reliability.R2Client // nil when backups are not configured

	// Repositories
	HistoryRepo    *history.Repository
	ClientDataRepo *clientdata.Repository

	// Services
	FeasibilityService *feasibility.Service
	BackupService      *reliability.R2BackupService // nil when backups are not configured

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered jobs for manual triggering
type JobInstances struct {
	HistoryRetention  *scheduler.HistoryRetentionJob
	ClientDataCleanup *clientdata.CleanupJob
	Maintenance       *reliability.MaintenanceJob
	Backup            *reliability.BackupJob // nil when backups are not configured
}

// Databases returns every open database keyed by name
func (c *Container) Databases() map[string]*database.DB {
	dbs := map[string]*database.DB{}
	for _, db := range []*database.DB{c.HistoryDB, c.ClientDataDB} {
		if db != nil {
			dbs[db.Name()] = db
		}
	}
	return dbs
}

// Close releases the databases held by the container. It returns the first error.
func (c *Container) Close() error {
	var firstErr error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
