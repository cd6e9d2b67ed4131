package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/ivibez/portal/internal/database"
	"github.com/ivibez/portal/internal/reliability"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// BackupTrigger runs an on-demand backup. *reliability.R2BackupService satisfies it.
type BackupTrigger interface {
	CreateAndUploadBackup(ctx context.Context) (*reliability.BackupInfo, error)
}

// SystemHandlers handles system-wide HTTP requests
type SystemHandlers struct {
	log       zerolog.Logger
	historyDB *database.DB
	backup    BackupTrigger // nil when backups are not configured
	startedAt time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, historyDB *database.DB, backup BackupTrigger) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		historyDB: historyDB,
		backup:    backup,
		startedAt: time.Now(),
	}
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status        string         `json:"status"` // "healthy" or "degraded"
	StartedAt     string         `json:"started_at"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	GoVersion     string         `json:"go_version"`
	Goroutines    int            `json:"goroutines"`
	NumCPU        int            `json:"num_cpu"`
	CPUPercent    float64        `json:"cpu_percent"`
	MemoryPercent float64        `json:"memory_percent"`
	Database      DatabaseStatus `json:"database"`
}

// DatabaseStatus reports the history database check
type DatabaseStatus struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:        "healthy",
		StartedAt:     h.startedAt.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Database:      h.checkDatabase(r.Context()),
	}
	if !response.Database.OK {
		response.Status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerBackup handles POST /api/system/backup
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Backups are not configured")
		return
	}

	// Detached from the request so a slow upload is not cut by the router timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	info, err := h.backup.CreateAndUploadBackup(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		h.writeError(w, http.StatusInternalServerError, "Backup failed")
		return
	}

	h.writeJSON(w, http.StatusOK, info)
}

func (h *SystemHandlers) checkDatabase(ctx context.Context) DatabaseStatus {
	if h.historyDB == nil {
		return DatabaseStatus{Name: "history", Error: "not initialized"}
	}

	status := DatabaseStatus{Name: h.historyDB.Name()}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.historyDB.QuickCheck(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Database quick check failed")
		status.Error = err.Error()
		return status
	}
	status.OK = true

	if stats, err := h.historyDB.GetStats(); err == nil {
		status.SizeBytes = stats.SizeBytes
	}

	return status
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short 100ms sampling window to keep the endpoint responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *SystemHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
