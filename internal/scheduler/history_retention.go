package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// EvaluationPruner deletes saved evaluations. *history.Repository satisfies it.
type EvaluationPruner interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// HistoryRetentionJob deletes saved evaluations past the retention window
type HistoryRetentionJob struct {
	pruner        EvaluationPruner
	retentionDays int
	now           func() time.Time
	log           zerolog.Logger
}

// NewHistoryRetentionJob creates a new HistoryRetentionJob.
// A retention of zero days keeps evaluations forever.
func NewHistoryRetentionJob(pruner EvaluationPruner, retentionDays int, log zerolog.Logger) *HistoryRetentionJob {
	return &HistoryRetentionJob{
		pruner:        pruner,
		retentionDays: retentionDays,
		now:           time.Now,
		log:           log.With().Str("job", "history_retention").Logger(),
	}
}

// Name returns the job name
func (j *HistoryRetentionJob) Name() string {
	return "history_retention"
}

// Run executes the retention job
func (j *HistoryRetentionJob) Run() error {
	if j.retentionDays <= 0 {
		j.log.Debug().Msg("Retention disabled, keeping all evaluations")
		return nil
	}

	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.pruner.DeleteOlderThan(cutoff)
	if err != nil {
		return err
	}

	j.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("History retention completed")

	return nil
}
