package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by Get when no evaluation has the given id.
var ErrNotFound = errors.New("evaluation not found")

// DefaultListLimit and MaxListLimit bound List.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// summaryColumns must match scanSummary
const summaryColumns = `id, created_at, address, formatted, state, strategy, property_type,
square_feet, sell_price, profit, profit_margin, roi`

// Repository stores evaluations in the evaluations table of history.db.
// Request and report documents are kept as msgpack blobs.
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// Record saves a completed evaluation. It satisfies feasibility.Recorder.
func (r *Repository) Record(eval feasibility.Evaluation) error {
	_, err := r.Save(eval)
	return err
}

// Save stores the evaluation and returns its new id.
func (r *Repository) Save(eval feasibility.Evaluation) (string, error) {
	if eval.Report == nil {
		return "", fmt.Errorf("evaluation has no report")
	}

	request, err := msgpack.Marshal(&eval.Request)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	report, err := msgpack.Marshal(eval.Report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	id := uuid.New().String()
	fin := eval.Report.FinancialAnalysis

	_, err = r.db.Exec(`
		INSERT INTO evaluations
		(id, created_at, address, formatted, state, strategy, property_type,
		 square_feet, sell_price, profit, profit_margin, roi, request, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		r.now().UnixMilli(),
		eval.Request.Address,
		eval.Location.FormattedAddress,
		eval.Location.State,
		string(eval.Request.Strategy),
		string(eval.Request.DevelopmentOptions.PropertyType),
		eval.Request.DevelopmentOptions.SquareFeet,
		eval.Report.MarketAnalysis.EstimatedSellPrice,
		fin.EstimatedProfit,
		fin.ProfitMargin,
		fin.ROI,
		request,
		report,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert evaluation: %w", err)
	}

	r.log.Debug().Str("id", id).Str("address", eval.Request.Address).Msg("Evaluation saved")
	return id, nil
}

// List returns the most recent evaluations, newest first.
// A non-positive limit uses DefaultListLimit; limits above MaxListLimit are capped.
func (r *Repository) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := r.db.Query(
		"SELECT "+summaryColumns+" FROM evaluations ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}

	return summaries, nil
}

// Get returns one saved evaluation with its decoded documents.
func (r *Repository) Get(id string) (*Record, error) {
	row := r.db.QueryRow(
		"SELECT "+summaryColumns+", request, report FROM evaluations WHERE id = ?",
		id,
	)

	var (
		rec     Record
		created int64
		request []byte
		report  []byte
	)
	err := row.Scan(
		&rec.ID, &created, &rec.Address, &rec.FormattedAddress, &rec.State,
		&rec.Strategy, &rec.PropertyType, &rec.SquareFeet, &rec.SellPrice,
		&rec.EstimatedProfit, &rec.ProfitMargin, &rec.ROI, &request, &report,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation %s: %w", id, err)
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()

	if err := msgpack.Unmarshal(request, &rec.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request for %s: %w", id, err)
	}
	rec.Report = &feasibility.Report{}
	if err := msgpack.Unmarshal(report, rec.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report for %s: %w", id, err)
	}
	rec.Report.Normalize()

	return &rec, nil
}

// DeleteOlderThan removes evaluations created before cutoff and returns how many were removed.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM evaluations WHERE created_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old evaluations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of saved evaluations.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM evaluations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return count, nil
}

func scanSummary(rows *sql.Rows) (Summary, error) {
	var (
		s       Summary
		created int64
	)
	err := rows.Scan(
		&s.ID, &created, &s.Address, &s.FormattedAddress, &s.State,
		&s.Strategy, &s.PropertyType, &s.SquareFeet, &s.SellPrice,
		&s.EstimatedProfit, &s.ProfitMargin, &s.ROI,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to scan evaluation: %w", err)
	}
	s.CreatedAt = time.UnixMilli(created).UTC()
	return s, nil
}
