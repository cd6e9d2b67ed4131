package history

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats computes ROI, margin and profit aggregates over every saved evaluation.
func (r *Repository) Stats() (*Stats, error) {
	rows, err := r.db.Query("SELECT roi, profit_margin, profit FROM evaluations")
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation metrics: %w", err)
	}
	defer rows.Close()

	var rois, margins, profits []float64
	for rows.Next() {
		var roi, margin, profit float64
		if err := rows.Scan(&roi, &margin, &profit); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation metrics: %w", err)
		}
		rois = append(rois, roi)
		margins = append(margins, margin)
		profits = append(profits, profit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation metrics: %w", err)
	}

	stats := &Stats{
		Count:        len(rois),
		ROI:          distribution(rois),
		ProfitMargin: distribution(margins),
	}
	if len(profits) > 0 {
		stats.MeanProfit = stat.Mean(profits, nil)
	}

	return stats, nil
}

// distribution returns zeros for an empty sample and a zero spread for a single value.
func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	d := Distribution{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
	if len(values) > 1 {
		d.StdDev = stat.StdDev(values, nil)
	}
	return d
}
