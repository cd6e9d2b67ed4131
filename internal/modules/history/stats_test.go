package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_StatsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestRepository_StatsSingle(t *testing.T) {
	repo := newTestRepository(t)
	eval := evaluation("100 Main St", "MD", 2000)
	require.NoError(t, repo.Record(eval))

	stats, err := repo.Stats()
	require.NoError(t, err)

	roi := eval.Report.FinancialAnalysis.ROI
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, Distribution{Mean: roi, Min: roi, Max: roi}, stats.ROI)
	assert.Equal(t, -116212.0, stats.MeanProfit)
}

func TestRepository_StatsMany(t *testing.T) {
	repo := newTestRepository(t)
	states := []string{"MD", "VA", "TX"}

	var rois []float64
	var profitSum float64
	for _, state := range states {
		eval := evaluation("1 Main St", state, 2000)
		require.NoError(t, repo.Record(eval))
		rois = append(rois, eval.Report.FinancialAnalysis.ROI)
		profitSum += eval.Report.FinancialAnalysis.EstimatedProfit
	}

	stats, err := repo.Stats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, (rois[0]+rois[1]+rois[2])/3, stats.ROI.Mean, 1e-9)
	assert.Greater(t, stats.ROI.StdDev, 0.0)
	assert.LessOrEqual(t, stats.ROI.Min, stats.ROI.Mean)
	assert.GreaterOrEqual(t, stats.ROI.Max, stats.ROI.Mean)
	assert.InDelta(t, profitSum/3, stats.MeanProfit, 1e-6)
}

func TestDistribution(t *testing.T) {
	d := distribution([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 5.0, d.Mean)
	assert.Equal(t, 2.0, d.Min)
	assert.Equal(t, 9.0, d.Max)
	// Sample (n-1) standard deviation.
	assert.InDelta(t, 2.138089935, d.StdDev, 1e-9)
}
