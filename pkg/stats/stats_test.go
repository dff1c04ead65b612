package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/stats"
)

func TestMean(t *testing.T) {
	require.Equal(t, 2.0, stats.Mean([]float64{1, 2, 3}))
	require.Equal(t, 0.0, stats.Mean(nil))
}

// TestVariancePopulation pins the population (divide-by-n) flavour.
func TestVariancePopulation(t *testing.T) {
	require.InDelta(t, 2.0, stats.Variance([]float64{1, 2, 3, 4, 5}), 1e-12)
	require.InDelta(t, 0.0, stats.Variance([]float64{7, 7, 7}), 1e-12)
}

func TestStd(t *testing.T) {
	require.InDelta(t, 2.0, stats.Std([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestMinMax(t *testing.T) {
	min, max := stats.MinMax([]float64{3, -1, 4, 1, 5})
	require.Equal(t, -1.0, min)
	require.Equal(t, 5.0, max)

	min, max = stats.MinMax(nil)
	require.Equal(t, 0.0, min)
	require.Equal(t, 0.0, max)
}

func TestSum(t *testing.T) {
	require.Equal(t, 6.0, stats.Sum([]float64{1, 2, 3}))
}
