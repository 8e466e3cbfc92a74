package extraction

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMeanAndVariance(t *testing.T) {
	history := [][]float64{{1, 2}, {3, 4}, {5, 6}}

	out, err := Aggregate(history, []Statistic{Mean, Variance})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []float64{3, 4}, out[Mean])
	assert.Equal(t, []float64{4, 4}, out[Variance])
}

func TestAggregateAllStatistics(t *testing.T) {
	history := [][]float64{{2}, {4}, {4}, {4}, {5}, {5}, {7}, {9}}

	out, err := Aggregate(history, Statistics)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, out[Mean][0], 1e-12)
	assert.InDelta(t, 32.0/7, out[Variance][0], 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), out[StdDeviation][0], 1e-12)
	assert.Equal(t, 9.0, out[Max][0])
	assert.Equal(t, 2.0, out[Min][0])
}

func TestAggregateSingleWindow(t *testing.T) {
	out, err := Aggregate([][]float64{{1.5, -2}}, Statistics)
	require.NoError(t, err)

	assert.Equal(t, []float64{1.5, -2}, out[Mean])
	assert.Equal(t, []float64{1.5, -2}, out[Max])
	assert.Equal(t, []float64{1.5, -2}, out[Min])
	assert.Equal(t, []float64{0, 0}, out[Variance])
	assert.Equal(t, []float64{0, 0}, out[StdDeviation])
}

func TestAggregateIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	history := make([][]float64, 500)
	for i := range history {
		history[i] = []float64{rng.NormFloat64(), rng.Float64() * 1e6, rng.ExpFloat64()}
	}

	first, err := Aggregate(history, Statistics)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Aggregate(history, Statistics)
		require.NoError(t, err)
		for _, s := range Statistics {
			for j := range first[s] {
				assert.Equal(t, math.Float64bits(first[s][j]), math.Float64bits(again[s][j]))
			}
		}
	}
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate(nil, []Statistic{Mean})
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = Aggregate([][]float64{{1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidStatisticSet)

	_, err = Aggregate([][]float64{{1, 2}, {1}}, []Statistic{Mean})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Aggregate([][]float64{{1}}, []Statistic{Statistic(42)})
	assert.ErrorIs(t, err, ErrInvalidStatisticSet)
}

func TestParseStatistic(t *testing.T) {
	cases := map[string]Statistic{
		"Mean":               Mean,
		"mean":               Mean,
		"Standard Deviation": StdDeviation,
		"standard_deviation": StdDeviation,
		"std":                StdDeviation,
		"VARIANCE":           Variance,
		"Max":                Max,
		"min":                Min,
	}
	for name, want := range cases {
		got, err := ParseStatistic(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseStatistic("median")
	assert.Error(t, err)

	assert.True(t, Mean.DefaultEnabled())
	assert.False(t, Variance.DefaultEnabled())
	assert.Equal(t, "Standard Deviation", StdDeviation.String())
}
