package extraction

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic is a cross-window aggregation
type Statistic int

const (
	Mean Statistic = iota
	StdDeviation
	Variance
	Max
	Min
)

// Statistics lists every statistic in column order
var Statistics = []Statistic{Mean, StdDeviation, Variance, Max, Min}

var statisticNames = map[Statistic]string{
	Mean:         "Mean",
	StdDeviation: "Standard Deviation",
	Variance:     "Variance",
	Max:          "Max",
	Min:          "Min",
}

func (s Statistic) String() string {
	if name, ok := statisticNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Statistic(%d)", int(s))
}

// DefaultEnabled reports whether the statistic is selected when none is configured
func (s Statistic) DefaultEnabled() bool {
	return s == Mean
}

// ParseStatistic resolves a statistic by name, ignoring case, spaces and underscores.
// "std", "stddev" and "std_deviation" also name StdDeviation.
func ParseStatistic(name string) (Statistic, error) {
	key := normalizeName(name)
	for s, n := range statisticNames {
		if normalizeName(n) == key {
			return s, nil
		}
	}
	switch key {
	case "std", "stddev", "stddeviation":
		return StdDeviation, nil
	}
	return 0, fmt.Errorf("unknown statistic %q", name)
}

// Aggregate reduces a per-window history column-wise into one vector per statistic.
// Variance is the sample variance (n-1 denominator) and 0 for a single window.
func Aggregate(history [][]float64, statistics []Statistic) (map[Statistic][]float64, error) {
	if len(statistics) == 0 {
		return nil, ErrInvalidStatisticSet
	}
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	dim := len(history[0])
	for i, v := range history {
		if len(v) != dim {
			return nil, &DimensionMismatchError{Window: i, Expected: dim, Actual: len(v)}
		}
	}

	columns := transpose(history, dim)
	result := make(map[Statistic][]float64, len(statistics))
	for _, s := range statistics {
		out := make([]float64, dim)
		for j, col := range columns {
			v, err := reduce(s, col)
			if err != nil {
				return nil, err
			}
			out[j] = v
		}
		result[s] = out
	}
	return result, nil
}

func reduce(s Statistic, col []float64) (float64, error) {
	switch s {
	case Mean:
		return stat.Mean(col, nil), nil
	case Variance:
		return sampleVariance(col), nil
	case StdDeviation:
		return math.Sqrt(sampleVariance(col)), nil
	case Max:
		return floats.Max(col), nil
	case Min:
		return floats.Min(col), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidStatisticSet, s)
}

// sampleVariance guards the single-window case, where gonum returns NaN
func sampleVariance(col []float64) float64 {
	if len(col) < 2 {
		return 0
	}
	return stat.Variance(col, nil)
}

func transpose(history [][]float64, dim int) [][]float64 {
	columns := make([][]float64, dim)
	for j := range columns {
		col := make([]float64, len(history))
		for i, v := range history {
			col[i] = v[j]
		}
		columns[j] = col
	}
	return columns
}

// StatisticNames joins names for messages
func StatisticNames(statistics []Statistic) string {
	names := make([]string, len(statistics))
	for i, s := range statistics {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
