package extraction

import "fmt"

// Derive returns the first discrete difference of a per-window sequence:
// d[0] is the zero vector and d[i] = x[i] - x[i-1]. Empty entries stay empty,
// and an entry following an empty one gets the zero vector like d[0].
func Derive(history [][]float64) ([][]float64, error) {
	if len(history) == 0 {
		return [][]float64{}, nil
	}

	dim := -1
	for i, v := range history {
		if len(v) == 0 {
			continue
		}
		if dim < 0 {
			dim = len(v)
		} else if len(v) != dim {
			return nil, &DimensionMismatchError{Window: i, Expected: dim, Actual: len(v)}
		}
	}

	out := make([][]float64, len(history))
	for i, v := range history {
		if len(v) == 0 {
			continue
		}
		d := make([]float64, len(v))
		if i > 0 && len(history[i-1]) > 0 {
			prev := history[i-1]
			for j := range v {
				d[j] = v[j] - prev[j]
			}
		}
		out[i] = d
	}
	return out, nil
}

// DeriveN applies Derive order times
func DeriveN(history [][]float64, order int) ([][]float64, error) {
	if order < 0 {
		return nil, fmt.Errorf("negative derivative order %d", order)
	}
	out := history
	for i := 0; i < order; i++ {
		var err error
		if out, err = Derive(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
