package extraction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	kindA Kind = FirstCustomKind + iota
	kindB
	kindC
	kindD
	kindE
)

// stubKind registers a one-dimensional kind whose value is computed by fn
func stubKind(t *testing.T, c *Catalog, kind Kind, name string, deps []Dependency, fn func(w Window, deps [][]float64) float64) {
	t.Helper()
	require.NoError(t, c.Register(Descriptor{
		Kind:         kind,
		Name:         name,
		Dependencies: deps,
		Dimension:    fixedDimension(1),
		Compute: func(w Window, d [][]float64, _ Parameters) ([]float64, error) {
			return []float64{fn(w, d)}, nil
		},
	}))
}

func windowIndex(w Window, _ [][]float64) float64 {
	return float64(w.Index)
}

func sineBuffer(t *testing.T, freq, sampleRate float64, n int) *SampleBuffer {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	buf, err := NewSampleBuffer(samples, 1, sampleRate, 16)
	require.NoError(t, err)
	return buf
}

func rampBuffer(t *testing.T, n int) *SampleBuffer {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i)
	}
	buf, err := NewSampleBuffer(samples, 1, 8000, 16)
	require.NoError(t, err)
	return buf
}
