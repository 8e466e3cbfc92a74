package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineHistoryLength(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindA, "A", nil, windowIndex)
	stubKind(t, c, kindB, "B", []Dependency{{Kind: kindA}}, func(_ Window, d [][]float64) float64 {
		return d[0][0] * 10
	})

	for _, n := range []int{0, 1, 10, 37} {
		spans, err := Segment(n, 4, 50)
		require.NoError(t, err)

		history, err := NewEngine(c, LagStrict).Run(rampBuffer(t, n), nil, []Kind{kindA, kindB}, 4, 50)
		require.NoError(t, err)
		assert.Len(t, history[kindA], len(spans))
		assert.Len(t, history[kindB], len(spans))
	}
}

func TestEngineDependencyValues(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindA, "A", nil, func(w Window, _ [][]float64) float64 {
		return w.Samples[0]
	})
	stubKind(t, c, kindB, "B", []Dependency{{Kind: kindA}, {Kind: kindA, Lag: -2}}, func(_ Window, d [][]float64) float64 {
		return d[0][0] - d[1][0]
	})

	history, err := NewEngine(c, LagSkip).Run(rampBuffer(t, 20), nil, []Kind{kindA, kindB}, 4, 0)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{0}, {4}, {8}, {12}, {16}}, history[kindA])
	assert.Equal(t, [][]float64{nil, nil, {8}, {8}, {8}}, history[kindB])
}

func TestEngineMissingHistoryAtFirstWindow(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindD, "D", nil, windowIndex)
	stubKind(t, c, kindC, "C", []Dependency{{Kind: kindD, Lag: -1}}, windowIndex)

	_, err := NewEngine(c, LagStrict).Run(rampBuffer(t, 16), nil, []Kind{kindD, kindC}, 4, 0)
	require.ErrorIs(t, err, ErrMissingHistory)

	var missing *MissingHistoryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, kindC, missing.Kind)
	assert.Equal(t, kindD, missing.Dependency)
	assert.Equal(t, -1, missing.Lag)
	assert.Equal(t, 0, missing.Window)
}

func TestEngineSkipPropagatesEmptyValues(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindD, "D", nil, windowIndex)
	stubKind(t, c, kindC, "C", []Dependency{{Kind: kindD, Lag: -1}}, func(_ Window, d [][]float64) float64 {
		return d[0][0]
	})
	stubKind(t, c, kindE, "E", []Dependency{{Kind: kindC}}, func(_ Window, d [][]float64) float64 {
		return d[0][0] + 100
	})

	history, err := NewEngine(c, LagSkip).Run(rampBuffer(t, 12), nil, []Kind{kindD, kindC, kindE}, 4, 0)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{nil, {0}, {1}}, history[kindC])
	assert.Equal(t, [][]float64{nil, {100}, {101}}, history[kindE])
}

func TestEngineUnscheduledDependencyIsMissing(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindA, "A", nil, windowIndex)
	stubKind(t, c, kindB, "B", []Dependency{{Kind: kindA}}, windowIndex)

	_, err := NewEngine(c, LagSkip).Run(rampBuffer(t, 8), nil, []Kind{kindB}, 4, 0)
	assert.ErrorIs(t, err, ErrMissingHistory)
}

func TestEngineWrapsComputeErrors(t *testing.T) {
	boom := errors.New("boom")
	c := NewCatalog()
	require.NoError(t, c.Register(Descriptor{
		Kind:      kindA,
		Name:      "Failing",
		Dimension: fixedDimension(1),
		Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
			if w.Index == 1 {
				return nil, boom
			}
			return []float64{1}, nil
		},
	}))

	_, err := NewEngine(c, LagStrict).Run(rampBuffer(t, 16), nil, []Kind{kindA}, 4, 0)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "window 1")
}

func TestEngineUsesExtractorParameters(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(Descriptor{
		Kind:       kindA,
		Name:       "Scaled",
		Parameters: []ParameterSpec{{Name: "gain", Default: 1}},
		Dimension:  fixedDimension(1),
		Compute: func(w Window, _ [][]float64, p Parameters) ([]float64, error) {
			return []float64{w.Samples[0] * p.Get("gain")}, nil
		},
	}))

	ext, err := c.NewExtractor(kindA)
	require.NoError(t, err)
	require.NoError(t, ext.SetParameter("gain", 3))

	history, err := NewEngine(c, LagStrict).Run(rampBuffer(t, 8), map[Kind]Parameters{kindA: ext.Freeze()}, []Kind{kindA}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {12}}, history[kindA])

	defaults, err := NewEngine(c, LagStrict).Run(rampBuffer(t, 8), nil, []Kind{kindA}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {4}}, defaults[kindA])
}

func TestWindowCarriesSignalProperties(t *testing.T) {
	var seen []Window
	c := NewCatalog()
	require.NoError(t, c.Register(Descriptor{
		Kind:      kindA,
		Name:      "Probe",
		Dimension: fixedDimension(1),
		Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
			seen = append(seen, w)
			return []float64{0}, nil
		},
	}))

	buf := rampBuffer(t, 10)
	_, err := NewEngine(c, LagStrict).Run(buf, nil, []Kind{kindA}, 4, 50)
	require.NoError(t, err)

	require.Len(t, seen, 4)
	for i, w := range seen {
		assert.Equal(t, i, w.Index)
		assert.Equal(t, 2*i, w.Start)
		assert.Equal(t, 2, w.Hop)
		assert.Equal(t, 4, w.Size())
		assert.Equal(t, 8000.0, w.SampleRate)
		assert.Equal(t, 16, w.BitDepth)
	}
}

func TestParseLagPolicy(t *testing.T) {
	p, err := ParseLagPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LagStrict, p)

	p, err = ParseLagPolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, LagSkip, p)

	_, err = ParseLagPolicy("lenient")
	assert.Error(t, err)
}
