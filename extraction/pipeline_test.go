package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-features/extraction/config"
	"github.com/RyanBlaney/sonido-features/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultExtractors(t *testing.T, c *Catalog, kinds ...Kind) []*Extractor {
	t.Helper()
	out := make([]*Extractor, len(kinds))
	for i, k := range kinds {
		ext, err := c.NewExtractor(k)
		require.NoError(t, err)
		out[i] = ext
	}
	return out
}

func TestPipelineEveryKindMatchesItsDimension(t *testing.T) {
	c := NewDefaultCatalog()
	opts := DefaultOptions()
	opts.LagPolicy = LagSkip
	opts.Statistics = Statistics

	p, err := NewPipeline(c, defaultExtractors(t, c, c.Kinds()...), opts)
	require.NoError(t, err)

	// 300 windows so the beat histogram has a full RMS history
	result, err := p.Run(sineBuffer(t, 440, 22050, 512*300))
	require.NoError(t, err)
	assert.Equal(t, 300, result.Windows)
	require.Len(t, result.Kinds, 24)

	for _, kr := range result.Kinds {
		require.False(t, kr.Missing, kr.Name)
		ext, err := c.NewExtractor(kr.Kind)
		require.NoError(t, err)
		for _, s := range Statistics {
			values := kr.Values[s]
			require.Len(t, values, ext.Dimension(512), "%s %s", kr.Name, s)
			for _, v := range values {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s %s", kr.Name, s)
			}
		}
	}

	fft, ok := result.Lookup(StrongestFrequencyViaFFTMaximum, Base)
	require.True(t, ok)
	// Bin width is 22050/512 ≈ 43 Hz
	assert.InDelta(t, 440.0, fft.Values[Mean][0], 43.1)
}

func TestPipelineSilenceProducesZeros(t *testing.T) {
	c := NewDefaultCatalog()
	opts := DefaultOptions()
	opts.LagPolicy = LagSkip

	buf, err := NewSampleBuffer(make([]float64, 4096), 1, 16000, 16)
	require.NoError(t, err)

	p, err := NewPipeline(c, defaultExtractors(t, c,
		RootMeanSquare, SpectralCentroid, MFCC, LPC, Chroma, SpectralFlux, ZeroCrossings,
	), opts)
	require.NoError(t, err)

	result, err := p.Run(buf)
	require.NoError(t, err)
	for _, kr := range result.Kinds {
		require.False(t, kr.Missing, kr.Name)
		if kr.Kind == MFCC {
			continue // log floor
		}
		for _, v := range kr.Values[Mean] {
			assert.Equal(t, 0.0, v, kr.Name)
		}
	}
}

func TestPipelineStrictLagPolicyFails(t *testing.T) {
	c := NewDefaultCatalog()
	p, err := NewPipeline(c, defaultExtractors(t, c, SpectralFlux), DefaultOptions())
	require.NoError(t, err)

	_, err = p.Run(sineBuffer(t, 100, 8000, 2048))
	assert.ErrorIs(t, err, ErrMissingHistory)
}

func TestPipelineMissingKind(t *testing.T) {
	c := NewDefaultCatalog()
	opts := DefaultOptions()
	opts.LagPolicy = LagSkip

	p, err := NewPipeline(c, defaultExtractors(t, c, RootMeanSquare, FractionOfLowEnergyWindows), opts)
	require.NoError(t, err)

	// 10 windows never fill a 100 window history
	result, err := p.Run(sineBuffer(t, 100, 8000, 512*10))
	require.NoError(t, err)

	rms, ok := result.Lookup(RootMeanSquare, Base)
	require.True(t, ok)
	assert.False(t, rms.Missing)

	low, ok := result.Lookup(FractionOfLowEnergyWindows, Base)
	require.True(t, ok)
	assert.True(t, low.Missing)
	assert.Nil(t, low.Values)

	cells := p.Layout().Cells(result)
	assert.Equal(t, []string{"Root Mean Square - Mean", "Fraction of Low Energy Windows - Mean"}, p.Layout().Names())
	assert.False(t, cells[0].Missing)
	assert.True(t, cells[1].Missing)
}

func TestPipelineDerivatives(t *testing.T) {
	c := NewCatalog()
	stubKind(t, c, kindA, "Square", nil, func(w Window, _ [][]float64) float64 {
		return float64(w.Index * w.Index)
	})

	opts := DefaultOptions()
	opts.WindowSize = 1
	opts.Statistics = []Statistic{Mean, Max}
	opts.FirstDerivative = true
	opts.SecondDerivative = true

	p, err := NewPipeline(c, defaultExtractors(t, c, kindA), opts)
	require.NoError(t, err)

	// 0 1 4 9 16 / 0 1 3 5 7 / 0 1 2 2 2
	result, err := p.Run(rampBuffer(t, 5))
	require.NoError(t, err)
	require.Len(t, result.Kinds, 3)

	assert.Equal(t, "Square", result.Kinds[0].Name)
	assert.Equal(t, "Square(1st Derivative)", result.Kinds[1].Name)
	assert.Equal(t, "Square(2nd Derivative)", result.Kinds[2].Name)

	assert.Equal(t, []float64{6}, result.Kinds[0].Values[Mean])
	assert.Equal(t, []float64{16.0 / 5}, result.Kinds[1].Values[Mean])
	assert.Equal(t, []float64{7}, result.Kinds[1].Values[Max])
	assert.Equal(t, []float64{7.0 / 5}, result.Kinds[2].Values[Mean])

	assert.Equal(t, []string{
		"Square - Mean", "Square - Max",
		"Square(1st Derivative) - Mean", "Square(1st Derivative) - Max",
		"Square(2nd Derivative) - Mean", "Square(2nd Derivative) - Max",
	}, p.Layout().Names())

	cells := p.Layout().Cells(result)
	assert.Equal(t, Cell{Value: 7}, cells[3])
}

func TestLayoutVectorColumns(t *testing.T) {
	c := NewDefaultCatalog()
	mfcc, err := c.NewExtractor(MFCC)
	require.NoError(t, err)
	require.NoError(t, mfcc.SetParameter("Number of coefficients", 3))

	opts := DefaultOptions()
	opts.Statistics = []Statistic{Mean, StdDeviation}
	p, err := NewPipeline(c, []*Extractor{mfcc}, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"MFCC - Mean#1", "MFCC - Mean#2", "MFCC - Mean#3",
		"MFCC - Standard Deviation#1", "MFCC - Standard Deviation#2", "MFCC - Standard Deviation#3",
	}, p.Layout().Names())

	for _, cell := range p.Layout().MissingRow() {
		assert.True(t, cell.Missing)
	}
}

func TestNewPipelineRejectsBadConfiguration(t *testing.T) {
	c := NewDefaultCatalog()
	rms := defaultExtractors(t, c, RootMeanSquare)

	_, err := NewPipeline(c, nil, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Statistics = nil
	_, err = NewPipeline(c, rms, opts)
	assert.ErrorIs(t, err, ErrInvalidStatisticSet)

	opts = DefaultOptions()
	opts.OverlapPercent = 100
	_, err = NewPipeline(c, rms, opts)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewPipeline(c, append(rms, rms[0]), DefaultOptions())
	assert.Error(t, err)

	cyclic := NewCatalog()
	stubKind(t, cyclic, kindA, "A", []Dependency{{Kind: kindB}}, windowIndex)
	stubKind(t, cyclic, kindB, "B", []Dependency{{Kind: kindA, Lag: -1}}, windowIndex)
	_, err = NewPipeline(cyclic, defaultExtractors(t, cyclic, kindA), DefaultOptions())
	assert.ErrorIs(t, err, ErrCyclicDependency)

	lpc, err := c.NewExtractor(LPC)
	require.NoError(t, err)
	require.NoError(t, lpc.SetParameter("lambda for frequency warping", 1.5))
	_, err = NewPipeline(c, []*Extractor{lpc}, DefaultOptions())
	assert.Error(t, err)
}

func TestNewPipelineChecksWindowSizeAndMFCCCoefficients(t *testing.T) {
	c := NewDefaultCatalog()

	opts := DefaultOptions()
	opts.WindowSize = 1
	_, err := NewPipeline(c, defaultExtractors(t, c, MFCC), opts)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	// one-sample windows are fine for kinds without a minimum
	_, err = NewPipeline(c, defaultExtractors(t, c, RootMeanSquare), opts)
	assert.NoError(t, err)

	mfcc, err := c.NewExtractor(MFCC)
	require.NoError(t, err)
	require.NoError(t, mfcc.SetParameter("Number of coefficients", 10000))
	_, err = NewPipeline(c, []*Extractor{mfcc}, DefaultOptions())
	assert.Error(t, err)

	require.NoError(t, mfcc.SetParameter("Number of coefficients", MaxMFCCCoefficients))
	_, err = NewPipeline(c, []*Extractor{mfcc}, DefaultOptions())
	assert.NoError(t, err)
}

func TestPipelineIgnoresLaterParameterChanges(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(Descriptor{
		Kind:       kindA,
		Name:       "Gain",
		Parameters: []ParameterSpec{{Name: "gain", Default: 1}, {Name: "size", Default: 1}},
		Dimension: func(_ int, p Parameters) int {
			return p.Int("size")
		},
		Validate: func(p Parameters) error {
			if p.Get("gain") < 1 {
				return fmt.Errorf("gain must be at least 1")
			}
			return nil
		},
		Compute: func(_ Window, _ [][]float64, p Parameters) ([]float64, error) {
			out := make([]float64, p.Int("size"))
			for i := range out {
				out[i] = p.Get("gain")
			}
			return out, nil
		},
	}))

	ext, err := c.NewExtractor(kindA)
	require.NoError(t, err)
	p, err := NewPipeline(c, []*Extractor{ext}, DefaultOptions())
	require.NoError(t, err)
	buffer := rampBuffer(t, 1024)

	before, err := p.Run(buffer)
	require.NoError(t, err)
	names := p.Layout().Names()

	// values Validate would reject, and a dimension the layout never saw
	require.NoError(t, ext.SetParameter("gain", -5))
	require.NoError(t, ext.SetParameter("size", 3))
	require.Error(t, ext.Validate())

	after, err := p.Run(buffer)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []float64{1}, after.Kinds[0].Values[Mean])
	assert.Equal(t, names, p.Layout().Names())
	assert.Equal(t, []Cell{{Value: 1}}, p.Layout().Cells(after))
}

func TestNewPipelineWarnsAboutLaggedKindsUnderStrictPolicy(t *testing.T) {
	prev := logging.GetGlobalLogger()
	defer logging.SetGlobalLogger(prev)

	var buf bytes.Buffer
	logging.SetGlobalLogger(logging.NewJSONLogger(&buf))

	c := NewDefaultCatalog()
	_, err := NewPipeline(c, defaultExtractors(t, c, RootMeanSquare, SpectralFlux), DefaultOptions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"kind":"Spectral Flux"`)
	assert.Contains(t, out, `"history_depth":1`)
	assert.NotContains(t, out, `"kind":"Root Mean Square"`)

	buf.Reset()
	opts := DefaultOptions()
	opts.LagPolicy = LagSkip
	_, err = NewPipeline(c, defaultExtractors(t, c, SpectralFlux), opts)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "history_depth")
}

func TestFromConfig(t *testing.T) {
	c := NewDefaultCatalog()
	cfg := config.Default()
	cfg.WindowSize = 256
	cfg.WindowOverlap = 50
	cfg.Statistics = []string{"Mean", "Variance"}
	cfg.FirstDerivative = true
	cfg.LagPolicy = "skip"
	cfg.Features = []config.FeatureConfig{
		{Name: "MFCC", Parameters: map[string]float64{"Number of coefficients": 5}},
		{Name: "SPECTRAL_FLUX"},
	}

	p, err := FromConfig(c, cfg)
	require.NoError(t, err)
	assert.Equal(t, []Kind{MagnitudeSpectrum, MFCC, SpectralFlux}, p.Schedule())
	assert.Equal(t, LagSkip, p.Options().LagPolicy)
	// (5 + 1) values x 2 statistics x 2 variants
	assert.Len(t, p.Layout().Columns, 24)

	cfg.Features = []config.FeatureConfig{{Name: "Loudness"}}
	_, err = FromConfig(c, cfg)
	assert.ErrorIs(t, err, ErrUnknownKind)

	cfg.Features = []config.FeatureConfig{{Name: "MFCC", Parameters: map[string]float64{"bands": 3}}}
	_, err = FromConfig(c, cfg)
	assert.ErrorIs(t, err, ErrUnknownParameter)

	cfg.Features = []config.FeatureConfig{{Name: "MFCC"}}
	cfg.Statistics = []string{"Median"}
	_, err = FromConfig(c, cfg)
	assert.ErrorIs(t, err, ErrInvalidStatisticSet)
}

func TestBatchKeepsInputOrderAndIsolatesFailures(t *testing.T) {
	c := NewDefaultCatalog()
	p, err := NewPipeline(c, defaultExtractors(t, c, RootMeanSquare), DefaultOptions())
	require.NoError(t, err)

	bad := errors.New("decode failed")
	quiet := sineBuffer(t, 50, 8000, 4096)
	ramp := rampBuffer(t, 1024)
	rows := []Row{
		{ID: "quiet", Load: func(context.Context) (*SampleBuffer, error) { return quiet, nil }},
		{ID: "broken", Load: func(context.Context) (*SampleBuffer, error) { return nil, bad }},
		{ID: "ramp", Load: func(context.Context) (*SampleBuffer, error) { return ramp, nil }},
	}

	results, err := NewBatch(p, 3).Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "quiet", results[0].ID)
	assert.NoError(t, results[0].Err)
	assert.False(t, results[0].Cells[0].Missing)

	assert.Equal(t, "broken", results[1].ID)
	assert.ErrorIs(t, results[1].Err, bad)
	assert.Equal(t, p.Layout().MissingRow(), results[1].Cells)

	assert.Equal(t, "ramp", results[2].ID)
	assert.Greater(t, results[2].Cells[0].Value, results[0].Cells[0].Value)
}

func TestBatchCancellation(t *testing.T) {
	c := NewDefaultCatalog()
	p, err := NewPipeline(c, defaultExtractors(t, c, RootMeanSquare), DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loaded := false
	buf := rampBuffer(t, 16)
	rows := []Row{{ID: "a", Load: func(context.Context) (*SampleBuffer, error) {
		loaded = true
		return buf, nil
	}}}

	results, err := NewBatch(p, 1).Run(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, loaded)
	assert.Equal(t, "a", results[0].ID)
}
