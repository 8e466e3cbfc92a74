package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, bin int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / float64(n))
	}
	return out
}

func TestFFTPeakAtSineBin(t *testing.T) {
	f := NewFFT()
	frame := sine(64, 8)

	mag := f.Magnitude(frame)
	power := f.Power(frame)
	require.Len(t, mag, 32)
	require.Len(t, power, 32)

	ps := NewPowerSpectrum()
	assert.Equal(t, power, ps.Compute(frame))
	assert.Equal(t, 8, ps.StrongestBin(power))
	assert.Equal(t, 8, ps.StrongestBin(mag))
}

func TestFFTShortFrames(t *testing.T) {
	f := NewFFT()
	assert.Empty(t, f.Magnitude(nil))
	assert.Empty(t, f.Power([]float64{1}))
	assert.Equal(t, -1, NewPowerSpectrum().StrongestBin(nil))
}

func TestBinFrequencies(t *testing.T) {
	labels := BinFrequencies(8, 800)
	assert.Equal(t, []float64{0, 100, 200, 300}, labels)
	assert.Equal(t, 4, NumBins(8))
}

func TestSpectralCentroid(t *testing.T) {
	sc := NewSpectralCentroid(1000)

	assert.Equal(t, 0.0, sc.ComputeBin([]float64{0, 0, 0}))
	assert.InDelta(t, 2.0, sc.ComputeBin([]float64{0, 0, 5, 0}), 1e-12)
	assert.InDelta(t, 1.5, sc.ComputeBin([]float64{0, 1, 1, 0}), 1e-12)

	// Bin 2 of 4 bins spanning [0, 500) Hz
	assert.InDelta(t, 250.0, sc.Compute([]float64{0, 0, 5, 0}), 1e-12)
}

func TestSpectralRolloff(t *testing.T) {
	sr := NewSpectralRolloff(0.5)
	power := []float64{1, 1, 1, 1}

	assert.Equal(t, 1, sr.ComputeBin(power))
	assert.InDelta(t, 0.25, sr.ComputeFraction(power), 1e-12)
	assert.Equal(t, 0.0, sr.ComputeFraction([]float64{0, 0}))
	assert.Equal(t, 0.0, sr.ComputeFraction(nil))
}

func TestSpectralFlux(t *testing.T) {
	sf := NewSpectralFlux()

	v, err := sf.Between([]float64{1, 2, 3}, []float64{2, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-12)

	_, err = sf.Between([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestZeroCrossings(t *testing.T) {
	zcr := NewZeroCrossingRate(8)

	assert.Equal(t, 0, zcr.Count([]float64{1, 2, 3}))
	assert.Equal(t, 3, zcr.Count([]float64{1, -1, 1, -1}))
	// 4 crossings in 8 samples at 8 Hz = 2 periods per second
	assert.InDelta(t, 2.0, zcr.StrongestFrequency(4, 8), 1e-12)
	assert.Equal(t, 0.0, NewZeroCrossingRate(0).StrongestFrequency(4, 8))
}

func TestPeakDetector(t *testing.T) {
	pd := NewPeakDetector(10)
	spectrum := []float64{0, 5, 0, 0.1, 0.2, 0.1, 1, 0}

	assert.Equal(t, []int{1, 6}, pd.PeakBins(spectrum))
	assert.Equal(t, []float64{0, 5, 0, 0, 0, 0, 1, 0}, pd.Mask(spectrum))
	assert.Empty(t, pd.PeakBins([]float64{0, 0, 0, 0}))
}

func TestVariabilityAndCompactness(t *testing.T) {
	assert.Equal(t, 0.0, Variability([]float64{3}))
	assert.InDelta(t, 1.0, Variability([]float64{1, 2, 3}), 1e-12)

	// A flat spectrum equals its neighbourhood everywhere
	assert.InDelta(t, 0.0, Compactness([]float64{1, 1, 1, 1}), 1e-9)
	assert.Greater(t, Compactness([]float64{0, 1, 0, 1, 0}), 0.0)
}

func TestMFCC(t *testing.T) {
	m, err := NewMFCC(8000, 256, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, m.NumCoefficients())

	mag := NewFFT().Magnitude(sine(256, 20))
	coeffs, err := m.Compute(mag)
	require.NoError(t, err)
	require.Len(t, coeffs, 13)
	for _, c := range coeffs {
		assert.False(t, math.IsNaN(c) || math.IsInf(c, 0))
	}

	// Silence hits the log floor instead of -Inf
	silent, err := m.Compute(make([]float64, 128))
	require.NoError(t, err)
	assert.False(t, math.IsInf(silent[0], 0))

	_, err = m.Compute(nil)
	assert.Error(t, err)

	_, err = NewMFCC(0, 256, 13)
	assert.Error(t, err)
}

func TestMFCCCacheReuses(t *testing.T) {
	cache := NewMFCCCache()

	a, err := cache.Get(16000, 512, 13)
	require.NoError(t, err)
	b, err := cache.Get(16000, 512, 13)
	require.NoError(t, err)
	c, err := cache.Get(16000, 512, 20)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 20, c.NumCoefficients())
}
