package spectral

import (
	"fmt"
	"math"
	"sync"
)

// MFCC computes Mel-Frequency Cepstral Coefficients from a magnitude spectrum.
// An initialized MFCC is read-only and safe for concurrent use.
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      float64
	lowFreq         float64
	highFreq        float64

	melScale   *MelScale
	filterBank [][]float64
	dctMatrix  [][]float64
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 13)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters (default: 26)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
}

// NewMFCC creates an MFCC computer for windows of fftSize samples
func NewMFCC(sampleRate float64, fftSize, numCoefficients int) (*MFCC, error) {
	return NewMFCCWithParams(sampleRate, fftSize, MFCCParams{
		NumCoefficients: numCoefficients,
	})
}

// NewMFCCWithParams creates an MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate float64, fftSize int, params MFCCParams) (*MFCC, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %v", sampleRate)
	}
	if fftSize < 2 {
		return nil, fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 26
	}
	if params.NumMelFilters < params.NumCoefficients {
		params.NumMelFilters = params.NumCoefficients
	}
	if params.HighFreq <= 0 || params.HighFreq > sampleRate/2 {
		params.HighFreq = sampleRate / 2.0
	}

	mfcc := &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		melScale:        NewMelScale(),
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(
		mfcc.numMelFilters,
		fftSize,
		NumBins(fftSize),
		mfcc.sampleRate,
		mfcc.lowFreq,
		mfcc.highFreq,
	)
	if len(mfcc.filterBank) == 0 {
		return nil, fmt.Errorf("failed to create mel filter bank")
	}

	mfcc.createDCTMatrix()
	return mfcc, nil
}

// Compute calculates MFCC coefficients from a magnitude spectrum
func (mfcc *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := mfcc.melScale.ApplyFilterBank(powerSpectrum, mfcc.filterBank)

	// Floor avoids log(0) on silent windows
	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, mel := range melSpectrum {
		logMelSpectrum[i] = math.Log(math.Max(mel, 1e-10))
	}

	return mfcc.applyDCT(logMelSpectrum), nil
}

// NumCoefficients is the output dimension
func (mfcc *MFCC) NumCoefficients() int {
	return mfcc.numCoefficients
}

// createDCTMatrix creates an orthonormal DCT-II matrix
func (mfcc *MFCC) createDCTMatrix() {
	mfcc.dctMatrix = make([][]float64, mfcc.numCoefficients)

	for k := 0; k < mfcc.numCoefficients; k++ {
		row := make([]float64, mfcc.numMelFilters)
		scale := math.Sqrt(2.0 / float64(mfcc.numMelFilters))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(mfcc.numMelFilters))
		}
		for n := 0; n < mfcc.numMelFilters; n++ {
			row[n] = scale * math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/float64(mfcc.numMelFilters))
		}
		mfcc.dctMatrix[k] = row
	}
}

func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, mfcc.numCoefficients)

	for k, row := range mfcc.dctMatrix {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(row); n++ {
			sum += logMelSpectrum[n] * row[n]
		}
		coeffs[k] = sum
	}

	return coeffs
}

type mfccKey struct {
	sampleRate      float64
	fftSize         int
	numCoefficients int
}

// MFCCCache shares initialized MFCC computers between windows and workers
type MFCCCache struct {
	mu      sync.Mutex
	entries map[mfccKey]*MFCC
}

// NewMFCCCache creates an empty cache
func NewMFCCCache() *MFCCCache {
	return &MFCCCache{entries: make(map[mfccKey]*MFCC)}
}

// Get returns the MFCC computer for the given configuration, building it on first use
func (c *MFCCCache) Get(sampleRate float64, fftSize, numCoefficients int) (*MFCC, error) {
	key := mfccKey{sampleRate: sampleRate, fftSize: fftSize, numCoefficients: numCoefficients}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	m, err := NewMFCC(sampleRate, fftSize, numCoefficients)
	if err != nil {
		return nil, err
	}
	c.entries[key] = m
	return m, nil
}
