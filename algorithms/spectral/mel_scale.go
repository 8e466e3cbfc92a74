package spectral

import (
	"math"
)

// MelScale converts between Hz and mel and builds triangular mel filter banks
type MelScale struct{}

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// CreateMelFilterBank builds numFilters triangular filters over numBins spectrum bins,
// where bin k sits at k·sampleRate/fftSize Hz.
func (ms *MelScale) CreateMelFilterBank(numFilters, fftSize, numBins int, sampleRate, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 || numBins <= 0 {
		return nil
	}

	lowMel := ms.HzToMel(lowFreq)
	highMel := ms.HzToMel(highFreq)

	// numFilters+2 equally spaced mel points give the filter edges
	binPoints := make([]int, numFilters+2)
	melStep := (highMel - lowMel) / float64(numFilters+1)
	for i := range binPoints {
		hz := ms.MelToHz(lowMel + float64(i)*melStep)
		bin := int(math.Floor(float64(fftSize)*hz/sampleRate + 0.5))
		binPoints[i] = min(bin, numBins-1)
	}

	filterBank := make([][]float64, numFilters)
	for m := 1; m <= numFilters; m++ {
		filter := make([]float64, numBins)
		leftBin, centerBin, rightBin := binPoints[m-1], binPoints[m], binPoints[m+1]

		for k := leftBin; k < centerBin; k++ {
			filter[k] = float64(k-leftBin) / float64(centerBin-leftBin)
		}
		for k := centerBin; k < rightBin; k++ {
			filter[k] = float64(rightBin-k) / float64(rightBin-centerBin)
		}
		if leftBin == centerBin && centerBin == rightBin {
			// Degenerate filter at low resolution, keep it as a single-bin pick
			filter[centerBin] = 1
		}
		filterBank[m-1] = filter
	}

	return filterBank
}

// ApplyFilterBank applies mel filter bank to power spectrum
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	melSpectrum := make([]float64, len(filterBank))

	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(powerSpectrum); j++ {
			sum += powerSpectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}
