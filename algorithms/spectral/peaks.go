package spectral

import "gonum.org/v1/gonum/floats"

// PeakDetector keeps the local maxima of a magnitude spectrum that lie within
// a factor of threshold of the strongest bin.
type PeakDetector struct {
	threshold float64
}

// NewPeakDetector creates a detector; threshold 10 keeps peaks within one order of magnitude
func NewPeakDetector(threshold float64) *PeakDetector {
	if threshold < 1 {
		threshold = 1
	}
	return &PeakDetector{threshold: threshold}
}

// PeakBins returns the indices of the detected peaks in ascending order
func (pd *PeakDetector) PeakBins(magnitudeSpectrum []float64) []int {
	if len(magnitudeSpectrum) < 3 {
		return nil
	}

	highest := floats.Max(magnitudeSpectrum)
	if highest <= 0 {
		return nil
	}
	floor := highest / pd.threshold

	var bins []int
	for i := 1; i < len(magnitudeSpectrum)-1; i++ {
		m := magnitudeSpectrum[i]
		if m > magnitudeSpectrum[i-1] && m >= magnitudeSpectrum[i+1] && m >= floor {
			bins = append(bins, i)
		}
	}
	return bins
}

// Mask returns a copy of the spectrum where only detected peaks keep their magnitude
func (pd *PeakDetector) Mask(magnitudeSpectrum []float64) []float64 {
	masked := make([]float64, len(magnitudeSpectrum))
	for _, bin := range pd.PeakBins(magnitudeSpectrum) {
		masked[bin] = magnitudeSpectrum[bin]
	}
	return masked
}
