package spectral

// SpectralCentroid computes the centre of mass of a power spectrum
type SpectralCentroid struct {
	sampleRate float64
}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid(sampleRate float64) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
	}
}

// ComputeBin returns the centroid as a (fractional) bin index.
// Silent spectra have a centroid of 0.
func (sc *SpectralCentroid) ComputeBin(power []float64) float64 {
	numerator := 0.0
	denominator := 0.0

	for i, p := range power {
		numerator += float64(i) * p
		denominator += p
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// ComputeHz converts a bin centroid into Hz for a spectrum of numBins bins covering [0, Nyquist)
func (sc *SpectralCentroid) ComputeHz(centroidBin float64, numBins int) float64 {
	if numBins == 0 {
		return 0
	}
	return centroidBin / float64(numBins) * (sc.sampleRate / 2.0)
}

// Compute returns the centroid of a power spectrum in Hz
func (sc *SpectralCentroid) Compute(power []float64) float64 {
	return sc.ComputeHz(sc.ComputeBin(power), len(power))
}
