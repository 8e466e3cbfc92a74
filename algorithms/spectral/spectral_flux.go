package spectral

import "fmt"

// SpectralFlux measures the change between consecutive magnitude spectra
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Between returns Σ(current[k] − previous[k])² over all bins
func (sf *SpectralFlux) Between(previous, current []float64) (float64, error) {
	if len(previous) != len(current) {
		return 0, fmt.Errorf("spectrum length mismatch: %d vs %d", len(previous), len(current))
	}

	sum := 0.0
	for k := range current {
		diff := current[k] - previous[k]
		sum += diff * diff
	}
	return sum, nil
}
