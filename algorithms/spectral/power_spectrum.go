package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum derives power-domain descriptors from analysis windows
type PowerSpectrum struct {
	fft *FFT
}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{fft: NewFFT()}
}

// Compute returns the Hann-windowed power spectrum of one window
func (ps *PowerSpectrum) Compute(frame []float64) []float64 {
	return ps.fft.Power(frame)
}

// StrongestBin returns the index of the highest-power bin, -1 for an empty spectrum.
// Ties resolve to the lowest bin.
func (ps *PowerSpectrum) StrongestBin(power []float64) int {
	if len(power) == 0 {
		return -1
	}
	return floats.MaxIdx(power)
}

// Variability is the sample standard deviation of a magnitude spectrum
func Variability(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) < 2 {
		return 0
	}
	return stat.StdDev(magnitudeSpectrum, nil)
}

// Compactness compares each bin with the mean of its neighbourhood in the log domain.
// Noisy spectra have smooth neighbourhoods and score low.
func Compactness(magnitudeSpectrum []float64) float64 {
	const floor = 1e-10

	compactness := 0.0
	for i := 1; i < len(magnitudeSpectrum)-1; i++ {
		prev := math.Max(magnitudeSpectrum[i-1], floor)
		cur := math.Max(magnitudeSpectrum[i], floor)
		next := math.Max(magnitudeSpectrum[i+1], floor)

		local := 20 * math.Log10(cur)
		neighbourhood := 20 * math.Log10((prev+cur+next)/3)
		compactness += math.Abs(local - neighbourhood)
	}
	return compactness
}
