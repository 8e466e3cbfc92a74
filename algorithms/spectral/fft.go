package spectral

import (
	"math/cmplx"

	"github.com/RyanBlaney/sonido-features/algorithms/windowing"
	"github.com/mjibson/go-dsp/fft"
)

// FFT computes Hann-windowed spectra of fixed-size analysis windows.
// Only the first N/2 bins are kept (DC up to, but excluding, Nyquist).
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the raw complex FFT using mjibson/go-dsp
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// mjibson/go-dsp handles all sizes, including non-power-of-2
	return fft.FFTReal(x)
}

// windowed applies the shared Hann taper and transforms the frame
func (f *FFT) windowed(frame []float64) []complex128 {
	w := windowing.SharedHann(len(frame)).Apply(frame)
	return f.Compute(w)
}

// Magnitude returns |X[k]|/N for k in [0, N/2)
func (f *FFT) Magnitude(frame []float64) []float64 {
	n := len(frame)
	if n < 2 {
		return []float64{}
	}

	spectrum := f.windowed(frame)
	mag := make([]float64, n/2)
	for k := range mag {
		mag[k] = cmplx.Abs(spectrum[k]) / float64(n)
	}
	return mag
}

// Power returns |X[k]|²/N for k in [0, N/2)
func (f *FFT) Power(frame []float64) []float64 {
	n := len(frame)
	if n < 2 {
		return []float64{}
	}

	spectrum := f.windowed(frame)
	power := make([]float64, n/2)
	for k := range power {
		re, im := real(spectrum[k]), imag(spectrum[k])
		power[k] = (re*re + im*im) / float64(n)
	}
	return power
}

// BinFrequencies returns the centre frequency in Hz of each of the N/2 kept bins
func BinFrequencies(windowSize int, sampleRate float64) []float64 {
	if windowSize < 2 {
		return []float64{}
	}

	labels := make([]float64, windowSize/2)
	for k := range labels {
		labels[k] = float64(k) * sampleRate / float64(windowSize)
	}
	return labels
}

// NumBins is the spectrum length produced for a window of windowSize samples
func NumBins(windowSize int) int {
	return windowSize / 2
}
