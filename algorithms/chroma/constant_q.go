package chroma

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/windowing"
)

const (
	// MinFrequency is C2, the lowest constant-Q bin
	MinFrequency = 65.406
	// Octaves spanned by the transform (C2 up to C7)
	Octaves = 5
	// TuningFrequency is A4
	TuningFrequency = 440.0
)

// ConstantQ evaluates a constant-Q transform directly on one analysis window.
//
// CQT frequency spacing: f_k = f_min * 2^(k/bins_per_octave)
// Each bin uses a Hann-tapered kernel of length Q·fs/f_k, truncated to the window.
type ConstantQ struct {
	binsPerOctave int
	qFactor       float64
	freqBins      []float64
}

// BinsPerOctave converts a bin width given as a fraction of a semitone
// (1 = one bin per semitone, 0.5 = two bins per semitone) into bins per octave.
func BinsPerOctave(semitonesPerBin float64) (int, error) {
	if semitonesPerBin <= 0 || math.IsNaN(semitonesPerBin) || semitonesPerBin > 12 {
		return 0, fmt.Errorf("semitones per bin %v outside (0, 12]", semitonesPerBin)
	}
	return max(1, int(math.Round(12.0/semitonesPerBin))), nil
}

// NumBins is the output dimension of a transform with the given resolution
func NumBins(binsPerOctave int) int {
	return Octaves * binsPerOctave
}

// NewConstantQ creates a transform with binsPerOctave bins per octave
func NewConstantQ(binsPerOctave int) *ConstantQ {
	freqs := Frequencies(binsPerOctave)
	return &ConstantQ{
		binsPerOctave: binsPerOctave,
		qFactor:       1.0 / (math.Pow(2, 1.0/float64(binsPerOctave)) - 1),
		freqBins:      freqs,
	}
}

// Frequencies returns the centre frequency of every bin
func Frequencies(binsPerOctave int) []float64 {
	freqs := make([]float64, NumBins(binsPerOctave))
	for k := range freqs {
		freqs[k] = MinFrequency * math.Pow(2.0, float64(k)/float64(binsPerOctave))
	}
	return freqs
}

// Compute returns the magnitude of every constant-Q bin.
// Bins at or above Nyquist are left at zero.
func (cq *ConstantQ) Compute(frame []float64, sampleRate float64) []float64 {
	out := make([]float64, len(cq.freqBins))
	if len(frame) == 0 || sampleRate <= 0 {
		return out
	}

	for k, freq := range cq.freqBins {
		if freq >= sampleRate/2 {
			continue
		}

		kernelLength := cq.kernelLength(freq, sampleRate, len(frame))
		taper := windowing.SharedHann(kernelLength).GetCoefficients()

		var re, im float64
		for n := 0; n < kernelLength; n++ {
			phase := -2.0 * math.Pi * freq * float64(n) / sampleRate
			s, c := math.Sincos(phase)
			v := taper[n] * frame[n]
			re += v * c
			im += v * s
		}
		out[k] = math.Hypot(re, im) / float64(kernelLength)
	}
	return out
}

// kernelLength is Q·fs/f, capped by the available window
func (cq *ConstantQ) kernelLength(frequency, sampleRate float64, windowSize int) int {
	length := int(math.Ceil(cq.qFactor * sampleRate / frequency))
	return max(1, min(length, windowSize))
}
