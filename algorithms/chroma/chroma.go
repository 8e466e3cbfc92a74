package chroma

import (
	"fmt"
	"math"
)

// PitchClasses is the chroma dimension
const PitchClasses = 12

// FromConstantQ folds a constant-Q magnitude vector into 12 pitch classes.
// Bin energies (magnitude squared) are summed across octaves and the result
// is normalized to unit sum. The vector length must be a whole number of octaves.
func FromConstantQ(cq []float64) ([]float64, error) {
	if len(cq) == 0 || len(cq)%Octaves != 0 {
		return nil, fmt.Errorf("constant-Q vector of length %d does not span %d octaves", len(cq), Octaves)
	}
	binsPerOctave := len(cq) / Octaves

	chroma := make([]float64, PitchClasses)
	for k, freq := range Frequencies(binsPerOctave) {
		class := int(math.Round(FrequencyToMIDI(freq))) % PitchClasses
		if class < 0 {
			class += PitchClasses
		}
		chroma[class] += cq[k] * cq[k]
	}

	normalize(chroma)
	return chroma, nil
}

// FrequencyToMIDI converts frequency to a (fractional) MIDI note number
func FrequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}
	// 69 + 12 * log2(f/440)
	return 69.0 + 12.0*math.Log2(frequency/TuningFrequency)
}

// normalize scales to unit sum; near-silent frames are left as they are
func normalize(frame []float64) {
	total := 0.0
	for _, v := range frame {
		total += v
	}
	if total > 1e-10 {
		for i := range frame {
			frame[i] /= total
		}
	}
}
