package temporal

import (
	"math"
)

const (
	// MinBPM is the tempo of the first beat histogram bin
	MinBPM = 40
	// MaxBPM is the tempo of the last beat histogram bin
	MaxBPM = 200
	// BeatBins is the number of histogram bins, one per BPM
	BeatBins = MaxBPM - MinBPM + 1
)

// BeatHistogram measures rhythmic periodicity from a sequence of window RMS values
// by sampling their autocorrelation at the lag of every tempo between MinBPM and MaxBPM.
type BeatHistogram struct{}

// NewBeatHistogram creates a new beat histogram calculator
func NewBeatHistogram() *BeatHistogram {
	return &BeatHistogram{}
}

// Labels returns the tempo, in BPM, of each histogram bin
func (bh *BeatHistogram) Labels() []float64 {
	labels := make([]float64, BeatBins)
	for i := range labels {
		labels[i] = float64(MinBPM + i)
	}
	return labels
}

// Compute builds the histogram. rms is in chronological order (oldest first),
// hopSize is the distance in samples between consecutive windows.
func (bh *BeatHistogram) Compute(rms []float64, sampleRate float64, hopSize int) []float64 {
	hist := make([]float64, BeatBins)
	if len(rms) < 2 || sampleRate <= 0 || hopSize <= 0 {
		return hist
	}

	framesPerSecond := sampleRate / float64(hopSize)
	for i := range hist {
		bpm := float64(MinBPM + i)
		// Beat period in windows
		lag := 60.0 * framesPerSecond / bpm
		hist[i] = bh.interpolatedAutocorrelation(rms, lag)
	}
	return hist
}

// Autocorrelation returns Σ x[i]·x[i-lag] / N for an integer lag
func Autocorrelation(signal []float64, lag int) float64 {
	n := len(signal)
	if lag < 0 || lag >= n {
		return 0.0
	}

	sum := 0.0
	for i := lag; i < n; i++ {
		sum += signal[i] * signal[i-lag]
	}
	return sum / float64(n)
}

// interpolatedAutocorrelation linearly interpolates between the neighbouring integer lags
func (bh *BeatHistogram) interpolatedAutocorrelation(signal []float64, lag float64) float64 {
	lower := int(math.Floor(lag))
	frac := lag - float64(lower)

	low := Autocorrelation(signal, lower)
	if frac == 0 {
		return low
	}
	high := Autocorrelation(signal, lower+1)
	return low + frac*(high-low)
}

// Strongest returns the label of the largest bin; ties resolve to the slowest tempo
func (bh *BeatHistogram) Strongest(hist, labels []float64) float64 {
	best := -1
	for i, v := range hist {
		if i >= len(labels) {
			break
		}
		if best < 0 || v > hist[best] {
			best = i
		}
	}
	if best < 0 {
		return 0.0
	}
	return labels[best]
}

// Sum of all bins
func (bh *BeatHistogram) Sum(hist []float64) float64 {
	total := 0.0
	for _, v := range hist {
		total += v
	}
	return total
}

// StrengthOfStrongest is the largest bin relative to the histogram sum
func (bh *BeatHistogram) StrengthOfStrongest(hist []float64, sum float64) float64 {
	if len(hist) == 0 || sum == 0 {
		return 0.0
	}
	peak := hist[0]
	for _, v := range hist[1:] {
		peak = math.Max(peak, v)
	}
	return peak / sum
}
