package spectral

// ZeroCrossingRate counts sign changes in a window.
// High counts indicate noisy or high-frequency content.
type ZeroCrossingRate struct {
	sampleRate float64
}

// NewZeroCrossingRate creates a new zero crossing calculator
func NewZeroCrossingRate(sampleRate float64) *ZeroCrossingRate {
	return &ZeroCrossingRate{sampleRate: sampleRate}
}

// Count returns the number of times the waveform crosses zero.
// Zero itself counts as non-negative.
func (zcr *ZeroCrossingRate) Count(frame []float64) int {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}
	return crossings
}

// StrongestFrequency estimates the dominant frequency in Hz from a crossing count
// over a window of windowSize samples. Each period produces two crossings.
func (zcr *ZeroCrossingRate) StrongestFrequency(crossings float64, windowSize int) float64 {
	if windowSize == 0 || zcr.sampleRate == 0 {
		return 0
	}
	duration := float64(windowSize) / zcr.sampleRate
	return (crossings / 2.0) / duration
}
