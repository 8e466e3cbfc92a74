package spectral

// SpectralRolloff finds the point below which a given share of spectral power lies
type SpectralRolloff struct {
	cutoff float64
}

// NewSpectralRolloff creates a rolloff calculator; cutoff is typically 0.85.
// Values outside [0, 1] are clamped.
func NewSpectralRolloff(cutoff float64) *SpectralRolloff {
	if cutoff < 0 {
		cutoff = 0
	}
	if cutoff > 1 {
		cutoff = 1
	}
	return &SpectralRolloff{cutoff: cutoff}
}

// ComputeBin returns the first bin at which cumulative power reaches cutoff·total
func (sr *SpectralRolloff) ComputeBin(power []float64) int {
	total := 0.0
	for _, p := range power {
		total += p
	}
	if total == 0 {
		return 0
	}

	target := sr.cutoff * total
	cumulative := 0.0
	for i, p := range power {
		cumulative += p
		if cumulative >= target {
			return i
		}
	}
	return len(power) - 1
}

// ComputeFraction returns the rolloff bin as a fraction of the spectrum length
func (sr *SpectralRolloff) ComputeFraction(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}
	return float64(sr.ComputeBin(power)) / float64(len(power))
}
