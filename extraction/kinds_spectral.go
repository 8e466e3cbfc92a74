package extraction

import (
	"fmt"

	"github.com/RyanBlaney/sonido-features/algorithms/spectral"
)

const (
	paramMFCCCoefficients = "Number of coefficients"
	paramRolloffCutoff    = "Cutoff point (0-1)"
	paramPeakThreshold    = "Threshold for peak detection"
)

// MaxMFCCCoefficients bounds the MFCC coefficient count, which also sizes its filter bank
const MaxMFCCCoefficients = 128

var (
	fftCalc       = spectral.NewFFT()
	powerSpectrum = spectral.NewPowerSpectrum()
	mfccCache     = spectral.NewMFCCCache()
)

// atLeastOne rejects counts below 1
func atLeastOne(p Parameters, name string) error {
	if n := p.Int(name); n < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", name, n)
	}
	return nil
}

func scalar(v float64) []float64 {
	return []float64{v}
}

func fixedDimension(n int) DimensionFunc {
	return func(int, Parameters) int { return n }
}

func halfWindow(windowSize int, _ Parameters) int {
	return spectral.NumBins(windowSize)
}

func registerSpectralKinds(c *Catalog) error {
	descs := []Descriptor{
		{
			Kind:        PowerSpectrum,
			Name:        "Power Spectrum",
			Description: "A measure of the power of different frequency components.",
			Dimension:   halfWindow,
			Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
				return powerSpectrum.Compute(w.Samples), nil
			},
		},
		{
			Kind:        MagnitudeSpectrum,
			Name:        "Magnitude Spectrum",
			Description: "A measure of the strength of different frequency components.",
			Dimension:   halfWindow,
			Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
				return fftCalc.Magnitude(w.Samples), nil
			},
		},
		{
			Kind:        FFTBinFrequencyLabels,
			Name:        "FFT Bin Frequency Labels",
			Description: "The bin label, in Hz, of each power spectrum or magnitude spectrum bin.",
			Dimension:   halfWindow,
			Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
				return spectral.BinFrequencies(w.Size(), w.SampleRate), nil
			},
		},
		{
			Kind:         MFCC,
			Name:         "MFCC",
			Description:  "Mel-frequency cepstral coefficients of the magnitude spectrum.",
			Dependencies: []Dependency{{Kind: MagnitudeSpectrum}},
			Parameters:   []ParameterSpec{{Name: paramMFCCCoefficients, Default: 13}},
			Dimension: func(_ int, p Parameters) int {
				return p.Int(paramMFCCCoefficients)
			},
			Validate: func(p Parameters) error {
				if err := atLeastOne(p, paramMFCCCoefficients); err != nil {
					return err
				}
				if n := p.Int(paramMFCCCoefficients); n > MaxMFCCCoefficients {
					return fmt.Errorf("%s must be at most %d, got %d", paramMFCCCoefficients, MaxMFCCCoefficients, n)
				}
				return nil
			},
			MinWindowSize: 2,
			Compute: func(w Window, deps [][]float64, p Parameters) ([]float64, error) {
				m, err := mfccCache.Get(w.SampleRate, w.Size(), p.Int(paramMFCCCoefficients))
				if err != nil {
					return nil, err
				}
				return m.Compute(deps[0])
			},
		},
		{
			Kind:         SpectralCentroid,
			Name:         "Spectral Centroid",
			Description:  "The center of mass of the power spectrum, in bins.",
			Dependencies: []Dependency{{Kind: PowerSpectrum}},
			Dimension:    fixedDimension(1),
			Compute: func(w Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(spectral.NewSpectralCentroid(w.SampleRate).ComputeBin(deps[0])), nil
			},
		},
		{
			Kind:         Compactness,
			Name:         "Compactness",
			Description:  "A measure of the noisiness of a signal, comparing each magnitude bin with its neighbours.",
			Dependencies: []Dependency{{Kind: MagnitudeSpectrum}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(spectral.Compactness(deps[0])), nil
			},
		},
		{
			Kind:         SpectralRolloffPoint,
			Name:         "Spectral Rolloff Point",
			Description:  "The fraction of power spectrum bins below which the cutoff share of the power lies.",
			Dependencies: []Dependency{{Kind: PowerSpectrum}},
			Parameters:   []ParameterSpec{{Name: paramRolloffCutoff, Default: 0.85}},
			Dimension:    fixedDimension(1),
			Validate: func(p Parameters) error {
				if cutoff := p.Get(paramRolloffCutoff); cutoff < 0 || cutoff > 1 {
					return fmt.Errorf("%s must lie in [0, 1], got %v", paramRolloffCutoff, cutoff)
				}
				return nil
			},
			Compute: func(_ Window, deps [][]float64, p Parameters) ([]float64, error) {
				rolloff := spectral.NewSpectralRolloff(p.Get(paramRolloffCutoff))
				return scalar(rolloff.ComputeFraction(deps[0])), nil
			},
		},
		{
			Kind:         PeakDetection,
			Name:         "Peak Detection",
			Description:  "All magnitude spectrum peaks within a factor of the threshold of the highest peak.",
			Dependencies: []Dependency{{Kind: MagnitudeSpectrum}},
			Parameters:   []ParameterSpec{{Name: paramPeakThreshold, Default: 10}},
			Dimension:    halfWindow,
			Compute: func(_ Window, deps [][]float64, p Parameters) ([]float64, error) {
				return spectral.NewPeakDetector(p.Get(paramPeakThreshold)).Mask(deps[0]), nil
			},
		},
		{
			Kind:        SpectralFlux,
			Name:        "Spectral Flux",
			Description: "The squared change of the magnitude spectrum from the previous window.",
			Dependencies: []Dependency{
				{Kind: MagnitudeSpectrum},
				{Kind: MagnitudeSpectrum, Lag: -1},
			},
			Dimension: fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				flux, err := spectral.NewSpectralFlux().Between(deps[1], deps[0])
				if err != nil {
					return nil, err
				}
				return scalar(flux), nil
			},
		},
		{
			Kind:         SpectralVariability,
			Name:         "Spectral Variability",
			Description:  "The standard deviation of the magnitude spectrum.",
			Dependencies: []Dependency{{Kind: MagnitudeSpectrum}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(spectral.Variability(deps[0])), nil
			},
		},
		{
			Kind:         StrongestFrequencyViaSpectralCentroid,
			Name:         "Strongest Frequency via Spectral Centroid",
			Description:  "The strongest frequency component of a signal, in Hz, found via the spectral centroid.",
			Dependencies: []Dependency{{Kind: SpectralCentroid}, {Kind: PowerSpectrum}},
			Dimension:    fixedDimension(1),
			Compute: func(w Window, deps [][]float64, _ Parameters) ([]float64, error) {
				sc := spectral.NewSpectralCentroid(w.SampleRate)
				return scalar(sc.ComputeHz(deps[0][0], len(deps[1]))), nil
			},
		},
		{
			Kind:         StrongestFrequencyViaFFTMaximum,
			Name:         "Strongest Frequency via FFT Maximum",
			Description:  "The strongest frequency component of a signal, in Hz, found via the FFT bin with the highest power.",
			Dependencies: []Dependency{{Kind: PowerSpectrum}, {Kind: FFTBinFrequencyLabels}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				bin := powerSpectrum.StrongestBin(deps[0])
				if bin < 0 || bin >= len(deps[1]) {
					return scalar(0), nil
				}
				return scalar(deps[1][bin]), nil
			},
		},
	}

	for _, d := range descs {
		if err := c.Register(d); err != nil {
			return err
		}
	}
	return nil
}
