package extraction

import (
	"fmt"

	"github.com/RyanBlaney/sonido-features/algorithms/spectral"
	"github.com/RyanBlaney/sonido-features/algorithms/speech"
	"github.com/RyanBlaney/sonido-features/algorithms/temporal"
)

const (
	paramLPCLambda       = "lambda for frequency warping"
	paramLPCCoefficients = "number of coeffecients to calculate"

	// LowEnergyWindows is the RMS history inspected by FractionOfLowEnergyWindows
	LowEnergyWindows = 100
)

var energy = temporal.NewEnergy()

// laggedRange declares a dependency on kind for the current and the n-1 preceding windows
func laggedRange(kind Kind, n int) []Dependency {
	deps := make([]Dependency, n)
	for i := range deps {
		deps[i] = Dependency{Kind: kind, Lag: -i}
	}
	return deps
}

// firstValues collects element 0 of every dependency vector
func firstValues(deps [][]float64) []float64 {
	out := make([]float64, len(deps))
	for i, d := range deps {
		out[i] = d[0]
	}
	return out
}

func registerTemporalKinds(c *Catalog) error {
	descs := []Descriptor{
		{
			Kind:        RootMeanSquare,
			Name:        "Root Mean Square",
			Description: "A measure of the power of a signal.",
			Dimension:   fixedDimension(1),
			Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
				return scalar(energy.RMS(w.Samples)), nil
			},
		},
		{
			Kind:        ZeroCrossings,
			Name:        "Zero Crossings",
			Description: "The number of times the waveform changed sign.",
			Dimension:   fixedDimension(1),
			Compute: func(w Window, _ [][]float64, _ Parameters) ([]float64, error) {
				zcr := spectral.NewZeroCrossingRate(w.SampleRate)
				return scalar(float64(zcr.Count(w.Samples))), nil
			},
		},
		{
			Kind:        LPC,
			Name:        "LPC",
			Description: "Linear prediction coefficients calculated using warped autocorrelation and Levinson-Durbin recursion.",
			Parameters: []ParameterSpec{
				{Name: paramLPCLambda, Default: 0},
				{Name: paramLPCCoefficients, Default: 10},
			},
			Dimension: func(_ int, p Parameters) int {
				return p.Int(paramLPCCoefficients)
			},
			Validate: func(p Parameters) error {
				if err := atLeastOne(p, paramLPCCoefficients); err != nil {
					return err
				}
				if lambda := p.Get(paramLPCLambda); lambda <= -1 || lambda >= 1 {
					return fmt.Errorf("%s must lie in (-1, 1), got %v", paramLPCLambda, lambda)
				}
				return nil
			},
			Compute: func(w Window, _ [][]float64, p Parameters) ([]float64, error) {
				lpc, err := speech.NewLPCAnalyzer(p.Int(paramLPCCoefficients), p.Get(paramLPCLambda))
				if err != nil {
					return nil, err
				}
				return lpc.Analyze(w.Samples).Coefficients, nil
			},
		},
		{
			Kind:         FractionOfLowEnergyWindows,
			Name:         "Fraction of Low Energy Windows",
			Description:  "The fraction of the last 100 windows with an RMS below the mean RMS of those windows.",
			Dependencies: laggedRange(RootMeanSquare, LowEnergyWindows),
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(energy.FractionOfLowEnergy(firstValues(deps))), nil
			},
		},
		{
			Kind:         StrongestFrequencyViaZeroCrossings,
			Name:         "Strongest Frequency via Zero Crossings",
			Description:  "The strongest frequency component of a signal, in Hz, found via the number of zero crossings.",
			Dependencies: []Dependency{{Kind: ZeroCrossings}},
			Dimension:    fixedDimension(1),
			Compute: func(w Window, deps [][]float64, _ Parameters) ([]float64, error) {
				zcr := spectral.NewZeroCrossingRate(w.SampleRate)
				return scalar(zcr.StrongestFrequency(deps[0][0], w.Size())), nil
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
