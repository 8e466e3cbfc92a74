package extraction

import (
	"github.com/RyanBlaney/sonido-features/algorithms/chroma"
)

const paramSemitonesPerBin = "Percent of a semitone per bin"

func registerTonalKinds(c *Catalog) error {
	descs := []Descriptor{
		{
			Kind:        ConstantQ,
			Name:        "ConstantQ",
			Description: "Signal to frequency transform using exponentially spaced frequency bins.",
			Parameters:  []ParameterSpec{{Name: paramSemitonesPerBin, Default: 1}},
			Dimension: func(_ int, p Parameters) int {
				bpo, err := chroma.BinsPerOctave(p.Get(paramSemitonesPerBin))
				if err != nil {
					return 0
				}
				return chroma.NumBins(bpo)
			},
			Validate: func(p Parameters) error {
				_, err := chroma.BinsPerOctave(p.Get(paramSemitonesPerBin))
				return err
			},
			Compute: func(w Window, _ [][]float64, p Parameters) ([]float64, error) {
				bpo, err := chroma.BinsPerOctave(p.Get(paramSemitonesPerBin))
				if err != nil {
					return nil, err
				}
				return chroma.NewConstantQ(bpo).Compute(w.Samples, w.SampleRate), nil
			},
		},
		{
			Kind:         Chroma,
			Name:         "Chroma",
			Description:  "Pitch class profile derived from the constant-Q transform.",
			Dependencies: []Dependency{{Kind: ConstantQ}},
			Dimension:    fixedDimension(chroma.PitchClasses),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return chroma.FromConstantQ(deps[0])
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
