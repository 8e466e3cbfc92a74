package extraction

import (
	"github.com/RyanBlaney/sonido-features/algorithms/temporal"
)

// BeatWindows is the RMS history the beat histogram autocorrelates
const BeatWindows = 256

var beatHistogram = temporal.NewBeatHistogram()

func registerBeatKinds(c *Catalog) error {
	descs := []Descriptor{
		{
			Kind:         BeatHistogram,
			Name:         "Beat Histogram",
			Description:  "Relative strength of rhythmic periodicities from 40 to 200 BPM, found by autocorrelating the RMS.",
			Dependencies: laggedRange(RootMeanSquare, BeatWindows),
			Dimension:    fixedDimension(temporal.BeatBins),
			Compute: func(w Window, deps [][]float64, _ Parameters) ([]float64, error) {
				// deps run newest first
				rms := make([]float64, len(deps))
				for i, d := range deps {
					rms[len(deps)-1-i] = d[0]
				}
				return beatHistogram.Compute(rms, w.SampleRate, w.Hop), nil
			},
		},
		{
			Kind:         BeatHistogramBinLabels,
			Name:         "Beat Histogram Bin Labels",
			Description:  "The tempo, in beats per minute, of each beat histogram bin.",
			Dependencies: []Dependency{{Kind: BeatHistogram}},
			Dimension:    fixedDimension(temporal.BeatBins),
			Compute: func(_ Window, _ [][]float64, _ Parameters) ([]float64, error) {
				return beatHistogram.Labels(), nil
			},
		},
		{
			Kind:         StrongestBeat,
			Name:         "Strongest Beat",
			Description:  "The strongest beat in a signal, in beats per minute.",
			Dependencies: []Dependency{{Kind: BeatHistogram}, {Kind: BeatHistogramBinLabels}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(beatHistogram.Strongest(deps[0], deps[1])), nil
			},
		},
		{
			Kind:         BeatSum,
			Name:         "Beat Sum",
			Description:  "The sum of all entries in the beat histogram.",
			Dependencies: []Dependency{{Kind: BeatHistogram}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(beatHistogram.Sum(deps[0])), nil
			},
		},
		{
			Kind:         StrengthOfStrongestBeat,
			Name:         "Strength of Strongest Beat",
			Description:  "How strong the strongest beat is compared to the other bins of the beat histogram.",
			Dependencies: []Dependency{{Kind: BeatHistogram}, {Kind: BeatSum}},
			Dimension:    fixedDimension(1),
			Compute: func(_ Window, deps [][]float64, _ Parameters) ([]float64, error) {
				return scalar(beatHistogram.StrengthOfStrongest(deps[0], deps[1][0])), nil
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
