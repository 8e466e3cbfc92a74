package temporal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Energy computes energy-based temporal features of analysis windows
type Energy struct{}

// NewEnergy creates a new energy calculator
func NewEnergy() *Energy {
	return &Energy{}
}

// RMS returns the root-mean-square amplitude of one window
func (e *Energy) RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
}

// FractionOfLowEnergy returns the share of RMS values strictly below their mean.
// A constant sequence has no low-energy windows.
func (e *Energy) FractionOfLowEnergy(rms []float64) float64 {
	if len(rms) == 0 {
		return 0.0
	}

	mean := stat.Mean(rms, nil)
	low := 0
	for _, v := range rms {
		if v < mean {
			low++
		}
	}
	return float64(low) / float64(len(rms))
}
