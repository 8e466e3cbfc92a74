package speech

import (
	"fmt"
	"math"
)

// LPCAnalyzer performs Linear Predictive Coding analysis with optional
// frequency warping. Lambda 0 gives plain autocorrelation LPC; positive
// lambda stretches low frequencies, as in warped LPC.
type LPCAnalyzer struct {
	order  int
	lambda float64
}

// LPCResult contains LPC analysis results
type LPCResult struct {
	Coefficients    []float64 `json:"coefficients"`     // predictor coefficients a1..ap
	ReflectionCoeff []float64 `json:"reflection_coeff"` // k1..kp
	Gain            float64   `json:"gain"`
	ResidualEnergy  float64   `json:"residual_energy"`
	Order           int       `json:"order"`
}

// NewLPCAnalyzer creates a new LPC analyzer; lambda must lie in (-1, 1)
func NewLPCAnalyzer(order int, lambda float64) (*LPCAnalyzer, error) {
	if order <= 0 {
		return nil, fmt.Errorf("invalid LPC order: %d", order)
	}
	if lambda <= -1 || lambda >= 1 {
		return nil, fmt.Errorf("warping lambda %v outside (-1, 1)", lambda)
	}
	return &LPCAnalyzer{order: order, lambda: lambda}, nil
}

// Order returns the number of predictor coefficients produced
func (lpc *LPCAnalyzer) Order() int {
	return lpc.order
}

// Analyze computes order predictor coefficients for one window.
// A silent window yields all-zero coefficients rather than an error.
func (lpc *LPCAnalyzer) Analyze(signal []float64) *LPCResult {
	R := lpc.WarpedAutocorrelation(signal)

	if R[0] == 0 {
		return &LPCResult{
			Coefficients:    make([]float64, lpc.order),
			ReflectionCoeff: make([]float64, lpc.order),
			Order:           lpc.order,
		}
	}

	a, k, energy := lpc.levinsonDurbin(R)
	return &LPCResult{
		Coefficients:    a[1:],
		ReflectionCoeff: k,
		Gain:            math.Sqrt(energy),
		ResidualEnergy:  energy,
		Order:           lpc.order,
	}
}

// WarpedAutocorrelation returns R[0..order]. Each lag passes the signal through one
// more first-order allpass section; with lambda 0 that section is a unit delay.
func (lpc *LPCAnalyzer) WarpedAutocorrelation(signal []float64) []float64 {
	R := make([]float64, lpc.order+1)
	n := len(signal)
	if n == 0 {
		return R
	}

	current := make([]float64, n)
	copy(current, signal)
	R[0] = dot(signal, current)

	next := make([]float64, n)
	for lag := 1; lag <= lpc.order; lag++ {
		// y[i] = -λ·x[i] + x[i-1] + λ·y[i-1]
		prevX, prevY := 0.0, 0.0
		for i := 0; i < n; i++ {
			y := -lpc.lambda*current[i] + prevX + lpc.lambda*prevY
			prevX = current[i]
			prevY = y
			next[i] = y
		}
		current, next = next, current
		R[lag] = dot(signal, current)
	}
	return R
}

// levinsonDurbin solves the normal equations; returns a (a[0]=1), reflection coefficients and
// the final prediction error energy.
func (lpc *LPCAnalyzer) levinsonDurbin(R []float64) ([]float64, []float64, float64) {
	p := lpc.order

	a := make([]float64, p+1)
	k := make([]float64, p)
	E := R[0]
	a[0] = 1.0

	prev := make([]float64, p+1)
	for i := 1; i <= p; i++ {
		if E <= 0 {
			break
		}

		numerator := R[i]
		for j := 1; j < i; j++ {
			numerator -= a[j] * R[i-j]
		}
		k[i-1] = numerator / E

		copy(prev, a)
		a[i] = k[i-1]
		for j := 1; j < i; j++ {
			a[j] = prev[j] - k[i-1]*prev[i-j]
		}

		E *= (1 - k[i-1]*k[i-1])
	}

	return a, k, E
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
