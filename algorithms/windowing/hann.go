package windowing

import (
	"math"
	"sync"
)

// Hann is a periodic or symmetric Hann taper used ahead of every FFT in the catalog.
// Coefficients are immutable once generated, so one Hann can be shared by all workers.
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

var hannCache sync.Map // map[hannKey]*Hann

type hannKey struct {
	size      int
	symmetric bool
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

// SharedHann returns a cached periodic Hann window of the given size
func SharedHann(size int) *Hann {
	key := hannKey{size: size}
	if h, ok := hannCache.Load(key); ok {
		return h.(*Hann)
	}
	h, _ := hannCache.LoadOrStore(key, NewHann(size, false))
	return h.(*Hann)
}

func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)
	if h.size == 1 {
		h.coefficients[0] = 1
		return
	}

	denominator := float64(h.size)
	if h.symmetric {
		denominator = float64(h.size - 1)
	}

	for i := 0; i < h.size; i++ {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply returns a windowed copy of signal; nil if the lengths differ
func (h *Hann) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	for i, c := range h.coefficients {
		windowed[i] = signal[i] * c
	}

	return windowed
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hann) GetCoefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}
