package extraction

import "fmt"

// MaxOverlapPercent is the largest accepted window overlap
const MaxOverlapPercent = 99

// Span is the position of one analysis window in a sample buffer
type Span struct {
	Start  int
	Length int
}

// Window is the input of a ComputeFunc: one zero-padded analysis window
// and the signal properties needed to interpret it.
type Window struct {
	Index      int
	Start      int
	Samples    []float64
	SampleRate float64
	BitDepth   int
	// Hop is the distance in samples between consecutive window starts
	Hop int
}

// Size of the window in samples
func (w Window) Size() int {
	return len(w.Samples)
}

// Hop returns the distance between window starts for a size and overlap percent
func Hop(windowSize, overlapPercent int) (int, error) {
	if windowSize <= 0 {
		return 0, fmt.Errorf("%w: window size %d", ErrInvalidWindow, windowSize)
	}
	if overlapPercent < 0 || overlapPercent > MaxOverlapPercent {
		return 0, fmt.Errorf("%w: overlap %d%% outside 0-%d", ErrInvalidWindow, overlapPercent, MaxOverlapPercent)
	}
	// Integer math keeps the floor exact
	overlapOffset := overlapPercent * windowSize / 100
	return windowSize - overlapOffset, nil
}

// Segment splits totalSamples into windows of windowSize with the given overlap.
// Windows start at multiples of the hop; the last window is the first one that
// reaches the end of the buffer, and may run past it. An empty buffer has no windows.
func Segment(totalSamples, windowSize, overlapPercent int) ([]Span, error) {
	hop, err := Hop(windowSize, overlapPercent)
	if err != nil {
		return nil, err
	}
	if totalSamples < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", ErrInvalidWindow, totalSamples)
	}

	var spans []Span
	for start := 0; start < totalSamples; start += hop {
		spans = append(spans, Span{Start: start, Length: min(windowSize, totalSamples-start)})
		if start+windowSize >= totalSamples {
			break
		}
	}
	return spans, nil
}

// Materialize copies a span out of samples into a window of exactly windowSize
// samples, zero padded past the end of the buffer.
func Materialize(samples []float64, span Span, windowSize int) []float64 {
	out := make([]float64, windowSize)
	if span.Start < len(samples) {
		copy(out, samples[span.Start:min(len(samples), span.Start+windowSize)])
	}
	return out
}
