package extraction

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-features/logging"
)

// LagPolicy decides what happens when a lagged dependency reaches before the first window
type LagPolicy string

const (
	// LagStrict fails the run with a MissingHistoryError
	LagStrict LagPolicy = "strict"
	// LagSkip records an empty vector for the kind in that window
	LagSkip LagPolicy = "skip"
)

// ParseLagPolicy parses "strict" or "skip"; the empty string means strict
func ParseLagPolicy(s string) (LagPolicy, error) {
	switch LagPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LagStrict:
		return LagStrict, nil
	case LagSkip:
		return LagSkip, nil
	}
	return "", fmt.Errorf("unknown lag policy %q (expected strict or skip)", s)
}

// History holds one vector per window for every computed kind.
// An empty vector means the kind has no value for that window.
type History map[Kind][][]float64

// Engine evaluates scheduled kinds over every window of a buffer
type Engine struct {
	catalog   *Catalog
	lagPolicy LagPolicy
}

// NewEngine creates an engine reading descriptors from catalog
func NewEngine(catalog *Catalog, lagPolicy LagPolicy) *Engine {
	if lagPolicy == "" {
		lagPolicy = LagStrict
	}
	return &Engine{catalog: catalog, lagPolicy: lagPolicy}
}

type step struct {
	desc   *Descriptor
	params Parameters
}

// Run computes every kind in schedule for every window, in window order and
// schedule order within a window. Kinds missing from params use default
// parameters. Every scheduled kind ends up with exactly one entry per window.
func (e *Engine) Run(buffer *SampleBuffer, params map[Kind]Parameters, schedule []Kind, windowSize, overlapPercent int) (History, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "extraction_engine",
		"function":  "Run",
	})

	hop, err := Hop(windowSize, overlapPercent)
	if err != nil {
		return nil, err
	}
	spans, err := Segment(buffer.Len(), windowSize, overlapPercent)
	if err != nil {
		return nil, err
	}

	steps := make([]step, len(schedule))
	for i, kind := range schedule {
		desc, err := e.catalog.Lookup(kind)
		if err != nil {
			return nil, err
		}
		p, ok := params[kind]
		if !ok {
			p = Defaults(desc.Parameters)
		}
		steps[i] = step{desc: desc, params: p}
	}

	history := make(History, len(schedule))
	for _, kind := range schedule {
		history[kind] = make([][]float64, 0, len(spans))
	}

	for i, span := range spans {
		w := Window{
			Index:      i,
			Start:      span.Start,
			Samples:    Materialize(buffer.Samples, span, windowSize),
			SampleRate: buffer.SampleRate,
			BitDepth:   buffer.BitDepth,
			Hop:        hop,
		}

		for _, s := range steps {
			deps, ok, err := e.gather(history, s.desc, i)
			if err != nil {
				return nil, err
			}
			if !ok {
				history[s.desc.Kind] = append(history[s.desc.Kind], nil)
				continue
			}

			value, err := s.desc.Compute(w, deps, s.params)
			if err != nil {
				return nil, fmt.Errorf("computing %s for window %d: %w", s.desc.Name, i, err)
			}
			history[s.desc.Kind] = append(history[s.desc.Kind], value)
		}
	}

	logger.Debug("Feature extraction completed", logging.Fields{
		"windows":     len(spans),
		"kinds":       len(schedule),
		"window_size": windowSize,
		"hop":         hop,
	})

	return history, nil
}

// gather collects the dependency values of desc for window i. ok is false when
// a dependency has no value and the kind must be recorded as empty.
func (e *Engine) gather(history History, desc *Descriptor, i int) ([][]float64, bool, error) {
	if len(desc.Dependencies) == 0 {
		return nil, true, nil
	}

	deps := make([][]float64, len(desc.Dependencies))
	for j, dep := range desc.Dependencies {
		idx := i + dep.Lag
		series := history[dep.Kind]
		if idx < 0 || idx >= len(series) {
			if e.lagPolicy == LagSkip && idx < 0 {
				return nil, false, nil
			}
			return nil, false, &MissingHistoryError{
				Kind:       desc.Kind,
				Dependency: dep.Kind,
				Lag:        dep.Lag,
				Window:     i,
			}
		}
		if len(series[idx]) == 0 {
			return nil, false, nil
		}
		deps[j] = series[idx]
	}
	return deps, true, nil
}
