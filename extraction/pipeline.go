package extraction

import (
	"fmt"

	"github.com/RyanBlaney/sonido-features/extraction/config"
	"github.com/RyanBlaney/sonido-features/logging"
)

// Variant selects which derivative of a kind's window sequence is aggregated
type Variant int

const (
	Base Variant = iota
	FirstDerivative
	SecondDerivative
)

// Suffix appended to the kind name in column headers
func (v Variant) Suffix() string {
	switch v {
	case FirstDerivative:
		return "(1st Derivative)"
	case SecondDerivative:
		return "(2nd Derivative)"
	}
	return ""
}

// Order is the number of times the sequence is differentiated
func (v Variant) Order() int {
	return int(v)
}

// Options configures a Pipeline
type Options struct {
	WindowSize       int
	OverlapPercent   int
	Statistics       []Statistic
	FirstDerivative  bool
	SecondDerivative bool
	LagPolicy        LagPolicy
}

// DefaultOptions are 512-sample windows without overlap aggregated by their mean
func DefaultOptions() Options {
	return Options{
		WindowSize: config.DefaultWindowSize,
		Statistics: []Statistic{Mean},
		LagPolicy:  LagStrict,
	}
}

// KindResult is the aggregate of one kind and variant. Missing is set when
// the kind produced no value in any window; Values is nil in that case.
type KindResult struct {
	Kind    Kind
	Name    string
	Variant Variant
	Values  map[Statistic][]float64
	Missing bool
}

// Result is the outcome of running the pipeline on one buffer
type Result struct {
	Windows int
	Kinds   []KindResult
}

// Lookup returns the result of a kind and variant
func (r *Result) Lookup(kind Kind, variant Variant) (*KindResult, bool) {
	for i := range r.Kinds {
		if r.Kinds[i].Kind == kind && r.Kinds[i].Variant == variant {
			return &r.Kinds[i], true
		}
	}
	return nil, false
}

// Pipeline turns sample buffers into aggregated feature vectors. It is
// configured once and may then be run from many goroutines.
type Pipeline struct {
	catalog *Catalog
	// parameter snapshots taken when the pipeline was built
	params   map[Kind]Parameters
	dims     map[Kind]int
	selected []Kind
	schedule []Kind
	variants []Variant
	engine   *Engine
	opts     Options
	layout   *Layout
}

// NewPipeline validates the selection and options and computes the schedule.
// Parameters are copied from the extractors, so later changes to them do not
// affect the pipeline.
func NewPipeline(catalog *Catalog, selection []*Extractor, opts Options) (*Pipeline, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "extraction_pipeline",
		"function":  "NewPipeline",
	})

	if len(selection) == 0 {
		return nil, fmt.Errorf("no feature kinds selected")
	}
	if len(opts.Statistics) == 0 {
		return nil, ErrInvalidStatisticSet
	}
	if _, err := Hop(opts.WindowSize, opts.OverlapPercent); err != nil {
		return nil, err
	}
	if opts.LagPolicy == "" {
		opts.LagPolicy = LagStrict
	}

	p := &Pipeline{
		catalog:  catalog,
		params:   make(map[Kind]Parameters, len(selection)),
		dims:     make(map[Kind]int, len(selection)),
		engine:   NewEngine(catalog, opts.LagPolicy),
		opts:     opts,
		variants: []Variant{Base},
	}
	if opts.FirstDerivative {
		p.variants = append(p.variants, FirstDerivative)
	}
	if opts.SecondDerivative {
		p.variants = append(p.variants, SecondDerivative)
	}

	for _, ext := range selection {
		desc, err := catalog.Lookup(ext.Kind())
		if err != nil {
			return nil, err
		}
		if _, dup := p.params[ext.Kind()]; dup {
			return nil, fmt.Errorf("feature kind %s selected more than once", desc.Name)
		}
		if err := ext.Validate(); err != nil {
			return nil, err
		}
		params := ext.Freeze()
		p.params[ext.Kind()] = params
		p.dims[ext.Kind()] = desc.Dimension(opts.WindowSize, params)
		p.selected = append(p.selected, ext.Kind())
	}

	schedule, err := Schedule(catalog, p.selected)
	if err != nil {
		return nil, err
	}
	for _, kind := range schedule {
		desc, err := catalog.Lookup(kind)
		if err != nil {
			return nil, err
		}
		if opts.WindowSize < desc.MinWindowSize {
			return nil, fmt.Errorf("%w: %s needs windows of at least %d samples, got %d",
				ErrInvalidWindow, desc.Name, desc.MinWindowSize, opts.WindowSize)
		}
	}
	p.schedule = schedule
	p.layout = newLayout(p)

	if opts.LagPolicy == LagStrict {
		for _, kind := range p.selected {
			depth, err := HistoryDepth(catalog, kind)
			if err != nil {
				return nil, err
			}
			if depth > 0 {
				logger.Warn("Kind reads earlier windows and fails every run under the strict lag policy, use skip", logging.Fields{
					"kind":          catalog.Name(kind),
					"history_depth": depth,
				})
			}
		}
	}

	logger.Debug("Pipeline configured", logging.Fields{
		"selected":    len(p.selected),
		"scheduled":   len(p.schedule),
		"window_size": opts.WindowSize,
		"overlap":     opts.OverlapPercent,
		"statistics":  StatisticNames(opts.Statistics),
		"lag_policy":  string(opts.LagPolicy),
		"columns":     len(p.layout.Columns),
	})

	return p, nil
}

// FromConfig resolves kind, parameter and statistic names against catalog
func FromConfig(catalog *Catalog, cfg *config.PipelineConfig) (*Pipeline, error) {
	selection := make([]*Extractor, 0, len(cfg.Features))
	for _, f := range cfg.Features {
		kind, err := catalog.LookupName(f.Name)
		if err != nil {
			return nil, err
		}
		ext, err := catalog.NewExtractor(kind)
		if err != nil {
			return nil, err
		}
		for name, value := range f.Parameters {
			if err := ext.SetParameter(name, value); err != nil {
				return nil, err
			}
		}
		selection = append(selection, ext)
	}

	statistics := make([]Statistic, 0, len(cfg.Statistics))
	for _, name := range cfg.Statistics {
		s, err := ParseStatistic(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatisticSet, err)
		}
		statistics = append(statistics, s)
	}

	lagPolicy, err := ParseLagPolicy(cfg.LagPolicy)
	if err != nil {
		return nil, err
	}

	return NewPipeline(catalog, selection, Options{
		WindowSize:       cfg.WindowSize,
		OverlapPercent:   cfg.WindowOverlap,
		Statistics:       statistics,
		FirstDerivative:  cfg.FirstDerivative,
		SecondDerivative: cfg.SecondDerivative,
		LagPolicy:        lagPolicy,
	})
}

// Schedule is the evaluation order, selected kinds plus their dependencies
func (p *Pipeline) Schedule() []Kind {
	return append([]Kind(nil), p.schedule...)
}

// Layout is the column schema of every Result this pipeline produces
func (p *Pipeline) Layout() *Layout {
	return p.layout
}

// Options the pipeline was built with
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run extracts, differentiates and aggregates the selected kinds over buffer
func (p *Pipeline) Run(buffer *SampleBuffer) (*Result, error) {
	history, err := p.engine.Run(buffer, p.params, p.schedule, p.opts.WindowSize, p.opts.OverlapPercent)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, kind := range p.selected {
		result.Windows = len(history[kind])
		for _, variant := range p.variants {
			kr, err := p.aggregate(kind, variant, history[kind])
			if err != nil {
				return nil, err
			}
			result.Kinds = append(result.Kinds, kr)
		}
	}
	return result, nil
}

func (p *Pipeline) aggregate(kind Kind, variant Variant, series [][]float64) (KindResult, error) {
	kr := KindResult{Kind: kind, Name: p.catalog.Name(kind) + variant.Suffix(), Variant: variant}

	derived, err := DeriveN(series, variant.Order())
	if err != nil {
		return kr, fmt.Errorf("%s: %w", kr.Name, err)
	}

	present := make([][]float64, 0, len(derived))
	for _, v := range derived {
		if len(v) > 0 {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		kr.Missing = true
		return kr, nil
	}

	if want := p.dims[kind]; len(present[0]) != want {
		return kr, fmt.Errorf("%s: %w", kr.Name, &DimensionMismatchError{Expected: want, Actual: len(present[0])})
	}

	values, err := Aggregate(present, p.opts.Statistics)
	if err != nil {
		return kr, fmt.Errorf("%s: %w", kr.Name, err)
	}
	kr.Values = values
	return kr, nil
}
