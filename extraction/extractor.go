package extraction

import "fmt"

// Extractor is a configured instance of one feature kind. It holds exactly one
// value per declared parameter. Values change only through SetParameter; the
// pipeline works from Freeze snapshots.
type Extractor struct {
	desc   *Descriptor
	values []float64
}

// NewExtractor creates an extractor with every parameter at its default
func NewExtractor(desc *Descriptor) *Extractor {
	return &Extractor{
		desc:   desc,
		values: Defaults(desc.Parameters).values,
	}
}

// Kind of the extractor
func (e *Extractor) Kind() Kind {
	return e.desc.Kind
}

// Descriptor the extractor was created from
func (e *Extractor) Descriptor() *Descriptor {
	return e.desc
}

// SetParameter replaces one declared parameter value
func (e *Extractor) SetParameter(name string, value float64) error {
	for i, spec := range e.desc.Parameters {
		if spec.Name == name {
			e.values[i] = value
			return nil
		}
	}
	return &UnknownParameterError{Kind: e.desc.Kind, Name: name}
}

// Parameter returns the current value of a declared parameter
func (e *Extractor) Parameter(name string) (float64, bool) {
	for i, spec := range e.desc.Parameters {
		if spec.Name == name {
			return e.values[i], true
		}
	}
	return 0, false
}

// Freeze returns a snapshot unaffected by later SetParameter calls
func (e *Extractor) Freeze() Parameters {
	return Parameters{
		specs:  e.desc.Parameters,
		values: append([]float64(nil), e.values...),
	}
}

// Dimension of the extractor's window vector for the given window size
func (e *Extractor) Dimension(windowSize int) int {
	return e.desc.Dimension(windowSize, e.Freeze())
}

// Validate checks the current parameter values against the kind's constraints
func (e *Extractor) Validate() error {
	if e.desc.Validate == nil {
		return nil
	}
	if err := e.desc.Validate(e.Freeze()); err != nil {
		return fmt.Errorf("%s: %w", e.desc.Name, err)
	}
	return nil
}
