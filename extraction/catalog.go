package extraction

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Dependency is a kind whose value another kind consumes.
// Lag 0 is the same window, lag -k the window k positions earlier.
type Dependency struct {
	Kind Kind
	Lag  int
}

// ParameterSpec declares one named numeric parameter and its default
type ParameterSpec struct {
	Name    string  `json:"name"`
	Default float64 `json:"default"`
}

// DimensionFunc returns the length of a kind's window vector
type DimensionFunc func(windowSize int, p Parameters) int

// ComputeFunc computes a kind's value for one window. deps holds the
// dependency values in declaration order and is nil for kinds without dependencies.
type ComputeFunc func(w Window, deps [][]float64, p Parameters) ([]float64, error)

// Descriptor describes how to compute one feature kind
type Descriptor struct {
	Kind         Kind
	Name         string
	Description  string
	Dependencies []Dependency
	Parameters   []ParameterSpec
	Dimension    DimensionFunc
	Compute      ComputeFunc
	// Validate rejects parameter values the kind cannot compute with; optional
	Validate func(p Parameters) error
	// MinWindowSize is the smallest window the kind can compute on, 0 for any
	MinWindowSize int
}

// Catalog maps kinds to their descriptors. A Catalog is populated before use and
// only read afterwards, so it may be shared between goroutines once built.
type Catalog struct {
	descriptors map[Kind]*Descriptor
	byName      map[string]Kind
	order       []Kind
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		descriptors: make(map[Kind]*Descriptor),
		byName:      make(map[string]Kind),
	}
}

// NewDefaultCatalog creates a catalog holding every built-in kind
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, register := range []func(*Catalog) error{
		registerSpectralKinds,
		registerTemporalKinds,
		registerTonalKinds,
		registerBeatKinds,
	} {
		if err := register(c); err != nil {
			panic(fmt.Sprintf("built-in feature catalog: %v", err))
		}
	}
	return c
}

// Register adds a descriptor. Dependency cycles are not checked here;
// they surface when the kinds are scheduled.
func (c *Catalog) Register(desc Descriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("kind %d has no name", int(desc.Kind))
	}
	if desc.Compute == nil || desc.Dimension == nil {
		return fmt.Errorf("kind %s has no compute or dimension function", desc.Name)
	}
	if _, exists := c.descriptors[desc.Kind]; exists {
		return fmt.Errorf("kind %s (id %d) already registered", desc.Name, int(desc.Kind))
	}
	key := normalizeName(desc.Name)
	if _, exists := c.byName[key]; exists {
		return fmt.Errorf("kind name %q already registered", desc.Name)
	}
	for _, dep := range desc.Dependencies {
		if dep.Lag > 0 {
			return fmt.Errorf("%s depends on %s at lag %d: %w", desc.Name, dep.Kind, dep.Lag, ErrPositiveLag)
		}
	}

	d := desc
	d.Dependencies = append([]Dependency(nil), desc.Dependencies...)
	d.Parameters = append([]ParameterSpec(nil), desc.Parameters...)

	c.descriptors[d.Kind] = &d
	c.byName[key] = d.Kind
	if id, ok := kindIDs[d.Kind]; ok {
		c.byName[normalizeName(id)] = d.Kind
	}
	c.order = append(c.order, d.Kind)
	return nil
}

// Lookup returns the descriptor of a registered kind
func (c *Catalog) Lookup(kind Kind) (*Descriptor, error) {
	desc, ok := c.descriptors[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return desc, nil
}

// LookupName resolves a kind by its display name or its identifier,
// ignoring case, spaces and underscores.
func (c *Catalog) LookupName(name string) (Kind, error) {
	kind, ok := c.byName[normalizeName(name)]
	if !ok {
		return 0, &UnknownKindError{Kind: -1, Name: name}
	}
	return kind, nil
}

// Name returns the display name of a kind, or its identifier if unregistered
func (c *Catalog) Name(kind Kind) string {
	if desc, ok := c.descriptors[kind]; ok {
		return desc.Name
	}
	return kind.String()
}

// Kinds lists registered kinds ordered by id
func (c *Catalog) Kinds() []Kind {
	kinds := append([]Kind(nil), c.order...)
	slices.Sort(kinds)
	return kinds
}

// NewExtractor creates an extractor with default parameters
func (c *Catalog) NewExtractor(kind Kind) (*Extractor, error) {
	desc, err := c.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return NewExtractor(desc), nil
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Parameters is an immutable snapshot of an extractor's parameter values
type Parameters struct {
	specs  []ParameterSpec
	values []float64
}

// Get returns a parameter value, or NaN if the name is not declared
func (p Parameters) Get(name string) float64 {
	for i, spec := range p.specs {
		if spec.Name == name {
			return p.values[i]
		}
	}
	return math.NaN()
}

// Int returns a parameter rounded to the nearest integer
func (p Parameters) Int(name string) int {
	v := p.Get(name)
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}

// Len is the number of declared parameters
func (p Parameters) Len() int {
	return len(p.specs)
}

// Values returns a copy of the values in declaration order
func (p Parameters) Values() []float64 {
	return append([]float64(nil), p.values...)
}

// Defaults builds the parameter snapshot of a kind with every value at its default
func Defaults(specs []ParameterSpec) Parameters {
	values := make([]float64, len(specs))
	for i, spec := range specs {
		values[i] = spec.Default
	}
	return Parameters{specs: specs, values: values}
}
