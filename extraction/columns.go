package extraction

import (
	"fmt"
	"math"
)

// Column is one numeric output cell of a row
type Column struct {
	Name      string
	Kind      Kind
	Variant   Variant
	Statistic Statistic
	// Index into the kind's vector
	Index int
}

// Layout is the ordered column schema of a pipeline: selected kinds in order,
// each followed by its derivative variants, then statistics, then vector elements.
type Layout struct {
	Columns []Column
}

// Cell is one output value. Missing cells have no value, which is different from zero.
type Cell struct {
	Value   float64
	Missing bool
}

func newLayout(p *Pipeline) *Layout {
	l := &Layout{}
	for _, kind := range p.selected {
		dim := p.dims[kind]
		for _, variant := range p.variants {
			base := p.catalog.Name(kind) + variant.Suffix()
			for _, stat := range p.opts.Statistics {
				for i := 0; i < dim; i++ {
					l.Columns = append(l.Columns, Column{
						Name:      columnName(base, stat, i, dim),
						Kind:      kind,
						Variant:   variant,
						Statistic: stat,
						Index:     i,
					})
				}
			}
		}
	}
	return l
}

// columnName is "<kind> - <statistic>", with a 1-based "#i" suffix for vector kinds
func columnName(kind string, stat Statistic, index, dim int) string {
	name := kind + " - " + stat.String()
	if dim > 1 {
		name += fmt.Sprintf("#%d", index+1)
	}
	return name
}

// Names returns the column headers
func (l *Layout) Names() []string {
	names := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		names[i] = c.Name
	}
	return names
}

// Cells lays a result out in column order
func (l *Layout) Cells(r *Result) []Cell {
	cells := make([]Cell, len(l.Columns))
	for i, c := range l.Columns {
		kr, ok := r.Lookup(c.Kind, c.Variant)
		if !ok || kr.Missing {
			cells[i] = Cell{Missing: true}
			continue
		}
		values := kr.Values[c.Statistic]
		if c.Index >= len(values) || math.IsNaN(values[c.Index]) {
			cells[i] = Cell{Missing: true}
			continue
		}
		cells[i] = Cell{Value: values[c.Index]}
	}
	return cells
}

// MissingRow is the row emitted for an input that could not be processed
func (l *Layout) MissingRow() []Cell {
	cells := make([]Cell, len(l.Columns))
	for i := range cells {
		cells[i].Missing = true
	}
	return cells
}
