package extraction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned when a feature kind is not registered in the catalog
	ErrUnknownKind = errors.New("unknown feature kind")
	// ErrCyclicDependency is returned when the dependency graph of the requested kinds has a cycle
	ErrCyclicDependency = errors.New("cyclic feature dependency")
	// ErrMissingHistory is returned when a dependency value for an earlier window does not exist
	ErrMissingHistory = errors.New("missing history for lagged dependency")
	// ErrEmptyHistory is returned when aggregating a history with no windows
	ErrEmptyHistory = errors.New("empty history")
	// ErrInvalidStatisticSet is returned when no aggregation statistic is selected
	ErrInvalidStatisticSet = errors.New("no aggregation statistic selected")
	// ErrDimensionMismatch is returned when window vectors of one kind differ in length
	ErrDimensionMismatch = errors.New("window vector dimension mismatch")
	// ErrInvalidWindow is returned for a non-positive window size or an overlap outside 0-99
	ErrInvalidWindow = errors.New("invalid window configuration")
	// ErrUnknownParameter is returned when setting a parameter a kind does not declare
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrPositiveLag is returned when registering a dependency on a future window
	ErrPositiveLag = errors.New("dependency lag must not be positive")
)

// UnknownKindError names the kind that could not be resolved
type UnknownKindError struct {
	Kind Kind
	Name string
}

func (e *UnknownKindError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %q", ErrUnknownKind, e.Name)
	}
	return fmt.Sprintf("%s: id %d", ErrUnknownKind, int(e.Kind))
}

func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// CyclicDependencyError carries the dependency path that closes the cycle
type CyclicDependencyError struct {
	Path []Kind
}

func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Path))
	for i, k := range e.Path {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(names, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// MissingHistoryError identifies the window and dependency that had no value
type MissingHistoryError struct {
	Kind       Kind
	Dependency Kind
	Lag        int
	Window     int
}

func (e *MissingHistoryError) Error() string {
	return fmt.Sprintf("%s: %s needs %s at lag %d in window %d",
		ErrMissingHistory, e.Kind, e.Dependency, e.Lag, e.Window)
}

func (e *MissingHistoryError) Unwrap() error { return ErrMissingHistory }

// DimensionMismatchError reports the first window whose vector length differs
type DimensionMismatchError struct {
	Window   int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: window %d has %d values, expected %d",
		ErrDimensionMismatch, e.Window, e.Actual, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// UnknownParameterError names the parameter a kind does not declare
type UnknownParameterError struct {
	Kind Kind
	Name string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("%s %q for %s", ErrUnknownParameter, e.Name, e.Kind)
}

func (e *UnknownParameterError) Unwrap() error { return ErrUnknownParameter }
