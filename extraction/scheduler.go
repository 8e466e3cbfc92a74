package extraction

// Schedule orders the requested kinds and all their transitive dependencies so
// that every kind comes after the kinds it depends on. The order is deterministic
// for a given request order: a depth-first walk that emits dependencies first.
// Dependencies that were not requested are added.
func Schedule(catalog *Catalog, requested []Kind) ([]Kind, error) {
	s := &scheduler{
		catalog: catalog,
		done:    make(map[Kind]bool),
		onPath:  make(map[Kind]bool),
	}
	for _, kind := range requested {
		if err := s.visit(kind); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

type scheduler struct {
	catalog *Catalog
	done    map[Kind]bool
	onPath  map[Kind]bool
	path    []Kind
	order   []Kind
}

func (s *scheduler) visit(kind Kind) error {
	if s.done[kind] {
		return nil
	}
	if s.onPath[kind] {
		return &CyclicDependencyError{Path: s.cyclePath(kind)}
	}

	desc, err := s.catalog.Lookup(kind)
	if err != nil {
		return err
	}

	s.onPath[kind] = true
	s.path = append(s.path, kind)
	for _, dep := range desc.Dependencies {
		if err := s.visit(dep.Kind); err != nil {
			return err
		}
	}
	s.path = s.path[:len(s.path)-1]
	s.onPath[kind] = false

	s.done[kind] = true
	s.order = append(s.order, kind)
	return nil
}

// cyclePath returns the path segment from the first visit of kind back to kind
func (s *scheduler) cyclePath(kind Kind) []Kind {
	for i, k := range s.path {
		if k == kind {
			cycle := append([]Kind(nil), s.path[i:]...)
			return append(cycle, kind)
		}
	}
	return []Kind{kind}
}

// HistoryDepth is how many earlier windows kind reaches back through its
// dependencies, directly or transitively. Under the strict lag policy the
// first HistoryDepth windows of a kind have no value.
func HistoryDepth(catalog *Catalog, kind Kind) (int, error) {
	order, err := Schedule(catalog, []Kind{kind})
	if err != nil {
		return 0, err
	}

	// dependencies come before their dependents in order
	depth := make(map[Kind]int, len(order))
	for _, k := range order {
		desc, err := catalog.Lookup(k)
		if err != nil {
			return 0, err
		}
		for _, dep := range desc.Dependencies {
			depth[k] = max(depth[k], depth[dep.Kind]-dep.Lag)
		}
	}
	return depth[kind], nil
}
