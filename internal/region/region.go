package region

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"torchgen/internal/resolve"
)

// ErrUndeclared is returned for a label with no predicate. It means the
// template and the region table disagree, which is a generator defect.
var ErrUndeclared = errors.New("undeclared region")

// Predicate decides whether a region is kept.
type Predicate func(cfg *resolve.Config) bool

// Active holds when the option is present and, for flags, true.
func Active(name string) Predicate {
	return func(cfg *resolve.Config) bool {
		return cfg.Active(name)
	}
}

// Dynamic holds when at least one input dimension is read from the request.
func Dynamic() Predicate {
	return func(cfg *resolve.Config) bool {
		return !cfg.Static()
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(cfg *resolve.Config) bool {
		return !p(cfg)
	}
}

// All holds when every predicate holds. All() is true.
func All(ps ...Predicate) Predicate {
	return func(cfg *resolve.Config) bool {
		for _, p := range ps {
			if !p(cfg) {
				return false
			}
		}

		return true
	}
}

// Any holds when at least one predicate holds. Any() is false.
func Any(ps ...Predicate) Predicate {
	return func(cfg *resolve.Config) bool {
		for _, p := range ps {
			if p(cfg) {
				return true
			}
		}

		return false
	}
}

// Selector evaluates a fixed label table. It is safe for concurrent use.
type Selector struct {
	predicates map[string]Predicate
}

// NewSelector copies the table; later changes to it have no effect.
func NewSelector(table map[string]Predicate) *Selector {
	return &Selector{predicates: maps.Clone(table)}
}

// IsActive reports whether the region labeled label is kept for cfg.
func (s *Selector) IsActive(label string, cfg *resolve.Config) (bool, error) {
	p, ok := s.predicates[label]
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUndeclared, label)
	}

	return p(cfg), nil
}

// Declared reports whether label has a predicate.
func (s *Selector) Declared(label string) bool {
	_, ok := s.predicates[label]

	return ok
}

// Labels returns the declared labels, sorted.
func (s *Selector) Labels() []string {
	return slices.Sorted(maps.Keys(s.predicates))
}
