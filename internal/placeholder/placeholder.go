package placeholder

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"torchgen/internal/resolve"
)

// ErrUndeclared is returned for a placeholder name with no rule. It means a
// template references something the generator does not know, which is a
// generator defect rather than a settings problem.
var ErrUndeclared = errors.New("undeclared placeholder")

// Category classifies how a placeholder is resolved.
type Category int

const (
	CategoryScalar Category = iota
	CategoryList
	CategoryDerived
)

func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryList:
		return "list"
	case CategoryDerived:
		return "derived"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Func renders one placeholder for a configuration.
type Func func(cfg *resolve.Config) string

type rule struct {
	category Category
	render   Func
}

// Resolver maps placeholder names to rendering rules. It holds no per-run
// state and is safe for concurrent use.
type Resolver struct {
	rules map[string]rule
}

// New returns a resolver with the built-in placeholders.
func New() *Resolver {
	r := &Resolver{rules: make(map[string]rule)}

	for name, fn := range scalars() {
		r.rules[name] = rule{category: CategoryScalar, render: fn}
	}

	for name, fn := range lists() {
		r.rules[name] = rule{category: CategoryList, render: fn}
	}

	for name, fn := range derived() {
		r.rules[name] = rule{category: CategoryDerived, render: fn}
	}

	return r
}

// Default returns the process-wide built-in resolver.
var Default = sync.OnceValue(New)

// Resolve renders the placeholder name for cfg.
func (r *Resolver) Resolve(name string, cfg *resolve.Config) (string, error) {
	ru, ok := r.rules[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUndeclared, name)
	}

	return ru.render(cfg), nil
}

// Category returns the category of a declared placeholder.
func (r *Resolver) Category(name string) (Category, bool) {
	ru, ok := r.rules[name]

	return ru.category, ok
}

// Declared reports whether name has a rule.
func (r *Resolver) Declared(name string) bool {
	_, ok := r.rules[name]

	return ok
}

// Names returns every declared placeholder, sorted.
func (r *Resolver) Names() []string {
	return slices.Sorted(maps.Keys(r.rules))
}
