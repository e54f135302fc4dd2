package option

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registry is the immutable, ordered set of recognized options.
type Registry struct {
	options []Option
	index   map[string]int
	groups  []Group
	checks  []Check
}

// NewRegistry validates the declarations and builds a registry. Excludes
// relations are mirrored so that both sides list each other.
func NewRegistry(options []Option, groups []Group, checks []Check) (*Registry, error) {
	r := &Registry{
		index: make(map[string]int, len(options)),
	}

	var errs []error

	for _, o := range options {
		if o.Name == "" {
			errs = append(errs, errors.New("option with empty name"))
			continue
		}

		if _, dup := r.index[o.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate option %q", o.Name))
			continue
		}

		r.index[o.Name] = len(r.options)
		r.options = append(r.options, o.clone())
	}

	for i := range r.options {
		errs = append(errs, r.validateOption(&r.options[i])...)
	}

	for _, g := range groups {
		if len(g.Options) == 0 {
			errs = append(errs, errors.New("group without options"))
		}

		for _, name := range g.Options {
			if _, ok := r.index[name]; !ok {
				errs = append(errs, fmt.Errorf("group references unknown option %q", name))
			}
		}

		if _, ok := r.index[g.When]; g.When != "" && !ok {
			errs = append(errs, fmt.Errorf("group conditioned on unknown option %q", g.When))
		}

		r.groups = append(r.groups, Group{When: g.When, Options: slices.Clone(g.Options), Description: g.Description})
	}

	for _, c := range checks {
		if c.Valid == nil {
			errs = append(errs, fmt.Errorf("check %q has no predicate", c.Message))
		}

		for _, name := range c.Options {
			if _, ok := r.index[name]; !ok {
				errs = append(errs, fmt.Errorf("check %q references unknown option %q", c.Message, name))
			}
		}

		r.checks = append(r.checks, Check{Options: slices.Clone(c.Options), Message: c.Message, Valid: c.Valid})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid option registry: %w", err)
	}

	r.mirrorExcludes()

	return r, nil
}

// MustRegistry is like NewRegistry but panics on invalid declarations.
func MustRegistry(options []Option, groups []Group, checks []Check) *Registry {
	r, err := NewRegistry(options, groups, checks)
	if err != nil {
		panic(err)
	}

	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustRegistry(builtinOptions(), builtinGroups(), builtinChecks())
})

// Default returns the built-in registry. It is built on first use and shared
// read-only afterwards.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup returns the option registered under name.
func (r *Registry) Lookup(name string) (Option, bool) {
	i, ok := r.index[name]
	if !ok {
		return Option{}, false
	}

	return r.options[i].clone(), true
}

// All returns every option in registration order.
func (r *Registry) All() []Option {
	out := make([]Option, len(r.options))
	for i := range r.options {
		out[i] = r.options[i].clone()
	}

	return out
}

// Names returns every option name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.options))
	for i := range r.options {
		out[i] = r.options[i].Name
	}

	return out
}

// Position returns the registration index of name, or -1.
func (r *Registry) Position(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}

	return -1
}

// Groups returns the at-least-one groups in declaration order.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = Group{When: g.When, Options: slices.Clone(g.Options), Description: g.Description}
	}

	return out
}

// Checks returns the cross-option value checks.
func (r *Registry) Checks() []Check {
	out := make([]Check, len(r.checks))
	for i, c := range r.checks {
		out[i] = Check{Options: slices.Clone(c.Options), Message: c.Message, Valid: c.Valid}
	}

	return out
}

func (r *Registry) validateOption(o *Option) []error {
	var errs []error

	switch o.Kind {
	case KindFlag:
		if o.Default != nil {
			if _, ok := o.Default.(bool); !ok {
				errs = append(errs, fmt.Errorf("option %q: flag default must be bool", o.Name))
			}
		}
	case KindChoice:
		if len(o.Choices) == 0 {
			errs = append(errs, fmt.Errorf("option %q: choice without choices", o.Name))
		}

		if o.Default != nil {
			s, ok := o.Default.(string)
			if !ok || !o.IsChoice(s) {
				errs = append(errs, fmt.Errorf("option %q: default %v is not a choice", o.Name, o.Default))
			}
		}
	case KindScalar, KindList:
		if o.Type == 0 {
			errs = append(errs, fmt.Errorf("option %q: %s without value type", o.Name, o.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("option %q: invalid kind %d", o.Name, o.Kind))
	}

	if o.Required && o.Default != nil {
		errs = append(errs, fmt.Errorf("option %q: required option cannot have a default", o.Name))
	}

	for _, dep := range o.Requires {
		target, ok := r.index[dep.Option]
		if !ok {
			errs = append(errs, fmt.Errorf("option %q requires unknown option %q", o.Name, dep.Option))
			continue
		}

		if dep.Option == o.Name {
			errs = append(errs, fmt.Errorf("option %q requires itself", o.Name))
		}

		other := r.options[target]
		for _, v := range dep.Values {
			if other.Kind != KindChoice || !other.IsChoice(v) {
				errs = append(errs, fmt.Errorf("option %q requires %q=%q which is not a legal value", o.Name, dep.Option, v))
			}
		}
	}

	for _, ex := range o.Excludes {
		if _, ok := r.index[ex]; !ok {
			errs = append(errs, fmt.Errorf("option %q excludes unknown option %q", o.Name, ex))
		}

		if ex == o.Name {
			errs = append(errs, fmt.Errorf("option %q excludes itself", o.Name))
		}
	}

	return errs
}

func (r *Registry) mirrorExcludes() {
	for i := range r.options {
		for _, ex := range r.options[i].Excludes {
			j := r.index[ex]
			if !slices.Contains(r.options[j].Excludes, r.options[i].Name) {
				r.options[j].Excludes = append(r.options[j].Excludes, r.options[i].Name)
			}
		}
	}

	for i := range r.options {
		sort.Strings(r.options[i].Excludes)
	}
}
