package resolve

import (
	"fmt"
	"slices"

	"torchgen/internal/option"
)

// Config is a validated, defaulted binding of options for one synthesis run.
// It is read-only; accessors return copies of list values.
//
// Accessors panic when asked for an option the registry does not declare or
// with the wrong kind; that is a generator defect, not a settings error.
type Config struct {
	registry *option.Registry
	values   map[string]any
}

// Registry returns the registry the configuration was resolved against.
func (c *Config) Registry() *option.Registry {
	return c.registry
}

// Has reports whether the option is present (supplied or defaulted).
func (c *Config) Has(name string) bool {
	c.mustOption(name)
	_, ok := c.values[name]

	return ok
}

// Active reports whether the option is present and, for flags, true.
func (c *Config) Active(name string) bool {
	o := c.mustOption(name)

	v, ok := c.values[name]
	if !ok {
		return false
	}

	if o.Kind == option.KindFlag {
		return v.(bool)
	}

	return true
}

// Value returns the canonical value of a present option.
func (c *Config) Value(name string) (any, bool) {
	c.mustOption(name)

	v, ok := c.values[name]
	if list, isList := v.([]any); isList {
		return slices.Clone(list), ok
	}

	return v, ok
}

// Flag returns the value of a flag option.
func (c *Config) Flag(name string) bool {
	c.mustKind(name, option.KindFlag)
	v, _ := c.values[name].(bool)

	return v
}

// String returns a string scalar or choice, or "" when absent.
func (c *Config) String(name string) string {
	c.mustKind(name, option.KindScalar, option.KindChoice)
	v, _ := c.values[name].(string)

	return v
}

// Number returns a number scalar, or 0 when absent.
func (c *Config) Number(name string) float64 {
	c.mustKind(name, option.KindScalar)
	v, _ := c.values[name].(float64)

	return v
}

// List returns a copy of a list option, or nil when absent.
func (c *Config) List(name string) []any {
	c.mustKind(name, option.KindList)
	v, _ := c.values[name].([]any)

	return slices.Clone(v)
}

// Strings returns the string elements of a list option.
func (c *Config) Strings(name string) []string {
	var out []string

	for _, e := range c.List(name) {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// Numbers returns a number list option as float64 values.
func (c *Config) Numbers(name string) []float64 {
	var out []float64

	for _, e := range c.List(name) {
		if f, ok := e.(float64); ok {
			out = append(out, f)
		}
	}

	return out
}

// Snapshot returns a copy of every present option value, keyed by name.
func (c *Config) Snapshot() map[string]any {
	out := make(map[string]any, len(c.values))
	for name := range c.values {
		out[name], _ = c.Value(name)
	}

	return out
}

// ActiveNames returns the active options in registry order.
func (c *Config) ActiveNames() []string {
	var out []string

	for _, name := range c.registry.Names() {
		if c.Active(name) {
			out = append(out, name)
		}
	}

	return out
}

// Static reports whether every input dimension is fixed at generation time.
func (c *Config) Static() bool {
	return len(c.ShapeFields()) == 0
}

// ShapeFields returns the request fields that carry input dimensions, in
// shape order.
func (c *Config) ShapeFields() []string {
	return c.Strings(option.InputShape)
}

func (c *Config) mustOption(name string) option.Option {
	o, ok := c.registry.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("resolve: option %q is not registered", name))
	}

	return o
}

func (c *Config) mustKind(name string, kinds ...option.Kind) {
	o := c.mustOption(name)
	if !slices.Contains(kinds, o.Kind) {
		panic(fmt.Sprintf("resolve: option %q is a %s", name, o.Kind))
	}
}
