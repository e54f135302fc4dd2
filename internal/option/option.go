package option

import "slices"

// Option is one named configuration axis.
type Option struct {
	// Name is the unique dotted key, e.g. "input.shape".
	Name string
	Kind Kind
	// Type is the scalar type, or the element type of a list.
	Type ValueType
	// Choices lists the legal values of a KindChoice option.
	Choices []string
	// Default is applied when the option is absent. Nil means the option
	// stays absent unless supplied.
	Default any
	// Required options must be supplied.
	Required bool
	// MinLen is the minimum number of elements of a KindList option.
	MinLen int
	// Requires lists the options that must be active whenever this one is.
	Requires []Dependency
	// Excludes lists the options that must not be active together with this
	// one. The registry makes the relation symmetric.
	Excludes    []string
	Description string
}

// Dependency is one requires-relation target.
type Dependency struct {
	Option string
	// Values restricts the dependency to these values of a choice option.
	// Empty means any active value.
	Values []string
}

// Group requires at least one of its options to be active. When set, the
// group only applies while the When option is active.
type Group struct {
	When        string
	Options     []string
	Description string
}

// Lookup returns the resolved value of an option and whether it is active.
type Lookup func(name string) (any, bool)

// Check is a value-level constraint across options. It is evaluated only
// when all of its options are active.
type Check struct {
	Options []string
	Message string
	Valid   func(get Lookup) bool
}

// IsChoice reports whether value is one of the option's choices.
func (o Option) IsChoice(value string) bool {
	return slices.Contains(o.Choices, value)
}

// HasDefault reports whether the option is defaulted when absent.
func (o Option) HasDefault() bool {
	return o.Default != nil
}

func (o Option) clone() Option {
	o.Choices = slices.Clone(o.Choices)
	o.Excludes = slices.Clone(o.Excludes)

	o.Requires = slices.Clone(o.Requires)
	for i := range o.Requires {
		o.Requires[i].Values = slices.Clone(o.Requires[i].Values)
	}

	if list, ok := o.Default.([]any); ok {
		o.Default = slices.Clone(list)
	}

	return o
}
