package resolve

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"torchgen/internal/diagnostic"
	"torchgen/internal/match"
	"torchgen/internal/option"
)

// ValidationError carries every problem found while resolving settings.
type ValidationError struct {
	Diagnostics diagnostic.Diagnostics
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings (%d problem(s)): %v", len(e.Diagnostics.Errors), e.Diagnostics.Error())
}

// Resolver validates raw settings against a registry.
type Resolver struct {
	registry *option.Registry
}

// NewResolver creates a resolver for the given registry.
func NewResolver(registry *option.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve resolves raw settings against the built-in registry.
func Resolve(raw map[string]any) (*Config, error) {
	return NewResolver(option.Default()).Resolve(raw)
}

// Resolve validates raw (option name -> value) and returns the defaulted
// configuration, or a *ValidationError listing every problem. A nil raw value
// leaves the option unset. The result depends only on raw and the registry,
// never on map iteration order.
func (r *Resolver) Resolve(raw map[string]any) (*Config, error) {
	res := &diagnostic.Diagnostics{}
	values := make(map[string]any, len(raw))
	// broken options had a bad value; relation checks skip them so a single
	// mistake is reported once.
	broken := make(map[string]bool)

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		o, ok := r.registry.Lookup(name)
		if !ok {
			res.AddErrorWithSuggestions(diagnostic.CodeUnknownOption,
				fmt.Sprintf("unknown option %q", name), name,
				match.Suggest(name, r.registry.Names(), match.DefaultMinScore, match.DefaultMaxSuggestions))

			continue
		}

		if raw[name] == nil {
			continue
		}

		v, p := coerce(o, raw[name])
		if p != nil {
			res.AddErrorWithSuggestions(p.code, p.message, name, p.suggestions)
			broken[name] = true

			continue
		}

		values[name] = v
	}

	for _, o := range r.registry.All() {
		if _, ok := values[o.Name]; ok || broken[o.Name] {
			continue
		}

		switch {
		case o.HasDefault():
			values[o.Name] = o.Default
		case o.Required:
			res.AddError(diagnostic.CodeMissingOption, "required option is not set", o.Name, "")
		}
	}

	cfg := &Config{registry: r.registry, values: values}
	r.checkConstraints(cfg, broken, res)

	if res.HasErrors() {
		return nil, &ValidationError{Diagnostics: *res}
	}

	return cfg, nil
}

func (r *Resolver) checkConstraints(cfg *Config, broken map[string]bool, res *diagnostic.Diagnostics) {
	active := func(name string) bool { return cfg.Active(name) }

	for _, o := range r.registry.All() {
		if !active(o.Name) {
			continue
		}

		for _, dep := range o.Requires {
			if broken[dep.Option] {
				continue
			}

			if !active(dep.Option) {
				res.AddError(diagnostic.CodeConstraintViolation,
					fmt.Sprintf("%s requires %s", o.Name, describeDependency(dep)), o.Name, dep.Option)

				continue
			}

			if len(dep.Values) > 0 && !slices.Contains(dep.Values, cfg.String(dep.Option)) {
				res.AddError(diagnostic.CodeConstraintViolation,
					fmt.Sprintf("%s requires %s, got %q", o.Name, describeDependency(dep), cfg.String(dep.Option)),
					o.Name, dep.Option)
			}
		}

		for _, ex := range o.Excludes {
			// Excludes are symmetric; report each pair once.
			if r.registry.Position(ex) < r.registry.Position(o.Name) || !active(ex) {
				continue
			}

			res.AddError(diagnostic.CodeConstraintViolation,
				fmt.Sprintf("%s and %s are mutually exclusive", o.Name, ex), o.Name, ex)
		}
	}

	for _, g := range r.registry.Groups() {
		if g.When != "" && !active(g.When) {
			continue
		}

		if slices.ContainsFunc(g.Options, func(name string) bool { return active(name) || broken[name] }) {
			continue
		}

		subject, related := g.When, strings.Join(g.Options, ", ")
		if subject == "" {
			subject, related = g.Options[0], strings.Join(g.Options[1:], ", ")
		}

		res.AddError(diagnostic.CodeConstraintViolation,
			fmt.Sprintf("%s: set one of %s", g.Description, strings.Join(g.Options, ", ")), subject, related)
	}

	lookup := func(name string) (any, bool) {
		if !active(name) {
			return nil, false
		}

		return cfg.Value(name)
	}

	for _, c := range r.registry.Checks() {
		if !slices.ContainsFunc(c.Options, func(name string) bool { return !active(name) }) && !c.Valid(lookup) {
			res.AddError(diagnostic.CodeConstraintViolation, c.Message, c.Options[0], strings.Join(c.Options[1:], ", "))
		}
	}
}

func describeDependency(dep option.Dependency) string {
	if len(dep.Values) == 0 {
		return dep.Option
	}

	return fmt.Sprintf("%s in [%s]", dep.Option, strings.Join(dep.Values, ", "))
}
