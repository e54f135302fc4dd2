package skeleton

// Fragment is one node of a template: Text, Placeholder or Region.
type Fragment interface {
	fragment()
}

// Text is literal source copied verbatim.
type Text string

// Placeholder is a named slot filled from the configuration.
type Placeholder struct {
	Name string
}

// Region is a labeled, predicate-gated span. Body is kept when the label's
// predicate holds, Else otherwise.
type Region struct {
	Label string
	Body  []Fragment
	Else  []Fragment
}

func (Text) fragment()        {}
func (Placeholder) fragment() {}
func (Region) fragment()      {}

// Template is a parsed skeleton. Templates are never mutated after parsing.
type Template struct {
	Name      string
	Fragments []Fragment
}

// Placeholders returns the distinct placeholder names referenced anywhere in
// the template, in first-occurrence order.
func (t *Template) Placeholders() []string {
	var out []string

	seen := make(map[string]bool)

	walk(t.Fragments, func(f Fragment) {
		if p, ok := f.(Placeholder); ok && !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	})

	return out
}

// Labels returns the distinct region labels in first-occurrence order.
func (t *Template) Labels() []string {
	var out []string

	seen := make(map[string]bool)

	walk(t.Fragments, func(f Fragment) {
		if r, ok := f.(Region); ok && !seen[r.Label] {
			seen[r.Label] = true
			out = append(out, r.Label)
		}
	})

	return out
}

// walk visits every fragment depth-first, both branches included.
func walk(fragments []Fragment, visit func(Fragment)) {
	for _, f := range fragments {
		visit(f)

		if r, ok := f.(Region); ok {
			walk(r.Body, visit)
			walk(r.Else, visit)
		}
	}
}
