package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"torchgen/internal/option"
	"torchgen/internal/placeholder"
	"torchgen/internal/region"
	"torchgen/internal/resolve"
	"torchgen/internal/skeleton"
)

// Skeleton names.
const (
	LambdaBase64 = "lambda-base64"
	LambdaArray  = "lambda-array"
	Module       = "module"
)

const (
	ext         = ".tmpl"
	partialsDir = "partials"
)

//go:embed templates
var embedded embed.FS

// Catalog is a parsed, cross-checked set of skeletons. It is read-only after
// loading and safe for concurrent use.
type Catalog struct {
	templates    map[string]*skeleton.Template
	selector     *region.Selector
	placeholders *placeholder.Resolver
}

// Load parses the embedded skeletons with the built-in region table and
// placeholder rules.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("opening embedded templates: %w", err)
	}

	return LoadFS(sub, region.NewSelector(Regions()), placeholder.Default())
}

// Default returns the embedded catalog, loaded once. It panics if the
// embedded skeletons are inconsistent, since no synthesis could succeed.
var Default = sync.OnceValue(func() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}

	return c
})

// LoadFS parses every *.tmpl file at the root of fsys as a skeleton; files
// under partials/ are only reachable through include directives.
func LoadFS(fsys fs.FS, selector *region.Selector, placeholders *placeholder.Resolver) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	partials := func(name string) (string, error) {
		data, err := fs.ReadFile(fsys, path.Join(partialsDir, name+ext))
		if err != nil {
			return "", err
		}

		return string(data), nil
	}

	c := &Catalog{
		templates:    make(map[string]*skeleton.Template),
		selector:     selector,
		placeholders: placeholders,
	}

	var errs []error

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}

		name := strings.TrimSuffix(e.Name(), ext)

		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}

		tpl, err := skeleton.Parse(name, string(data), partials)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		errs = append(errs, c.check(tpl)...)
		c.templates[name] = tpl
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if len(c.templates) == 0 {
		return nil, errors.New("no templates found")
	}

	return c, nil
}

// check reports every placeholder or label the template uses without a rule.
func (c *Catalog) check(tpl *skeleton.Template) []error {
	var errs []error

	for _, name := range tpl.Placeholders() {
		if !c.placeholders.Declared(name) {
			errs = append(errs, fmt.Errorf("template %s: %w %q", tpl.Name, placeholder.ErrUndeclared, name))
		}
	}

	for _, label := range tpl.Labels() {
		if !c.selector.Declared(label) {
			errs = append(errs, fmt.Errorf("template %s: %w %q", tpl.Name, region.ErrUndeclared, label))
		}
	}

	return errs
}

// Name returns the skeleton a configuration is rendered with: module for the
// module runtime, otherwise the Lambda skeleton for the input encoding.
func Name(cfg *resolve.Config) string {
	switch {
	case cfg.String(option.Runtime) == option.RuntimeModule:
		return Module
	case cfg.Active(option.InputBase64):
		return LambdaBase64
	default:
		return LambdaArray
	}
}

// Select returns the skeleton for cfg.
func (c *Catalog) Select(cfg *resolve.Config) (*skeleton.Template, error) {
	name := Name(cfg)

	tpl, ok := c.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q is not in the catalog", name)
	}

	return tpl, nil
}

// Template returns a skeleton by name.
func (c *Catalog) Template(name string) (*skeleton.Template, bool) {
	tpl, ok := c.templates[name]

	return tpl, ok
}

// Names returns the skeleton names, sorted.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.templates))
}

// Selector returns the region selector the skeletons were checked against.
func (c *Catalog) Selector() *region.Selector {
	return c.selector
}

// Placeholders returns the placeholder rules the skeletons were checked
// against.
func (c *Catalog) Placeholders() *placeholder.Resolver {
	return c.placeholders
}

// Filename is the file a rendered skeleton is written to.
func Filename(template string) string {
	if template == Module {
		return "torchgen.h"
	}

	return "main.cpp"
}
