package gen

import (
	"fmt"

	"torchgen/internal/catalog"
	"torchgen/internal/option"
	"torchgen/internal/resolve"
)

// Banner is prepended to generated source when GeneratorConfig.Banner is set.
const Banner = "/* Code generated by torchgen. DO NOT EDIT. */\n\n"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Banner prepends a "do not edit" comment to the source.
	Banner bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Banner: true}
}

// Generator runs the whole pipeline: resolve settings, select a skeleton,
// assemble it. The registry and catalog it uses are read-only, so one
// Generator can serve concurrent runs.
type Generator struct {
	config    GeneratorConfig
	resolver  *resolve.Resolver
	catalog   *catalog.Catalog
	assembler *Assembler
}

// NewGenerator creates a Generator over the built-in registry and the
// embedded catalog.
func NewGenerator(config GeneratorConfig) *Generator {
	return NewGeneratorWith(config, resolve.NewResolver(option.Default()), catalog.Default())
}

// NewGeneratorWith creates a Generator over an explicit resolver and catalog.
func NewGeneratorWith(config GeneratorConfig, resolver *resolve.Resolver, cat *catalog.Catalog) *Generator {
	return &Generator{
		config:    config,
		resolver:  resolver,
		catalog:   cat,
		assembler: NewAssembler(cat.Selector(), cat.Placeholders()),
	}
}

// Synthesize resolves raw settings and generates source from them. Invalid
// settings return a *resolve.ValidationError and no source.
func (g *Generator) Synthesize(raw map[string]any) (*GeneratedSource, error) {
	cfg, err := g.resolver.Resolve(raw)
	if err != nil {
		return nil, err
	}

	return g.Generate(cfg)
}

// Generate renders the skeleton selected for cfg.
func (g *Generator) Generate(cfg *resolve.Config) (*GeneratedSource, error) {
	tpl, err := g.catalog.Select(cfg)
	if err != nil {
		return nil, fmt.Errorf("selecting template: %w", err)
	}

	src, err := g.assembler.Assemble(tpl, cfg)
	if err != nil {
		return nil, err
	}

	src.Filename = catalog.Filename(tpl.Name)

	if g.config.Banner {
		src.Segments = append([]string{Banner}, src.Segments...)
	}

	return src, nil
}
