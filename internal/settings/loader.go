package settings

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"torchgen/internal/diagnostic"
	"torchgen/internal/option"
)

// Format is a settings document syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatHCL:
		return "hcl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks a format by file extension; unknown extensions are
// read as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	default:
		return FormatYAML
	}
}

// Document is a loaded settings file.
type Document struct {
	// Values maps dotted option names to raw values, ready for the resolver.
	Values map[string]any
	// Diagnostics holds warnings and notes about how the file was read. A
	// loaded document never carries errors.
	Diagnostics diagnostic.Diagnostics
}

// LoadFile loads and flattens a settings file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	doc, err := Parse(data, FormatFromPath(path), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes a settings document, flattens it, translates the legacy
// layout and drops sections set to null. filename is only used in HCL error
// messages.
func Parse(data []byte, format Format, filename string) (*Document, error) {
	var (
		tree map[string]any
		err  error
	)

	switch format {
	case FormatHCL:
		tree, err = decodeHCL(data, filename)
	default:
		// JSON is a subset of YAML.
		tree, err = decodeYAML(data)
	}

	if err != nil {
		return nil, err
	}

	flat, err := Flatten(tree)
	if err != nil {
		return nil, err
	}

	doc := &Document{}

	if IsLegacy(flat) {
		warnLegacy(flat, &doc.Diagnostics)

		if flat, err = Translate(flat); err != nil {
			return nil, err
		}
	}

	unsetNullSections(flat, option.Default(), &doc.Diagnostics)
	doc.Values = flat

	return doc, nil
}

// unsetNullSections removes sections given as null ("normalize: null"), which
// leave every option of the section unset.
func unsetNullSections(flat map[string]any, reg *option.Registry, diags *diagnostic.Diagnostics) {
	sections := make(map[string]bool)

	for _, name := range reg.Names() {
		if section, _, nested := strings.Cut(name, "."); nested {
			sections[section] = true
		}
	}

	for _, name := range slices.Sorted(maps.Keys(flat)) {
		if flat[name] != nil || !sections[name] {
			continue
		}

		delete(flat, name)
		diags.AddInfo(diagnostic.CodeSectionUnset, "section is null, its options stay unset", name, "")
	}
}

func decodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	return doc, nil
}
