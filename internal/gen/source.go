package gen

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFilename is the name the manifest is written under.
const ManifestFilename = "torchgen.manifest.yaml"

// Manifest records what a synthesis run used.
type Manifest struct {
	// Template is the skeleton the source was rendered from.
	Template string `yaml:"template"`
	// Options are the active options in registry order.
	Options []string `yaml:"options"`
	// Settings are the resolved values of every present option.
	Settings map[string]any `yaml:"settings"`
	// Regions are the kept region labels in the order first reached.
	Regions []string `yaml:"regions"`
	// Dropped are the evaluated but dropped region labels. Regions nested in
	// a dropped branch are in neither list.
	Dropped []string `yaml:"dropped,omitempty"`
}

// GeneratedSource is the result of one synthesis run.
type GeneratedSource struct {
	// Filename is the file the source should be written to.
	Filename string
	// Segments concatenate to the source text.
	Segments []string
	Manifest Manifest
}

// Source returns the complete source text.
func (s *GeneratedSource) Source() string {
	return strings.Join(s.Segments, "")
}

// GeneratedFile represents a file ready to be written.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "main.cpp").
	Filename string
	// Content is the file content.
	Content []byte
}

// Files returns the source file followed by the manifest.
func (s *GeneratedSource) Files() ([]GeneratedFile, error) {
	manifest, err := yaml.Marshal(s.Manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	return []GeneratedFile{
		{Filename: s.Filename, Content: []byte(s.Source())},
		{Filename: ManifestFilename, Content: manifest},
	}, nil
}
