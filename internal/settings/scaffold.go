package settings

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"torchgen/internal/option"
)

// scaffoldSamples are the values written for options that have no default
// but are needed for the scaffold to resolve.
var scaffoldSamples = map[string]any{
	option.InputBase64:      true,
	option.InputShape:       []any{1, 3, 224, 224},
	option.InputCast:        "float",
	option.InputDivide:      255,
	option.ResultItem:       "int",
	option.ResultOperations: []any{"argmax"},
}

type section struct {
	name    string
	node    *yaml.Node
	pending []string
}

// Scaffold renders a commented settings document listing every option of
// reg. Options with a default or a sample value are written out; the others
// are left as comments. The result resolves as is.
func Scaffold(reg *option.Registry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	top := &section{node: root}
	sections := map[string]*section{"": top}
	order := []*section{top}

	for _, o := range reg.All() {
		prefix, leaf, nested := strings.Cut(o.Name, ".")
		if !nested {
			leaf, prefix = prefix, ""
		}

		sec, ok := sections[prefix]
		if !ok {
			sec = &section{name: prefix, node: &yaml.Node{Kind: yaml.MappingNode}}
			sections[prefix] = sec
			order = append(order, sec)
		}

		value, live := scaffoldSamples[o.Name]
		if !live && o.HasDefault() {
			value, live = o.Default, true
		}

		help := describeOption(o)

		if !live {
			sec.pending = append(sec.pending, help...)
			sec.pending = append(sec.pending, fmt.Sprintf("# %s: %s", leaf, placeholderValue(o)))

			continue
		}

		if err := sec.add(leaf, value, help); err != nil {
			return nil, fmt.Errorf("option %s: %w", o.Name, err)
		}
	}

	for _, sec := range order[1:] {
		if len(sec.node.Content) == 0 {
			// Nothing active in this section: keep it as a comment block.
			top.pending = append(top.pending, "# "+sec.name+":")
			for _, line := range sec.pending {
				top.pending = append(top.pending, "#   "+strings.TrimPrefix(line, "# "))
			}

			continue
		}

		sec.flush()

		key := &yaml.Node{Kind: yaml.ScalarNode, Value: sec.name}
		if len(top.pending) > 0 {
			key.HeadComment = strings.Join(top.pending, "\n")
			top.pending = nil
		}

		root.Content = append(root.Content, key, sec.node)
	}

	top.flush()

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *section) add(leaf string, value any, help []string) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return err
	}

	if v.Kind == yaml.SequenceNode {
		v.Style = yaml.FlowStyle
	}

	key := &yaml.Node{
		Kind:        yaml.ScalarNode,
		Value:       leaf,
		HeadComment: strings.Join(append(s.pending, help...), "\n"),
	}
	s.pending = nil
	s.node.Content = append(s.node.Content, key, &v)

	return nil
}

// flush attaches leftover comment lines below the last key.
func (s *section) flush() {
	if len(s.pending) == 0 || len(s.node.Content) == 0 {
		return
	}

	last := s.node.Content[len(s.node.Content)-2]
	last.FootComment = strings.Join(s.pending, "\n")
	s.pending = nil
}

func describeOption(o option.Option) []string {
	lines := []string{"# " + o.Description}

	if len(o.Choices) > 0 {
		lines = append(lines, "# one of: "+strings.Join(o.Choices, ", "))
	}

	if o.Required {
		lines = append(lines, "# required")
	}

	return lines
}

func placeholderValue(o option.Option) string {
	switch {
	case o.Kind == option.KindChoice:
		return o.Choices[0]
	case o.Kind == option.KindList:
		return "[<" + o.Type.String() + ">, ...]"
	default:
		return "<" + o.Type.String() + ">"
	}
}
