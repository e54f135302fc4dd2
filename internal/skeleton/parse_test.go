package skeleton

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partialsFrom(m map[string]string) PartialFunc {
	return func(name string) (string, error) {
		src, ok := m[name]
		if !ok {
			return "", fmt.Errorf("partial %q not found", name)
		}

		return src, nil
	}
}

func TestParse_TextAndPlaceholders(t *testing.T) {
	tmpl, err := Parse("t", "int x = {%DATA%};\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "t", tmpl.Name)
	assert.Equal(t, []Fragment{
		Text("int x = "),
		Placeholder{Name: "DATA"},
		Text(";\n"),
	}, tmpl.Fragments)
}

func TestParse_StandaloneDirectivesConsumeLine(t *testing.T) {
	src := "a\n  {%if NO_GRAD%}\n  b\n  {%else%}\n  c\n  {%end%}\nd\n"

	tmpl, err := Parse("t", src, nil)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Text("a\n"),
		Region{
			Label: "NO_GRAD",
			Body:  []Fragment{Text("  b\n")},
			Else:  []Fragment{Text("  c\n")},
		},
		Text("d\n"),
	}, tmpl.Fragments)
}

func TestParse_InlineRegionKeepsSurroundingText(t *testing.T) {
	tmpl, err := Parse("t", "x{%if A%}y{%end%}z\n", nil)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Text("x"),
		Region{Label: "A", Body: []Fragment{Text("y")}},
		Text("z\n"),
	}, tmpl.Fragments)
}

func TestParse_DirectiveOnLastLineWithoutNewline(t *testing.T) {
	tmpl, err := Parse("t", "{%if A%}\nbody\n{%end%}", nil)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Region{Label: "A", Body: []Fragment{Text("body\n")}},
	}, tmpl.Fragments)
}

func TestParse_NestedRegions(t *testing.T) {
	src := "{%if A%}\n{%if B%}\ninner\n{%end%}\nouter\n{%end%}\n"

	tmpl, err := Parse("t", src, nil)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Region{
			Label: "A",
			Body: []Fragment{
				Region{Label: "B", Body: []Fragment{Text("inner\n")}},
				Text("outer\n"),
			},
		},
	}, tmpl.Fragments)
}

func TestParse_IncludeInlinesPartial(t *testing.T) {
	partials := partialsFrom(map[string]string{
		"header": "#include <torch/script.h>\n",
	})

	tmpl, err := Parse("t", "{%include header%}\nint main;\n", partials)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Text("#include <torch/script.h>\nint main;\n"),
	}, tmpl.Fragments)
}

func TestParse_IncludeWithRegions(t *testing.T) {
	partials := partialsFrom(map[string]string{
		"guard": "{%if NO_GRAD%}\ntorch::NoGradGuard no_grad;\n{%end%}\n",
	})

	tmpl, err := Parse("t", "begin\n{%include guard%}\nend\n", partials)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		Text("begin\n"),
		Region{Label: "NO_GRAD", Body: []Fragment{Text("torch::NoGradGuard no_grad;\n")}},
		Text("end\n"),
	}, tmpl.Fragments)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{name: "unclosed region", src: "x\n{%if A%}\ny", line: 2, msg: `region "A" is never closed`},
		{name: "stray end", src: "x\n{%end%}", line: 2, msg: "end without matching if"},
		{name: "stray else", src: "{%else%}", line: 1, msg: "else outside of a region"},
		{name: "double else", src: "{%if A%}{%else%}\n{%else%}{%end%}", line: 2, msg: `second else in region "A"`},
		{name: "else with argument", src: "{%if A%}\n{%else junk%}{%end%}", line: 2, msg: `else takes no argument, got "junk"`},
		{name: "end with argument", src: "{%if A%}x\n\n{%end A%}", line: 3, msg: `end takes no argument, got "A"`},
		{name: "bad label", src: "{%if lower%}{%end%}", line: 1, msg: `invalid region label "lower"`},
		{name: "missing label", src: "{%if%}{%end%}", line: 1, msg: `invalid region label ""`},
		{name: "unterminated", src: "a\nb {%DATA", line: 2, msg: "unterminated directive"},
		{name: "bad placeholder", src: "{%data%}", line: 1, msg: `invalid directive "data"`},
		{name: "include without partials", src: "{%include x%}", line: 1, msg: "no partials available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("t", tt.src, nil)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "t", perr.Template)
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, perr.Msg, tt.msg)
		})
	}
}

func TestParse_IncludeCycle(t *testing.T) {
	partials := partialsFrom(map[string]string{
		"a": "{%include b%}\n",
		"b": "{%include a%}\n",
	})

	_, err := Parse("t", "{%include a%}\n", partials)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestParse_MissingPartial(t *testing.T) {
	_, err := Parse("t", "{%include nope%}\n", partialsFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `partial "nope" not found`)
}

func TestTemplate_PlaceholdersAndLabels(t *testing.T) {
	tmpl, err := Parse("t", "{%if A%}{%X%}{%if B%}{%Y%}{%end%}{%else%}{%X%}{%Z%}{%end%}{%Y%}", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "Y", "Z"}, tmpl.Placeholders())
	assert.Equal(t, []string{"A", "B"}, tmpl.Labels())
}
