package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torchgen/internal/option"
	"torchgen/internal/resolve"
)

func TestScaffold_Resolves(t *testing.T) {
	out, err := Scaffold(option.Default())
	require.NoError(t, err)

	raw, err := Parse(out, FormatYAML, "scaffold.yaml")
	require.NoError(t, err)

	cfg, err := resolve.Resolve(raw.Values)
	require.NoError(t, err, "scaffold:\n%s", out)

	assert.True(t, cfg.Flag(option.InputBase64))
	assert.Equal(t, "int", cfg.String(option.ResultItem))
	assert.Equal(t, option.DefaultModelPath, cfg.String(option.Model))
}

func TestScaffold_MentionsEveryOption(t *testing.T) {
	out, err := Scaffold(option.Default())
	require.NoError(t, err)

	text := string(out)

	for _, o := range option.Default().All() {
		assert.Contains(t, text, o.Description, "option %s", o.Name)
	}

	assert.Contains(t, text, "# array: byte")
	assert.Contains(t, text, "# normalize:")
	assert.Contains(t, text, "#   means: [<number>, ...]")
}

func TestScaffold_Deterministic(t *testing.T) {
	a, err := Scaffold(option.Default())
	require.NoError(t, err)

	b, err := Scaffold(option.Default())
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
}
