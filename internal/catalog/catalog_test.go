package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torchgen/internal/option"
	"torchgen/internal/placeholder"
	"torchgen/internal/region"
	"torchgen/internal/resolve"
	"torchgen/internal/skeleton"
)

func loadMap(t *testing.T, files map[string]string) (*Catalog, error) {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}

	return LoadFS(fsys, region.NewSelector(Regions()), placeholder.New())
}

func TestDefault_LoadsEmbeddedSkeletons(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{LambdaArray, LambdaBase64, Module}, c.Names())

	for _, name := range c.Names() {
		tpl, ok := c.Template(name)
		require.True(t, ok)
		assert.NotEmpty(t, tpl.Fragments, name)
		assert.Contains(t, tpl.Placeholders(), placeholder.Tensor, name)
	}
}

func TestDefault_EveryRegionIsUsed(t *testing.T) {
	c := Default()
	used := map[string]bool{}

	for _, name := range c.Names() {
		tpl, _ := c.Template(name)
		for _, label := range tpl.Labels() {
			used[label] = true
		}
	}

	for _, label := range c.Selector().Labels() {
		assert.True(t, used[label], "region %s is declared but no skeleton uses it", label)
	}
}

func TestDefault_ValidateShapeNestedInDynamicShape(t *testing.T) {
	var walk func(fragments []skeleton.Fragment, inDynamic bool) int

	walk = func(fragments []skeleton.Fragment, inDynamic bool) int {
		found := 0

		for _, f := range fragments {
			r, ok := f.(skeleton.Region)
			if !ok {
				continue
			}

			if r.Label == LabelValidateShape {
				assert.True(t, inDynamic, "VALIDATE_SHAPE outside DYNAMIC_SHAPE")
				found++
			}

			nested := inDynamic || r.Label == LabelDynamicShape
			found += walk(r.Body, nested) + walk(r.Else, nested)
		}

		return found
	}

	for _, name := range Default().Names() {
		tpl, _ := Default().Template(name)
		assert.Positive(t, walk(tpl.Fragments, false), name)
	}
}

func TestSelect(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			name: "base64 lambda",
			raw:  map[string]any{option.InputBase64: true},
			want: LambdaBase64,
		},
		{
			name: "array lambda",
			raw:  map[string]any{option.InputArray: "float"},
			want: LambdaArray,
		},
		{
			name: "module runtime",
			raw:  map[string]any{option.InputArray: "float", option.Runtime: option.RuntimeModule},
			want: Module,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{
				option.InputShape:  []any{1, 4},
				option.OutputArray: "double",
			}
			for k, v := range tt.raw {
				raw[k] = v
			}

			cfg, err := resolve.Resolve(raw)
			require.NoError(t, err)

			assert.Equal(t, tt.want, Name(cfg))

			tpl, err := c.Select(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tpl.Name)
		})
	}
}

func TestSelect_MissingSkeleton(t *testing.T) {
	c, err := loadMap(t, map[string]string{"lambda-array.tmpl": "{%TENSOR%}\n"})
	require.NoError(t, err)

	cfg, err := resolve.Resolve(map[string]any{
		option.InputBase64: true,
		option.InputShape:  []any{1, 4},
		option.OutputArray: "double",
	})
	require.NoError(t, err)

	_, err = c.Select(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LambdaBase64)
}

func TestLoadFS(t *testing.T) {
	t.Run("partials are not skeletons", func(t *testing.T) {
		c, err := loadMap(t, map[string]string{
			"a.tmpl":          "{%include p%}\n",
			"partials/p.tmpl": "{%DATA%}\n",
			"notes.txt":       "ignored",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, c.Names())
	})

	t.Run("undeclared placeholder", func(t *testing.T) {
		_, err := loadMap(t, map[string]string{"a.tmpl": "{%NOT_A_PLACEHOLDER%}"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, placeholder.ErrUndeclared))
		assert.Contains(t, err.Error(), "NOT_A_PLACEHOLDER")
	})

	t.Run("undeclared region", func(t *testing.T) {
		_, err := loadMap(t, map[string]string{"a.tmpl": "{%if NOT_A_REGION%}x{%end%}"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, region.ErrUndeclared))
	})

	t.Run("every problem reported", func(t *testing.T) {
		_, err := loadMap(t, map[string]string{
			"a.tmpl": "{%NOPE%}",
			"b.tmpl": "{%if NOPE%}x{%end%}",
			"c.tmpl": "{%if BASE64%}",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template a")
		assert.Contains(t, err.Error(), "template b")
		assert.Contains(t, err.Error(), "template c")
	})

	t.Run("missing partial", func(t *testing.T) {
		_, err := loadMap(t, map[string]string{"a.tmpl": "{%include missing%}\n"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `include "missing"`)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := loadMap(t, map[string]string{"readme.md": "nothing here"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no templates found")
	})
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "main.cpp", Filename(LambdaBase64))
	assert.Equal(t, "main.cpp", Filename(LambdaArray))
	assert.Equal(t, "torchgen.h", Filename(Module))
}
