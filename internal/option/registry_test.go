package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsBuiltOnce(t *testing.T) {
	a := Default()
	b := Default()

	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestDefault_CoversHandlerAxes(t *testing.T) {
	reg := Default()

	for _, name := range []string{
		InputBase64, InputArray, InputShape, InputValidateShape,
		NormalizeMeans, NormalizeStddevs, InputCast, InputDivide,
		OutputArray, OutputItem, ResultArray, ResultItem, ResultOperations,
		Grad, Optimize, ValidateJSON, InputValidate,
	} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "missing option %s", name)
	}
}

func TestDefault_ExcludesAreSymmetric(t *testing.T) {
	reg := Default()

	for _, o := range reg.All() {
		for _, ex := range o.Excludes {
			other, ok := reg.Lookup(ex)
			require.True(t, ok)
			assert.Contains(t, other.Excludes, o.Name, "%s excludes %s but not vice versa", o.Name, ex)
		}
	}

	arr, _ := reg.Lookup(InputArray)
	assert.Equal(t, []string{InputBase64}, arr.Excludes)
}

func TestRegistry_LookupReturnsCopies(t *testing.T) {
	reg := Default()

	o, ok := reg.Lookup(InputCast)
	require.True(t, ok)

	o.Choices[0] = "mutated"

	again, _ := reg.Lookup(InputCast)
	assert.Equal(t, "byte", again.Choices[0])
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, ok := Default().Lookup("input.typo")
	assert.False(t, ok)
	assert.Equal(t, -1, Default().Position("input.typo"))
}

func TestRegistry_OrderIsDeclarationOrder(t *testing.T) {
	names := Default().Names()

	require.NotEmpty(t, names)
	assert.Equal(t, Grad, names[0])
	assert.Less(t, Default().Position(InputName), Default().Position(OutputName))
	assert.Equal(t, len(names), len(Default().All()))
}

func TestNewRegistry_RejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		groups  []Group
		checks  []Check
		wantErr string
	}{
		{
			name: "duplicate",
			options: []Option{
				{Name: "a", Kind: KindFlag},
				{Name: "a", Kind: KindFlag},
			},
			wantErr: `duplicate option "a"`,
		},
		{
			name:    "dangling requires",
			options: []Option{{Name: "a", Kind: KindFlag, Requires: []Dependency{{Option: "b"}}}},
			wantErr: `requires unknown option "b"`,
		},
		{
			name:    "dangling excludes",
			options: []Option{{Name: "a", Kind: KindFlag, Excludes: []string{"b"}}},
			wantErr: `excludes unknown option "b"`,
		},
		{
			name:    "bad choice default",
			options: []Option{{Name: "a", Kind: KindChoice, Choices: []string{"x"}, Default: "y"}},
			wantErr: "is not a choice",
		},
		{
			name:    "required with default",
			options: []Option{{Name: "a", Kind: KindFlag, Required: true, Default: true}},
			wantErr: "cannot have a default",
		},
		{
			name:    "scalar without type",
			options: []Option{{Name: "a", Kind: KindScalar}},
			wantErr: "without value type",
		},
		{
			name: "requires illegal value",
			options: []Option{
				{Name: "a", Kind: KindChoice, Choices: []string{"x"}},
				{Name: "b", Kind: KindFlag, Requires: []Dependency{{Option: "a", Values: []string{"z"}}}},
			},
			wantErr: "not a legal value",
		},
		{
			name:    "group unknown",
			options: []Option{{Name: "a", Kind: KindFlag}},
			groups:  []Group{{Options: []string{"a", "b"}}},
			wantErr: `group references unknown option "b"`,
		},
		{
			name:    "check unknown",
			options: []Option{{Name: "a", Kind: KindFlag}},
			checks:  []Check{{Options: []string{"c"}, Message: "m", Valid: func(Lookup) bool { return true }}},
			wantErr: `references unknown option "c"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.options, tt.groups, tt.checks)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustRegistry([]Option{{Name: ""}}, nil, nil)
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "flag", KindFlag.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "dimension", TypeDimension.String())
	assert.Equal(t, "unknown", ValueType(99).String())
}

func TestIsFloatingCast(t *testing.T) {
	assert.True(t, IsFloatingCast("float"))
	assert.True(t, IsFloatingCast("half"))
	assert.False(t, IsFloatingCast("int"))
}
