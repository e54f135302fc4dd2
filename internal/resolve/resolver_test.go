package resolve

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torchgen/internal/diagnostic"
	"torchgen/internal/option"
)

// baseSettings is the smallest valid configuration: base64 input, fixed
// shape, argmax reported as a single item.
func baseSettings() map[string]any {
	return map[string]any{
		option.InputBase64:      true,
		option.InputShape:       []any{1, 3, 64, 64},
		option.ResultItem:       "int",
		option.ResultOperations: "argmax",
	}
}

func with(extra map[string]any) map[string]any {
	raw := baseSettings()
	for k, v := range extra {
		raw[k] = v
	}

	return raw
}

func without(raw map[string]any, names ...string) map[string]any {
	for _, n := range names {
		delete(raw, n)
	}

	return raw
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()

	var verr *ValidationError
	require.Error(t, err)
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)

	return verr
}

func TestResolve_ValidAppliesDefaults(t *testing.T) {
	cfg, err := Resolve(baseSettings())
	require.NoError(t, err)

	assert.Equal(t, option.DefaultModelPath, cfg.String(option.Model))
	assert.Equal(t, "data", cfg.String(option.InputName))
	assert.Equal(t, option.RuntimeLambda, cfg.String(option.Runtime))
	assert.True(t, cfg.Flag(option.ValidateJSON))
	assert.False(t, cfg.Flag(option.Grad))
	assert.True(t, cfg.Has(option.Grad))
	assert.False(t, cfg.Active(option.Grad))
	assert.False(t, cfg.Has(option.InputCast))
	assert.True(t, cfg.Static())
	assert.Equal(t, []string{"argmax"}, cfg.Strings(option.ResultOperations))
	assert.Equal(t, []any{int64(1), int64(3), int64(64), int64(64)}, cfg.List(option.InputShape))

	assert.Equal(t, []string{
		option.ValidateJSON,
		option.Model,
		option.Runtime,
		option.InputName,
		option.InputValidate,
		option.InputBase64,
		option.InputShape,
		option.InputValidateShape,
		option.OutputName,
		option.ResultItem,
		option.ResultName,
		option.ResultOperations,
	}, cfg.ActiveNames())
}

func TestResolve_Deterministic(t *testing.T) {
	raw := with(map[string]any{
		option.InputCast:        "float",
		option.InputDivide:      255,
		option.NormalizeMeans:   []any{0.485, 0.456, 0.406},
		option.NormalizeStddevs: []any{0.229, 0.224, 0.225},
	})

	first, err := Resolve(raw)
	require.NoError(t, err)

	for range 10 {
		again, err := Resolve(raw)
		require.NoError(t, err)

		if diff := cmp.Diff(first.Snapshot(), again.Snapshot()); diff != "" {
			t.Fatalf("resolution not deterministic (-first +again):\n%s", diff)
		}

		assert.Equal(t, first.ActiveNames(), again.ActiveNames())
	}
}

func TestResolve_DynamicShape(t *testing.T) {
	cfg, err := Resolve(with(map[string]any{
		option.InputShape: []any{1, "channels", "width", "height"},
	}))
	require.NoError(t, err)

	assert.False(t, cfg.Static())
	assert.Equal(t, []string{"channels", "width", "height"}, cfg.ShapeFields())
}

func TestResolve_NullLeavesUnset(t *testing.T) {
	cfg, err := Resolve(with(map[string]any{
		option.InputCast: nil,
		option.Model:     nil,
	}))
	require.NoError(t, err)

	assert.False(t, cfg.Has(option.InputCast))
	assert.Equal(t, option.DefaultModelPath, cfg.String(option.Model))
}

func TestResolve_Coercion(t *testing.T) {
	cfg, err := Resolve(with(map[string]any{
		option.InputDivide:      json.Number("255"),
		option.InputCast:        " Float ",
		option.ResultOperations: []string{"sigmoid", "mul"},
		option.ResultArguments:  []any{nil, 255},
		option.ResultItem:       nil,
		option.ResultArray:      "int",
	}))
	require.NoError(t, err)

	assert.InDelta(t, 255.0, cfg.Number(option.InputDivide), 0)
	assert.Equal(t, "float", cfg.String(option.InputCast))
	assert.Equal(t, []string{"sigmoid", "mul"}, cfg.Strings(option.ResultOperations))
	assert.Equal(t, []any{nil, int64(255)}, cfg.List(option.ResultArguments))
}

func TestResolve_ReportsEveryProblem(t *testing.T) {
	raw := without(with(map[string]any{
		"inptu.name":   "payload",
		option.Grad:    "yes",
		option.Runtime: "wasm",
	}), option.InputShape)

	_, err := Resolve(raw)
	verr := requireValidationError(t, err)

	codes := make([]string, 0, len(verr.Diagnostics.Errors))
	for _, d := range verr.Diagnostics.Errors {
		codes = append(codes, d.Code)
	}

	assert.ElementsMatch(t, []string{
		diagnostic.CodeTypeMismatch,
		diagnostic.CodeUnknownOption,
		diagnostic.CodeInvalidValue,
		diagnostic.CodeMissingOption,
	}, codes)
	assert.Contains(t, verr.Error(), "4 problem(s)")

	unknown := verr.Diagnostics.ErrorsWithCode(diagnostic.CodeUnknownOption)
	require.Len(t, unknown, 1)
	assert.Equal(t, "inptu.name", unknown[0].Option)
	assert.Contains(t, unknown[0].Suggestions, option.InputName)
}

func TestResolve_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		option  string
		related string
	}{
		{
			name: "normalize without cast",
			raw: with(map[string]any{
				option.NormalizeMeans:   []any{0.5},
				option.NormalizeStddevs: []any{0.5},
			}),
			option:  option.NormalizeMeans,
			related: option.InputCast,
		},
		{
			name: "normalize with integer cast",
			raw: with(map[string]any{
				option.InputCast:        "int",
				option.NormalizeMeans:   []any{0.5},
				option.NormalizeStddevs: []any{0.5},
			}),
			option:  option.NormalizeMeans,
			related: option.InputCast,
		},
		{
			name: "normalize without stddevs",
			raw: with(map[string]any{
				option.InputCast:      "float",
				option.NormalizeMeans: []any{0.5},
			}),
			option:  option.NormalizeMeans,
			related: option.NormalizeStddevs,
		},
		{
			name:    "both input encodings",
			raw:     with(map[string]any{option.InputArray: "float"}),
			option:  option.InputBase64,
			related: option.InputArray,
		},
		{
			name:    "no input encoding",
			raw:     without(baseSettings(), option.InputBase64),
			option:  option.InputBase64,
			related: option.InputArray,
		},
		{
			name: "output array and item",
			raw: with(map[string]any{
				option.OutputArray: "double",
				option.OutputItem:  "double",
			}),
			option:  option.OutputArray,
			related: option.OutputItem,
		},
		{
			name:    "result array and item",
			raw:     with(map[string]any{option.ResultArray: "int"}),
			option:  option.ResultArray,
			related: option.ResultItem,
		},
		{
			name:    "result without operations",
			raw:     without(baseSettings(), option.ResultOperations),
			option:  option.ResultItem,
			related: option.ResultOperations + ", " + option.ResultCode,
		},
		{
			name:    "code and operations",
			raw:     with(map[string]any{option.ResultCode: "torch::argmax(output)"}),
			option:  option.ResultOperations,
			related: option.ResultCode,
		},
		{
			name:    "more arguments than operations",
			raw:     with(map[string]any{option.ResultArguments: []any{1, 2}}),
			option:  option.ResultArguments,
			related: option.ResultOperations,
		},
		{
			name: "means not broadcastable to channels",
			raw: with(map[string]any{
				option.InputCast:        "float",
				option.NormalizeMeans:   []any{0.5, 0.5},
				option.NormalizeStddevs: []any{0.5, 0.5},
			}),
			option:  option.NormalizeMeans,
			related: option.InputShape,
		},
		{
			name: "output and result share a name",
			raw: with(map[string]any{
				option.OutputArray: "double",
				option.OutputName:  "x",
				option.ResultName:  "x",
			}),
			option:  option.OutputName,
			related: option.ResultName,
		},
		{
			name:   "zero divisor",
			raw:    with(map[string]any{option.InputDivide: 0}),
			option: option.InputDivide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.raw)
			assert.Nil(t, cfg)

			verr := requireValidationError(t, err)
			violations := verr.Diagnostics.ErrorsWithCode(diagnostic.CodeConstraintViolation)
			require.Len(t, violations, 1, "diagnostics: %v", verr.Diagnostics.Errors)
			assert.Equal(t, tt.option, violations[0].Option)
			assert.Equal(t, tt.related, violations[0].Related)
		})
	}
}

func TestResolve_SharedNameWithOneReport(t *testing.T) {
	// Only the result is reported, so the unused output name may match it.
	cfg, err := Resolve(with(map[string]any{
		option.OutputName: "x",
		option.ResultName: "x",
	}))
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.String(option.ResultName))
}

func TestResolve_ValueErrors(t *testing.T) {
	tests := []struct {
		name   string
		option string
		value  any
		code   string
	}{
		{"flag from string", option.Grad, "true", diagnostic.CodeTypeMismatch},
		{"unknown choice", option.InputCast, "float128", diagnostic.CodeInvalidValue},
		{"choice from number", option.InputCast, 32, diagnostic.CodeTypeMismatch},
		{"empty string", option.Model, "", diagnostic.CodeInvalidValue},
		{"zero dimension", option.InputShape, []any{1, 0}, diagnostic.CodeInvalidValue},
		{"short shape", option.InputShape, []any{1}, diagnostic.CodeInvalidValue},
		{"fractional dimension", option.InputShape, []any{1, 2.5}, diagnostic.CodeTypeMismatch},
		{"mapping as list", option.InputShape, map[string]any{"a": 1}, diagnostic.CodeTypeMismatch},
		{"operation not identifier", option.ResultOperations, "arg max", diagnostic.CodeInvalidValue},
		{"argument expression", option.ResultArguments, "1+1", diagnostic.CodeInvalidValue},
		{"divide from string", option.InputDivide, "255", diagnostic.CodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(with(map[string]any{tt.option: tt.value}))

			verr := requireValidationError(t, err)
			require.NotEmpty(t, verr.Diagnostics.Errors)
			assert.Equal(t, tt.code, verr.Diagnostics.Errors[0].Code)
			assert.Equal(t, tt.option, verr.Diagnostics.Errors[0].Option)
		})
	}
}

func TestResolve_ChoiceSuggestion(t *testing.T) {
	_, err := Resolve(with(map[string]any{option.InputCast: "flot"}))

	verr := requireValidationError(t, err)
	require.Len(t, verr.Diagnostics.Errors, 1)
	assert.Equal(t, []string{"float"}, verr.Diagnostics.Errors[0].Suggestions)

	_, err = Resolve(with(map[string]any{option.InputCast: "complex"}))

	verr = requireValidationError(t, err)
	require.Len(t, verr.Diagnostics.Errors, 1)
	assert.Empty(t, verr.Diagnostics.Errors[0].Suggestions)
}

func TestResolve_BrokenOptionNotReportedTwice(t *testing.T) {
	// A bad cast value must not also surface as "normalize requires cast".
	_, err := Resolve(with(map[string]any{
		option.InputCast:        "float128",
		option.NormalizeMeans:   []any{0.5},
		option.NormalizeStddevs: []any{0.5},
	}))

	verr := requireValidationError(t, err)
	require.Len(t, verr.Diagnostics.Errors, 1)
	assert.Equal(t, diagnostic.CodeInvalidValue, verr.Diagnostics.Errors[0].Code)
}

func TestConfig_AccessorsPanicOnDefects(t *testing.T) {
	cfg, err := Resolve(baseSettings())
	require.NoError(t, err)

	assert.Panics(t, func() { cfg.Active("no.such.option") })
	assert.Panics(t, func() { cfg.Flag(option.Model) })
	assert.Panics(t, func() { cfg.List(option.Grad) })
}

func TestConfig_ListIsCopied(t *testing.T) {
	cfg, err := Resolve(baseSettings())
	require.NoError(t, err)

	shape := cfg.List(option.InputShape)
	shape[0] = int64(99)

	assert.Equal(t, int64(1), cfg.List(option.InputShape)[0])
}
