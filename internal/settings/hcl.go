package settings

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// decodeHCL reads a settings document in HCL native syntax. Attributes become
// settings and unlabeled blocks become sections:
//
//	grad = false
//	input {
//	  base64 = true
//	  shape  = [1, 3, 224, 224]
//	}
//
// Object values (input = { base64 = true }) are accepted as well. Expressions
// are evaluated without variables or functions.
func decodeHCL(data []byte, filename string) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings HCL: %w", diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.New("failed to parse settings HCL: unexpected body type")
	}

	return decodeBody(body)
}

func decodeBody(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for _, name := range slices.Sorted(maps.Keys(body.Attributes)) {
		attr := body.Attributes[name]

		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("setting %s: %w", name, diags)
		}

		v, err := fromCty(val)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}

		out[name] = v
	}

	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			return nil, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected block labels",
				Detail:   fmt.Sprintf("Section %q takes no labels.", block.Type),
				Subject:  block.LabelRanges[0].Ptr(),
			}
		}

		if _, dup := out[block.Type]; dup {
			return nil, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate section",
				Detail:   fmt.Sprintf("Section %q is given more than once.", block.Type),
				Subject:  block.TypeRange.Ptr(),
			}
		}

		nested, err := decodeBody(block.Body)
		if err != nil {
			return nil, err
		}

		out[block.Type] = nested
	}

	return out, nil
}

// fromCty converts a fully known value to the plain Go values the YAML
// decoder would produce: bool, int64 or float64, string, []any and
// map[string]any.
func fromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	if !v.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}

	ty := v.Type()

	switch {
	case ty == cty.Bool:
		return v.True(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == 0 {
				return n, nil
			}
		}

		f, _ := bf.Float64()

		return f, nil

	case ty == cty.String:
		return v.AsString(), nil

	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		out := make([]any, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()

			e, err := fromCty(elem)
			if err != nil {
				return nil, err
			}

			out = append(out, e)
		}

		return out, nil

	case ty.IsObjectType(), ty.IsMapType():
		out := make(map[string]any, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()

			e, err := fromCty(elem)
			if err != nil {
				return nil, err
			}

			out[key.AsString()] = e
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
