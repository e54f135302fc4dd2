package settings

import (
	"fmt"
	"strings"

	"torchgen/internal/diagnostic"
	"torchgen/internal/option"
)

const (
	legacyInputType = "input.type"
	legacyReturn    = "return"
)

// warnLegacy records one deprecation warning per legacy section in use.
func warnLegacy(flat map[string]any, diags *diagnostic.Diagnostics) {
	if _, ok := flat[legacyInputType]; ok {
		diags.AddWarning(diagnostic.CodeDeprecated,
			"torchlambda layout, use input.base64 or input.array instead", legacyInputType, "")
	}

	for name := range flat {
		if name == legacyReturn || strings.HasPrefix(name, legacyReturn+".") {
			diags.AddWarning(diagnostic.CodeDeprecated,
				"torchlambda layout, use the output and result sections instead", legacyReturn, "")

			return
		}
	}
}

// IsLegacy reports whether flattened settings use the torchlambda layout:
// an input.type setting or a return section.
func IsLegacy(flat map[string]any) bool {
	if _, ok := flat[legacyInputType]; ok {
		return true
	}

	for name := range flat {
		if name == legacyReturn || strings.HasPrefix(name, legacyReturn+".") {
			return true
		}
	}

	return false
}

// Translate rewrites torchlambda-layout settings to current option names:
//
//	input.type: base64           -> input.base64: true
//	input.type: <element type>   -> input.array: <element type>
//	return.output.type (+ item)  -> output.array or output.item
//	return.result.type (+ item)  -> result.array or result.item
//	return.<x>.name, operations, arguments, code -> <x>.name, ...
//
// Everything else passes through unchanged, so unknown names still reach the
// resolver and get reported there.
func Translate(flat map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(flat))

	for name, v := range flat {
		switch {
		case name == legacyInputType:
			if v == nil {
				continue
			}

			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("setting %s: expected string, got %T", name, v)
			}

			if strings.EqualFold(s, "base64") {
				out[option.InputBase64] = true
			} else {
				out[option.InputArray] = s
			}

		case name == legacyReturn:
			// "return:" with nothing under it.
			if v != nil {
				return nil, fmt.Errorf("setting %s must be a mapping", name)
			}

		case strings.HasPrefix(name, legacyReturn+"."):
			if err := translateReturn(out, flat, strings.TrimPrefix(name, legacyReturn+"."), v); err != nil {
				return nil, err
			}

		default:
			out[name] = v
		}
	}

	return out, nil
}

func translateReturn(out, flat map[string]any, rest string, v any) error {
	section, field, _ := strings.Cut(rest, ".")
	if section != "output" && section != "result" {
		// Leave it for the resolver to report as unknown.
		out[legacyReturn+"."+rest] = v
		return nil
	}

	switch field {
	case "":
		// "output:" set to null disables the section.
		if v != nil {
			return fmt.Errorf("setting return.%s must be a mapping", section)
		}

	case "type":
		if v == nil {
			return nil
		}

		item, _ := flat[legacyReturn+"."+section+".item"].(bool)
		if item {
			out[section+".item"] = v
		} else {
			out[section+".array"] = v
		}

	case "item":
		if _, ok := v.(bool); !ok && v != nil {
			return fmt.Errorf("setting return.%s.item: expected bool, got %T", section, v)
		}

	default:
		out[section+"."+field] = v
	}

	return nil
}
