package resolve

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"torchgen/internal/diagnostic"
	"torchgen/internal/match"
	"torchgen/internal/option"
)

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tokenRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:.]*$`)
)

// problem is a coercion failure, turned into a diagnostic by the resolver.
type problem struct {
	code        string
	message     string
	suggestions []string
}

func mismatch(format string, args ...any) *problem {
	return &problem{code: diagnostic.CodeTypeMismatch, message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) *problem {
	return &problem{code: diagnostic.CodeInvalidValue, message: fmt.Sprintf(format, args...)}
}

// coerce converts a raw value to the canonical representation of the option:
//   - flag: bool
//   - choice: string
//   - scalar: string or float64 (int64 for integers)
//   - list: []any of the element representation
func coerce(o option.Option, raw any) (any, *problem) {
	switch o.Kind {
	case option.KindFlag:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch("expected bool, got %s", describe(raw))
		}

		return b, nil

	case option.KindChoice:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("expected one of [%s], got %s", strings.Join(o.Choices, ", "), describe(raw))
		}

		s = strings.ToLower(strings.TrimSpace(s))
		if !o.IsChoice(s) {
			p := invalid("%q is not one of [%s]", s, strings.Join(o.Choices, ", "))
			if best := match.RankCandidates(s, o.Choices).Best(); best != nil && best.Score >= match.DefaultMinScore {
				p.suggestions = []string{best.Name}
			}

			return nil, p
		}

		return s, nil

	case option.KindScalar:
		return coerceScalar(o.Type, raw)

	case option.KindList:
		return coerceList(o, raw)

	default:
		return nil, mismatch("option has no usable kind")
	}
}

func coerceList(o option.Option, raw any) (any, *problem) {
	var elems []any

	switch v := reflect.ValueOf(raw); v.Kind() {
	case reflect.Slice, reflect.Array:
		elems = make([]any, v.Len())
		for i := range elems {
			elems[i] = v.Index(i).Interface()
		}
	case reflect.Map, reflect.Struct:
		return nil, mismatch("expected list of %s, got %s", o.Type, describe(raw))
	default:
		elems = []any{raw}
	}

	if len(elems) < o.MinLen {
		return nil, invalid("expected at least %d element(s), got %d", o.MinLen, len(elems))
	}

	out := make([]any, len(elems))

	for i, e := range elems {
		v, p := coerceScalar(o.Type, e)
		if p != nil {
			p.message = fmt.Sprintf("element %d: %s", i, p.message)
			return nil, p
		}

		out[i] = v
	}

	return out, nil
}

func coerceScalar(t option.ValueType, raw any) (any, *problem) {
	switch t {
	case option.TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("expected string, got %s", describe(raw))
		}

		if s == "" {
			return nil, invalid("must not be empty")
		}

		return s, nil

	case option.TypeNumber:
		f, ok := toFloat(raw)
		if !ok {
			return nil, mismatch("expected number, got %s", describe(raw))
		}

		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("must be a finite number")
		}

		return f, nil

	case option.TypeInteger:
		n, ok := toInt(raw)
		if !ok {
			return nil, mismatch("expected integer, got %s", describe(raw))
		}

		return n, nil

	case option.TypeIdent:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("expected identifier, got %s", describe(raw))
		}

		if !identRe.MatchString(s) {
			return nil, invalid("%q is not a valid identifier", s)
		}

		return s, nil

	case option.TypeDimension:
		if s, ok := raw.(string); ok {
			if strings.TrimSpace(s) == "" {
				return nil, invalid("shape field name must not be empty")
			}

			return s, nil
		}

		n, ok := toInt(raw)
		if !ok {
			return nil, mismatch("expected integer or field name, got %s", describe(raw))
		}

		if n <= 0 && n != -1 {
			return nil, invalid("dimension %d must be positive or -1", n)
		}

		return n, nil

	case option.TypeArgument:
		return coerceArgument(raw)

	default:
		return nil, mismatch("option has no usable value type")
	}
}

func coerceArgument(raw any) (any, *problem) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		if !tokenRe.MatchString(v) {
			return nil, invalid("%q is not a valid argument token", v)
		}

		return v, nil
	}

	if n, ok := toInt(raw); ok && isIntegral(raw) {
		return n, nil
	}

	if f, ok := toFloat(raw); ok {
		return f, nil
	}

	return nil, mismatch("expected number, bool, token or null, got %s", describe(raw))
}

// isIntegral reports whether raw was written as an integer (not 1.0).
func isIntegral(raw any) bool {
	switch v := raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		return !strings.ContainsAny(v.String(), ".eE")
	default:
		return false
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}

		return int64(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}

		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}

		return int64(f), true
	case float32, float64:
		f, _ := toFloat(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}

		return int64(f), true
	default:
		return 0, false
	}
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case map[string]any:
		return "mapping"
	}

	if _, ok := toFloat(raw); ok {
		return "number"
	}

	switch reflect.ValueOf(raw).Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "mapping"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
