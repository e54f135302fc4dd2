package settings

import (
	"fmt"
	"maps"
	"slices"
)

// Flatten turns nested mappings into dotted keys. Lists and scalars are kept
// as values; an empty mapping contributes nothing. Two spellings of the same
// name are an error.
func Flatten(doc map[string]any) (map[string]any, error) {
	out := make(map[string]any)

	if err := flattenInto(out, "", doc); err != nil {
		return nil, err
	}

	return out, nil
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) error {
	// Sorted so the reported duplicate does not depend on map order.
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		nested, isMap, err := asMap(doc[key])
		if err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}

		if isMap {
			if err := flattenInto(out, name, nested); err != nil {
				return err
			}

			continue
		}

		if _, dup := out[name]; dup {
			return fmt.Errorf("setting %s is given more than once", name)
		}

		out[name] = doc[key]
	}

	return nil
}

func asMap(v any) (map[string]any, bool, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, true, nil
	case map[any]any:
		out := make(map[string]any, len(m))

		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false, fmt.Errorf("key %v is not a string", k)
			}

			out[s] = val
		}

		return out, true, nil
	default:
		return nil, false, nil
	}
}
