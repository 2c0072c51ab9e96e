package serializer

import "fmt"

// Normalize rewrites decoded maps with non-string keys into map[string]any,
// recursively. msgpack, cbor and yaml may produce map[any]any.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = Normalize(val)
		}

		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}

		return out
	case []any:
		for i, val := range t {
			t[i] = Normalize(val)
		}

		return t
	}

	return v
}
