package preset

// copyValue deep-copies the container shapes produced by YAML and TOML
// decoding (string-keyed maps and slices). Scalars are returned as-is.
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case map[any]any:
		// Older YAML decoders produce any-keyed maps; normalize string keys.
		out := make(map[string]any, len(val))
		for k, item := range val {
			if key, ok := k.(string); ok {
				out[key] = copyValue(item)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return copyStrings(val)
	default:
		return v
	}
}

// copyMap deep-copies a string-keyed mapping. Nil input yields nil.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// copyStrings copies a string slice, preserving the nil/empty distinction.
func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// boolPtr returns a pointer to b, for tri-state fields.
func boolPtr(b bool) *bool {
	return &b
}

// strPtr returns a pointer to s, for optional string fields.
func strPtr(s string) *string {
	return &s
}
