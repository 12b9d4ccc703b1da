package usecase

import "math"

// NormalizeValue recursively converts platform numeric types inside an
// indicator payload to plain float64/int64 scalars and plain
// map/slice containers, so the result is safe to hand to any encoder at
// the API boundary. Applying it twice yields the same output as once.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = NormalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = NormalizeValue(vv)
		}
		return out
	case []float64:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = vv
		}
		return out
	default:
		return x
	}
}

// sanitizeNumerics replaces values that JSON cannot represent: NaN maps
// to nil, +Inf to the literal string "Infinity", -Inf to "-Infinity".
// Nested containers are walked recursively.
func sanitizeNumerics(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		if math.IsInf(x, 1) {
			return "Infinity"
		}
		if math.IsInf(x, -1) {
			return "-Infinity"
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = sanitizeNumerics(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = sanitizeNumerics(vv)
		}
		return out
	default:
		return x
	}
}
