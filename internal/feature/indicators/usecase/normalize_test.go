package usecase

import (
	"math"
	"reflect"
	"testing"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int widens to int64", int(3), int64(3)},
		{"uint widens to int64", uint32(7), int64(7)},
		{"float32 widens to float64", float32(1.5), float64(1.5)},
		{"nil pointer becomes nil", (*float64)(nil), nil},
		{"string passes through", "AAPL", "AAPL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	t.Run("nested containers", func(t *testing.T) {
		in := map[string]any{
			"a": []float64{1, 2},
			"b": map[string]any{"c": int32(5)},
		}
		got := NormalizeValue(in).(map[string]any)
		if !reflect.DeepEqual(got["a"], []any{float64(1), float64(2)}) {
			t.Errorf("unexpected slice normalization: %#v", got["a"])
		}
		inner := got["b"].(map[string]any)
		if inner["c"] != int64(5) {
			t.Errorf("expected int64(5), got %#v", inner["c"])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		in := map[string]any{"x": int16(9), "y": []any{float32(2)}}
		once := NormalizeValue(in)
		twice := NormalizeValue(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalization is not idempotent: %#v vs %#v", once, twice)
		}
	})
}

func TestSanitizeNumerics(t *testing.T) {
	in := map[string]any{
		"nan":    math.NaN(),
		"posinf": math.Inf(1),
		"neginf": math.Inf(-1),
		"ok":     1.25,
		"nested": []any{math.NaN(), 2.0},
	}
	got := sanitizeNumerics(in).(map[string]any)

	if got["nan"] != nil {
		t.Errorf("NaN must map to nil, got %#v", got["nan"])
	}
	if got["posinf"] != "Infinity" {
		t.Errorf("+Inf must map to \"Infinity\", got %#v", got["posinf"])
	}
	if got["neginf"] != "-Infinity" {
		t.Errorf("-Inf must map to \"-Infinity\", got %#v", got["neginf"])
	}
	if got["ok"] != 1.25 {
		t.Errorf("finite values must pass through, got %#v", got["ok"])
	}
	nested := got["nested"].([]any)
	if nested[0] != nil || nested[1] != 2.0 {
		t.Errorf("nested sanitization failed: %#v", nested)
	}
}
