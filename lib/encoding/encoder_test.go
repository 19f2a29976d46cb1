package encoding

import (
	"errors"
	"fmt"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	params := map[string]any{
		"id":    42,
		"name":  "alpha",
		"ratio": 0.5,
		"flags": []any{"a", "b"},
	}

	encoded, err := PackParams(params)
	if err != nil {
		t.Fatalf("PackParams: %v", err)
	}
	if encoded == "" {
		t.Fatal("PackParams returned empty string for non-empty map")
	}

	got, err := UnpackParams(encoded)
	if err != nil {
		t.Fatalf("UnpackParams: %v", err)
	}
	for key, want := range params {
		if fmt.Sprint(got[key]) != fmt.Sprint(want) {
			t.Errorf("params[%q] = %v, want %v", key, got[key], want)
		}
	}
}

func TestPackEmpty(t *testing.T) {
	for _, params := range []map[string]any{nil, {}} {
		encoded, err := PackParams(params)
		if err != nil {
			t.Fatalf("PackParams: %v", err)
		}
		if encoded != "" {
			t.Errorf("PackParams(%v) = %q, want empty", params, encoded)
		}
	}
}

func TestUnpackEmpty(t *testing.T) {
	got, err := UnpackParams("")
	if err != nil {
		t.Fatalf("UnpackParams: %v", err)
	}
	if got != nil {
		t.Errorf("UnpackParams(\"\") = %v, want nil", got)
	}
}

func TestUnpackInvalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not msgpack", "bm90IG1zZ3BhY2s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnpackParams(tt.encoded)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}
