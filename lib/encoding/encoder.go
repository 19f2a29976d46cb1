// Package encoding packs structured action parameters into a single
// attribute-safe string.
//
// Individual parameters travel as one attribute each
// (data-<identifier>-<name>-param); a packed parameter map travels as one
// msgpack-encoded, base64url-framed attribute (data-<identifier>-params).
// Packing is for parameter sets that are awkward as one-attribute-per-value:
// nested maps, lists, or many values written by a template in one go.
package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidFormat is returned when a packed string is not valid base64url
// or does not decode to a parameter map.
var ErrInvalidFormat = errors.New("encoding: invalid packed parameter format")

// PackParams encodes a parameter map into an attribute-safe string.
// An empty or nil map packs to the empty string.
func PackParams(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	packed, err := msgpack.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding: pack: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// UnpackParams decodes a string produced by PackParams. The empty string
// unpacks to nil.
func UnpackParams(encoded string) (map[string]any, error) {
	if encoded == "" {
		return nil, nil
	}
	packed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	var params map[string]any
	if err := msgpack.Unmarshal(packed, &params); err != nil {
		return nil, ErrInvalidFormat
	}
	return params, nil
}
