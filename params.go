package portal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pthm/portal/lib/dom"
	"github.com/pthm/portal/lib/encoding"
)

// CollectParams gathers the structured parameters an element declares for
// one identifier: the packed map from data-<identifier>-params, overlaid by
// every data-<identifier>-<name>-param attribute.
//
// Individual parameter values are parsed as structured data first (JSON
// literal rules: numbers, booleans, null, quoted strings, arrays, objects)
// and fall back to the raw attribute string, so data-widget-id-param="42"
// yields the number 42 while data-widget-note-param="hello" yields "hello".
//
// A malformed packed attribute is reported through the returned error; the
// individually-declared parameters are still collected.
func CollectParams(el *dom.Element, identifier string) (map[string]any, error) {
	mustValidIdentifier(identifier)
	params := make(map[string]any)

	var packErr error
	if raw, ok := el.Attr(PackedParamsAttribute(identifier)); ok {
		packed, err := encoding.UnpackParams(raw)
		if err != nil {
			packErr = fmt.Errorf("portal: packed params for %q: %w", identifier, err)
		}
		for k, v := range packed {
			params[k] = v
		}
	}

	prefix := "data-" + identifier + "-"
	for _, a := range el.Attrs() {
		if !strings.HasPrefix(a.Name, prefix) || !strings.HasSuffix(a.Name, "-param") {
			continue
		}
		name := a.Name[len(prefix) : len(a.Name)-len("-param")]
		if name == "" {
			continue
		}
		params[lowerCamel(name)] = parseParamValue(a.Value)
	}

	if len(params) == 0 {
		return nil, packErr
	}
	return params, packErr
}

func parseParamValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
