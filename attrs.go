package portal

import (
	"encoding/json"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/portal/lib/encoding"
)

// Builders for the declarative attribute surface. They return
// templ.Attributes so templates can spread them directly:
//
//	<div { portal.TargetAttrs("widget", "content")... }>
//	<button { portal.ActionAttrs(portal.Directive{Event: "click", Identifier: "widget", Method: "save"})... }>

// TargetAttrs builds the target attribute binding an element as the named
// target(s) of an identifier. Panics on a malformed identifier or an empty
// name list (integration bug, not a runtime condition).
func TargetAttrs(identifier string, names ...string) templ.Attributes {
	if len(names) == 0 {
		panic("portal: TargetAttrs with no target names")
	}
	return templ.Attributes{
		TargetAttribute(identifier): strings.Join(names, " "),
	}
}

// ActionAttrs builds the shared action attribute from directive tokens.
func ActionAttrs(directives ...Directive) templ.Attributes {
	if len(directives) == 0 {
		panic("portal: ActionAttrs with no directives")
	}
	tokens := make([]string, len(directives))
	for i, d := range directives {
		mustValidIdentifier(d.Identifier)
		if d.Method == "" {
			panic("portal: ActionAttrs directive with empty method")
		}
		tokens[i] = d.String()
	}
	return templ.Attributes{ActionAttribute: strings.Join(tokens, " ")}
}

// ParamAttrs builds one attribute per parameter. Non-string values are
// written as JSON literals so they come back typed from CollectParams;
// strings are written raw.
func ParamAttrs(identifier string, params map[string]any) templ.Attributes {
	attrs := templ.Attributes{}
	for name, value := range params {
		attrs[ParamAttribute(identifier, name)] = paramAttrValue(value)
	}
	return attrs
}

// PackedParamAttrs builds the single packed-parameter attribute for values
// that are awkward as one attribute each (nested maps, long lists).
func PackedParamAttrs(identifier string, params map[string]any) (templ.Attributes, error) {
	encoded, err := encoding.PackParams(params)
	if err != nil {
		return nil, err
	}
	if encoded == "" {
		return templ.Attributes{}, nil
	}
	return templ.Attributes{PackedParamsAttribute(identifier): encoded}, nil
}

func paramAttrValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		panic("portal: unencodable param value: " + err.Error())
	}
	return string(data)
}
