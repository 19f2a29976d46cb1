package portal

import (
	"fmt"
	"strings"
)

// Attribute names of the declarative surface. One target attribute exists
// per identifier; the action attribute is shared by all identifiers.
const (
	// ActionAttribute carries whitespace-separated action directive tokens.
	ActionAttribute = "data-action"

	// ForwardedActionAttribute holds the original form of directives a
	// relay has rewritten into proxies. Keeping originals in a secondary
	// attribute makes forwarding idempotent across repeated mutations and
	// lets invocation re-resolve against current state.
	ForwardedActionAttribute = "data-forwarded-action"
)

// TargetAttribute returns the target attribute name for an identifier,
// e.g. "data-widget-target". Its value is a space-separated list of target
// names.
func TargetAttribute(identifier string) string {
	mustValidIdentifier(identifier)
	return "data-" + identifier + "-target"
}

// ParamAttribute returns the attribute name carrying one action parameter,
// e.g. "data-widget-user-id-param".
func ParamAttribute(identifier, name string) string {
	mustValidIdentifier(identifier)
	return "data-" + identifier + "-" + name + "-param"
}

// PackedParamsAttribute returns the attribute name carrying a packed
// parameter map (see lib/encoding), e.g. "data-widget-params".
func PackedParamsAttribute(identifier string) string {
	mustValidIdentifier(identifier)
	return "data-" + identifier + "-params"
}

// identifierForTargetAttr inverts TargetAttribute.
func identifierForTargetAttr(attr string) (string, bool) {
	if !strings.HasPrefix(attr, "data-") || !strings.HasSuffix(attr, "-target") {
		return "", false
	}
	id := attr[len("data-") : len(attr)-len("-target")]
	if id == "" {
		return "", false
	}
	return id, true
}

func mustValidIdentifier(identifier string) {
	if identifier == "" {
		panic("portal: empty identifier")
	}
	if strings.ContainsAny(identifier, " \t\n#:>") {
		panic(fmt.Sprintf("portal: malformed identifier %q", identifier))
	}
}

// Directive is one parsed action token: "[event->]identifier#method[:modifier]".
//
// Event may be empty in the written form, in which case the triggering
// event is derived from the carrying element's tag (see DefaultEvent).
type Directive struct {
	Event      string
	Identifier string
	Method     string
	Modifier   string
}

// ParseDirective parses a single directive token.
func ParseDirective(token string) (Directive, error) {
	var d Directive
	rest := token
	if i := strings.Index(rest, "->"); i >= 0 {
		d.Event = rest[:i]
		rest = rest[i+2:]
	}
	hash := strings.IndexByte(rest, '#')
	if hash <= 0 || hash == len(rest)-1 {
		return Directive{}, fmt.Errorf("%w: %q", ErrInvalidDirective, token)
	}
	d.Identifier = rest[:hash]
	method := rest[hash+1:]
	if i := strings.IndexByte(method, ':'); i >= 0 {
		d.Modifier = method[i+1:]
		method = method[:i]
	}
	if method == "" || strings.ContainsAny(d.Identifier, " #:") {
		return Directive{}, fmt.Errorf("%w: %q", ErrInvalidDirective, token)
	}
	d.Method = method
	return d, nil
}

// ParseDirectives parses every well-formed token in an attribute value,
// silently skipping malformed ones (the rewriter preserves those verbatim).
func ParseDirectives(value string) []Directive {
	var out []Directive
	for _, token := range strings.Fields(value) {
		if d, err := ParseDirective(token); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// String returns the canonical token form of the directive.
func (d Directive) String() string {
	var b strings.Builder
	if d.Event != "" {
		b.WriteString(d.Event)
		b.WriteString("->")
	}
	b.WriteString(d.Identifier)
	b.WriteByte('#')
	b.WriteString(d.Method)
	if d.Modifier != "" {
		b.WriteByte(':')
		b.WriteString(d.Modifier)
	}
	return b.String()
}

// EventFor resolves the directive's triggering event for an element with
// the given tag, falling back to the tag's default event.
func (d Directive) EventFor(tag string) string {
	if d.Event != "" {
		return d.Event
	}
	return DefaultEvent(tag)
}

// DefaultEvent returns the conventional triggering event for a tag:
// input elements fire on "input", selects and textareas on "change", forms
// on "submit", everything else on "click".
func DefaultEvent(tag string) string {
	switch tag {
	case "input":
		return "input"
	case "select", "textarea":
		return "change"
	case "form":
		return "submit"
	default:
		return "click"
	}
}
