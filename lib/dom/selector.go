package dom

import (
	"fmt"
	"strings"
)

// The query surface is tag names and attribute selectors: `div`, [name],
// [name="value"] and [name~="word"], optionally juxtaposed
// (button[a][b="v"]) and grouped with commas. Combinators, classes, ids and
// pseudo-selectors are rejected; selectors here are written by code, not by
// users.

type attrPredicate struct {
	name  string
	op    byte // 0: presence, '=': exact, '~': word
	value string
}

type selectorGroup struct {
	tag   string // empty: any tag
	preds []attrPredicate
}

type compiledSelector struct {
	groups []selectorGroup
}

// CompileSelector parses a selector group list. It panics on a malformed
// selector, since a bad selector is a programming error.
func CompileSelector(selector string) *compiledSelector {
	cs, err := compile(selector)
	if err != nil {
		panic(err)
	}
	return cs
}

func compile(selector string) (*compiledSelector, error) {
	cs := &compiledSelector{}
	for _, raw := range strings.Split(selector, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("dom: empty selector group in %q", selector)
		}
		var g selectorGroup
		rest := raw
		if rest[0] != '[' {
			end := strings.IndexByte(rest, '[')
			if end < 0 {
				end = len(rest)
			}
			tag := rest[:end]
			if !validTag(tag) {
				return nil, fmt.Errorf("dom: unsupported selector %q", raw)
			}
			g.tag = strings.ToLower(tag)
			rest = rest[end:]
		}
		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("dom: unsupported selector %q", raw)
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("dom: unterminated predicate in %q", raw)
			}
			p, err := parsePredicate(rest[1:end])
			if err != nil {
				return nil, err
			}
			g.preds = append(g.preds, p)
			rest = rest[end+1:]
		}
		cs.groups = append(cs.groups, g)
	}
	return cs, nil
}

// validTag accepts element names: letters and digits, with interior
// hyphens for custom elements.
func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

func parsePredicate(body string) (attrPredicate, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return attrPredicate{}, fmt.Errorf("dom: empty attribute predicate")
	}
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return attrPredicate{name: body}, nil
	}
	name := body[:eq]
	op := byte('=')
	if strings.HasSuffix(name, "~") {
		op = '~'
		name = name[:len(name)-1]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return attrPredicate{}, fmt.Errorf("dom: attribute predicate %q has no name", body)
	}
	value := strings.TrimSpace(body[eq+1:])
	value = strings.Trim(value, `"'`)
	return attrPredicate{name: name, op: op, value: value}, nil
}

func (cs *compiledSelector) matches(e *Element) bool {
	for _, g := range cs.groups {
		if g.matches(e) {
			return true
		}
	}
	return false
}

func (g selectorGroup) matches(e *Element) bool {
	if g.tag != "" && e.Tag != g.tag {
		return false
	}
	for _, p := range g.preds {
		if !p.matches(e) {
			return false
		}
	}
	return true
}

func (p attrPredicate) matches(e *Element) bool {
	v, present := e.Attr(p.name)
	if !present {
		return false
	}
	switch p.op {
	case 0:
		return true
	case '=':
		return v == p.value
	case '~':
		for _, word := range strings.Fields(v) {
			if word == p.value {
				return true
			}
		}
		return false
	}
	return false
}

// Matches reports whether the element itself satisfies the selector.
func (e *Element) Matches(selector string) bool {
	return CompileSelector(selector).matches(e)
}

// QuerySelector returns the first descendant of e (excluding e itself)
// matching the selector, in document order, or nil.
func (e *Element) QuerySelector(selector string) *Element {
	cs := CompileSelector(selector)
	var found *Element
	e.Walk(func(el *Element) {
		if found != nil || el == e {
			return
		}
		if cs.matches(el) {
			found = el
		}
	})
	return found
}

// QuerySelectorAll returns every descendant of e (excluding e itself)
// matching the selector, in document order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	cs := CompileSelector(selector)
	var out []*Element
	e.Walk(func(el *Element) {
		if el == e {
			return
		}
		if cs.matches(el) {
			out = append(out, el)
		}
	})
	return out
}

// QuerySelector searches the whole document including the root element.
func (d *Document) QuerySelector(selector string) *Element {
	if d.root.Matches(selector) {
		return d.root
	}
	return d.root.QuerySelector(selector)
}
