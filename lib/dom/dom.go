// Package dom provides the in-memory document tree that portal relays
// operate on: elements with ordered attributes, child-list mutation,
// tag and attribute selector queries, mutation observation with batched asynchronous
// delivery, and browser-style three-phase event dispatch.
//
// Markup is parsed with golang.org/x/net/html; the live tree is made of
// *Element nodes owned by a Document so that mutations can be tracked and
// elements keep their identity across moves:
//
//	l := loop.New()
//	doc, err := dom.Parse(l, `<div data-widget-target="content"></div>`)
//	el := doc.QuerySelector(`[data-widget-target~="content"]`)
//
// Every Document is bound to a loop.Loop; observer deliveries are posted
// onto it, never run inline with the mutation.
package dom

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/portal/lib/loop"
)

// Attr is a single named attribute. Attributes keep document order.
type Attr struct {
	Name  string
	Value string
}

// Document owns an element tree and routes its mutations to observers.
type Document struct {
	loop      *loop.Loop
	root      *Element
	observers []*Observer
}

// Element is a node of the live tree.
type Element struct {
	doc      *Document
	parent   *Element
	children []*Element

	// Tag is the lowercase element name ("div", "button", ...).
	Tag string
	// Text is the element's own text content, gathered from its direct
	// text children at parse time.
	Text string

	attrs     []Attr
	listeners map[string][]*Listener
}

// NewDocument creates an empty document with a root element of the given
// tag, bound to l.
func NewDocument(l *loop.Loop, rootTag string) *Document {
	if l == nil {
		panic("dom: NewDocument called with nil loop")
	}
	d := &Document{loop: l}
	d.root = d.NewElement(rootTag)
	return d
}

// Parse builds a document from an HTML fragment. The fragment is wrapped in
// a single root <body> element; element nodes become *Element, text nodes
// are folded into their parent's Text.
func Parse(l *loop.Loop, markup string) (*Document, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}

	d := NewDocument(l, "body")
	for _, n := range nodes {
		if el := d.fromNode(n); el != nil {
			d.root.appendInitial(el)
		}
	}
	return d, nil
}

func (d *Document) fromNode(n *html.Node) *Element {
	if n.Type != html.ElementNode {
		return nil
	}
	el := d.NewElement(n.Data)
	for _, a := range n.Attr {
		el.attrs = append(el.attrs, Attr{Name: a.Key, Value: a.Val})
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(c.Data)
		case html.ElementNode:
			if child := d.fromNode(c); child != nil {
				el.appendInitial(child)
			}
		}
	}
	el.Text = strings.TrimSpace(text.String())
	return el
}

// appendInitial links a child without emitting a mutation record. Used only
// while building the initial tree.
func (e *Element) appendInitial(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
}

// Loop returns the loop the document is bound to.
func (d *Document) Loop() *loop.Loop {
	return d.loop
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// NewElement creates a detached element owned by this document.
func (d *Document) NewElement(tag string, attrs ...Attr) *Element {
	return &Element{doc: d, Tag: strings.ToLower(tag), attrs: attrs}
}

// Render serializes the tree back to HTML using x/net/html.
func (d *Document) Render() string {
	var b strings.Builder
	if err := html.Render(&b, d.root.toNode()); err != nil {
		return ""
	}
	return b.String()
}

func (e *Element) toNode() *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: e.Tag}
	for _, a := range e.attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, c := range e.children {
		n.AppendChild(c.toNode())
	}
	return n
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Parent returns the parent element, or nil for the root and for detached
// elements.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Attached reports whether the element is reachable from the document root.
func (e *Element) Attached() bool {
	return e.doc.root.Contains(e)
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attribute list in document order.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// AttrNames returns the sorted names of all present attributes.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// SetAttr sets an attribute, emitting an attribute mutation record. Setting
// an attribute to its current value is a no-op and emits nothing.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.attrs {
		if a.Name == name {
			if a.Value == value {
				return
			}
			e.attrs[i].Value = value
			e.doc.notifyAttr(e, name, a.Value, true)
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	e.doc.notifyAttr(e, name, "", false)
}

// RemoveAttr removes an attribute if present, emitting an attribute
// mutation record.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			e.doc.notifyAttr(e, name, a.Value, true)
			return
		}
	}
}

// AppendChild attaches child as the last child of e, emitting a child-list
// mutation record. A child attached elsewhere is removed from its previous
// parent first.
func (e *Element) AppendChild(child *Element) {
	e.insertChild(child, len(e.children))
}

// PrependChild attaches child as the first child of e.
func (e *Element) PrependChild(child *Element) {
	e.insertChild(child, 0)
}

func (e *Element) insertChild(child *Element, index int) {
	if child == nil {
		panic("dom: insert of nil child")
	}
	if child.doc != e.doc {
		panic("dom: insert of element from another document")
	}
	if child.Contains(e) {
		panic("dom: insert of ancestor into its own subtree")
	}
	if child.parent != nil {
		// A move within the same parent shifts positions after the vacated
		// slot down by one.
		if child.parent == e {
			for i, c := range e.children {
				if c == child {
					if i < index {
						index--
					}
					break
				}
			}
		}
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	e.doc.notifyChildList(e, []*Element{child}, nil)
}

// RemoveChild detaches child from e, emitting a child-list mutation record.
// Removing an element that is not a child of e is a no-op.
func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			e.doc.notifyChildList(e, nil, []*Element{child})
			return
		}
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Walk visits e and every descendant in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// path returns the ancestor chain from the root down to (excluding) e.
func (e *Element) path() []*Element {
	var rev []*Element
	for n := e.parent; n != nil; n = n.parent {
		rev = append(rev, n)
	}
	out := make([]*Element, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}
