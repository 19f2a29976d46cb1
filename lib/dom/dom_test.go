package dom

import (
	"strings"
	"testing"

	"github.com/pthm/portal/lib/loop"
)

func parseDoc(t *testing.T, markup string) *Document {
	t.Helper()
	d, err := Parse(loop.New(), markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestParseTree(t *testing.T) {
	d := parseDoc(t, `<div id="a"><span id="b">hello</span></div><p id="c"></p>`)

	root := d.Root()
	if root.Tag != "body" {
		t.Fatalf("root tag = %q, want body", root.Tag)
	}
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}
	if children[0].Tag != "div" || children[1].Tag != "p" {
		t.Errorf("children tags = %q, %q, want div, p", children[0].Tag, children[1].Tag)
	}

	span := children[0].Children()[0]
	if span.Text != "hello" {
		t.Errorf("span text = %q, want hello", span.Text)
	}
	if v, ok := span.Attr("id"); !ok || v != "b" {
		t.Errorf("span id = %q, %v, want b, true", v, ok)
	}
}

func TestAttrOperations(t *testing.T) {
	d := parseDoc(t, `<div></div>`)
	el := d.Root().Children()[0]

	if _, ok := el.Attr("data-x"); ok {
		t.Fatal("attribute present before set")
	}
	el.SetAttr("data-x", "1")
	if v, ok := el.Attr("data-x"); !ok || v != "1" {
		t.Errorf("data-x = %q, %v, want 1, true", v, ok)
	}
	el.SetAttr("data-x", "2")
	if v, _ := el.Attr("data-x"); v != "2" {
		t.Errorf("data-x = %q, want 2", v)
	}
	el.RemoveAttr("data-x")
	if _, ok := el.Attr("data-x"); ok {
		t.Error("attribute present after remove")
	}
}

func TestTreeMutation(t *testing.T) {
	d := parseDoc(t, `<div id="parent"></div>`)
	parent := d.Root().Children()[0]

	child := d.NewElement("span")
	if child.Attached() {
		t.Fatal("detached element reports attached")
	}
	parent.AppendChild(child)
	if !child.Attached() {
		t.Fatal("appended element reports detached")
	}
	if child.Parent() != parent {
		t.Error("child parent not set")
	}

	child.Remove()
	if child.Attached() {
		t.Error("removed element reports attached")
	}
	if len(parent.Children()) != 0 {
		t.Error("parent still has children after remove")
	}
}

func TestInsertMovesElement(t *testing.T) {
	d := parseDoc(t, `<div id="a"></div><div id="b"></div>`)
	a := d.Root().Children()[0]
	b := d.Root().Children()[1]

	el := d.NewElement("span")
	a.AppendChild(el)
	b.AppendChild(el)

	if len(a.Children()) != 0 {
		t.Error("element still under first parent after move")
	}
	if el.Parent() != b {
		t.Error("element not under second parent after move")
	}
}

func TestAppendReordersWithinSameParent(t *testing.T) {
	d := parseDoc(t, `<i data-n="1"></i><i data-n="2"></i><i data-n="3"></i>`)
	root := d.Root()
	first := root.Children()[0]

	root.AppendChild(first)

	got := root.Children()
	if len(got) != 3 {
		t.Fatalf("children = %d, want 3", len(got))
	}
	order := ""
	for _, c := range got {
		n, _ := c.Attr("data-n")
		order += n
	}
	if order != "231" {
		t.Errorf("child order = %q, want %q", order, "231")
	}
	if first.Parent() != root {
		t.Error("moved child lost its parent")
	}
}

func TestPrependMovesLastChildToFront(t *testing.T) {
	d := parseDoc(t, `<i data-n="1"></i><i data-n="2"></i>`)
	root := d.Root()
	last := root.Children()[1]

	root.PrependChild(last)

	got := root.Children()
	if len(got) != 2 || got[0] != last {
		t.Fatalf("last child was not moved to the front")
	}
}

func TestInsertPanics(t *testing.T) {
	d := parseDoc(t, `<div></div>`)
	div := d.Root().Children()[0]

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { div.AppendChild(nil) }},
		{"own ancestor", func() { div.AppendChild(d.Root()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	d := parseDoc(t, `<div data-widget-target="content">x</div>`)
	out := d.Render()
	if !strings.Contains(out, `data-widget-target="content"`) {
		t.Errorf("render lost attribute: %s", out)
	}
}
