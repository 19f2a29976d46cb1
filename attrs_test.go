package portal

import (
	"testing"
)

func TestTargetAttrs(t *testing.T) {
	attrs := TargetAttrs("widget", "content", "header")
	if got := attrs["data-widget-target"]; got != "content header" {
		t.Fatalf("target attr = %q, want %q", got, "content header")
	}
}

func TestActionAttrs(t *testing.T) {
	attrs := ActionAttrs(
		Directive{Identifier: "widget", Method: "save"},
		Directive{Event: "submit", Identifier: "form", Method: "send", Modifier: "prevent"},
	)
	want := "widget#save submit->form#send:prevent"
	if got := attrs[ActionAttribute]; got != want {
		t.Fatalf("action attr = %q, want %q", got, want)
	}
}

func TestParamAttrsRoundTripThroughCollect(t *testing.T) {
	attrs := ParamAttrs("widget", map[string]any{
		"count": 42,
		"note":  "hello",
	})

	page, err := NewTestPage(`<button></button>`)
	if err != nil {
		t.Fatal(err)
	}
	btn, err := page.Element("button")
	if err != nil {
		t.Fatal(err)
	}
	for name, value := range attrs {
		btn.SetAttr(name, value.(string))
	}

	params, err := CollectParams(btn, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if params["count"] != float64(42) {
		t.Fatalf("params[count] = %#v, want 42", params["count"])
	}
	if params["note"] != "hello" {
		t.Fatalf("params[note] = %#v, want %q", params["note"], "hello")
	}
}

func TestPackedParamAttrsRoundTrip(t *testing.T) {
	attrs, err := PackedParamAttrs("widget", map[string]any{"page": "first"})
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 1 {
		t.Fatalf("attrs = %d entries, want 1", len(attrs))
	}

	page, err := NewTestPage(`<button></button>`)
	if err != nil {
		t.Fatal(err)
	}
	btn, err := page.Element("button")
	if err != nil {
		t.Fatal(err)
	}
	for name, value := range attrs {
		btn.SetAttr(name, value.(string))
	}

	params, err := CollectParams(btn, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if params["page"] != "first" {
		t.Fatalf("params[page] = %#v, want %q", params["page"], "first")
	}
}

func TestIndividualParamOverridesPacked(t *testing.T) {
	packed, err := PackedParamAttrs("widget", map[string]any{"page": "first"})
	if err != nil {
		t.Fatal(err)
	}

	page, err := NewTestPage(`<button data-widget-page-param="second"></button>`)
	if err != nil {
		t.Fatal(err)
	}
	btn, err := page.Element("button")
	if err != nil {
		t.Fatal(err)
	}
	for name, value := range packed {
		btn.SetAttr(name, value.(string))
	}

	params, err := CollectParams(btn, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if params["page"] != "second" {
		t.Fatalf("params[page] = %#v, want the individual attribute to win", params["page"])
	}
}

func TestValueAccessors(t *testing.T) {
	page, err := NewTestPage(`<div data-widget-limit-value="10"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	root, err := page.Element("div")
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", root)

	if got := c.Value("limit", "1"); got != "10" {
		t.Fatalf("Value(limit) = %q, want %q", got, "10")
	}
	if got := c.Value("missing", "1"); got != "1" {
		t.Fatalf("Value(missing) = %q, want default", got)
	}
	c.SetValue("limit", "20")
	if got := c.Value("limit", "1"); got != "20" {
		t.Fatalf("Value(limit) after set = %q, want %q", got, "20")
	}
}

func TestClassAndOutletAccessors(t *testing.T) {
	page, err := NewTestPage(
		`<div data-widget-busy-class="spinner" data-widget-list-outlet="[data-list]"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	root, err := page.Element("div")
	if err != nil {
		t.Fatal(err)
	}
	c := NewController("widget", root)

	if got, ok := c.ClassName("busy"); !ok || got != "spinner" {
		t.Fatalf("ClassName(busy) = %q, %v, want spinner", got, ok)
	}
	if got, ok := c.OutletSelector("list"); !ok || got != "[data-list]" {
		t.Fatalf("OutletSelector(list) = %q, %v", got, ok)
	}
	if _, ok := c.ClassName("missing"); ok {
		t.Fatal("missing class should not resolve")
	}
}
