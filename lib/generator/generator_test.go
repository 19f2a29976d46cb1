package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm/portal"
)

func testSchema() *Schema {
	return &Schema{
		Package:    "widgets",
		Component:  "Widget",
		Identifier: "widget",
		Fields: []portal.Field{
			{Name: "content", Kind: portal.KindTarget},
			{Name: "user-id", Kind: portal.KindValue, Default: "0"},
			{Name: "busy", Kind: portal.KindClass},
			{Name: "result-list", Kind: portal.KindOutlet},
		},
	}
}

func TestRenderAccessors(t *testing.T) {
	code, err := Render(testSchema())
	if err != nil {
		t.Fatal(err)
	}
	src := string(code)

	for _, want := range []string{
		"// Code generated by portalgen. DO NOT EDIT.",
		"package widgets",
		"type WidgetPortal struct",
		"func NewWidgetPortal(root *dom.Element) WidgetPortal",
		`c.Targets("content")`,
		"func (p WidgetPortal) ContentTarget() (*dom.Element, bool)",
		"func (p WidgetPortal) HasContentTarget() bool",
		"func (p WidgetPortal) ContentTargets() []*dom.Element",
		"func (p WidgetPortal) UserIdValue() string",
		"func (p WidgetPortal) SetUserIdValue(value string)",
		"func (p WidgetPortal) BusyClass() (string, bool)",
		"func (p WidgetPortal) ResultListOutlet() (string, bool)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated code missing %q\n%s", want, src)
		}
	}
}

func TestSchemaValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"missing package", func(s *Schema) { s.Package = "" }},
		{"missing component", func(s *Schema) { s.Component = "" }},
		{"missing identifier", func(s *Schema) { s.Identifier = "" }},
		{"empty field name", func(s *Schema) { s.Fields[0].Name = "" }},
		{"unknown kind", func(s *Schema) { s.Fields[0].Kind = "Gadget" }},
		{"duplicate field", func(s *Schema) { s.Fields = append(s.Fields, s.Fields[0]) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSchema()
			tt.mutate(s)
			if err := s.validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	schemaJSON := `{
		"package": "widgets",
		"component": "Widget",
		"identifier": "widget",
		"fields": [{"name": "content", "kind": "Target"}]
	}`
	if err := os.WriteFile(filepath.Join(dir, "widget.portal.json"), []byte(schemaJSON), 0644); err != nil {
		t.Fatal(err)
	}

	gen := New(Options{})
	if err := gen.Generate(dir); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "widget_portal.go")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "WidgetPortal") {
		t.Fatal("generated file missing wrapper type")
	}

	if err := gen.Clean(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("clean should remove the generated file")
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	schemaJSON := `{"package": "p", "component": "C", "identifier": "c", "fields": []}`
	if err := os.WriteFile(filepath.Join(dir, "c.portal.json"), []byte(schemaJSON), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New(Options{DryRun: true}).Generate(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "c_portal.go")); !os.IsNotExist(err) {
		t.Fatal("dry run must not write files")
	}
}
