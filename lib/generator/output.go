package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
	"unicode"

	"github.com/pthm/portal"
)

// Render produces the formatted source of the wrapper file for one schema.
func Render(schema *Schema) ([]byte, error) {
	view := buildView(schema)

	tmpl, err := template.New("portal").Parse(wrapperTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, err
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

type fieldView struct {
	Name        string
	Kind        portal.Kind
	Default     string
	Accessor    string
	Existential string
	Plural      string
	Setter      string
}

type schemaView struct {
	Package     string
	Component   string
	Wrapper     string
	Identifier  string
	TargetNames []string
	Fields      []fieldView
}

func buildView(schema *Schema) schemaView {
	view := schemaView{
		Package:    schema.Package,
		Component:  schema.Component,
		Wrapper:    schema.Component + "Portal",
		Identifier: schema.Identifier,
	}
	for _, f := range schema.Fields {
		fv := fieldView{
			Name:        f.Name,
			Kind:        f.Kind,
			Default:     f.Default,
			Accessor:    exported(portal.AccessorName(f)),
			Existential: exported(portal.ExistentialName(f)),
			Plural:      exported(portal.PluralName(f)),
		}
		if f.Kind == portal.KindValue {
			fv.Setter = "Set" + fv.Accessor
		}
		if f.Kind == portal.KindTarget {
			view.TargetNames = append(view.TargetNames, f.Name)
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

func exported(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

const wrapperTemplate = `// Code generated by portalgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/pthm/portal"
	"github.com/pthm/portal/lib/dom"
)

// {{.Wrapper}} wraps a controller for the {{printf "%q" .Identifier}}
// identifier with typed accessors for its declared fields.
type {{.Wrapper}} struct {
	*portal.Controller
}

// New{{.Wrapper}} creates the wrapped controller scoped to root.
func New{{.Wrapper}}(root *dom.Element) {{.Wrapper}} {
	c := portal.NewController({{printf "%q" .Identifier}}, root)
{{- if .TargetNames}}
	c.Targets({{range $i, $n := .TargetNames}}{{if $i}}, {{end}}{{printf "%q" $n}}{{end}})
{{- end}}
	return {{.Wrapper}}{Controller: c}
}
{{range .Fields}}
{{- if eq .Kind "Target"}}
func (p {{$.Wrapper}}) {{.Accessor}}() (*dom.Element, bool) {
	return p.Target({{printf "%q" .Name}})
}

func (p {{$.Wrapper}}) {{.Existential}}() bool {
	return p.HasTarget({{printf "%q" .Name}})
}

func (p {{$.Wrapper}}) {{.Plural}}() []*dom.Element {
	return p.TargetAll({{printf "%q" .Name}})
}
{{- else if eq .Kind "Value"}}
func (p {{$.Wrapper}}) {{.Accessor}}() string {
	return p.Value({{printf "%q" .Name}}, {{printf "%q" .Default}})
}

func (p {{$.Wrapper}}) {{.Setter}}(value string) {
	p.SetValue({{printf "%q" .Name}}, value)
}
{{- else if eq .Kind "Class"}}
func (p {{$.Wrapper}}) {{.Accessor}}() (string, bool) {
	return p.ClassName({{printf "%q" .Name}})
}
{{- else if eq .Kind "Outlet"}}
func (p {{$.Wrapper}}) {{.Accessor}}() (string, bool) {
	return p.OutletSelector({{printf "%q" .Name}})
}
{{- end}}
{{end}}`
