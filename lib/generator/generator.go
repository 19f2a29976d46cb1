// Package generator turns component schema files into typed accessor
// wrappers. A schema is a JSON file next to the component's source:
//
//	{
//	  "package": "widgets",
//	  "component": "Widget",
//	  "identifier": "widget",
//	  "fields": [
//	    {"name": "content", "kind": "Target"},
//	    {"name": "user-id", "kind": "Value", "default": "0"}
//	  ]
//	}
//
// For each <name>.portal.json the generator writes <name>_portal.go in the
// same directory, containing a wrapper struct whose methods follow the
// accessor naming convention (ContentTarget, HasContentTarget,
// ContentTargets, UserIdValue, SetUserIdValue, ...).
package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/portal"
)

// SchemaSuffix is the filename suffix of component schema files.
const SchemaSuffix = ".portal.json"

// OutputSuffix is the filename suffix of generated files.
const OutputSuffix = "_portal.go"

// Schema is one parsed component schema file.
type Schema struct {
	Package    string         `json:"package"`
	Component  string         `json:"component"`
	Identifier string         `json:"identifier"`
	Fields     []portal.Field `json:"fields"`
}

// Options configures the generator.
type Options struct {
	DryRun bool
}

// Generator generates accessor wrappers from schema files.
type Generator struct {
	opts Options
}

// New creates a new generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate processes every schema file under the given patterns. A pattern
// is either a directory or a root followed by /... for a recursive walk.
func (g *Generator) Generate(patterns ...string) error {
	dirs, err := findDirs(patterns)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := g.generateDir(dir); err != nil {
			return fmt.Errorf("dir %s: %w", dir, err)
		}
	}
	return nil
}

// Clean removes generated files under the given patterns.
func (g *Generator) Clean(patterns ...string) error {
	dirs, err := findDirs(patterns)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), OutputSuffix) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			fmt.Printf("removing %s\n", path)
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) generateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SchemaSuffix) {
			continue
		}
		schemaPath := filepath.Join(dir, entry.Name())
		schema, err := LoadSchema(schemaPath)
		if err != nil {
			return fmt.Errorf("%s: %w", schemaPath, err)
		}

		base := strings.TrimSuffix(entry.Name(), SchemaSuffix)
		outputFile := filepath.Join(dir, base+OutputSuffix)
		fmt.Printf("generating %s\n", outputFile)
		if g.opts.DryRun {
			continue
		}

		code, err := Render(schema)
		if err != nil {
			return fmt.Errorf("%s: %w", schemaPath, err)
		}
		if err := os.WriteFile(outputFile, code, 0644); err != nil {
			return err
		}
	}
	return nil
}

// LoadSchema parses and validates one schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

func (s *Schema) validate() error {
	if s.Package == "" {
		return fmt.Errorf("schema missing package")
	}
	if s.Component == "" {
		return fmt.Errorf("schema missing component")
	}
	if s.Identifier == "" {
		return fmt.Errorf("schema missing identifier")
	}
	seen := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema field with empty name")
		}
		switch f.Kind {
		case portal.KindValue, portal.KindTarget, portal.KindClass, portal.KindOutlet:
		default:
			return fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
		}
		key := f.Name + "/" + string(f.Kind)
		if seen[key] {
			return fmt.Errorf("field %q declared twice as %s", f.Name, f.Kind)
		}
		seen[key] = true
	}
	return nil
}

// findDirs resolves patterns to directories containing schema files.
func findDirs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	var dirs []string
	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			dirs = append(dirs, pattern)
			continue
		}
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && base != "." || base == "vendor" || base == "testdata" {
				return filepath.SkipDir
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), SchemaSuffix) {
					dirs = append(dirs, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}
