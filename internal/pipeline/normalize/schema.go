// Package normalize turns loosely shaped forecast-service responses into
// fixed-shape records using a declared schema per endpoint.
package normalize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Kind is the target type of a declared field.
type Kind int

const (
	Number Kind = iota
	Numbers
	String
	Strings
	Bool
	Records
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Numbers:
		return "numbers"
	case String:
		return "string"
	case Strings:
		return "strings"
	case Bool:
		return "bool"
	case Records:
		return "records"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field declares one target field: where it comes from, what it is, and
// what it becomes when the source is missing or malformed.
type Field struct {
	Name string
	// Path is a dot-separated key path into the response.
	Path string
	// Alt lists fallback paths tried in order when Path yields nothing usable.
	Alt     []string
	Kind    Kind
	Default any
	// Enum restricts String fields. An empty value is always allowed.
	Enum []string
	// Fields describes each element of a Records field.
	Fields []Field
	// Required marks a field the response cannot do without. A required
	// field that resolves to nothing makes Record.Err report a ShapeError.
	Required bool
}

// Schema is a validated, compiled set of field declarations for one endpoint.
type Schema struct {
	name   string
	fields []Field
	audit  *gojsonschema.Schema
}

// NewSchema validates the declarations and compiles the audit schema.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	if err := checkFields(fields); err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	doc := map[string]any{"type": "object", "properties": map[string]any{}}
	for _, f := range fields {
		for _, p := range append([]string{f.Path}, f.Alt...) {
			addProperty(doc, strings.Split(p, "."), jsonType(f))
		}
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &Schema{name: name, fields: slices.Clone(fields), audit: compiled}, nil
}

// MustSchema is NewSchema for package-level declarations.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the endpoint name the schema was declared for.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func checkFields(fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field with path %q has no name", f.Path)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		if f.Path == "" || strings.Contains(f.Path, "..") {
			return fmt.Errorf("field %q: invalid path %q", f.Name, f.Path)
		}
		if f.Required && f.Default != nil {
			return fmt.Errorf("field %q: required field with a default", f.Name)
		}
		if !defaultMatches(f.Kind, f.Default) {
			return fmt.Errorf("field %q: default %v (%T) is not a %s", f.Name, f.Default, f.Default, f.Kind)
		}
		if len(f.Enum) > 0 {
			if f.Kind != String {
				return fmt.Errorf("field %q: enum on %s field", f.Name, f.Kind)
			}
			if d, _ := f.Default.(string); d != "" && !slices.Contains(f.Enum, d) {
				return fmt.Errorf("field %q: default %q not in enum", f.Name, d)
			}
		}
		if f.Kind == Records {
			if len(f.Fields) == 0 {
				return fmt.Errorf("field %q: records without element fields", f.Name)
			}
			if err := checkFields(f.Fields); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}
	return nil
}

func defaultMatches(k Kind, d any) bool {
	if d == nil {
		return true
	}
	switch k {
	case Number:
		_, ok := d.(float64)
		return ok
	case Numbers:
		_, ok := d.([]float64)
		return ok
	case String:
		_, ok := d.(string)
		return ok
	case Strings:
		_, ok := d.([]string)
		return ok
	case Bool:
		_, ok := d.(bool)
		return ok
	default:
		return false
	}
}

func jsonType(f Field) map[string]any {
	switch f.Kind {
	case Number:
		return map[string]any{"type": "number"}
	case Numbers:
		return map[string]any{"type": "array", "items": map[string]any{"type": "number"}}
	case String:
		if len(f.Enum) > 0 {
			return map[string]any{"type": "string", "enum": stringsToAny(f.Enum)}
		}
		return map[string]any{"type": "string"}
	case Strings:
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case Bool:
		return map[string]any{"type": "boolean"}
	case Records:
		item := map[string]any{"type": "object", "properties": map[string]any{}}
		for _, sub := range f.Fields {
			addProperty(item, strings.Split(sub.Path, "."), jsonType(sub))
		}
		return map[string]any{"type": "array", "items": item}
	default:
		return map[string]any{}
	}
}

// addProperty places leaf at the nested path, creating intermediate
// object schemas as needed.
func addProperty(node map[string]any, path []string, leaf map[string]any) {
	props := node["properties"].(map[string]any)
	if len(path) == 1 {
		props[path[0]] = leaf
		return
	}
	child, ok := props[path[0]].(map[string]any)
	if !ok || child["type"] != "object" {
		child = map[string]any{"type": "object", "properties": map[string]any{}}
		props[path[0]] = child
	}
	addProperty(child, path[1:], leaf)
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in)+1)
	for _, s := range in {
		out = append(out, s)
	}
	return append(out, "")
}
