// Package typemap maps OpenAPI schemas to Python type annotations and records
// the imports each annotation needs.
package typemap

import (
	"slices"
	"strings"

	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/pb33f/libopenapi/datamodel/high/base"
)

// ComponentSchemaPrefix is the reference prefix of named component schemas
const ComponentSchemaPrefix = "#/components/schemas/"

// Mapper turns schemas into annotations such as "List[Pet]". Every symbol an
// annotation uses is appended to Imports.
type Mapper struct {
	Imports *imports.Registry
	// ModelsModule is the module named component schemas are imported from.
	// Empty means they live in the module being generated.
	ModelsModule string
}

// New creates a mapper writing into reg
func New(reg *imports.Registry, modelsModule string) *Mapper {
	return &Mapper{Imports: reg, ModelsModule: modelsModule}
}

// Proxy maps a possibly referenced schema
func (m *Mapper) Proxy(p *base.SchemaProxy) string {
	if p == nil {
		return m.typing("Any")
	}
	if p.IsReference() {
		if name, ok := ComponentName(p.GetReference()); ok {
			className := models.ClassName(name)
			if m.ModelsModule != "" {
				m.Imports.Add(m.ModelsModule, className)
			}
			return className
		}
	}
	return m.Schema(p.Schema())
}

// Schema maps an inline schema
func (m *Mapper) Schema(s *base.Schema) string {
	if s == nil {
		return m.typing("Any")
	}

	var annotation string
	switch {
	case len(s.OneOf) > 0:
		annotation = m.union(s.OneOf)
	case len(s.AnyOf) > 0:
		annotation = m.union(s.AnyOf)
	case len(s.AllOf) == 1:
		annotation = m.Proxy(s.AllOf[0])
	default:
		annotation = m.typed(s)
	}

	if IsNullable(s) && annotation != "None" && !strings.HasPrefix(annotation, "Optional[") {
		annotation = m.typing("Optional") + "[" + annotation + "]"
	}
	return annotation
}

func (m *Mapper) typed(s *base.Schema) string {
	types := NonNullTypes(s)
	if len(types) == 0 {
		if s.Properties != nil && s.Properties.Len() > 0 {
			return m.dict(s)
		}
		return m.typing("Any")
	}
	if len(types) > 1 {
		parts := make([]string, 0, len(types))
		for _, t := range types {
			parts = append(parts, m.primitive(t, s))
		}
		return m.typing("Union") + "[" + strings.Join(parts, ", ") + "]"
	}
	return m.primitive(types[0], s)
}

func (m *Mapper) primitive(t string, s *base.Schema) string {
	switch t {
	case "string":
		switch s.Format {
		case "date":
			m.Imports.Add("datetime", "date")
			return "date"
		case "date-time":
			m.Imports.Add("datetime", "datetime")
			return "datetime"
		case "time":
			m.Imports.Add("datetime", "time")
			return "time"
		case "uuid":
			m.Imports.Add("uuid", "UUID")
			return "UUID"
		case "binary":
			return "bytes"
		}
		return "str"
	case "integer":
		return "int"
	case "number":
		return "float"
	case "boolean":
		return "bool"
	case "array":
		var item string
		if s.Items != nil && s.Items.IsA() && s.Items.A != nil {
			item = m.Proxy(s.Items.A)
		} else {
			item = m.typing("Any")
		}
		return m.typing("List") + "[" + item + "]"
	case "object":
		return m.dict(s)
	}
	return m.typing("Any")
}

// dict maps free-form and map-like objects. Objects with declared properties
// only get a proper class when they are named components.
func (m *Mapper) dict(s *base.Schema) string {
	var value string
	if s.AdditionalProperties != nil && s.AdditionalProperties.IsA() && s.AdditionalProperties.A != nil {
		value = m.Proxy(s.AdditionalProperties.A)
	} else {
		value = m.typing("Any")
	}
	return m.typing("Dict") + "[str, " + value + "]"
}

func (m *Mapper) union(proxies []*base.SchemaProxy) string {
	var parts []string
	for _, p := range proxies {
		t := m.Proxy(p)
		if !slices.Contains(parts, t) {
			parts = append(parts, t)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return m.typing("Union") + "[" + strings.Join(parts, ", ") + "]"
}

func (m *Mapper) typing(symbol string) string {
	m.Imports.Add("typing", symbol)
	return symbol
}

// ComponentName extracts "Pet" from "#/components/schemas/Pet"
func ComponentName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, ComponentSchemaPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// NonNullTypes returns the schema's declared types without "null"
func NonNullTypes(s *base.Schema) []string {
	var types []string
	for _, t := range s.Type {
		if t != "null" {
			types = append(types, t)
		}
	}
	return types
}

// IsNullable covers both the 3.0 nullable flag and a 3.1 "null" type
func IsNullable(s *base.Schema) bool {
	if s.Nullable != nil && *s.Nullable {
		return true
	}
	return slices.Contains(s.Type, "null")
}
