package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/moamenhredeen/fastapi-codegen/internal/parser"
	"github.com/moamenhredeen/fastapi-codegen/internal/render"
	"github.com/moamenhredeen/fastapi-codegen/internal/typemap"
	"github.com/moamenhredeen/fastapi-codegen/internal/writer"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

//go:embed templates/models.tmpl
var modelsTemplate string

// DefaultAliases renames fields that would shadow pydantic BaseModel members
var DefaultAliases = map[string]string{"schema": "scheme"}

// ModelGenerator writes the data-model module for an OpenAPI document
type ModelGenerator interface {
	GenerateModels(documentName string, documentText []byte, outputPath string) error
}

// Config holds model generator configuration
type Config struct {
	// Aliases maps JSON property names to Python field names
	Aliases map[string]string
	// Now returns the timestamp written into the provenance header
	Now func() time.Time
}

// Generator renders pydantic models from components/schemas
type Generator struct {
	aliases map[string]string
	now     func() time.Time
	tpl     *template.Template
}

// NewGenerator creates a new generator instance
func NewGenerator(cfg Config) *Generator {
	aliases := cfg.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	tpl := template.Must(template.New("models").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(modelsTemplate))

	return &Generator{aliases: aliases, now: now, tpl: tpl}
}

// Model is one generated Python class
type Model struct {
	Name        string
	Description string
	Bases       []string
	Fields      []Field
	Values      []EnumValue // set for enum classes
	Root        string      // set for __root__ wrapper models
}

// Field is one pydantic model field
type Field struct {
	Name     string // Python identifier
	JSONName string
	Type     string
	Required bool
	Default  string
}

// Declaration renders the field line, e.g. "tag: Optional[str] = None"
func (f Field) Declaration() string {
	decl := f.Name + ": " + f.Type
	value := f.Default
	if value == "" && !f.Required {
		value = "None"
	}

	if f.Name == f.JSONName {
		if value == "" {
			return decl
		}
		return decl + " = " + value
	}

	if value == "" {
		value = "..."
	}
	return decl + " = Field(" + value + ", alias=" + typemap.Quote(f.JSONName) + ")"
}

// EnumValue is one member of an enum class
type EnumValue struct {
	Name    string
	Literal string
}

type modelsFile struct {
	Header  string
	Imports *imports.Registry
	Models  []Model
}

// GenerateModels parses the document and writes its models to outputPath
func (g *Generator) GenerateModels(documentName string, documentText []byte, outputPath string) error {
	src, err := g.Render(documentName, documentText)
	if err != nil {
		return err
	}

	return writer.WriteFileAll(outputPath, []byte(src))
}

// Render returns the models source for the document
func (g *Generator) Render(documentName string, documentText []byte) (string, error) {
	model, err := parser.LoadModel(documentName, documentText)
	if err != nil {
		return "", err
	}

	reg := imports.NewRegistry()
	reg.Add("pydantic", "BaseModel")
	b := &modelBuilder{
		aliases: g.aliases,
		imports: reg,
		mapper:  typemap.New(reg, ""),
	}

	file := modelsFile{
		Header:  render.Header(documentName, g.now()),
		Imports: reg,
		Models:  b.components(model),
	}

	var buf bytes.Buffer
	if err := g.tpl.Execute(&buf, file); err != nil {
		return "", fmt.Errorf("failed to render models: %w", err)
	}
	return buf.String(), nil
}

type modelBuilder struct {
	aliases map[string]string
	imports *imports.Registry
	mapper  *typemap.Mapper
}

func (b *modelBuilder) components(model *v3.Document) []Model {
	if model.Components == nil || model.Components.Schemas == nil {
		return nil
	}

	var result []Model
	for name, proxy := range model.Components.Schemas.FromOldest() {
		result = append(result, b.model(models.ClassName(name), proxy))
	}
	return result
}

func (b *modelBuilder) model(name string, proxy *base.SchemaProxy) Model {
	m := Model{Name: name, Bases: []string{"BaseModel"}}

	// a component that is only a $ref to another one becomes a wrapper
	if proxy.IsReference() {
		m.Root = b.mapper.Proxy(proxy)
		return m
	}

	schema := proxy.Schema()
	if schema == nil {
		m.Root = b.mapper.Proxy(nil)
		return m
	}
	m.Description = firstLine(schema.Description)

	switch {
	case len(schema.Enum) > 0:
		b.imports.Add("enum", "Enum")
		m.Bases = []string{"Enum"}
		m.Values = enumValues(schema)
	case isObject(schema):
		m.Bases, m.Fields = b.object(schema)
	default:
		m.Root = b.mapper.Schema(schema)
	}
	return m
}

// object collects fields of an object schema. allOf references become base
// classes and inline allOf members contribute their properties.
func (b *modelBuilder) object(schema *base.Schema) ([]string, []Field) {
	var bases []string
	var fields []Field

	for _, member := range schema.AllOf {
		if member == nil {
			continue
		}
		if member.IsReference() {
			if ref, ok := typemap.ComponentName(member.GetReference()); ok {
				bases = append(bases, models.ClassName(ref))
				continue
			}
		}
		if inline := member.Schema(); inline != nil {
			fields = append(fields, b.fields(inline)...)
		}
	}
	fields = append(fields, b.fields(schema)...)

	if len(bases) == 0 {
		bases = []string{"BaseModel"}
	}
	return bases, fields
}

func (b *modelBuilder) fields(schema *base.Schema) []Field {
	if schema.Properties == nil {
		return nil
	}

	var fields []Field
	for jsonName, propProxy := range schema.Properties.FromOldest() {
		f := Field{
			Name:     b.fieldName(jsonName),
			JSONName: jsonName,
			Type:     b.mapper.Proxy(propProxy),
			Required: slices.Contains(schema.Required, jsonName),
		}

		if !propProxy.IsReference() {
			if prop := propProxy.Schema(); prop != nil && prop.Default != nil {
				f.Default = typemap.Literal(prop.Default.Tag, prop.Default.Value)
			}
		}
		if !f.Required && f.Default == "" && !strings.HasPrefix(f.Type, "Optional[") {
			b.imports.Add("typing", "Optional")
			f.Type = "Optional[" + f.Type + "]"
		}
		if f.Name != f.JSONName {
			b.imports.Add("pydantic", "Field")
		}

		fields = append(fields, f)
	}
	return fields
}

func (b *modelBuilder) fieldName(jsonName string) string {
	if alias, ok := b.aliases[jsonName]; ok {
		return alias
	}
	return models.ArgumentName(jsonName)
}

func enumValues(schema *base.Schema) []EnumValue {
	values := make([]EnumValue, 0, len(schema.Enum))
	seen := make(map[string]bool)
	for _, node := range schema.Enum {
		if node == nil {
			continue
		}
		literal := typemap.Literal(node.Tag, node.Value)
		if literal == "" || literal == "None" {
			continue
		}

		name := models.SafeIdentifier(node.Value)
		if node.Tag != "!!str" {
			name = "value_" + models.SafeIdentifier(node.Value)
		}
		for seen[name] {
			name += "_"
		}
		seen[name] = true

		values = append(values, EnumValue{Name: name, Literal: literal})
	}
	return values
}

func isObject(schema *base.Schema) bool {
	if slices.Contains(schema.Type, "object") {
		// maps without declared properties are plain dictionaries
		hasProps := schema.Properties != nil && schema.Properties.Len() > 0
		return hasProps || len(schema.AllOf) > 0 || schema.AdditionalProperties == nil
	}
	return len(schema.Type) == 0 && ((schema.Properties != nil && schema.Properties.Len() > 0) || len(schema.AllOf) > 1)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
