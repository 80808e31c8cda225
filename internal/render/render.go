// Package render executes the controller and entry-point templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
)

// Template identifiers. A template directory must define both.
const (
	ControllerTemplate = "controller.tmpl"
	MainTemplate       = "main.tmpl"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// ControllerBinding is the data bound to the controller template. Name is
// the grouping key and may be empty; Module is the file and router name.
type ControllerBinding struct {
	Operations []models.Operation
	Imports    *imports.Registry
	Name       string
	Module     string
}

// EntryPointBinding is the data bound to the entry-point template
type EntryPointBinding struct {
	Imports *imports.Registry
	Routers []string
}

// Renderer produces source text from the two generation templates
type Renderer interface {
	RenderController(binding ControllerBinding) (string, error)
	RenderEntryPoint(binding EntryPointBinding) (string, error)
}

// RenderError reports a template that failed to execute against its binding
type RenderError struct {
	Template string
	Artifact string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s for %q: %v", e.Template, e.Artifact, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// TemplateRenderer renders with text/template
type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer loads the templates from dir, or the built-in set when
// dir is empty. A custom directory replaces the built-in set entirely.
func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(builtinTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("failed to open built-in templates: %w", err)
		}
		fsys = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open template directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template directory %s is not a directory", dir)
		}
		fsys = os.DirFS(dir)
	}

	tpl, err := template.New("templates").
		Funcs(TemplateFunctions).
		Option("missingkey=error").
		ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	for _, name := range []string{ControllerTemplate, MainTemplate} {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s not found in %s", name, describe(dir))
		}
	}

	return &TemplateRenderer{tpl: tpl}, nil
}

// RenderController renders one router module
func (r *TemplateRenderer) RenderController(binding ControllerBinding) (string, error) {
	return r.execute(ControllerTemplate, binding.Module, binding)
}

// RenderEntryPoint renders the application module wiring all routers
func (r *TemplateRenderer) RenderEntryPoint(binding EntryPointBinding) (string, error) {
	return r.execute(MainTemplate, "main", binding)
}

func (r *TemplateRenderer) execute(name, artifact string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &RenderError{Template: name, Artifact: artifact, Err: err}
	}
	return buf.String(), nil
}

func describe(dir string) string {
	if dir == "" {
		return "built-in templates"
	}
	return strings.TrimRight(dir, "/")
}
