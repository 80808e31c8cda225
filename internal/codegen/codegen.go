// Package codegen runs the end-to-end generation pipeline: parse, group,
// render and write the router modules, the application entry point and the
// data-model module.
package codegen

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/moamenhredeen/fastapi-codegen/internal/generator"
	"github.com/moamenhredeen/fastapi-codegen/internal/grouping"
	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/moamenhredeen/fastapi-codegen/internal/parser"
	"github.com/moamenhredeen/fastapi-codegen/internal/render"
	"github.com/moamenhredeen/fastapi-codegen/internal/writer"
)

// Output layout
const (
	ControllersDir   = "routers"
	FileExtension    = ".py"
	PackageMarker    = "__init__" + FileExtension
	EntryPointFile   = "main" + FileExtension
	DefaultModelFile = "models" + FileExtension
)

// SpecParser turns document text into the operation model
type SpecParser interface {
	Parse(name string, text []byte) (*models.ParsedDocument, error)
}

// Input describes one generation run
type Input struct {
	DocumentName string // base name of the input document, used in headers
	DocumentText []byte
	OutputDir    string
	TemplateDir  string    // empty selects the built-in templates
	Timestamp    time.Time // provenance timestamp; zero means now
}

// GroupSummary describes one rendered router module
type GroupSummary struct {
	Name       string `json:"name"`
	Module     string `json:"module"`
	Operations int    `json:"operations"`
}

// Result summarizes a completed run
type Result struct {
	DocumentName string         `json:"document"`
	OutputDir    string         `json:"output_dir"`
	Timestamp    time.Time      `json:"timestamp"`
	Operations   int            `json:"operations"`
	Groups       []GroupSummary `json:"groups"`
	Files        []string       `json:"files"`
}

// Generator orchestrates a generation run
type Generator struct {
	parser    SpecParser
	renderer  render.Renderer
	models    generator.ModelGenerator
	skipModel bool
	modelFile string
	aliases   map[string]string
	formatter Formatter
	logger    *slog.Logger
	onEvent   OnEvent
}

// Option configures a Generator
type Option func(*Generator)

// WithParser replaces the default OpenAPI parser
func WithParser(p SpecParser) Option {
	return func(g *Generator) { g.parser = p }
}

// WithRenderer replaces the template renderer. Input.TemplateDir is ignored
// when a renderer is set.
func WithRenderer(r render.Renderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// WithModelGenerator replaces the built-in pydantic model generator
func WithModelGenerator(m generator.ModelGenerator) Option {
	return func(g *Generator) { g.models = m }
}

// WithoutModels skips the data-model step
func WithoutModels() Option {
	return func(g *Generator) { g.skipModel = true }
}

// WithModelFile sets the data-model file name, relative to the output directory
func WithModelFile(name string) Option {
	return func(g *Generator) { g.modelFile = name }
}

// WithAliases sets the field aliases of the built-in model generator
func WithAliases(aliases map[string]string) Option {
	return func(g *Generator) { g.aliases = aliases }
}

// WithFormatter replaces the controller formatter
func WithFormatter(f Formatter) Option {
	return func(g *Generator) { g.formatter = f }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithEventHandler registers a progress callback
func WithEventHandler(fn OnEvent) Option {
	return func(g *Generator) { g.onEvent = fn }
}

// New creates a Generator with the given options
func New(opts ...Option) *Generator {
	g := &Generator{
		parser:    parser.NewParser(parser.DefaultModelsModule),
		modelFile: DefaultModelFile,
		aliases:   generator.DefaultAliases,
		formatter: Tidy{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) emit(event Event) {
	if g.onEvent != nil {
		g.onEvent(event)
	}
}

type controller struct {
	module string
	code   string
}

// Generate runs the pipeline. Nothing is written until every template has
// rendered, so a parse or render failure leaves the output tree untouched.
func (g *Generator) Generate(in Input) (*Result, error) {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()

	if err := writer.EnsureDir(in.OutputDir); err != nil {
		return nil, err
	}

	doc, err := g.parser.Parse(in.DocumentName, in.DocumentText)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("parsed document", "document", in.DocumentName, "operations", len(doc.Operations), "imports", doc.Imports.Len())
	g.emit(Event{Type: EventParsed, Operations: len(doc.Operations)})

	renderer := g.renderer
	if renderer == nil {
		tr, err := render.NewTemplateRenderer(in.TemplateDir)
		if err != nil {
			return nil, err
		}
		renderer = tr
	}

	groups := grouping.Group(doc.Operations)
	result := &Result{
		DocumentName: in.DocumentName,
		OutputDir:    in.OutputDir,
		Timestamp:    ts,
		Operations:   len(doc.Operations),
	}

	controllers := make([]controller, 0, len(groups))
	for i, group := range groups {
		module := group.ModuleName()
		code, err := renderer.RenderController(render.ControllerBinding{
			Operations: group.Operations,
			Imports:    doc.Imports,
			Name:       group.Name,
			Module:     module,
		})
		if err != nil {
			return nil, err
		}
		code, err = g.formatter.Format(code)
		if err != nil {
			return nil, fmt.Errorf("failed to format router %s: %w", module, err)
		}
		controllers = append(controllers, controller{module: module, code: code})
		result.Groups = append(result.Groups, GroupSummary{
			Name:       group.Name,
			Module:     module,
			Operations: len(group.Operations),
		})
		g.logger.Debug("rendered router", "group", group.Name, "module", module, "operations", len(group.Operations))
		g.emit(Event{Type: EventGroupRendered, Group: group.Name, Operations: len(group.Operations), Index: i, Total: len(groups)})
	}

	entryImports := imports.NewRegistry()
	routers := make([]string, 0, len(controllers))
	for _, c := range controllers {
		router := c.module + "_router"
		entryImports.Add(ControllersDir+"."+c.module, router)
		routers = append(routers, router)
	}
	entryPoint, err := renderer.RenderEntryPoint(render.EntryPointBinding{
		Imports: entryImports,
		Routers: routers,
	})
	if err != nil {
		return nil, err
	}

	files, err := g.write(in, ts, controllers, entryPoint)
	if err != nil {
		return nil, err
	}
	result.Files = files

	if !g.skipModel {
		path := filepath.Join(in.OutputDir, g.modelFile)
		if err := g.modelGenerator(ts).GenerateModels(in.DocumentName, in.DocumentText, path); err != nil {
			return nil, fmt.Errorf("failed to generate models: %w", err)
		}
		result.Files = append(result.Files, path)
		g.logger.Debug("generated models", "path", path)
		g.emit(Event{Type: EventModelsGenerated, Path: path})
	}

	g.logger.Info("generation complete",
		"document", in.DocumentName,
		"operations", result.Operations,
		"routers", len(result.Groups),
		"output", in.OutputDir)
	return result, nil
}

func (g *Generator) modelGenerator(ts time.Time) generator.ModelGenerator {
	if g.models != nil {
		return g.models
	}
	return generator.NewGenerator(generator.Config{
		Aliases: g.aliases,
		Now:     func() time.Time { return ts },
	})
}

func (g *Generator) write(in Input, ts time.Time, controllers []controller, entryPoint string) ([]string, error) {
	dir := filepath.Join(in.OutputDir, ControllersDir)
	if err := writer.EnsureDir(dir); err != nil {
		return nil, err
	}

	var files []string
	put := func(path string, content string) error {
		if err := writer.WriteFile(path, []byte(content)); err != nil {
			return err
		}
		files = append(files, path)
		g.logger.Debug("wrote file", "path", path, "bytes", len(content))
		g.emit(Event{Type: EventFileWritten, Path: path})
		return nil
	}

	if err := put(filepath.Join(dir, PackageMarker), ""); err != nil {
		return nil, err
	}

	header := render.Header(in.DocumentName, ts)
	for _, c := range controllers {
		body := header + "\n\n" + strings.TrimRight(c.code, "\n") + "\n"
		if err := put(controllerPath(in.OutputDir, c.module), body); err != nil {
			return nil, err
		}
	}

	if err := put(filepath.Join(in.OutputDir, EntryPointFile), entryPoint); err != nil {
		return nil, err
	}
	return files, nil
}
