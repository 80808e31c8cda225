package models

import (
	"errors"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
)

// ErrPathNotRooted is returned when an operation path does not begin with "/".
var ErrPathNotRooted = errors.New("operation path must begin with '/'")

// Parameter locations supported by the operation model
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Parameter describes one operation parameter
type Parameter struct {
	Name        string
	Identifier  string // snake_case name usable as a Python argument
	In          string
	Required    bool
	Type        string // type reference, e.g. "int" or "List[Pet]"
	Default     string // Python literal, empty when the parameter has no default
	Description string
}

// HasAlias reports whether the generated argument name differs from the wire name
func (p Parameter) HasAlias() bool {
	return p.Identifier != p.Name
}

// Helper returns the FastAPI parameter function the argument needs, or ""
// when a plain annotated argument is enough. Path parameters never need one:
// RoutePath renames the placeholder to the identifier instead.
func (p Parameter) Helper() string {
	switch p.In {
	case InHeader:
		return "Header"
	case InCookie:
		return "Cookie"
	case InQuery:
		if p.HasAlias() {
			return "Query"
		}
	}
	return ""
}

// Response maps one status code to the type reference of its body
type Response struct {
	StatusCode string
	Type       string
}

// Operation represents one API endpoint as read from the OpenAPI document.
// Values are built once by the parser and treated as read-only afterwards.
type Operation struct {
	Path         string
	Method       string
	OperationID  string
	Summary      string
	Description  string
	Tags         []string
	Parameters   []Parameter
	RequestBody  string // type reference, empty when the operation has no body
	BodyRequired bool
	Responses    []Response
}

// Validate reports ErrPathNotRooted for paths not starting with "/"
func (o Operation) Validate() error {
	if !strings.HasPrefix(o.Path, "/") {
		return ErrPathNotRooted
	}
	return nil
}

// FunctionName returns the snake_case handler name for the operation.
// The operationId wins; otherwise the name is derived from method and path.
func (o Operation) FunctionName() string {
	if o.OperationID != "" {
		return SafeIdentifier(strcase.ToSnake(o.OperationID))
	}

	parts := []string{strings.ToLower(o.Method)}
	for _, segment := range strings.Split(strings.Trim(o.Path, "/"), "/") {
		segment = strings.Trim(segment, "{}")
		if segment != "" {
			parts = append(parts, strcase.ToSnake(segment))
		}
	}
	return SafeIdentifier(strings.Join(parts, "_"))
}

// RoutePath returns the path with each templated parameter renamed to its identifier
func (o Operation) RoutePath() string {
	path := o.Path
	for _, p := range o.Parameters {
		if p.In == InPath && p.HasAlias() {
			path = strings.ReplaceAll(path, "{"+p.Name+"}", "{"+p.Identifier+"}")
		}
	}
	return path
}

// Arguments returns the parameters with required ones first, keeping document
// order inside each half so generated signatures stay valid Python.
func (o Operation) Arguments() []Parameter {
	args := make([]Parameter, 0, len(o.Parameters))
	for _, p := range o.Parameters {
		if p.Required && p.Default == "" {
			args = append(args, p)
		}
	}
	for _, p := range o.Parameters {
		if !p.Required || p.Default != "" {
			args = append(args, p)
		}
	}
	return args
}

// SuccessResponse returns the body type of the first 2xx response, falling
// back to the default response and then to "None".
func (o Operation) SuccessResponse() string {
	for _, r := range o.Responses {
		if strings.HasPrefix(r.StatusCode, "2") && r.Type != "" {
			return r.Type
		}
	}
	for _, r := range o.Responses {
		if r.StatusCode == "default" && r.Type != "" {
			return r.Type
		}
	}
	return "None"
}

// ParsedDocument is the output of the parser. Operations keep document
// declaration order; Imports holds every import the operation types need.
type ParsedDocument struct {
	Name       string
	Operations []Operation
	Imports    *imports.Registry
}

// OperationGroup is a named set of operations sharing a grouping key
type OperationGroup struct {
	Name       string
	Operations []Operation
}

// ModuleName is the file and module name used for the group's artifacts.
// The empty key has no usable name, so it maps to "_root".
func (g OperationGroup) ModuleName() string {
	if g.Name == "" {
		return RootModuleName
	}
	return g.Name
}

// RootModuleName names the artifact of the group keyed by the empty string
const RootModuleName = "_root"
