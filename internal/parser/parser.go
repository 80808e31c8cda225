package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/moamenhredeen/fastapi-codegen/internal/typemap"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// DefaultModelsModule is the module routers import component models from
const DefaultModelsModule = "models"

// supportedMethods are the HTTP methods FastAPI routers can declare
var supportedMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// Parser turns OpenAPI 3 documents into the operation model
type Parser struct {
	modelsModule string
}

// NewParser creates a parser importing component models from modelsModule.
// An empty module falls back to DefaultModelsModule.
func NewParser(modelsModule string) *Parser {
	if modelsModule == "" {
		modelsModule = DefaultModelsModule
	}
	return &Parser{modelsModule: modelsModule}
}

// LoadModel builds the libopenapi v3 model of a document. Failures are
// reported as *SpecParseError or *UnsupportedFeatureError.
func LoadModel(name string, text []byte) (*v3.Document, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, &SpecParseError{Document: name, Err: ErrEmptyDocument}
	}

	config := &datamodel.DocumentConfiguration{
		IgnorePolymorphicCircularReferences: true,
		IgnoreArrayCircularReferences:       true,
	}

	document, err := libopenapi.NewDocumentWithConfiguration(text, config)
	if err != nil {
		return nil, &SpecParseError{Document: name, Err: err}
	}

	if version := document.GetVersion(); strings.HasPrefix(version, "2") {
		return nil, &UnsupportedFeatureError{
			Document: name,
			Feature:  fmt.Sprintf("swagger %s documents are not supported, convert to OpenAPI 3 first", version),
		}
	}

	model, err := document.BuildV3Model()
	if err != nil {
		return nil, &SpecParseError{Document: name, Err: fmt.Errorf("failed to build v3 model: %w", err)}
	}
	if model == nil {
		return nil, &SpecParseError{Document: name, Err: fmt.Errorf("no v3 model in document")}
	}

	return &model.Model, nil
}

// Parse parses the document text into operations, in declaration order, and
// the imports their types require.
func (p *Parser) Parse(name string, text []byte) (*models.ParsedDocument, error) {
	model, err := LoadModel(name, text)
	if err != nil {
		return nil, err
	}

	reg := imports.NewRegistry()
	b := &builder{
		document: name,
		imports:  reg,
		mapper:   typemap.New(reg, p.modelsModule),
	}

	operations, err := b.operations(model)
	if err != nil {
		return nil, err
	}

	return &models.ParsedDocument{
		Name:       name,
		Operations: operations,
		Imports:    reg,
	}, nil
}

// builder carries the per-document state while walking paths
type builder struct {
	document string
	imports  *imports.Registry
	mapper   *typemap.Mapper
}

func (b *builder) operations(model *v3.Document) ([]models.Operation, error) {
	var operations []models.Operation

	if model.Paths == nil || model.Paths.PathItems == nil {
		return operations, nil
	}

	for path, pathItem := range model.Paths.PathItems.FromOldest() {
		if pathItem == nil {
			continue
		}

		for method, op := range pathItem.GetOperations().FromOldest() {
			if op == nil {
				continue
			}
			location := "paths." + path + "." + method
			if !supportedMethods[method] {
				return nil, &UnsupportedFeatureError{
					Document: b.document,
					Location: location,
					Feature:  fmt.Sprintf("HTTP method %q", method),
				}
			}

			operation, err := b.operation(path, method, pathItem, op)
			if err != nil {
				return nil, err
			}
			if err := operation.Validate(); err != nil {
				return nil, &SpecParseError{Document: b.document, Err: fmt.Errorf("path %q: %w", path, err)}
			}
			operations = append(operations, operation)
		}
	}

	return operations, nil
}

func (b *builder) operation(path, method string, pathItem *v3.PathItem, op *v3.Operation) (models.Operation, error) {
	location := "paths." + path + "." + method

	operation := models.Operation{
		Path:        path,
		Method:      strings.ToUpper(method),
		OperationID: op.OperationId,
		Summary:     op.Summary,
		Description: op.Description,
	}
	if op.Tags != nil {
		operation.Tags = append(operation.Tags, op.Tags...)
	}

	params, err := b.parameters(location, mergeParameters(pathItem.Parameters, op.Parameters))
	if err != nil {
		return models.Operation{}, err
	}
	operation.Parameters = params

	if op.RequestBody != nil {
		bodyType := b.mediaType(op.RequestBody.Content)
		required := op.RequestBody.Required != nil && *op.RequestBody.Required
		if !required {
			bodyType = b.optional(bodyType)
		}
		operation.RequestBody = bodyType
		operation.BodyRequired = required
	}

	if op.Responses != nil {
		if op.Responses.Codes != nil {
			for code, response := range op.Responses.Codes.FromOldest() {
				operation.Responses = append(operation.Responses, b.response(code, response))
			}
		}
		if op.Responses.Default != nil {
			operation.Responses = append(operation.Responses, b.response("default", op.Responses.Default))
		}
	}

	return operation, nil
}

// mergeParameters applies operation parameters over path-level ones, matching
// on name and location. Overrides keep the path-level position.
func mergeParameters(pathParams, opParams []*v3.Parameter) []*v3.Parameter {
	merged := make([]*v3.Parameter, 0, len(pathParams)+len(opParams))
	index := make(map[string]int)
	for _, list := range [][]*v3.Parameter{pathParams, opParams} {
		for _, param := range list {
			if param == nil {
				continue
			}
			key := param.In + "\x00" + param.Name
			if i, ok := index[key]; ok {
				merged[i] = param
				continue
			}
			index[key] = len(merged)
			merged = append(merged, param)
		}
	}
	return merged
}

func (b *builder) parameters(location string, params []*v3.Parameter) ([]models.Parameter, error) {
	result := make([]models.Parameter, 0, len(params))
	for _, param := range params {
		switch param.In {
		case models.InPath, models.InQuery, models.InHeader, models.InCookie:
		default:
			return nil, &UnsupportedFeatureError{
				Document: b.document,
				Location: fmt.Sprintf("%s.parameters[%s]", location, param.Name),
				Feature:  fmt.Sprintf("parameter location %q", param.In),
			}
		}

		required := param.In == models.InPath || (param.Required != nil && *param.Required)
		p := models.Parameter{
			Name:        param.Name,
			Identifier:  models.ArgumentName(param.Name),
			In:          param.In,
			Required:    required,
			Description: param.Description,
		}

		if param.Schema != nil {
			p.Type = b.mapper.Proxy(param.Schema)
			if schema := param.Schema.Schema(); schema != nil && schema.Default != nil {
				p.Default = typemap.Literal(schema.Default.Tag, schema.Default.Value)
			}
		} else {
			p.Type = b.mediaType(param.Content)
		}

		if !required && p.Default == "" {
			p.Type = b.optional(p.Type)
		}
		// the helper functions come from fastapi itself
		if helper := p.Helper(); helper != "" {
			b.imports.Add("fastapi", helper)
		}

		result = append(result, p)
	}
	return result, nil
}

func (b *builder) response(code string, response *v3.Response) models.Response {
	r := models.Response{StatusCode: code}
	if response != nil && response.Content != nil && response.Content.Len() > 0 {
		r.Type = b.mediaType(response.Content)
	}
	return r
}

func (b *builder) optional(t string) string {
	if t == "None" || strings.HasPrefix(t, "Optional[") {
		return t
	}
	b.imports.Add("typing", "Optional")
	return "Optional[" + t + "]"
}
