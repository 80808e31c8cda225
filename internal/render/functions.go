package render

import (
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/moamenhredeen/fastapi-codegen/internal/typemap"
)

// TemplateFunctions are available to built-in and custom templates
var TemplateFunctions = template.FuncMap{
	"lower":         strings.ToLower,
	"upper":         strings.ToUpper,
	"snake":         strcase.ToSnake,
	"camel":         strcase.ToCamel,
	"quote":         typemap.Quote,
	"join":          strings.Join,
	"signature":     signature,
	"argument":      argument,
	"responseModel": responseModel,
}

// signature renders the Python argument list of a handler. Required
// arguments come first, then the request body, then optional arguments.
func signature(op models.Operation) string {
	var required, optional []string
	for _, p := range op.Arguments() {
		if p.Required && p.Default == "" {
			required = append(required, argument(p))
		} else {
			optional = append(optional, argument(p))
		}
	}

	args := required
	if op.RequestBody != "" {
		if op.BodyRequired {
			args = append(args, "body: "+op.RequestBody)
		} else {
			optional = append(optional, "body: "+op.RequestBody+" = None")
		}
	}
	args = append(args, optional...)

	return strings.Join(args, ", ")
}

// argument renders one parameter, e.g. "limit: int = 20" or
// "x_request_id: Optional[str] = Header(None, alias='X-Request-ID')".
func argument(p models.Parameter) string {
	decl := p.Identifier + ": " + p.Type
	helper := p.Helper()

	value := p.Default
	if value == "" && !p.Required {
		value = "None"
	}

	if helper == "" {
		if value == "" {
			return decl
		}
		return decl + " = " + value
	}

	if value == "" {
		value = "..."
	}
	call := helper + "(" + value
	if p.HasAlias() {
		call += ", alias=" + typemap.Quote(p.Name)
	}
	return decl + " = " + call + ")"
}

func responseModel(op models.Operation) string {
	model := op.SuccessResponse()
	if model == "None" {
		return ""
	}
	return ", response_model=" + model
}
