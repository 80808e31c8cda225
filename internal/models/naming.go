package models

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true, "def": true,
	"del": true, "elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// SafeIdentifier turns s into a valid Python identifier
func SafeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	id := b.String()
	if id == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(id)[0]) {
		id = "_" + id
	}
	if pythonKeywords[id] {
		id += "_"
	}
	return id
}

// ArgumentName returns the snake_case Python name for a wire name such as
// "petId" or "X-Request-ID".
func ArgumentName(name string) string {
	return SafeIdentifier(strcase.ToSnake(name))
}

// ClassName returns the CamelCase Python class name for a schema name
func ClassName(name string) string {
	return SafeIdentifier(strcase.ToCamel(name))
}
