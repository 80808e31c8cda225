package typemap

import (
	"strconv"
	"strings"
)

// Quote renders s as a single-quoted Python string literal
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Literal converts a resolved YAML scalar (tag and value) to a Python
// literal. Non-scalar or unknown values yield "".
func Literal(tag, value string) string {
	switch tag {
	case "!!str":
		return Quote(value)
	case "!!int":
		if _, err := strconv.ParseInt(value, 0, 64); err == nil {
			return value
		}
	case "!!float":
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return value
		}
	case "!!bool":
		if b, err := strconv.ParseBool(value); err == nil {
			if b {
				return "True"
			}
			return "False"
		}
	case "!!null":
		return "None"
	}
	return ""
}
