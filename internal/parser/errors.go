package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is wrapped by SpecParseError when the input has no content
var ErrEmptyDocument = errors.New("document is empty")

// SpecParseError reports a document that is not a well-formed OpenAPI document
type SpecParseError struct {
	Document string
	Err      error
}

func (e *SpecParseError) Error() string {
	return fmt.Sprintf("failed to parse OpenAPI document %s: %v", e.Document, e.Err)
}

func (e *SpecParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFeatureError reports a construct with no mapping to the
// operation model, e.g. an unknown parameter location.
type UnsupportedFeatureError struct {
	Document string
	Location string // where in the document, e.g. "paths./pets.get"
	Feature  string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("unsupported feature in %s: %s", e.Document, e.Feature)
	}
	return fmt.Sprintf("unsupported feature in %s at %s: %s", e.Document, e.Location, e.Feature)
}
