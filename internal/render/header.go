package render

import (
	"fmt"
	"path/filepath"
	"time"
)

// Generator is the tool name written into provenance headers
const Generator = "fastapi-codegen"

// TimestampLayout prints UTC as "+00:00" rather than "Z"
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Header returns the provenance comment block for a generated file. The
// timestamp is rendered in UTC, truncated to seconds.
func Header(documentName string, timestamp time.Time) string {
	return fmt.Sprintf("# generated by %s:\n#   filename:  %s\n#   timestamp: %s",
		Generator,
		filepath.Base(documentName),
		timestamp.UTC().Truncate(time.Second).Format(TimestampLayout),
	)
}
