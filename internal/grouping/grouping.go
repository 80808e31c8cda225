// Package grouping partitions operations into router groups keyed by the
// first path segment.
package grouping

import (
	"strings"

	"github.com/moamenhredeen/fastapi-codegen/internal/models"
)

// Key returns the grouping key of a path: its first non-empty segment after
// trimming surrounding slashes. "/" and "" yield the empty key.
func Key(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	segment, _, _ := strings.Cut(trimmed, "/")
	return segment
}

// Group partitions ops by Key(path). Groups are emitted in the order their
// key first appears, and each group keeps the input order of its operations.
// Every operation lands in exactly one group.
func Group(ops []models.Operation) []models.OperationGroup {
	var groups []models.OperationGroup
	index := make(map[string]int)

	for _, op := range ops {
		key := Key(op.Path)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.OperationGroup{Name: key})
		}
		groups[i].Operations = append(groups[i].Operations, op)
	}

	return groups
}
