// Package imports keeps the ordered, duplicate-free set of module imports
// required by generated sources.
package imports

import "fmt"

// Import is one symbol imported from a module, e.g. "from typing import List".
// Two imports are equal when both fields match.
type Import struct {
	SourceModule   string
	ImportedSymbol string
}

// String returns the Python import statement for the import
func (i Import) String() string {
	return fmt.Sprintf("from %s import %s", i.SourceModule, i.ImportedSymbol)
}

// Registry is an ordered set of imports. The first occurrence of an import
// fixes its position; later duplicates are ignored.
type Registry struct {
	seen  map[Import]struct{}
	order []Import
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{seen: make(map[Import]struct{})}
}

// Append inserts imp unless an equal import is already present
func (r *Registry) Append(imp Import) {
	if r.seen == nil {
		r.seen = make(map[Import]struct{})
	}
	if _, ok := r.seen[imp]; ok {
		return
	}
	r.seen[imp] = struct{}{}
	r.order = append(r.order, imp)
}

// Add is shorthand for Append(Import{module, symbol})
func (r *Registry) Add(module, symbol string) {
	r.Append(Import{SourceModule: module, ImportedSymbol: symbol})
}

// Contains reports whether an equal import has been appended
func (r *Registry) Contains(imp Import) bool {
	if r == nil {
		return false
	}
	_, ok := r.seen[imp]
	return ok
}

// Len returns the number of distinct imports
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// List returns the imports in insertion order. The slice is a copy.
func (r *Registry) List() []Import {
	if r == nil {
		return nil
	}
	out := make([]Import, len(r.order))
	copy(out, r.order)
	return out
}

// Statement is a group of symbols imported from one module
type Statement struct {
	Module  string
	Symbols []string
}

// String renders the statement as a single Python import line
func (s Statement) String() string {
	line := "from " + s.Module + " import "
	for i, sym := range s.Symbols {
		if i > 0 {
			line += ", "
		}
		line += sym
	}
	return line
}

// Statements folds the imports into one statement per module. Modules keep
// the position of their first import and symbols keep insertion order.
func (r *Registry) Statements() []Statement {
	if r == nil {
		return nil
	}
	var stmts []Statement
	index := make(map[string]int)
	for _, imp := range r.order {
		i, ok := index[imp.SourceModule]
		if !ok {
			i = len(stmts)
			index[imp.SourceModule] = i
			stmts = append(stmts, Statement{Module: imp.SourceModule})
		}
		stmts[i].Symbols = append(stmts[i].Symbols, imp.ImportedSymbol)
	}
	return stmts
}
