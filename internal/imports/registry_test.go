package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAppendDeduplicates(t *testing.T) {
	r := NewRegistry()
	r.Append(Import{SourceModule: "typing", ImportedSymbol: "List"})
	r.Append(Import{SourceModule: "typing", ImportedSymbol: "List"})

	require.Equal(t, 1, r.Len())
	assert.Equal(t, []Import{{SourceModule: "typing", ImportedSymbol: "List"}}, r.List())
}

func TestRegistryKeepsInsertionOrder(t *testing.T) {
	want := []Import{
		{SourceModule: "models", ImportedSymbol: "Pet"},
		{SourceModule: "typing", ImportedSymbol: "List"},
		{SourceModule: "models", ImportedSymbol: "Error"},
		{SourceModule: "typing", ImportedSymbol: "Optional"},
	}

	r := NewRegistry()
	for _, imp := range want {
		r.Append(imp)
	}
	// duplicates must not move an import
	r.Append(want[0])
	r.Append(want[2])

	assert.Equal(t, want, r.List())
}

func TestRegistryEqualityNeedsBothFields(t *testing.T) {
	r := NewRegistry()
	r.Add("models", "Pet")
	r.Add("routers.pets", "Pet")
	r.Add("models", "pet")

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(Import{SourceModule: "routers.pets", ImportedSymbol: "Pet"}))
	assert.False(t, r.Contains(Import{SourceModule: "routers", ImportedSymbol: "Pet"}))
}

func TestRegistryListIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Add("typing", "Any")

	list := r.List()
	list[0].ImportedSymbol = "Dict"

	assert.Equal(t, "Any", r.List()[0].ImportedSymbol)
}

func TestRegistryZeroValueIsUsable(t *testing.T) {
	var r Registry
	r.Add("fastapi", "APIRouter")
	r.Add("fastapi", "APIRouter")

	assert.Equal(t, 1, r.Len())
}

func TestRegistryStatements(t *testing.T) {
	r := NewRegistry()
	r.Add("typing", "List")
	r.Add("models", "Pet")
	r.Add("typing", "Optional")
	r.Add("models", "Error")

	stmts := r.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, "from typing import List, Optional", stmts[0].String())
	assert.Equal(t, "from models import Pet, Error", stmts[1].String())
}

func TestImportString(t *testing.T) {
	imp := Import{SourceModule: "routers.users", ImportedSymbol: "users_router"}
	assert.Equal(t, "from routers.users import users_router", imp.String())
}
