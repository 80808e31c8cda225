package parser

import (
	"os"
	"testing"

	"github.com/moamenhredeen/fastapi-codegen/internal/imports"
	"github.com/moamenhredeen/fastapi-codegen/internal/models"
	"github.com/moamenhredeen/fastapi-codegen/internal/typemap"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestParse(t *testing.T) {
	doc, err := NewParser("").Parse("petstore.yaml", readFixture(t, "petstore.yaml"))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "petstore.yaml", doc.Name)
	assert.Len(t, doc.Operations, 4)
}

func TestOperationsKeepDocumentOrder(t *testing.T) {
	doc, err := NewParser("").Parse("petstore.yaml", readFixture(t, "petstore.yaml"))
	require.NoError(t, err)

	var got []string
	for _, op := range doc.Operations {
		got = append(got, op.Method+" "+op.Path)
	}
	assert.Equal(t, []string{
		"GET /pets",
		"POST /pets",
		"GET /pets/{petId}",
		"GET /stores/{storeId}/inventory",
	}, got)
}

func TestOperationDetails(t *testing.T) {
	doc, err := NewParser("").Parse("petstore.yaml", readFixture(t, "petstore.yaml"))
	require.NoError(t, err)

	list := doc.Operations[0]
	assert.Equal(t, "listPets", list.OperationID)
	assert.Equal(t, "List all pets", list.Summary)
	assert.Equal(t, []string{"pets"}, list.Tags)
	assert.Equal(t, []models.Parameter{
		{
			Name: "limit", Identifier: "limit", In: models.InQuery, Type: "int", Default: "20",
			Description: "How many items to return at one time (max 100)",
		},
		{
			Name: "X-Request-ID", Identifier: "x_request_id", In: models.InHeader, Type: "Optional[str]",
		},
	}, list.Parameters)
	assert.Equal(t, []models.Response{
		{StatusCode: "200", Type: "Pets"},
		{StatusCode: "default", Type: "Error"},
	}, list.Responses)
	assert.Equal(t, "Pets", list.SuccessResponse())

	create := doc.Operations[1]
	assert.Equal(t, "Pet", create.RequestBody)
	assert.True(t, create.BodyRequired)
	assert.Equal(t, []models.Response{
		{StatusCode: "201"},
		{StatusCode: "default", Type: "Error"},
	}, create.Responses)

	show := doc.Operations[2]
	require.Len(t, show.Parameters, 1)
	assert.Equal(t, "pet_id", show.Parameters[0].Identifier)
	assert.True(t, show.Parameters[0].Required)
	assert.Equal(t, "/pets/{pet_id}", show.RoutePath())
	assert.Empty(t, show.Parameters[0].Helper())

	inventory := doc.Operations[3]
	assert.Equal(t, "Dict[str, int]", inventory.SuccessResponse())
	assert.Equal(t, "Optional[str]", inventory.Parameters[1].Type)
	assert.Equal(t, "Cookie", inventory.Parameters[1].Helper())
}

func TestImportsAreCollectedInOrder(t *testing.T) {
	doc, err := NewParser("").Parse("petstore.yaml", readFixture(t, "petstore.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []imports.Import{
		{SourceModule: "typing", ImportedSymbol: "Optional"},
		{SourceModule: "fastapi", ImportedSymbol: "Header"},
		{SourceModule: "models", ImportedSymbol: "Pets"},
		{SourceModule: "models", ImportedSymbol: "Error"},
		{SourceModule: "models", ImportedSymbol: "Pet"},
		{SourceModule: "fastapi", ImportedSymbol: "Cookie"},
		{SourceModule: "typing", ImportedSymbol: "Dict"},
	}, doc.Imports.List())
}

func TestParseIsDeterministic(t *testing.T) {
	text := readFixture(t, "petstore.yaml")

	first, err := NewParser("").Parse("petstore.yaml", text)
	require.NoError(t, err)
	second, err := NewParser("").Parse("petstore.yaml", text)
	require.NoError(t, err)

	assert.Equal(t, first.Operations, second.Operations)
	assert.Equal(t, first.Imports.List(), second.Imports.List())
}

func TestCustomModelsModule(t *testing.T) {
	doc, err := NewParser("app.schemas").Parse("users-orders.yaml", readFixture(t, "users-orders.yaml"))
	require.NoError(t, err)

	assert.True(t, doc.Imports.Contains(imports.Import{SourceModule: "app.schemas", ImportedSymbol: "User"}))
	assert.Equal(t, "Optional[Order]", doc.Operations[2].RequestBody)
	assert.False(t, doc.Operations[2].BodyRequired)
}

func TestRootPathOperation(t *testing.T) {
	doc, err := NewParser("").Parse("root-path.yaml", readFixture(t, "root-path.yaml"))
	require.NoError(t, err)

	require.Len(t, doc.Operations, 2)
	assert.Equal(t, "/", doc.Operations[1].Path)
	assert.Equal(t, "str", doc.Operations[1].SuccessResponse())
}

func TestParseErrors(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := NewParser("").Parse("invalid.yaml", readFixture(t, "invalid.yaml"))
		var parseErr *SpecParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "invalid.yaml", parseErr.Document)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewParser("").Parse("empty.yaml", []byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("swagger 2", func(t *testing.T) {
		_, err := NewParser("").Parse("swagger2.json", readFixture(t, "swagger2.json"))
		var unsupported *UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported)
		assert.Contains(t, unsupported.Feature, "swagger 2.0")
	})

	t.Run("parameter location", func(t *testing.T) {
		_, err := NewParser("").Parse("unsupported-parameter.yaml", readFixture(t, "unsupported-parameter.yaml"))
		var unsupported *UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "paths./search.get.parameters[q]", unsupported.Location)
		assert.Contains(t, err.Error(), `"querystring"`)
	})
}

func TestPathNotRooted(t *testing.T) {
	paths := orderedmap.New[string, *v3.PathItem]()
	paths.Set("pets", &v3.PathItem{Get: &v3.Operation{OperationId: "listPets"}})
	reg := imports.NewRegistry()
	b := &builder{document: "relative.yaml", imports: reg, mapper: typemap.New(reg, DefaultModelsModule)}

	_, err := b.operations(&v3.Document{Paths: &v3.Paths{PathItems: paths}})

	var parseErr *SpecParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, models.ErrPathNotRooted)
	assert.Equal(t, "relative.yaml", parseErr.Document)
}

func TestMergeParametersOverridesByNameAndLocation(t *testing.T) {
	doc, err := NewParser("").Parse("override.yaml", []byte(`
openapi: "3.0.0"
info: {title: override, version: "1"}
paths:
  /items/{id}:
    parameters:
      - {name: id, in: path, required: true, schema: {type: string}}
      - {name: id, in: query, schema: {type: string}}
    get:
      parameters:
        - {name: id, in: path, required: true, schema: {type: integer}}
        - {name: verbose, in: query, schema: {type: boolean}}
      responses:
        '204': {description: ok}
`))
	require.NoError(t, err)

	params := doc.Operations[0].Parameters
	require.Len(t, params, 3)
	assert.Equal(t, "int", params[0].Type)
	assert.Equal(t, models.InPath, params[0].In)
	assert.Equal(t, models.InQuery, params[1].In)
	assert.Equal(t, "verbose", params[2].Name)
}
