package transform

import (
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/msgdoc/internal/catalog"
)

func loadShop(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "shop.yaml"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	return c
}

func newDoc() *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.1",
		Info:    &openapi3.Info{Title: "test", Version: "v1"},
		Paths:   openapi3.Paths{},
	}
}

func objectSchema(props ...string) *openapi3.Schema {
	s := &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
	for _, p := range props {
		s.Properties[p] = openapi3.NewSchemaRef("", &openapi3.Schema{Type: "string"})
	}
	return s
}

func propNames(s *openapi3.Schema) []string {
	return sortedKeys(s.Properties)
}

// stubGenerator renders every field of the type chain as a string property.
type stubGenerator struct {
	catalog *catalog.Catalog
	calls   []string
}

func (g *stubGenerator) GenerateSchema(t *catalog.MessageType, repo *Repository) *openapi3.SchemaRef {
	g.calls = append(g.calls, t.Name)
	if !repo.Has(t.SchemaID()) {
		var names []string
		for _, f := range g.catalog.AllFields(t) {
			names = append(names, f.Name)
		}
		repo.Put(t.SchemaID(), objectSchema(names...))
	}
	return openapi3.NewSchemaRef(repo.Ref(t.SchemaID()), nil)
}
