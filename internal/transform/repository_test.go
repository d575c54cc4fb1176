package transform

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	t.Parallel()

	doc := &openapi3.T{}
	repo := NewRepository(doc)
	require.NotNil(t, doc.Components)
	require.NotNil(t, doc.Components.Schemas)

	repo.Put("b", objectSchema("x"))
	repo.Put("a", objectSchema("y"))
	assert.Equal(t, []string{"a", "b"}, repo.IDs())
	assert.True(t, repo.Has("a"))
	assert.Same(t, repo.Get("b"), repo.Resolve("#/components/schemas/b"))
	assert.Nil(t, repo.Resolve("#/definitions/b"))
	assert.Nil(t, repo.Resolve("#/components/schemas/zzz"))
	assert.Equal(t, "#/components/schemas/a", repo.Ref("a"))

	repo.Delete("a")
	assert.False(t, repo.Has("a"))
	assert.Contains(t, doc.Components.Schemas, "b")
}

func TestOptions_Normalize(t *testing.T) {
	t.Parallel()

	o := NewOptions(WithVendorPrefix("x-acme-"), WithClientNamespace(""), WithExcludedNamespaces(" A ", ""), WithLegacy(true))
	assert.Equal(t, "x-acme", o.VendorPrefix)
	assert.Equal(t, DefaultClientNamespace, o.ClientNamespace)
	assert.Equal(t, []string{"A"}, o.ExcludedNamespaces)
	assert.Equal(t, "legacy", o.Mode())
	assert.Equal(t, "x-acme-uihint", o.ext("uihint"))
	assert.Equal(t, "richer", DefaultOptions().Mode())
}

func TestLeafName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "street", leafName("shipTo.street"))
	assert.Equal(t, "c", leafName("a.b.c"))
	assert.Equal(t, ".street", leafName(".street"))
	assert.Equal(t, "id", leafName("id"))
}
