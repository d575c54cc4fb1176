package transform_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/document"
	"github.com/mark3labs/msgdoc/internal/generate"
	"github.com/mark3labs/msgdoc/internal/logger"
	"github.com/mark3labs/msgdoc/internal/transform"
)

func loadShop(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "shop.yaml"))
	require.NoError(t, err)
	return c
}

func run(t *testing.T, c *catalog.Catalog, opts ...transform.Option) (*openapi3.T, *transform.Result) {
	t.Helper()
	gen := generate.New(c)
	doc := gen.Document()
	res, err := transform.NewPipeline(c, gen, opts...).Run(doc)
	require.NoError(t, err)
	return doc, res
}

func schema(t *testing.T, doc *openapi3.T, id string) *openapi3.Schema {
	t.Helper()
	ref, ok := doc.Components.Schemas[id]
	require.True(t, ok, "schema %s missing", id)
	require.NotNil(t, ref.Value)
	return ref.Value
}

func keys(m openapi3.Schemas) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestPipeline_UnionsValidate(t *testing.T) {
	t.Parallel()
	c, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "unions.yaml"))
	require.NoError(t, err)
	doc, res := run(t, c)

	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
	assert.Empty(t, res.Diagnostics.WithCode(transform.CodeUnionUnresolved))
	assert.Empty(t, res.Diagnostics.WithCode(transform.CodeEmptyResponse))
	require.NoError(t, document.Validate(context.Background(), doc))

	cases := map[string]int{"/api/Find": 2, "/api/Audit": 3}
	for path, members := range cases {
		op := doc.Paths[path].Post
		require.NotNil(t, op, path)
		for mt, media := range op.Responses["200"].Value.Content {
			s := media.Schema
			assert.Empty(t, s.Ref, "%s %s", path, mt)
			require.Len(t, s.Value.OneOf, members, "%s %s", path, mt)
			for _, ref := range s.Value.OneOf {
				id := strings.TrimPrefix(ref.Ref, "#/components/schemas/")
				assert.Contains(t, doc.Components.Schemas, id)
			}
		}
	}
	assert.Empty(t, doc.Paths["/api/Find"].Post.Responses["404"].Value.Content)
}

func TestPipeline_RicherOrder(t *testing.T) {
	t.Parallel()
	doc, res := run(t, loadShop(t))

	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "richer", res.Mode)

	root := schema(t, doc, "Unisys.Message")
	require.NotNil(t, root.Discriminator)
	assert.Equal(t, "MessageType", root.Discriminator.PropertyName)
	assert.Equal(t, []string{"MessageClassName", "MessageType"}, keys(root.Properties))
	assert.Contains(t, root.Required, "MessageType")

	order := schema(t, doc, "Shop.Client.Order")
	require.Len(t, order.AllOf, 2, spew.Sdump(order))
	assert.Equal(t, "#/components/schemas/Unisys.Message", order.AllOf[0].Ref)
	residual := order.AllOf[1].Value
	assert.Equal(t, []string{"id", "status", "total"}, keys(residual.Properties))
	assert.Empty(t, order.Properties)
	assert.Equal(t, "Order", order.XML.Name)

	status := residual.Properties["status"].Value
	assert.Equal(t, []interface{}{"Open", "Shipped", "Cancelled"}, status.Enum)
	assert.Equal(t, map[string]interface{}{"name": "OrderStatus", "modelAsString": false}, status.Extensions["x-ms-enum"])
}

func TestPipeline_LegacyOrder(t *testing.T) {
	t.Parallel()
	doc, res := run(t, loadShop(t), transform.WithLegacy(true))

	assert.Equal(t, "legacy", res.Mode)
	root := schema(t, doc, "Unisys.Message")
	assert.Nil(t, root.Discriminator)
	assert.NotContains(t, root.Properties, "MessageType")

	order := schema(t, doc, "Shop.Client.Order")
	assert.Empty(t, order.AllOf)
	assert.Equal(t, []string{"MessageClassName", "id", "status", "total"}, keys(order.Properties))

	for path, item := range doc.Paths {
		for verb, op := range item.Operations() {
			for status, resp := range op.Responses {
				for mt, media := range resp.Value.Content {
					if media.Schema.Value != nil {
						assert.Empty(t, media.Schema.Value.OneOf, "%s %s %s %s", verb, path, status, mt)
					}
				}
			}
		}
	}
}

func TestPipeline_ResponseUnions(t *testing.T) {
	t.Parallel()
	doc, _ := run(t, loadShop(t))

	get := doc.Paths["/api/Order"].Get
	require.NotNil(t, get)
	ok := get.Responses["200"].Value.Content["application/json"].Schema.Value
	require.NotNil(t, ok)
	require.Len(t, ok.OneOf, 2)
	assert.Equal(t, "#/components/schemas/Shop.Client.OrderConfirmation", ok.OneOf[0].Ref)
	assert.Equal(t, "#/components/schemas/Shop.Client.OrderRejected", ok.OneOf[1].Ref)
	assert.Empty(t, ok.Properties)

	notFound := get.Responses["404"].Value.Content["application/json"].Schema
	assert.Equal(t, "#/components/schemas/Shop.Client.NotFound", notFound.Ref)

	post := doc.Paths["/api/Order"].Post
	created := post.Responses["200"].Value.Content["application/json"].Schema
	assert.Equal(t, "#/components/schemas/Shop.Client.OrderConfirmation", created.Ref)
}

func TestPipeline_Operations(t *testing.T) {
	t.Parallel()
	doc, res := run(t, loadShop(t))

	assert.Equal(t, 4, res.OperationsTransformed)
	assert.Equal(t, 0, res.OperationsUnmatched)

	var names []string
	for _, p := range doc.Paths["/api/Order"].Get.Parameters {
		names = append(names, p.Value.Name)
	}
	assert.Equal(t, []string{"id", "includeLines", "shipTo.street", "shipTo.city"}, names)

	upload := doc.Paths["/api/Order/upload"].Post.RequestBody.Value
	require.Len(t, upload.Content, 1)
	form := upload.Content[transform.FormMediaType].Schema.Value
	assert.Equal(t, []string{"attachment", "note", "orderId"}, keys(form.Properties))

	byID := doc.Paths["/api/Order/{id}"].Get
	require.Len(t, byID.Parameters, 1)
	assert.Equal(t, "path", byID.Parameters[0].Value.In)
}

func TestPipeline_SchemaRegistration(t *testing.T) {
	t.Parallel()
	doc, res := run(t, loadShop(t))

	assert.Contains(t, doc.Components.Schemas, "Shop.Client.Promotion")
	assert.Contains(t, doc.Components.Schemas, "Shop.Client.Address")
	assert.NotContains(t, doc.Components.Schemas, "Shop.Internal.AuditRecord")
	assert.NotContains(t, doc.Components.Schemas, "Unisys.Common.EISConnectors.ConnectorState")
	assert.Equal(t, 1, res.SchemasRemoved)

	// Every client message composes the root.
	for id, ref := range doc.Components.Schemas {
		if !strings.Contains(id, ".Client.") {
			continue
		}
		require.NotEmpty(t, ref.Value.AllOf, id)
		assert.Equal(t, "#/components/schemas/Unisys.Message", ref.Value.AllOf[0].Ref, id)
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	t.Parallel()
	c := loadShop(t)

	render := func() []byte {
		doc, _ := run(t, c)
		out, err := json.Marshal(doc)
		require.NoError(t, err)
		return out
	}
	first := render()
	second := render()
	assert.True(t, bytes.Equal(first, second))

	loader := openapi3.NewLoader()
	loaded, err := loader.LoadFromData(first)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate(context.Background()))
}

func TestPipeline_InvalidCatalog(t *testing.T) {
	t.Parallel()
	c := catalog.New("M", []*catalog.MessageType{
		{Name: "M"},
		{Name: "A", Base: "B"},
		{Name: "B", Base: "A"},
	}, nil, nil)

	_, err := transform.NewPipeline(c, generate.New(c)).Run(generate.New(c).Document())
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrInheritanceCycle))
}

func TestPipeline_NilDocument(t *testing.T) {
	t.Parallel()
	c := loadShop(t)

	_, err := transform.NewPipeline(c, generate.New(c)).Run(nil)
	assert.ErrorIs(t, err, transform.ErrNilDocument)
}

func TestPipeline_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	_, res := run(t, loadShop(t))
	assert.Contains(t, buf.String(), res.RunID)
	assert.Contains(t, buf.String(), "transform finished")
}
