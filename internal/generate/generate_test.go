package generate

import (
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/transform"
)

func loadShop(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "shop.yaml"))
	require.NoError(t, err)
	return c
}

func paramNames(op *openapi3.Operation) []string {
	var out []string
	for _, p := range op.Parameters {
		out = append(out, p.Value.Name)
	}
	return out
}

func TestDocument_Operations(t *testing.T) {
	t.Parallel()
	doc := New(loadShop(t)).Document()

	assert.Equal(t, OpenAPIVersion, doc.OpenAPI)
	assert.Equal(t, "Shop Messages", doc.Info.Title)
	require.Len(t, doc.Paths, 3)

	get := doc.Paths["/api/Order"].Get
	require.NotNil(t, get)
	assert.Equal(t, "OrderController_GetOrder", get.OperationID)
	assert.Equal(t, []string{"Order"}, get.Tags)
	names := paramNames(get)
	assert.Contains(t, names, "id")
	assert.Contains(t, names, "debugToken")
	assert.Contains(t, names, "shipTo.street")
	assert.Contains(t, names, "Connector.Handle")
	assert.NotContains(t, names, "shipTo")

	post := doc.Paths["/api/Order"].Post
	require.NotNil(t, post.RequestBody)
	body := post.RequestBody.Value
	assert.True(t, body.Required)
	assert.Equal(t, "#/components/schemas/Shop.Client.Order", body.Content["application/json"].Schema.Ref)

	upload := doc.Paths["/api/Order/upload"].Post
	require.Len(t, upload.RequestBody.Value.Content, 2)
	form := upload.RequestBody.Value.Content["multipart/form-data"].Schema.Value
	require.NotNil(t, form)
	assert.Contains(t, form.Properties, "attachment")
	assert.Equal(t, "binary", form.Properties["attachment"].Value.Format)

	byID := doc.Paths["/api/Order/{id}"].Get
	require.Len(t, byID.Parameters, 1)
	id := byID.Parameters[0].Value
	assert.Equal(t, "path", id.In)
	assert.True(t, id.Required)
	assert.Equal(t, "int64", id.Schema.Value.Format)
}

func TestDocument_Responses(t *testing.T) {
	t.Parallel()
	doc := New(loadShop(t)).Document()

	get := doc.Paths["/api/Order"].Get
	assert.Len(t, get.Responses, 3)
	ok := get.Responses["200"].Value
	assert.Equal(t, "Success", *ok.Description)
	for _, mt := range []string{"application/json", "text/json"} {
		assert.Equal(t, "#/components/schemas/Shop.Client.OrderConfirmation", ok.Content[mt].Schema.Ref, mt)
	}
	bad := get.Responses["400"].Value
	assert.Equal(t, "Bad Request", *bad.Description)
	assert.Equal(t, "#/components/schemas/Shop.Client.OrderRejected", bad.Content["application/json"].Schema.Ref)
}

func TestDocument_ResponsesRegisterEveryDeclaredType(t *testing.T) {
	t.Parallel()
	c, err := catalog.Load(filepath.Join("..", "catalog", "testdata", "unions.yaml"))
	require.NoError(t, err)
	doc := New(c).Document()

	find := doc.Paths["/api/Find"].Post
	require.NotNil(t, find)
	ok := find.Responses["200"].Value
	require.Len(t, ok.Content, 2, "a leading placeholder must not empty the response")
	assert.Equal(t, "#/components/schemas/Shop.Internal.TypeA", ok.Content["application/json"].Schema.Ref)
	assert.Empty(t, find.Responses["404"].Value.Content, "placeholder-only status has no content")

	for _, id := range []string{"Shop.Internal.TypeA", "Shop.Internal.TypeB", "Shop.Internal.TypeC"} {
		assert.Contains(t, doc.Components.Schemas, id)
	}
}

func TestGenerateSchema_RegistersChainAndReferences(t *testing.T) {
	t.Parallel()
	c := loadShop(t)
	doc := &openapi3.T{}
	repo := transform.NewRepository(doc)

	ref := New(c).GenerateSchema(c.Type("Shop.Client.OrderQuery"), repo)
	assert.Equal(t, "#/components/schemas/Shop.Client.OrderQuery", ref.Ref)
	assert.Equal(t, []string{
		"Shop.Client.Address",
		"Shop.Client.OrderQuery",
		"Unisys.Common.EISConnectors.ConnectorState",
		"Unisys.Message",
	}, repo.IDs())

	q := repo.Get("Shop.Client.OrderQuery")
	assert.Contains(t, q.Properties, "SessionId")
	assert.Equal(t, "#/components/schemas/Shop.Client.Address", q.Properties["shipTo"].Ref)

	// ConnectorState reaches itself through the inherited Connector field.
	cs := repo.Get("Unisys.Common.EISConnectors.ConnectorState")
	assert.Equal(t, "#/components/schemas/Unisys.Common.EISConnectors.ConnectorState", cs.Properties["Connector"].Ref)
}

func TestGenerateSchema_FieldShapes(t *testing.T) {
	t.Parallel()
	c := loadShop(t)
	repo := transform.NewRepository(&openapi3.T{})

	New(c).GenerateSchema(c.Type("Shop.Client.Order"), repo)
	order := repo.Get("Shop.Client.Order")
	assert.Equal(t, []interface{}{"Open", "Shipped", "Cancelled"}, order.Properties["status"].Value.Enum)
	assert.Equal(t, "number", order.Properties["total"].Value.Type)

	New(c).GenerateSchema(c.Type("Shop.Client.OrderConfirmation"), repo)
	lines := repo.Get("Shop.Client.OrderConfirmation").Properties["lines"].Value
	assert.Equal(t, "array", lines.Type)
	assert.Equal(t, "string", lines.Items.Value.Type)
}

func TestBinding_Inferred(t *testing.T) {
	t.Parallel()
	root := &catalog.MessageType{Name: "M"}
	cmd := &catalog.MessageType{Name: "Acme.Client.Cmd", Base: "M"}
	ctrl := &catalog.Controller{Name: "ThingController", Route: "things", Methods: []*catalog.Method{
		{Name: "Put", Verb: "put", Route: "{key}", Arguments: []catalog.Argument{
			{Name: "key", Type: "string"},
			{Name: "cmd", Type: "Acme.Client.Cmd"},
			{Name: "dryRun", Type: "bool"},
		}},
		{Name: "Find", Arguments: []catalog.Argument{{Name: "cmd", Type: "Acme.Client.Cmd"}}},
	}}
	c := catalog.New("M", []*catalog.MessageType{root, cmd}, nil, []*catalog.Controller{ctrl})
	g := New(c)

	put := ctrl.Methods[0]
	assert.Equal(t, catalog.FromPath, g.binding(put, put.Arguments[0]))
	assert.Equal(t, catalog.FromBody, g.binding(put, put.Arguments[1]))
	assert.Equal(t, catalog.FromQuery, g.binding(put, put.Arguments[2]))

	find := ctrl.Methods[1]
	assert.Equal(t, catalog.FromQuery, g.binding(find, find.Arguments[0]))

	doc := g.Document()
	require.NotNil(t, doc.Paths["/things/{key}"].Put)
	require.NotNil(t, doc.Paths["/things"].Get)
	assert.Equal(t, "Success", *doc.Paths["/things"].Get.Responses["200"].Value.Description)
}
