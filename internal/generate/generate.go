// Package generate builds the raw OpenAPI document for a catalog.
//
// The output is deliberately naive: every declared field is rendered, query
// arguments are flattened, form bodies are offered under two media types
// and each status uses the first type declared for it. The transform
// package turns this into the published description.
package generate

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/transform"
)

// OpenAPIVersion is the version string of generated documents.
const OpenAPIVersion = "3.0.1"

// Media types of generated operations.
var (
	responseMediaTypes = []string{"application/json", "text/json"}
	formMediaTypes     = []string{"multipart/form-data", "application/x-www-form-urlencoded"}
)

// Generator renders catalog types and methods into OpenAPI objects.
type Generator struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Generator {
	return &Generator{catalog: c}
}

// Document builds a fresh document describing every method of the catalog.
func (g *Generator) Document() *openapi3.T {
	info := g.catalog.Info
	if info.Title == "" {
		info.Title = "msgdoc"
	}
	if info.Version == "" {
		info.Version = "v1"
	}
	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.Paths{},
	}
	repo := transform.NewRepository(doc)
	for _, m := range g.catalog.Methods() {
		path := m.Path()
		item := doc.Paths[path]
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths[path] = item
		}
		item.SetOperation(strings.ToUpper(m.HTTPMethod()), g.operation(m, repo))
	}
	return doc
}

// GenerateSchema registers t, its base types and every message type its
// fields reference. It returns a reference to t's schema.
func (g *Generator) GenerateSchema(t *catalog.MessageType, repo *transform.Repository) *openapi3.SchemaRef {
	id := t.SchemaID()
	ref := openapi3.NewSchemaRef(repo.Ref(id), nil)
	if repo.Has(id) {
		return ref
	}
	// Registered before the fields so recursive references terminate.
	s := &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
	repo.Put(id, s)
	for _, f := range g.catalog.AllFields(t) {
		s.Properties[f.Name] = g.fieldSchema(f, repo)
	}
	if base := g.catalog.Type(t.Base); base != nil {
		g.GenerateSchema(base, repo)
	}
	return ref
}

func (g *Generator) fieldSchema(f catalog.Field, repo *transform.Repository) *openapi3.SchemaRef {
	item := g.valueSchema(f.Type, repo)
	if !f.Repeated {
		return item
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{Type: "array", Items: item})
}

// valueSchema renders a field or argument type: scalars and enums inline,
// message types as references.
func (g *Generator) valueSchema(typeName string, repo *transform.Repository) *openapi3.SchemaRef {
	if mt := g.catalog.Type(typeName); mt != nil {
		return g.GenerateSchema(mt, repo)
	}
	if e := g.catalog.Enum(typeName); e != nil {
		s := &openapi3.Schema{Type: "string"}
		for _, v := range e.Values {
			s.Enum = append(s.Enum, v)
		}
		return openapi3.NewSchemaRef("", s)
	}
	if p, ok := catalog.LookupPrimitive(typeName); ok {
		return openapi3.NewSchemaRef("", &openapi3.Schema{Type: p.Type, Format: p.Format})
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{})
}

func (g *Generator) operation(m *catalog.Method, repo *transform.Repository) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: m.ID(),
		Summary:     m.Summary,
		Responses:   openapi3.Responses{},
	}
	if ctrl := m.Controller(); ctrl != nil {
		op.Tags = []string{strings.TrimSuffix(ctrl.Name, "Controller")}
	}
	for _, a := range m.Arguments {
		switch g.binding(m, a) {
		case catalog.FromPath:
			p := openapi3.NewPathParameter(a.Name)
			p.Schema = g.valueSchema(a.Type, repo)
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		case catalog.FromBody:
			op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
				Required: true,
				Content:  openapi3.NewContentWithJSONSchemaRef(g.valueSchema(a.Type, repo)),
			}}
		case catalog.FromForm:
			op.RequestBody = &openapi3.RequestBodyRef{Value: g.formBody(a, repo)}
		default:
			op.Parameters = append(op.Parameters, g.queryParameters(a, repo)...)
		}
	}
	g.responses(op, m, repo)
	return op
}

// binding resolves an argument's source, inferring it when undeclared.
func (g *Generator) binding(m *catalog.Method, a catalog.Argument) string {
	if a.From != "" {
		return strings.ToLower(a.From)
	}
	if g.catalog.KindOf(a.Type) == catalog.KindMessage {
		switch m.HTTPMethod() {
		case "post", "put", "patch":
			return catalog.FromBody
		}
		return catalog.FromQuery
	}
	if strings.Contains(m.Path(), "{"+a.Name+"}") {
		return catalog.FromPath
	}
	return catalog.FromQuery
}

func (g *Generator) queryParameters(a catalog.Argument, repo *transform.Repository) openapi3.Parameters {
	mt := g.catalog.Type(a.Type)
	if mt == nil {
		p := openapi3.NewQueryParameter(a.Name)
		p.Schema = g.valueSchema(a.Type, repo)
		return openapi3.Parameters{{Value: p}}
	}
	return g.flatten("", mt, repo, map[string]bool{})
}

// flatten expands a message type into one query parameter per scalar field,
// naming nested fields with their dotted path.
func (g *Generator) flatten(prefix string, t *catalog.MessageType, repo *transform.Repository, visiting map[string]bool) openapi3.Parameters {
	if visiting[t.Name] {
		return nil
	}
	visiting[t.Name] = true
	defer delete(visiting, t.Name)

	var out openapi3.Parameters
	for _, f := range g.catalog.AllFields(t) {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		if nested := g.catalog.Type(f.Type); nested != nil && !f.Repeated {
			out = append(out, g.flatten(name, nested, repo, visiting)...)
			continue
		}
		p := openapi3.NewQueryParameter(name)
		p.Schema = g.fieldSchema(f, repo)
		out = append(out, &openapi3.ParameterRef{Value: p})
	}
	return out
}

// formBody renders a form-bound argument as an inline object offered under
// every form media type.
func (g *Generator) formBody(a catalog.Argument, repo *transform.Repository) *openapi3.RequestBody {
	s := &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
	if mt := g.catalog.Type(a.Type); mt != nil {
		for _, f := range g.catalog.AllFields(mt) {
			s.Properties[f.Name] = g.fieldSchema(f, repo)
		}
	} else {
		s.Properties[a.Name] = g.valueSchema(a.Type, repo)
	}
	ref := openapi3.NewSchemaRef("", s)
	content := openapi3.Content{}
	for _, mt := range formMediaTypes {
		content[mt] = &openapi3.MediaType{Schema: ref}
	}
	return &openapi3.RequestBody{Content: content}
}

// responses renders one response per declared status using the first
// concrete type declared for it, controller-level declarations first. Every
// declared message type is registered so later unions resolve. A status whose
// only declaration is the placeholder gets a response without content.
func (g *Generator) responses(op *openapi3.Operation, m *catalog.Method, repo *transform.Repository) {
	first := map[int]string{}
	var statuses []int
	for _, rt := range append(append([]catalog.ResponseType(nil), m.ControllerResponses()...), m.Responses...) {
		if _, seen := first[rt.Status]; !seen {
			first[rt.Status] = ""
			statuses = append(statuses, rt.Status)
		}
		if rt.Type == "" || rt.Type == catalog.PlaceholderResponseType {
			continue
		}
		if mt := g.catalog.Type(rt.Type); mt != nil {
			g.GenerateSchema(mt, repo)
		}
		if first[rt.Status] == "" {
			first[rt.Status] = rt.Type
		}
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		desc := http.StatusText(status)
		if status == http.StatusOK {
			desc = "Success"
		}
		resp := &openapi3.Response{Description: &desc}
		if typ := first[status]; typ != "" {
			schema := g.valueSchema(typ, repo)
			resp.Content = openapi3.Content{}
			for _, mt := range responseMediaTypes {
				resp.Content[mt] = &openapi3.MediaType{Schema: schema}
			}
		}
		op.Responses[strconv.Itoa(status)] = &openapi3.ResponseRef{Value: resp}
	}
	if len(op.Responses) == 0 {
		desc := "Success"
		op.Responses["200"] = &openapi3.ResponseRef{Value: &openapi3.Response{Description: &desc}}
	}
}
