package transform

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/diag"
)

// SchemaGenerator registers the schema of a message type, and of the types it
// references, in repo. An already registered type is left as is.
type SchemaGenerator interface {
	GenerateSchema(t *catalog.MessageType, repo *Repository) *openapi3.SchemaRef
}

// DocumentTransformer registers client message types and sets up root
// polymorphism.
type DocumentTransformer struct {
	catalog   *catalog.Catalog
	generator SchemaGenerator
	opts      Options
}

func NewDocumentTransformer(c *catalog.Catalog, gen SchemaGenerator, opts Options) *DocumentTransformer {
	return &DocumentTransformer{catalog: c, generator: gen, opts: opts.normalize()}
}

// Transform does nothing when root has no schema in repo.
func (t *DocumentTransformer) Transform(doc *openapi3.T, root *catalog.MessageType, repo *Repository) (d diag.Diagnostics) {
	subject := ""
	if root != nil {
		subject = root.SchemaID()
	}
	defer func() {
		if r := recover(); r != nil {
			d.Errorf(CodeDocumentPanic, subject, "", "recovered: %v", r)
		}
	}()
	if root == nil || !repo.Has(root.SchemaID()) {
		d.Infof(CodeRootAbsent, subject, "", "root schema not referenced by the document; skipping")
		return d
	}

	for _, st := range t.catalog.Subtypes(root.Name) {
		if !strings.Contains(st.Name, t.opts.ClientNamespace) || repo.Has(st.SchemaID()) {
			continue
		}
		t.generator.GenerateSchema(st, repo)
		d.Infof(CodeSchemaGenerated, st.SchemaID(), "", "registered client message type")
	}
	t.generator.GenerateSchema(root, repo)

	rs := repo.Get(root.SchemaID())
	if rs == nil {
		return d
	}
	prop := t.opts.DiscriminatorProperty
	if t.opts.Legacy {
		delete(rs.Properties, prop)
		rs.Required = filterRequired(rs.Required, func(name string) bool { return name != prop })
		return d
	}
	rs.Discriminator = &openapi3.Discriminator{PropertyName: prop}
	if _, ok := rs.Properties[prop]; ok && !contains(rs.Required, prop) {
		rs.Required = append(rs.Required, prop)
	}
	return d
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
