package transform

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaRefPrefix prefixes every component schema reference.
const SchemaRefPrefix = "#/components/schemas/"

// Repository is the document's component schema table. It is bound to one
// document and must not be shared between concurrent runs.
type Repository struct {
	schemas openapi3.Schemas
}

// NewRepository wraps doc's component schemas, creating the table if needed.
func NewRepository(doc *openapi3.T) *Repository {
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	return &Repository{schemas: doc.Components.Schemas}
}

// Get returns the schema stored under id, or nil.
func (r *Repository) Get(id string) *openapi3.Schema {
	ref := r.schemas[id]
	if ref == nil {
		return nil
	}
	return ref.Value
}

// Has reports whether id is present.
func (r *Repository) Has(id string) bool {
	_, ok := r.schemas[id]
	return ok
}

// Put stores s under id, replacing any previous entry.
func (r *Repository) Put(id string, s *openapi3.Schema) {
	r.schemas[id] = openapi3.NewSchemaRef("", s)
}

// Delete removes id.
func (r *Repository) Delete(id string) {
	delete(r.schemas, id)
}

// IDs returns the stored ids in sorted order.
func (r *Repository) IDs() []string {
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ref returns the reference string for id.
func (r *Repository) Ref(id string) string {
	return SchemaRefPrefix + id
}

// Resolve follows a component reference. Non-component references and
// unknown ids resolve to nil.
func (r *Repository) Resolve(ref string) *openapi3.Schema {
	id, ok := strings.CutPrefix(ref, SchemaRefPrefix)
	if !ok {
		return nil
	}
	return r.Get(id)
}
