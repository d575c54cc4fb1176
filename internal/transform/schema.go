package transform

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/diag"
)

// Additional metadata names copied to vendor extensions.
var metadataExtensions = []string{"DataSourceId", "DataTextField", "DataValueField"}

// SchemaTransformer rewrites one message type schema.
type SchemaTransformer struct {
	catalog *catalog.Catalog
	opts    Options
}

func NewSchemaTransformer(c *catalog.Catalog, opts Options) *SchemaTransformer {
	return &SchemaTransformer{catalog: c, opts: opts.normalize()}
}

// Transform applies, in order: root naming, excluded namespace cleanup,
// exported field pruning, extension injection and either inheritance
// flattening or the legacy adjustment.
func (t *SchemaTransformer) Transform(schema *openapi3.Schema, forType *catalog.MessageType, repo *Repository) (d diag.Diagnostics) {
	subject := ""
	if forType != nil {
		subject = forType.SchemaID()
	}
	defer func() {
		if r := recover(); r != nil {
			d.Errorf(CodeSchemaPanic, subject, "", "recovered: %v", r)
		}
	}()
	if schema == nil || forType == nil {
		d.Errorf(CodeSchemaShape, subject, "", "schema or message type is missing")
		return d
	}

	if len(schema.Properties) > 0 {
		if schema.XML == nil {
			schema.XML = &openapi3.XML{}
		}
		schema.XML.Name = forType.SimpleName()
	}

	for _, id := range repo.IDs() {
		if t.opts.excluded(id) {
			repo.Delete(id)
			d.Infof(CodeSchemaExcluded, id, "", "removed schema from excluded namespace")
		}
	}

	keep := nameSet{}
	for _, f := range t.catalog.ExportedFields(forType) {
		keep.add(f.Name)
	}
	pruneProperties(schema, keep)

	t.decorate(schema, forType, &d)

	isRoot := forType.Name == t.catalog.Root
	switch {
	case isRoot:
	case t.opts.Legacy:
		delete(schema.Properties, t.opts.DiscriminatorProperty)
		schema.Required = filterRequired(schema.Required, func(name string) bool {
			return name != t.opts.DiscriminatorProperty
		})
	default:
		t.compose(schema, repo, &d, subject)
	}
	return d
}

// decorate copies field annotations of the type chain onto matching
// properties.
func (t *SchemaTransformer) decorate(schema *openapi3.Schema, forType *catalog.MessageType, d *diag.Diagnostics) {
	byName := map[string]catalog.Field{}
	for _, f := range t.catalog.AllFields(forType) {
		byName[foldName(f.Name)] = f
	}
	subject := forType.SchemaID()
	for _, name := range sortedKeys(schema.Properties) {
		field, ok := byName[foldName(name)]
		if !ok {
			continue
		}
		prop := schema.Properties[name]
		if prop == nil {
			continue
		}
		if prop.Ref != "" {
			if hasAnnotations(field) {
				d.Warnf(CodeRefProperty, subject, name, "property references %s; annotations not applied", prop.Ref)
			}
			continue
		}
		if prop.Value == nil {
			continue
		}
		t.annotate(prop.Value, field, subject, name, d)
	}
}

func (t *SchemaTransformer) annotate(p *openapi3.Schema, f catalog.Field, subject, prop string, d *diag.Diagnostics) {
	if p.Extensions == nil {
		p.Extensions = map[string]interface{}{}
	}
	ext := p.Extensions

	if e := t.catalog.Enum(f.Type); e != nil {
		if _, ok := ext["x-ms-enum"]; !ok {
			ext["x-ms-enum"] = map[string]interface{}{
				"name":          e.SimpleName(),
				"modelAsString": false,
			}
		}
	}
	if f.ReadOnly != nil {
		p.ReadOnly = *f.ReadOnly
	}
	if f.Editable != nil {
		ext[t.opts.ext("editable")] = *f.Editable
	}
	if f.UIHint != nil {
		ext[t.opts.ext("uihint")] = f.UIHint.Hint
		params, err := f.UIHint.ControlParameters()
		if err != nil {
			ext[t.opts.ext("ControlParameter-Error")] = err.Error()
			d.Warnf(CodeControlParameter, subject, prop, "%v", err)
		}
		for i, cp := range params {
			ext[fmt.Sprintf("%s-%d", t.opts.ext("cp-"+f.Name), i+1)] = cp.Key + "," + cp.Value
		}
	}
	if f.Display != nil {
		if f.Display.Description != "" {
			ext[t.opts.ext("description")] = f.Display.Description
			p.Description = f.Display.Description
		}
		if f.Display.Name != "" {
			ext[t.opts.ext("name")] = f.Display.Name
		}
		if f.Display.Order != nil {
			ext[t.opts.ext("order")] = *f.Display.Order
		}
	}
	for _, m := range f.Metadata {
		for _, known := range metadataExtensions {
			if strings.EqualFold(m.Name, known) {
				ext[t.opts.ext(known)] = m.Value
			}
		}
	}
	if len(ext) == 0 {
		p.Extensions = nil
	}
}

// compose rewrites a subtype as allOf [root, residual].
func (t *SchemaTransformer) compose(schema *openapi3.Schema, repo *Repository, d *diag.Diagnostics, subject string) {
	if len(schema.AllOf) > 0 {
		return
	}
	root := t.catalog.RootType()
	if root == nil {
		return
	}
	if !repo.Has(root.SchemaID()) {
		d.Warnf(CodeMissingRootSchema, subject, "", "root schema %s is not registered", root.SchemaID())
	}

	inherited := nameSet{}
	for _, f := range t.catalog.AllFields(root) {
		inherited.add(f.Name)
	}
	inherited.add(t.opts.ClassNameProperty)

	residual := &openapi3.Schema{Type: schema.Type, Properties: openapi3.Schemas{}}
	if residual.Type == "" {
		residual.Type = "object"
	}
	for _, name := range sortedKeys(schema.Properties) {
		if !inherited.has(name) {
			residual.Properties[name] = schema.Properties[name]
		}
	}
	residual.Required = filterRequired(schema.Required, func(name string) bool { return !inherited.has(name) })

	schema.AllOf = openapi3.SchemaRefs{
		openapi3.NewSchemaRef(repo.Ref(root.SchemaID()), nil),
		openapi3.NewSchemaRef("", residual),
	}
	schema.Properties = nil
	schema.Required = nil
}

func hasAnnotations(f catalog.Field) bool {
	return f.ReadOnly != nil || f.Editable != nil || f.UIHint != nil || f.Display != nil || len(f.Metadata) > 0
}
