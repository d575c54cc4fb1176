package transform

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/msgdoc/internal/catalog"
	"github.com/mark3labs/msgdoc/internal/diag"
)

// FormMediaType is the single media type of a converted form body.
const FormMediaType = "multipart/form-data"

// OperationTransformer rewrites one operation from its method descriptor.
type OperationTransformer struct {
	catalog *catalog.Catalog
	opts    Options
}

func NewOperationTransformer(c *catalog.Catalog, opts Options) *OperationTransformer {
	return &OperationTransformer{catalog: c, opts: opts.normalize()}
}

// Transform prunes parameters and the request body to the exported fields of
// the method's message arguments, converts form bodies and, outside legacy
// mode, builds response unions. Methods whose first argument is not a
// message subtype are left untouched.
func (t *OperationTransformer) Transform(op *openapi3.Operation, m *catalog.Method, repo *Repository) (d diag.Diagnostics) {
	subject := ""
	if m != nil {
		subject = m.ID()
	}
	defer func() {
		if r := recover(); r != nil {
			d.Errorf(CodeOperationPanic, subject, "", "recovered: %v", r)
		}
	}()
	if op == nil || m == nil {
		return d
	}
	if len(m.Arguments) > 0 && t.catalog.DerivesFromRoot(m.Arguments[0].Type) {
		keep := t.exportedSet(m)
		t.pruneParameters(op, keep)
		t.pruneBody(op, m, keep, repo, &d, subject)
	}
	// Unions depend only on the declared response types.
	if !t.opts.Legacy {
		t.buildUnions(op, m, repo, &d, subject)
	}
	return d
}

func (t *OperationTransformer) exportedSet(m *catalog.Method) nameSet {
	keep := nameSet{}
	for _, a := range m.Arguments {
		mt := t.catalog.Type(a.Type)
		if mt == nil {
			continue
		}
		for _, f := range t.catalog.ExportedFields(mt) {
			keep.add(f.Name)
		}
	}
	keep.remove(t.opts.DiscriminatorProperty)
	if !t.opts.Legacy {
		keep.remove(t.opts.ClassNameProperty)
	}
	return keep
}

// leafName returns the text after the last dot of a flattened parameter
// name, unless that dot is the first character.
func leafName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i+1:]
	}
	return name
}

func (t *OperationTransformer) pruneParameters(op *openapi3.Operation, keep nameSet) {
	if len(op.Parameters) == 0 {
		return
	}
	kept := op.Parameters[:0:0]
	for _, p := range op.Parameters {
		if p == nil || p.Value == nil {
			kept = append(kept, p)
			continue
		}
		if keep.has(leafName(p.Value.Name)) {
			kept = append(kept, p)
		}
	}
	op.Parameters = kept
}

func (t *OperationTransformer) pruneBody(op *openapi3.Operation, m *catalog.Method, keep nameSet, repo *Repository, d *diag.Diagnostics, subject string) {
	if op.RequestBody == nil || op.RequestBody.Value == nil || len(op.RequestBody.Value.Content) == 0 {
		return
	}
	body := op.RequestBody.Value
	first := sortedKeys(body.Content)[0]
	media := body.Content[first]
	if media == nil || media.Schema == nil {
		return
	}
	target := media.Schema.Value
	if ref := media.Schema.Ref; ref != "" {
		target = repo.Resolve(ref)
		switch {
		case target == nil:
			d.Warnf(CodeBodyUnresolved, subject, first, "cannot resolve %s", ref)
		case ref == repo.Ref(catalog.SchemaID(t.catalog.Root)):
			// The root schema carries the discriminator for every subtype.
			target = nil
		}
	}
	if target != nil {
		pruneProperties(target, keep)
	}

	if !m.FormEncoded() {
		return
	}
	op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
		Extensions:  body.Extensions,
		Description: body.Description,
		Required:    body.Required,
		Content: openapi3.Content{
			FormMediaType: &openapi3.MediaType{Schema: media.Schema},
		},
	}}
}

type responseGroup struct {
	status string
	types  []string
}

// responseGroups merges controller-level and method-level declarations by
// status, keeping first-seen order and dropping repeats and placeholders.
func responseGroups(m *catalog.Method) []responseGroup {
	var groups []responseGroup
	index := map[string]int{}
	decls := append(append([]catalog.ResponseType(nil), m.ControllerResponses()...), m.Responses...)
	for _, rt := range decls {
		if rt.Type == "" || rt.Type == catalog.PlaceholderResponseType {
			continue
		}
		status := strconv.Itoa(rt.Status)
		i, ok := index[status]
		if !ok {
			i = len(groups)
			index[status] = i
			groups = append(groups, responseGroup{status: status})
		}
		dup := false
		for _, existing := range groups[i].types {
			if existing == rt.Type {
				dup = true
				break
			}
		}
		if !dup {
			groups[i].types = append(groups[i].types, rt.Type)
		}
	}
	return groups
}

func (t *OperationTransformer) buildUnions(op *openapi3.Operation, m *catalog.Method, repo *Repository, d *diag.Diagnostics, subject string) {
	for _, g := range responseGroups(m) {
		if len(g.types) < 2 {
			continue
		}
		for _, typ := range g.types {
			if !repo.Has(catalog.SchemaID(typ)) {
				d.Warnf(CodeUnionUnresolved, subject, g.status, "union member %s is not a registered schema", typ)
			}
		}
		resp := op.Responses[g.status]
		if resp == nil || resp.Value == nil {
			d.Errorf(CodeMissingResponse, subject, g.status, "no response entry for %d declared types", len(g.types))
			continue
		}
		if len(resp.Value.Content) == 0 {
			d.Warnf(CodeEmptyResponse, subject, g.status, "response has no content to hold a union")
			continue
		}
		for _, mediaType := range sortedKeys(resp.Value.Content) {
			media := resp.Value.Content[mediaType]
			if media == nil {
				continue
			}
			refs := make(openapi3.SchemaRefs, 0, len(g.types))
			for _, typ := range g.types {
				refs = append(refs, openapi3.NewSchemaRef(repo.Ref(catalog.SchemaID(typ)), nil))
			}
			if media.Schema == nil || media.Schema.Ref != "" || media.Schema.Value == nil {
				media.Schema = openapi3.NewSchemaRef("", &openapi3.Schema{OneOf: refs})
				continue
			}
			s := media.Schema.Value
			s.OneOf = refs
			s.Properties = nil
			s.Required = nil
		}
	}
}
