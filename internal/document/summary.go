package document

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Summary is a compact, deterministic view of a document for inspection.
type Summary struct {
	Title      string
	Version    string
	OpenAPI    string
	Operations []OperationSummary
	Schemas    []SchemaSummary
}

// OperationSummary describes one operation.
type OperationSummary struct {
	Method     string
	Path       string
	ID         string
	Parameters []string
	BodyMedia  []string
	// Unions maps a status code to the number of oneOf alternatives of its
	// first content entry.
	Unions map[string]int
}

// SchemaSummary describes one component schema.
type SchemaSummary struct {
	ID            string
	Composition   string // allOf, oneOf or plain
	Properties    []string
	Discriminator string
}

var summaryVerbs = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Summarize walks doc in sorted order.
func Summarize(doc *openapi3.T) Summary {
	s := Summary{OpenAPI: doc.OpenAPI}
	if doc.Info != nil {
		s.Title = doc.Info.Title
		s.Version = doc.Info.Version
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		for _, verb := range summaryVerbs {
			op := item.GetOperation(verb)
			if op == nil {
				continue
			}
			s.Operations = append(s.Operations, summarizeOperation(verb, p, op))
		}
	}

	if doc.Components != nil {
		ids := make([]string, 0, len(doc.Components.Schemas))
		for id := range doc.Components.Schemas {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			ref := doc.Components.Schemas[id]
			if ref == nil || ref.Value == nil {
				continue
			}
			s.Schemas = append(s.Schemas, summarizeSchema(id, ref.Value))
		}
	}
	return s
}

func summarizeOperation(verb, path string, op *openapi3.Operation) OperationSummary {
	out := OperationSummary{Method: verb, Path: path, ID: op.OperationID, Unions: map[string]int{}}
	for _, p := range op.Parameters {
		if p != nil && p.Value != nil {
			out.Parameters = append(out.Parameters, p.Value.In+":"+p.Value.Name)
		}
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		for mt := range op.RequestBody.Value.Content {
			out.BodyMedia = append(out.BodyMedia, mt)
		}
		sort.Strings(out.BodyMedia)
	}
	for status, resp := range op.Responses {
		if resp == nil || resp.Value == nil {
			continue
		}
		media := make([]string, 0, len(resp.Value.Content))
		for mt := range resp.Value.Content {
			media = append(media, mt)
		}
		if len(media) == 0 {
			continue
		}
		sort.Strings(media)
		first := resp.Value.Content[media[0]]
		if first != nil && first.Schema != nil && first.Schema.Value != nil && len(first.Schema.Value.OneOf) > 0 {
			out.Unions[status] = len(first.Schema.Value.OneOf)
		}
	}
	return out
}

func summarizeSchema(id string, s *openapi3.Schema) SchemaSummary {
	ss := SchemaSummary{ID: id, Composition: "plain"}
	props := s.Properties
	switch {
	case len(s.AllOf) > 0:
		ss.Composition = "allOf"
		if last := s.AllOf[len(s.AllOf)-1]; last != nil && last.Value != nil {
			props = last.Value.Properties
		}
	case len(s.OneOf) > 0:
		ss.Composition = "oneOf"
	}
	for name := range props {
		ss.Properties = append(ss.Properties, name)
	}
	sort.Strings(ss.Properties)
	if s.Discriminator != nil {
		ss.Discriminator = s.Discriminator.PropertyName
	}
	return ss
}

// Print writes a plain-text rendering of s.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "%s %s (openapi %s)\n", s.Title, s.Version, s.OpenAPI)
	fmt.Fprintf(w, "\nOperations (%d):\n", len(s.Operations))
	for _, op := range s.Operations {
		fmt.Fprintf(w, "- %s %s [%s]\n", op.Method, op.Path, op.ID)
		if len(op.Parameters) > 0 {
			fmt.Fprintf(w, "    params: %s\n", strings.Join(op.Parameters, ", "))
		}
		if len(op.BodyMedia) > 0 {
			fmt.Fprintf(w, "    body: %s\n", strings.Join(op.BodyMedia, ", "))
		}
		statuses := make([]string, 0, len(op.Unions))
		for st := range op.Unions {
			statuses = append(statuses, st)
		}
		sort.Strings(statuses)
		for _, st := range statuses {
			fmt.Fprintf(w, "    %s: oneOf(%d)\n", st, op.Unions[st])
		}
	}
	fmt.Fprintf(w, "\nSchemas (%d):\n", len(s.Schemas))
	for _, sc := range s.Schemas {
		line := fmt.Sprintf("- %s %s", sc.ID, sc.Composition)
		if sc.Discriminator != "" {
			line += " discriminator=" + sc.Discriminator
		}
		if len(sc.Properties) > 0 {
			line += " {" + strings.Join(sc.Properties, ", ") + "}"
		}
		fmt.Fprintln(w, line)
	}
}
