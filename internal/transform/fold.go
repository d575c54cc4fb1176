package transform

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
)

// nameSet matches property, parameter and field names case-insensitively.
type nameSet map[string]struct{}

func foldName(s string) string {
	return cases.Fold().String(s)
}

func (s nameSet) add(name string) { s[foldName(name)] = struct{}{} }

func (s nameSet) remove(name string) { delete(s, foldName(name)) }

func (s nameSet) has(name string) bool {
	_, ok := s[foldName(name)]
	return ok
}

// pruneProperties drops every property of schema not in keep, together with
// its required entry, and returns the dropped names.
func pruneProperties(schema *openapi3.Schema, keep nameSet) []string {
	var dropped []string
	for name := range schema.Properties {
		if !keep.has(name) {
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	for _, name := range dropped {
		delete(schema.Properties, name)
	}
	schema.Required = filterRequired(schema.Required, func(name string) bool { return keep.has(name) })
	return dropped
}

func filterRequired(required []string, keep func(string) bool) []string {
	if required == nil {
		return nil
	}
	out := required[:0:0]
	for _, name := range required {
		if keep(name) {
			out = append(out, name)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
