package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

var v2Verbs = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "options": true, "head": true,
}

// rewriteV2 fixes Swagger 2.0 operations that openapi2conv rejects. Message
// endpoints documented by older generators often declare one body parameter
// per message part, or mix a body parameter into a form upload:
//   - several body parameters are merged into one object body;
//   - body parameters next to formData ones become formData themselves and
//     the operation consumes multipart/form-data.
//
// The original bytes are returned unchanged when nothing needed rewriting or
// the input could not be round-tripped.
func rewriteV2(data []byte) ([]byte, bool, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return data, false, err
	}
	paths, _ := doc["paths"].(map[string]any)
	changed := false
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for verb, raw := range ops {
			if !v2Verbs[strings.ToLower(verb)] {
				continue
			}
			if op, ok := raw.(map[string]any); ok && rewriteV2Operation(op) {
				changed = true
			}
		}
	}
	if !changed {
		return data, false, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

func rewriteV2Operation(op map[string]any) bool {
	params, _ := op["parameters"].([]any)
	var bodies, others []map[string]any
	hasForm := false
	for _, p := range params {
		pm, _ := p.(map[string]any)
		if pm == nil {
			continue
		}
		switch in := str(pm["in"]); {
		case strings.EqualFold(in, "body"):
			bodies = append(bodies, pm)
		case strings.EqualFold(in, "formData"):
			hasForm = true
			others = append(others, pm)
		default:
			others = append(others, pm)
		}
	}

	switch {
	case len(bodies) == 0:
		return false
	case hasForm:
		out := make([]any, 0, len(params))
		for _, b := range bodies {
			out = append(out, bodyToFormData(b))
		}
		for _, o := range others {
			out = append(out, o)
		}
		op["parameters"] = out
		consumes, _ := op["consumes"].([]any)
		if !containsValue(consumes, "multipart/form-data") {
			op["consumes"] = append(consumes, "multipart/form-data")
		}
		return true
	case len(bodies) > 1:
		props := map[string]any{}
		var required []any
		for _, b := range bodies {
			name := paramName(b)
			schema := schemaOf(b)
			if schema == nil {
				schema = map[string]any{"type": "string"}
			}
			props[name] = schema
			if req, _ := b["required"].(bool); req {
				required = append(required, name)
			}
		}
		merged := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			merged["required"] = required
		}
		out := []any{map[string]any{"in": "body", "name": "body", "schema": merged}}
		for _, o := range others {
			out = append(out, o)
		}
		op["parameters"] = out
		return true
	}
	return false
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func paramName(pm map[string]any) string {
	if name := str(pm["name"]); name != "" {
		return name
	}
	return "field"
}

func containsValue(list []any, want string) bool {
	for _, v := range list {
		if str(v) == want {
			return true
		}
	}
	return false
}

// schemaOf returns a parameter's schema, synthesizing one from its type
// keywords when it has none.
func schemaOf(pm map[string]any) map[string]any {
	if sch, ok := pm["schema"].(map[string]any); ok {
		return sch
	}
	typ := str(pm["type"])
	if typ == "" {
		return nil
	}
	m := map[string]any{"type": typ}
	if it, ok := pm["items"].(map[string]any); ok {
		m["items"] = it
	}
	if f := str(pm["format"]); f != "" {
		m["format"] = f
	}
	return m
}

// bodyToFormData degrades a body parameter to a formData one. Referenced
// object schemas cannot be expressed as form fields and become strings.
func bodyToFormData(pm map[string]any) map[string]any {
	out := map[string]any{"in": "formData", "name": paramName(pm)}
	if desc := str(pm["description"]); desc != "" {
		out["description"] = desc
	}
	if req, ok := pm["required"].(bool); ok {
		out["required"] = req
	}
	sch := schemaOf(pm)
	typ := ""
	if sch != nil {
		typ = str(sch["type"])
		if it, ok := sch["items"].(map[string]any); ok {
			out["items"] = it
		}
		if f := str(sch["format"]); f != "" {
			out["format"] = f
		}
	}
	if typ == "" || typ == "object" {
		typ = "string"
	}
	out["type"] = typ
	return out
}
