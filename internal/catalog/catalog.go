package catalog

import (
	"strings"

	"github.com/mark3labs/msgdoc/internal/diag"
)

// PlaceholderResponseType is the "no specific type" response declaration that
// response grouping ignores.
const PlaceholderResponseType = "System.Object"

// Catalog is the full description of a message-based service.
type Catalog struct {
	Info        Info           `yaml:"info" json:"info"`
	Root        string         `yaml:"root" json:"root"`
	Types       []*MessageType `yaml:"types" json:"types"`
	Enums       []*Enum        `yaml:"enums" json:"enums"`
	Controllers []*Controller  `yaml:"controllers" json:"controllers"`

	// Diagnostics records fields skipped while indexing (malformed metadata).
	Diagnostics diag.Diagnostics `yaml:"-" json:"-"`

	types      map[string]*MessageType
	bySchemaID map[string]*MessageType
	enums      map[string]*Enum
	indexed    bool
}

// Info carries the document title block.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
}

// MessageType is one node of the single-rooted message hierarchy.
type MessageType struct {
	Name   string  `yaml:"name" json:"name"`
	Base   string  `yaml:"base,omitempty" json:"base,omitempty"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// SchemaID is the identifier of the type's schema in components.schemas.
func (t *MessageType) SchemaID() string { return SchemaID(t.Name) }

// SimpleName is the type name without its namespace.
func (t *MessageType) SimpleName() string { return SimpleName(t.Name) }

// Field is a declared member of a MessageType.
type Field struct {
	Name     string          `yaml:"name" json:"name"`
	Type     string          `yaml:"type" json:"type"`
	Repeated bool            `yaml:"repeated,omitempty" json:"repeated,omitempty"`
	Exported bool            `yaml:"exported,omitempty" json:"exported,omitempty"`
	ReadOnly *bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	Editable *bool           `yaml:"editable,omitempty" json:"editable,omitempty"`
	UIHint   *UIHint         `yaml:"uiHint,omitempty" json:"uiHint,omitempty"`
	Display  *Display        `yaml:"display,omitempty" json:"display,omitempty"`
	Metadata []MetadataEntry `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// UIHint names the client control used to render a field.
type UIHint struct {
	Hint   string         `yaml:"hint" json:"hint"`
	Params []ControlParam `yaml:"params,omitempty" json:"params,omitempty"`
}

// ControlParameters returns the hint's control parameters, failing when a key
// repeats.
func (h *UIHint) ControlParameters() ([]ControlParam, error) {
	if h == nil {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(h.Params))
	for _, p := range h.Params {
		if _, dup := seen[p.Key]; dup {
			return nil, &DuplicateKeyError{Key: p.Key}
		}
		seen[p.Key] = struct{}{}
	}
	return h.Params, nil
}

// ControlParam is one key/value pair of a UI hint.
type ControlParam struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Display holds display annotations.
type Display struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Order       *int   `yaml:"order,omitempty" json:"order,omitempty"`
}

// MetadataEntry is a free-form name/value annotation.
type MetadataEntry struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Enum is a named set of string values.
type Enum struct {
	Name   string   `yaml:"name" json:"name"`
	Values []string `yaml:"values" json:"values"`
}

// SimpleName is the enum name without its namespace.
func (e *Enum) SimpleName() string { return SimpleName(e.Name) }

// Kind classifies a field value type.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindEnum
	KindMessage
)

// New builds an indexed catalog from already decoded parts.
func New(root string, types []*MessageType, enums []*Enum, controllers []*Controller) *Catalog {
	c := &Catalog{Root: root, Types: types, Enums: enums, Controllers: controllers}
	c.index()
	return c
}

// SchemaID maps a fully qualified type name to its schema identifier.
func SchemaID(name string) string { return strings.ReplaceAll(name, "+", "_") }

// SimpleName strips the namespace and any enclosing type from name.
func SimpleName(name string) string {
	if i := strings.LastIndexAny(name, ".+"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (c *Catalog) index() {
	if c.indexed {
		return
	}
	c.indexed = true
	c.types = make(map[string]*MessageType, len(c.Types))
	c.bySchemaID = make(map[string]*MessageType, len(c.Types))
	c.enums = make(map[string]*Enum, len(c.Enums))
	for _, e := range c.Enums {
		if e == nil || e.Name == "" {
			continue
		}
		c.enums[e.Name] = e
	}
	for _, t := range c.Types {
		if t == nil || t.Name == "" {
			c.Diagnostics.Warnf("catalog.type", "", "", "skipping message type without a name")
			continue
		}
		if _, dup := c.types[t.Name]; dup {
			// Validate reports duplicates; keep the first declaration.
			continue
		}
		c.types[t.Name] = t
		c.bySchemaID[t.SchemaID()] = t
	}
	// Field types can only be resolved once every type is known.
	for _, t := range c.Types {
		if t == nil || c.types[t.Name] != t {
			continue
		}
		kept := t.Fields[:0:0]
		for _, f := range t.Fields {
			if strings.TrimSpace(f.Name) == "" {
				c.Diagnostics.Warnf("catalog.field", t.Name, "", "skipping field without a name")
				continue
			}
			if c.KindOf(f.Type) == KindUnknown {
				c.Diagnostics.Warnf("catalog.field", t.Name, f.Name, "skipping field of unknown type %q", f.Type)
				continue
			}
			kept = append(kept, f)
		}
		t.Fields = kept
	}
	for _, ctrl := range c.Controllers {
		if ctrl == nil {
			continue
		}
		for _, m := range ctrl.Methods {
			if m != nil {
				m.controller = ctrl
			}
		}
	}
}

// Type returns the message type with the given fully qualified name.
func (c *Catalog) Type(name string) *MessageType {
	c.index()
	return c.types[name]
}

// TypeBySchemaID returns the message type whose schema has the given id.
func (c *Catalog) TypeBySchemaID(id string) *MessageType {
	c.index()
	return c.bySchemaID[id]
}

// Enum returns the enum with the given name.
func (c *Catalog) Enum(name string) *Enum {
	c.index()
	return c.enums[name]
}

// RootType returns the root of the hierarchy, or nil when it is not declared.
func (c *Catalog) RootType() *MessageType {
	return c.Type(c.Root)
}

// KindOf classifies a field value type name.
func (c *Catalog) KindOf(typeName string) Kind {
	c.index()
	switch {
	case typeName == "":
		return KindUnknown
	case c.types[typeName] != nil:
		return KindMessage
	case c.enums[typeName] != nil:
		return KindEnum
	case IsPrimitive(typeName):
		return KindPrimitive
	default:
		return KindUnknown
	}
}
