package catalog

// Chain returns t and its ancestors, root first.
func (c *Catalog) Chain(t *MessageType) []*MessageType {
	c.index()
	var rev []*MessageType
	seen := map[string]bool{}
	for cur := t; cur != nil && !seen[cur.Name]; cur = c.types[cur.Base] {
		seen[cur.Name] = true
		rev = append(rev, cur)
		if cur.Base == "" {
			break
		}
	}
	out := make([]*MessageType, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return out
}

// AllFields returns the declared fields of t including inherited ones, root
// fields first.
func (c *Catalog) AllFields(t *MessageType) []Field {
	var out []Field
	for _, link := range c.Chain(t) {
		out = append(out, link.Fields...)
	}
	return out
}

// ExportedFields returns the exported fields of t in declaration order.
// An exported field whose value is itself a message type is replaced by that
// type's exported fields. A name already collected is not repeated, so the
// result can be used directly as a membership set. Pruning a schema against
// this set therefore drops the nested message property itself (OrderQuery.shipTo)
// and keeps only its leaves.
func (c *Catalog) ExportedFields(t *MessageType) []Field {
	if t == nil {
		return nil
	}
	return c.appendExported(nil, t, map[string]bool{}, map[string]bool{})
}

func (c *Catalog) appendExported(out []Field, t *MessageType, visiting, names map[string]bool) []Field {
	if visiting[t.Name] {
		return out
	}
	visiting[t.Name] = true
	defer delete(visiting, t.Name)

	for _, f := range c.AllFields(t) {
		if !f.Exported {
			continue
		}
		if nested := c.types[f.Type]; nested != nil {
			out = c.appendExported(out, nested, visiting, names)
			continue
		}
		if names[f.Name] {
			continue
		}
		names[f.Name] = true
		out = append(out, f)
	}
	return out
}

// ExportedNames returns ExportedFields as a name set.
func (c *Catalog) ExportedNames(t *MessageType) map[string]struct{} {
	fields := c.ExportedFields(t)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f.Name] = struct{}{}
	}
	return set
}

// IsSubtypeOf reports whether t strictly derives, directly or transitively,
// from ancestor.
func (c *Catalog) IsSubtypeOf(t *MessageType, ancestor string) bool {
	if t == nil {
		return false
	}
	chain := c.Chain(t)
	for _, link := range chain[:len(chain)-1] {
		if link.Name == ancestor {
			return true
		}
	}
	return false
}

// DerivesFromRoot reports whether the named type is a strict subtype of the
// root message type.
func (c *Catalog) DerivesFromRoot(typeName string) bool {
	return c.IsSubtypeOf(c.Type(typeName), c.Root)
}

// Subtypes returns every strict subtype of ancestor in declaration order.
func (c *Catalog) Subtypes(ancestor string) []*MessageType {
	c.index()
	var out []*MessageType
	for _, t := range c.declared() {
		if c.IsSubtypeOf(t, ancestor) {
			out = append(out, t)
		}
	}
	return out
}
