package catalog

import (
	"errors"
	"strings"
)

// Validate checks the structural invariants the pipeline depends on: one
// declared root without a base, every other type deriving from a declared
// base, no inheritance cycles and no message type that contains itself
// through its fields. All violations are joined into the returned error.
func (c *Catalog) Validate() error {
	c.index()
	var errs []error

	seen := make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		if t == nil || t.Name == "" {
			continue
		}
		if seen[t.Name] {
			errs = append(errs, &Error{Kind: ErrDuplicateType, Type: t.Name})
		}
		seen[t.Name] = true
	}

	root := c.RootType()
	switch {
	case strings.TrimSpace(c.Root) == "" || root == nil:
		errs = append(errs, &Error{Kind: ErrMissingRoot, Type: c.Root})
	case root.Base != "":
		errs = append(errs, &Error{Kind: ErrRootHasBase, Type: root.Name, Detail: "base " + root.Base})
	}

	for _, t := range c.declared() {
		name := t.Name
		if name == c.Root {
			continue
		}
		if t.Base == "" {
			errs = append(errs, &Error{Kind: ErrMultipleRoots, Type: name})
			continue
		}
		if c.types[t.Base] == nil {
			errs = append(errs, &Error{Kind: ErrUnknownBase, Type: name, Detail: "base " + t.Base})
			continue
		}
		if c.inCycle(t) {
			errs = append(errs, &Error{Kind: ErrInheritanceCycle, Type: name})
		}
	}

	for _, t := range c.declared() {
		name := t.Name
		if path := c.fieldCycle(t, nil, map[string]bool{}); path != nil {
			errs = append(errs, &Error{Kind: ErrSelfReference, Type: name, Detail: strings.Join(path, " -> ")})
		}
	}

	return errors.Join(errs...)
}

func (c *Catalog) inCycle(t *MessageType) bool {
	seen := map[string]bool{t.Name: true}
	for cur := c.types[t.Base]; cur != nil; cur = c.types[cur.Base] {
		if seen[cur.Name] {
			return true
		}
		seen[cur.Name] = true
		if cur.Base == "" {
			return false
		}
	}
	return false
}

// fieldCycle walks message-typed fields (own fields only; inherited ones are
// checked on the type that declares them) and returns the path back to t.
func (c *Catalog) fieldCycle(t *MessageType, path []string, onPath map[string]bool) []string {
	if onPath[t.Name] {
		return append(path, t.Name)
	}
	onPath[t.Name] = true
	defer delete(onPath, t.Name)
	path = append(path, t.Name)
	for _, f := range t.Fields {
		nested := c.types[f.Type]
		if nested == nil {
			continue
		}
		if found := c.fieldCycle(nested, path, onPath); found != nil {
			return found
		}
	}
	return nil
}

// declared returns the indexed types in declaration order.
func (c *Catalog) declared() []*MessageType {
	out := make([]*MessageType, 0, len(c.types))
	for _, t := range c.Types {
		if t != nil && c.types[t.Name] == t {
			out = append(out, t)
		}
	}
	return out
}
