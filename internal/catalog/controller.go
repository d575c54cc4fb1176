package catalog

import (
	"strings"
)

// Argument binding sources.
const (
	FromQuery = "query"
	FromPath  = "path"
	FromBody  = "body"
	FromForm  = "form"
)

// Controller groups the methods served under one route prefix.
type Controller struct {
	Name      string         `yaml:"name" json:"name"`
	Route     string         `yaml:"route" json:"route"`
	Responses []ResponseType `yaml:"responses,omitempty" json:"responses,omitempty"`
	Methods   []*Method      `yaml:"methods" json:"methods"`
}

// Method describes one documented action: its arguments, declared responses
// and how its payload is bound.
type Method struct {
	Name        string         `yaml:"name" json:"name"`
	Verb        string         `yaml:"verb" json:"verb"`
	Route       string         `yaml:"route,omitempty" json:"route,omitempty"`
	OperationID string         `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Arguments   []Argument     `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Responses   []ResponseType `yaml:"responses,omitempty" json:"responses,omitempty"`

	controller *Controller
}

// Argument is a method parameter and its binding source.
type Argument struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	From string `yaml:"from" json:"from"`
}

// ResponseType is one declared (status, type) response.
type ResponseType struct {
	Status int    `yaml:"status" json:"status"`
	Type   string `yaml:"type" json:"type"`
}

// Controller returns the owning controller.
func (m *Method) Controller() *Controller { return m.controller }

// HTTPMethod returns the lower-case verb, defaulting to get.
func (m *Method) HTTPMethod() string {
	v := strings.ToLower(strings.TrimSpace(m.Verb))
	if v == "" {
		return "get"
	}
	return v
}

// Path joins the controller and method routes into a document path.
func (m *Method) Path() string {
	var parts []string
	if m.controller != nil {
		if r := strings.Trim(m.controller.routeTemplate(), "/"); r != "" {
			parts = append(parts, r)
		}
	}
	if r := strings.Trim(m.Route, "/"); r != "" {
		parts = append(parts, r)
	}
	return "/" + strings.Join(parts, "/")
}

// ID returns the operation id: the explicit one, else Controller_Method.
func (m *Method) ID() string {
	if m.OperationID != "" {
		return m.OperationID
	}
	if m.controller != nil {
		return m.controller.Name + "_" + m.Name
	}
	return m.Name
}

// FormEncoded reports whether any argument is bound from a form.
func (m *Method) FormEncoded() bool {
	for _, a := range m.Arguments {
		if strings.EqualFold(a.From, FromForm) {
			return true
		}
	}
	return false
}

// ControllerResponses returns the controller-level response declarations.
func (m *Method) ControllerResponses() []ResponseType {
	if m.controller == nil {
		return nil
	}
	return m.controller.Responses
}

// routeTemplate expands the [controller] token the way ASP.NET-style routes do.
func (c *Controller) routeTemplate() string {
	short := strings.TrimSuffix(c.Name, "Controller")
	return strings.ReplaceAll(c.Route, "[controller]", short)
}

// Methods returns every method of every controller in declaration order.
func (c *Catalog) Methods() []*Method {
	c.index()
	var out []*Method
	for _, ctrl := range c.Controllers {
		if ctrl == nil {
			continue
		}
		for _, m := range ctrl.Methods {
			if m != nil {
				out = append(out, m)
			}
		}
	}
	return out
}

// MethodFor finds the descriptor of a document operation, first by operation
// id, then by verb and path.
func (c *Catalog) MethodFor(verb, path, operationID string) *Method {
	methods := c.Methods()
	if operationID != "" {
		for _, m := range methods {
			if m.ID() == operationID {
				return m
			}
		}
	}
	verb = strings.ToLower(verb)
	for _, m := range methods {
		if m.HTTPMethod() == verb && strings.EqualFold(m.Path(), path) {
			return m
		}
	}
	return nil
}
