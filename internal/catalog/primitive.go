package catalog

import "strings"

// Primitive describes how a scalar field type is rendered in a schema.
type Primitive struct {
	Type   string
	Format string
}

var primitives = map[string]Primitive{
	"string":    {Type: "string"},
	"char":      {Type: "string"},
	"guid":      {Type: "string", Format: "uuid"},
	"uuid":      {Type: "string", Format: "uuid"},
	"date":      {Type: "string", Format: "date"},
	"datetime":  {Type: "string", Format: "date-time"},
	"date-time": {Type: "string", Format: "date-time"},
	"byte":      {Type: "string", Format: "byte"},
	"binary":    {Type: "string", Format: "binary"},
	"file":      {Type: "string", Format: "binary"},
	"int":       {Type: "integer", Format: "int32"},
	"int32":     {Type: "integer", Format: "int32"},
	"integer":   {Type: "integer", Format: "int32"},
	"long":      {Type: "integer", Format: "int64"},
	"int64":     {Type: "integer", Format: "int64"},
	"float":     {Type: "number", Format: "float"},
	"double":    {Type: "number", Format: "double"},
	"decimal":   {Type: "number", Format: "double"},
	"number":    {Type: "number"},
	"bool":      {Type: "boolean"},
	"boolean":   {Type: "boolean"},
}

// IsPrimitive reports whether name is a known scalar type.
func IsPrimitive(name string) bool {
	_, ok := primitives[strings.ToLower(name)]
	return ok
}

// LookupPrimitive returns the schema rendering of a scalar type.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitives[strings.ToLower(name)]
	return p, ok
}
