// Package catalog is the precomputed metadata catalog the document pipeline
// works from: the message type hierarchy, field annotations, enums and the
// controller/method descriptors of the documented service.
//
// Nothing here inspects live Go types. The catalog is plain data, normally
// decoded from a YAML or JSON file that an external introspection step
// produced, and it is immutable while a pipeline run uses it.
package catalog
