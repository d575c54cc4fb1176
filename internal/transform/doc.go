// Package transform rewrites a generated OpenAPI document so that it
// describes the message hierarchy the way clients consume it.
//
// Three transformers run in a fixed order under a Pipeline:
//
//   - DocumentTransformer registers client message types and marks the root
//     schema polymorphic.
//   - SchemaTransformer prunes each message schema to its exported fields,
//     decorates properties with vendor extensions and, outside legacy mode,
//     rewrites subtypes as allOf compositions of the root.
//   - OperationTransformer prunes parameters and request bodies, switches
//     form-bound bodies to multipart/form-data and folds responses that
//     declare several types for one status into oneOf unions.
//
// Transformers record non-fatal problems as diagnostics and never abort the
// document. Only a structurally invalid catalog stops a run.
package transform
