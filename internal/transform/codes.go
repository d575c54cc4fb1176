package transform

// Diagnostic codes.
const (
	CodeSchemaPanic        = "schema.panic"
	CodeSchemaShape        = "schema.shape"
	CodeSchemaExcluded     = "schema.excluded"
	CodeRefProperty        = "schema.ref-property"
	CodeControlParameter   = "schema.control-parameter"
	CodeMissingRootSchema  = "schema.missing-root"
	CodeOperationPanic     = "operation.panic"
	CodeOperationUnmatched = "operation.unmatched"
	CodeBodyUnresolved     = "operation.body-unresolved"
	CodeMissingResponse    = "operation.missing-response"
	CodeEmptyResponse      = "operation.empty-response"
	CodeUnionUnresolved    = "operation.union-unresolved"
	CodeDocumentPanic      = "document.panic"
	CodeRootAbsent         = "document.root-absent"
	CodeSchemaGenerated    = "document.schema-generated"
)
