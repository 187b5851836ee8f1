package openparam

// Options bundles processing options for Parameter.Value. The zero value
// selects the built-in schema validator with collect-all semantics.
type Options struct {
	// Validator overrides the schema-validation engine. Nil selects the
	// built-in draft4-subset validator.
	Validator Validator
	// FailFast stops schema validation at the first issue.
	FailFast bool
}

// Result is the raw outcome of a schema-validation run. A non-empty Errors
// list constitutes failure; Warnings never affect the verdict.
type Result struct {
	Errors   Issues
	Warnings Issues
}

// Validator checks a coerced value against the schema node located at
// schemaPtr (a JSON Pointer) within the root document. Implementations must
// be pure: return a Result, never panic across this boundary.
type Validator interface {
	Validate(root map[string]any, schemaPtr string, value any, opt Options) Result
}

// CoerceOptions carries transport hints for the coercion engine.
type CoerceOptions struct {
	// CollectionFormat names the encoding used to pack multiple values into
	// one raw input: csv (the default), ssv, tsv, pipes, or multi.
	CollectionFormat string
}
