// Package openparam processes request-parameter values against Swagger 2.0
// parameter definitions.
//
// A Document wraps a decoded Swagger 2.0 root, a Parameter points at one
// parameter definition inside it, and Parameter.Value binds one raw input to
// that definition. The resulting ParameterValue computes its three facets
// lazily and at most once each:
//
//	pv := param.Value("5", openparam.Options{})
//	pv.Value() // coerced value (or nil)
//	pv.Valid() // verdict; forces Value()
//	pv.Err()   // *Error when invalid; forces Valid()
//
// Nothing is computed at construction time, and nothing panics across the
// facet boundary: coercion failures are captured and surface through Err()
// once Valid() is observed. Callers must check Valid() before trusting
// Value().
package openparam
