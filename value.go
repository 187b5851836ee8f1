package openparam

import (
	"io"
	"time"

	"github.com/reoring/openparam/i18n"
)

// ParameterValue binds one raw input to one parameter definition. Its three
// facets are computed lazily, each at most once, in the fixed order
// value -> valid -> error: observing Valid forces Value, observing Err
// forces Valid. Instances are immutable from the outside and not safe for
// concurrent use.
type ParameterValue struct {
	param *Parameter
	opts  Options
	raw   any

	valueDone bool
	value     any
	coerceErr error

	validDone bool
	valid     bool
	err       *Error
}

// Raw returns the original input untouched.
func (pv *ParameterValue) Raw() any { return pv.raw }

// Parameter returns the definition this value was processed against.
func (pv *ParameterValue) Parameter() *Parameter { return pv.param }

// Options returns the validation options the value was processed with.
func (pv *ParameterValue) Options() Options { return pv.opts }

// Value returns the coerced value, computing it on first access. A nil
// result means no value was present, no default applied, or coercion failed;
// check Valid before trusting it. Coercion failures never escape here, they
// surface through Err.
func (pv *ParameterValue) Value() any {
	if pv.valueDone {
		return pv.value
	}
	pv.valueDone = true

	if pv.param.Type() == "file" {
		pv.value = pv.raw
		return pv.value
	}
	schema := pv.param.Schema()
	v, err := coerceValue(schema, CoerceOptions{CollectionFormat: pv.param.CollectionFormat()}, pv.raw)
	if err != nil {
		pv.coerceErr = err
		return nil
	}
	if v == nil {
		v = defaultValue(schema)
	}
	pv.value = v
	return pv.value
}

// Valid returns the verdict, computing it on first access. The policy order
// is fixed: captured coercion error, then requiredness, then the
// skip-validation matrix, then full schema validation.
func (pv *ParameterValue) Valid() bool {
	if pv.validDone {
		return pv.valid
	}
	pv.validDone = true

	v := pv.Value()
	switch {
	case pv.coerceErr != nil:
		iss, _ := AsIssues(pv.coerceErr)
		pv.fail(&Error{
			Code:    CodeSchemaValidationFailed,
			Message: i18n.T(CodeSchemaValidationFailed, nil),
			Errors:  iss,
			Cause:   pv.coerceErr,
		})
	case pv.param.Required() && v == nil:
		pv.fail(&Error{
			Code:    CodeMissingRequiredParameter,
			Message: i18n.T(CodeMissingRequiredParameter, map[string]string{"name": pv.param.Name()}),
		})
	case pv.skipValidation(v):
		pv.valid = true
	default:
		res := pv.runValidator(v)
		if len(res.Errors) > 0 {
			pv.fail(&Error{
				Code:    CodeSchemaValidationFailed,
				Message: i18n.T(CodeSchemaValidationFailed, nil),
				Errors:  res.Errors,
			})
		} else {
			pv.valid = true
		}
	}
	return pv.valid
}

// Err returns the failure once Valid is false and nil otherwise. It forces
// Valid and carries no logic of its own.
func (pv *ParameterValue) Err() *Error {
	if pv.Valid() {
		return nil
	}
	return pv.err
}

func (pv *ParameterValue) fail(e *Error) {
	e.FailedValidation = true
	e.Path = pv.param.Ptr()
	pv.valid = false
	pv.err = e
}

// skipValidation decides whether schema validation applies at all. Each
// condition marks the value trivially valid.
func (pv *ParameterValue) skipValidation(v any) bool {
	schema := pv.param.Schema()
	if !pv.param.Required() && v == nil {
		return true
	}
	if (pv.param.AllowEmptyValue() || boolField(schema, "allowEmptyValue")) && v == "" {
		return true
	}
	if pv.param.Type() == "file" || isFileType(schema) {
		return true
	}
	if schemaType(schema) == "string" {
		switch stringField(schema, "format") {
		case "date", "date-time":
			if _, ok := v.(time.Time); ok {
				return true
			}
		}
		if _, ok := v.(io.Reader); ok {
			return true
		}
	}
	return false
}

func (pv *ParameterValue) runValidator(v any) Result {
	doc := pv.param.Document()
	doc.escapePathKeys()
	validator := pv.opts.Validator
	if validator == nil {
		validator = defaultValidator{}
	}
	return validator.Validate(doc.Root(), pv.param.SchemaPtr(), v, pv.opts)
}
