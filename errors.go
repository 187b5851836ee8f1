package openparam

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter error codes carried by Error.Code.
const (
	CodeMissingRequiredParameter = "MISSING_REQUIRED_PARAMETER"
	CodeSchemaValidationFailed   = "SCHEMA_VALIDATION_FAILED"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeInvalidFormat  = "invalid_format"
	CodeInvalidEnum    = "invalid_enum"
	CodeRequired       = "required"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeTooFewItems    = "too_few_items"
	CodeTooManyItems   = "too_many_items"
	CodeDuplicateItems = "duplicate_items"
	CodePattern        = "pattern"
	CodeNotMultiple    = "not_multiple"
	CodeUnionMismatch  = "union_mismatch"
	CodeRefUnresolved  = "ref_unresolved"
	CodeCoercionFailed = "coercion_failed"
	CodeParseError     = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the instance value (for example: /2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Error is the failure a ParameterValue exposes once Valid() is false. It is
// data, never thrown: reading Value() alone does not reveal it.
type Error struct {
	Code    string // CodeMissingRequiredParameter or CodeSchemaValidationFailed.
	Path    string // JSON Pointer of the parameter definition within its document.
	Message string
	// FailedValidation marks the error as validation-originated so that
	// downstream reporting can distinguish it from transport failures.
	FailedValidation bool
	// Errors carries the validator's issue list verbatim for
	// CodeSchemaValidationFailed.
	Errors Issues
	// Cause holds the captured coercion error when coercion, not schema
	// validation, produced the failure.
	Cause error
}

func (e *Error) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Errors.Error())
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// Unwrap exposes the captured coercion error to errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }
