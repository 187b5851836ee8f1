package openparam_test

import (
	"strings"
	"testing"
	"time"

	openparam "github.com/reoring/openparam"
)

// countingValidator records how often the engine is consulted so tests can
// assert the one-time-computation contract.
type countingValidator struct {
	calls int
	out   openparam.Result
}

func (c *countingValidator) Validate(root map[string]any, schemaPtr string, value any, opt openparam.Options) openparam.Result {
	c.calls++
	return c.out
}

func TestParameterValue_RequiredAbsent(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer", "required": true,
	})
	pv := p.Value(nil, openparam.Options{})

	if pv.Valid() {
		t.Fatalf("required+absent must be invalid")
	}
	e := pv.Err()
	if e == nil || e.Code != openparam.CodeMissingRequiredParameter {
		t.Fatalf("expected MISSING_REQUIRED_PARAMETER, got: %v", e)
	}
	if !e.FailedValidation {
		t.Fatalf("error must be marked validation-originated")
	}
	if e.Path != p.Ptr() {
		t.Fatalf("error path %q, want parameter pointer %q", e.Path, p.Ptr())
	}
}

func TestParameterValue_OptionalAbsent(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer", "required": false,
	})
	pv := p.Value(nil, openparam.Options{})

	if !pv.Valid() {
		t.Fatalf("optional+absent must be valid, got: %v", pv.Err())
	}
	if pv.Value() != nil {
		t.Fatalf("expected nil value, got: %v", pv.Value())
	}
	if pv.Err() != nil {
		t.Fatalf("valid value must expose no error")
	}
}

func TestParameterValue_AllowEmptyValue(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "q", "in": "query", "type": "string", "allowEmptyValue": true, "required": true,
	})
	pv := p.Value("", openparam.Options{})

	if !pv.Valid() {
		t.Fatalf("allowEmptyValue + empty string must skip validation, got: %v", pv.Err())
	}
	if pv.Value() != "" {
		t.Fatalf("expected empty string, got: %v", pv.Value())
	}
}

func TestParameterValue_TupleDefaults_Partial(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "pair", "in": "query", "type": "array",
		"items": []any{
			map[string]any{"default": 1},
			map[string]any{},
		},
	})
	pv := p.Value(nil, openparam.Options{})

	got, ok := pv.Value().([]any)
	if !ok || len(got) != 2 {
		t.Fatalf("expected two-element tuple default, got: %v", pv.Value())
	}
	if got[0] != 1 || got[1] != nil {
		t.Fatalf("partial tuple default must be retained, got: %v", got)
	}
	if !pv.Valid() {
		t.Fatalf("tuple default must validate, got: %v", pv.Err())
	}
}

func TestParameterValue_TupleDefaults_AllUndefined(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "pair", "in": "query", "type": "array",
		"items":   []any{map[string]any{}, map[string]any{}},
		"default": []any{9},
	})
	pv := p.Value(nil, openparam.Options{})

	got, ok := pv.Value().([]any)
	if !ok || len(got) != 1 || got[0] != 9 {
		t.Fatalf("all-undefined tuple must fall back to the schema default, got: %v", pv.Value())
	}
}

func TestParameterValue_SingleItemsDefault(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "tags", "in": "query", "type": "array",
		"items": map[string]any{"type": "string", "default": "all"},
	})
	pv := p.Value(nil, openparam.Options{})

	got, ok := pv.Value().([]any)
	if !ok || len(got) != 1 || got[0] != "all" {
		t.Fatalf("items default must wrap in a one-element array, got: %v", pv.Value())
	}
}

func TestParameterValue_OneOfSkipsNull(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "id", "in": "query",
		"oneOf": []any{
			map[string]any{"type": "null"},
			map[string]any{"type": "integer"},
		},
	})
	pv := p.Value("5", openparam.Options{})

	if got := pv.Value(); got != int64(5) {
		t.Fatalf("expected int64(5), got: %v (%T)", got, got)
	}
	if !pv.Valid() {
		t.Fatalf("expected valid, got: %v", pv.Err())
	}
}

func TestParameterValue_SchemaValidationFailure(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer", "maximum": 10,
	})
	pv := p.Value("42", openparam.Options{})

	if pv.Valid() {
		t.Fatalf("42 must exceed maximum 10")
	}
	e := pv.Err()
	if e == nil || e.Code != openparam.CodeSchemaValidationFailed {
		t.Fatalf("expected SCHEMA_VALIDATION_FAILED, got: %v", e)
	}
	if len(e.Errors) == 0 {
		t.Fatalf("schema failure must carry the validator's issue list")
	}
	if e.Errors[0].Code != openparam.CodeTooBig {
		t.Fatalf("expected too_big, got: %v", e.Errors[0])
	}
}

func TestParameterValue_CoercionErrorCaptured(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer",
	})
	pv := p.Value("abc", openparam.Options{})

	// Reading Value alone must not reveal the failure.
	if pv.Value() != nil {
		t.Fatalf("failed coercion must leave the value nil, got: %v", pv.Value())
	}
	if pv.Valid() {
		t.Fatalf("captured coercion error must fail validation")
	}
	e := pv.Err()
	if e == nil || e.Code != openparam.CodeSchemaValidationFailed {
		t.Fatalf("expected SCHEMA_VALIDATION_FAILED, got: %v", e)
	}
	if e.Cause == nil {
		t.Fatalf("coercion failure must surface as the error cause")
	}
	if len(e.Errors) == 0 || e.Errors[0].Code != openparam.CodeCoercionFailed {
		t.Fatalf("expected coercion_failed issue, got: %v", e.Errors)
	}
}

func TestParameterValue_ValidatorRunsOnce(t *testing.T) {
	cv := &countingValidator{}
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer",
	})
	pv := p.Value("5", openparam.Options{Validator: cv})

	for i := 0; i < 3; i++ {
		if !pv.Valid() {
			t.Fatalf("expected valid")
		}
		if pv.Err() != nil {
			t.Fatalf("expected no error")
		}
	}
	if cv.calls != 1 {
		t.Fatalf("validator must run exactly once, ran %d times", cv.calls)
	}
}

func TestParameterValue_ValueMemoized(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "tags", "in": "query", "type": "array",
		"items": map[string]any{"type": "string"},
	})
	pv := p.Value("a,b", openparam.Options{})

	v1, ok1 := pv.Value().([]any)
	v2, ok2 := pv.Value().([]any)
	if !ok1 || !ok2 || len(v1) != 2 {
		t.Fatalf("expected two-element array, got: %v", pv.Value())
	}
	if &v1[0] != &v2[0] {
		t.Fatalf("repeated reads must return the identical cached slice")
	}
}

func TestParameterValue_DateSkipsValidation(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "since", "in": "query", "type": "string", "format": "date",
	})
	pv := p.Value("2014-01-22", openparam.Options{})

	tm, ok := pv.Value().(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got: %T", pv.Value())
	}
	if tm.Year() != 2014 || tm.Month() != time.January || tm.Day() != 22 {
		t.Fatalf("unexpected date: %v", tm)
	}
	if !pv.Valid() {
		t.Fatalf("native date value must skip schema validation, got: %v", pv.Err())
	}
}

func TestParameterValue_BinaryPayloadSkipsValidation(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "blob", "in": "formData", "type": "string", "format": "binary",
		"minLength": 1000,
	})
	pv := p.Value(strings.NewReader("payload"), openparam.Options{})

	if !pv.Valid() {
		t.Fatalf("stream-like payloads must skip validation, got: %v", pv.Err())
	}
	if _, ok := pv.Value().(*strings.Reader); !ok {
		t.Fatalf("payload must pass through unchanged, got: %T", pv.Value())
	}
}

func TestParameterValue_FilePassthrough(t *testing.T) {
	cv := &countingValidator{}
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "upload", "in": "formData", "type": "file", "required": true,
	})
	raw := strings.NewReader("content")
	pv := p.Value(raw, openparam.Options{Validator: cv})

	if pv.Value() != raw {
		t.Fatalf("file parameters must pass the raw value through unchanged")
	}
	if !pv.Valid() {
		t.Fatalf("file parameters skip validation, got: %v", pv.Err())
	}
	if cv.calls != 0 {
		t.Fatalf("validator must not run for file parameters")
	}
}

func TestParameterValue_RawIdentity(t *testing.T) {
	p := openparam.ParameterFromDefinition(map[string]any{
		"name": "limit", "in": "query", "type": "integer",
	})
	pv := p.Value("5", openparam.Options{})

	if pv.Raw() != "5" {
		t.Fatalf("raw must stay the original input, got: %v", pv.Raw())
	}
	_ = pv.Valid()
	if pv.Raw() != "5" {
		t.Fatalf("raw must survive facet evaluation, got: %v", pv.Raw())
	}
}
