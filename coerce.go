package openparam

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/openparam/i18n"
)

// dateLayout is the full-date layout from RFC 3339.
const dateLayout = "2006-01-02"

// coerceValue converts a raw transport value into the type declared by
// schema. A nil result with a nil error means no value was present. Failures
// are returned as Issues, never panicked, so the caller can capture them and
// surface them through the error facet.
func coerceValue(schema map[string]any, opt CoerceOptions, raw any) (any, error) {
	if schema == nil || raw == nil {
		return raw, nil
	}
	if isFileType(schema) {
		return raw, nil
	}
	if alts, ok := schema["oneOf"].([]any); ok {
		return coerceOneOf(alts, opt, raw)
	}
	return convertValue(schema, opt, raw)
}

// coerceOneOf tries each alternative in declared order, skipping null-typed
// ones, and accepts the first whose result is defined and differs from raw.
// No later alternative overrides an accepted one. When nothing differs, the
// last informative attempt stands; when every attempt errored, the last
// error is reported.
func coerceOneOf(alts []any, opt CoerceOptions, raw any) (any, error) {
	var out any
	var lastErr error
	for _, alt := range alts {
		sub, ok := alt.(map[string]any)
		if !ok || schemaType(sub) == "null" {
			continue
		}
		v, err := coerceValue(sub, opt, raw)
		if err != nil {
			lastErr = err
			continue
		}
		out = v
		if v != nil && !reflect.DeepEqual(v, raw) {
			return v, nil
		}
	}
	if out == nil && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func convertValue(schema map[string]any, opt CoerceOptions, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && s == "" && boolField(schema, "allowEmptyValue") {
		return raw, nil
	}
	switch schemaType(schema) {
	case "array":
		return convertArray(schema, opt, raw)
	case "boolean":
		return convertBoolean(raw)
	case "integer":
		return convertInteger(raw)
	case "number":
		return convertNumber(raw)
	case "object":
		return convertObject(raw)
	case "string":
		return convertString(schema, raw)
	default:
		// No declared type (or file): the raw value passes through unchanged.
		return raw, nil
	}
}

func convertArray(schema map[string]any, opt CoerceOptions, raw any) (any, error) {
	var elems []any
	switch t := raw.(type) {
	case string:
		split, err := splitCollection(t, opt.CollectionFormat)
		if err != nil {
			return nil, err
		}
		elems = split
	case []any:
		elems = t
	case []string:
		elems = make([]any, len(t))
		for i := range t {
			elems[i] = t[i]
		}
	default:
		return nil, coercionIssue(fmt.Sprintf("not an array: %v", raw))
	}

	tuple, isTuple := schema["items"].([]any)
	single, _ := schema["items"].(map[string]any)
	out := make([]any, len(elems))
	for i, el := range elems {
		item := single
		if isTuple {
			item = nil
			if i < len(tuple) {
				item, _ = tuple[i].(map[string]any)
			}
		}
		cv, err := coerceValue(item, opt, el)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

// splitCollection unpacks a packed string per collection format. The multi
// format means the transport already produced one entry per occurrence, so a
// bare string becomes a single element.
func splitCollection(raw, format string) ([]any, error) {
	var sep string
	switch format {
	case "", "csv":
		sep = ","
	case "ssv":
		sep = " "
	case "tsv":
		sep = "\t"
	case "pipes":
		sep = "|"
	case "multi":
		return []any{raw}, nil
	default:
		return nil, coercionIssue("invalid collection format: " + format)
	}
	parts := strings.Split(raw, sep)
	out := make([]any, len(parts))
	for i := range parts {
		out[i] = parts[i]
	}
	return out, nil
}

func convertBoolean(raw any) (any, error) {
	switch t := raw.(type) {
	case bool:
		return t, nil
	case string:
		switch t {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, coercionIssue(fmt.Sprintf("not a valid boolean: %v", raw))
}

func convertInteger(raw any) (any, error) {
	switch t := raw.(type) {
	case int, int32, int64, float64, float32:
		return raw, nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
		// Accept float-formed strings with an integral value ("5.0").
		if f, err := strconv.ParseFloat(t, 64); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
	}
	return nil, coercionIssue(fmt.Sprintf("not a valid integer: %v", raw))
}

func convertNumber(raw any) (any, error) {
	switch t := raw.(type) {
	case int, int32, int64, float64, float32:
		return raw, nil
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, nil
		}
	}
	return nil, coercionIssue(fmt.Sprintf("not a valid number: %v", raw))
}

func convertObject(raw any) (any, error) {
	switch t := raw.(type) {
	case map[string]any:
		return t, nil
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(t), &out); err != nil {
			return nil, coercionIssue("not a valid object: " + err.Error())
		}
		return out, nil
	case []byte:
		var out map[string]any
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, coercionIssue("not a valid object: " + err.Error())
		}
		return out, nil
	}
	return nil, coercionIssue(fmt.Sprintf("not a valid object: %v", raw))
}

func convertString(schema map[string]any, raw any) (any, error) {
	if _, ok := raw.(time.Time); ok {
		return raw, nil
	}
	if _, ok := raw.(io.Reader); ok {
		// Raw binary payloads stay opaque; validation is skipped for them.
		return raw, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, coercionIssue(fmt.Sprintf("not a valid string: %v", raw))
	}
	if s == "" {
		return s, nil
	}
	switch stringField(schema, "format") {
	case "date":
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, coercionIssue("not a valid date string: " + s)
		}
		return t, nil
	case "date-time":
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, coercionIssue("not a valid date-time string: " + s)
		}
		return t, nil
	}
	return s, nil
}

// defaultValue computes the fallback applied when coercion produced nothing
// and no error was captured. Tuple-style item defaults are discarded only
// when every element is nil; a partially defaulted tuple is kept.
func defaultValue(schema map[string]any) any {
	if schema == nil {
		return nil
	}
	if schemaType(schema) == "array" {
		switch items := schema["items"].(type) {
		case []any:
			out := make([]any, len(items))
			all := true
			for i := range items {
				if m, ok := items[i].(map[string]any); ok {
					out[i] = m["default"]
				}
				if out[i] != nil {
					all = false
				}
			}
			if !all {
				return out
			}
		case map[string]any:
			if d := items["default"]; d != nil {
				return []any{d}
			}
		}
	}
	if d := schema["default"]; d != nil {
		return d
	}
	return nil
}

// isFileType reports whether schema describes a file parameter, directly or
// through a wrapping schema / allOf alias.
func isFileType(schema map[string]any) bool {
	if schema == nil {
		return false
	}
	if schemaType(schema) == "file" {
		return true
	}
	if sub, ok := schema["schema"].(map[string]any); ok && isFileType(sub) {
		return true
	}
	if all, ok := schema["allOf"].([]any); ok {
		for _, a := range all {
			if m, ok := a.(map[string]any); ok && isFileType(m) {
				return true
			}
		}
	}
	return false
}

func coercionIssue(hint string) error {
	return Issues{{Code: CodeCoercionFailed, Message: i18n.T(CodeCoercionFailed, nil), Hint: hint}}
}

func schemaType(schema map[string]any) string { return stringField(schema, "type") }

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}
