// Package validate implements the built-in JSON Schema (draft4 subset)
// engine the root package uses to check coerced parameter values against
// Swagger 2.0 documents. Schemas are raw map[string]any nodes; instance
// paths in issues are JSON Pointers.
package validate

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-openapi/jsonpointer"

	"github.com/reoring/openparam/i18n"
)

// Issue mirrors the root package's issue shape without importing it.
type Issue struct {
	Path    string
	Code    string
	Message string
	Hint    string
	Params  map[string]any
}

// Options configures one validation run.
type Options struct {
	FailFast bool
}

// At resolves the schema node at ptr within root and validates value
// against it. The error return covers pointer failures only; validation
// failures travel in the issue list.
func At(root map[string]any, ptr string, value any, opt Options) ([]Issue, error) {
	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, fmt.Errorf("validate: invalid schema pointer %q: %w", ptr, err)
	}
	node, _, err := p.Get(root)
	if err != nil {
		return nil, fmt.Errorf("validate: cannot resolve schema pointer %q: %w", ptr, err)
	}
	schema, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validate: schema at %q is not an object", ptr)
	}
	return Value(root, schema, value, opt), nil
}

// Value validates value against schema; root supplies local $ref targets.
func Value(root, schema map[string]any, value any, opt Options) []Issue {
	c := &checker{root: root, opt: opt}
	c.check(schema, value, "", nil)
	return c.issues
}

type checker struct {
	root   map[string]any
	opt    Options
	issues []Issue
}

func (c *checker) add(path, code, hint string, params map[string]any) {
	if c.stopped() {
		return
	}
	if path == "" {
		path = "/"
	}
	c.issues = append(c.issues, Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint, Params: params})
}

func (c *checker) stopped() bool { return c.opt.FailFast && len(c.issues) > 0 }

func (c *checker) check(schema map[string]any, v any, path string, refs []string) {
	if schema == nil || c.stopped() {
		return
	}
	if ref, ok := schema["$ref"].(string); ok {
		c.checkRef(ref, v, path, refs)
		return
	}

	c.checkCombinators(schema, v, path, refs)
	if c.stopped() {
		return
	}

	if t, ok := schemaTypes(schema); ok && !anyTypeMatches(t, v) {
		c.add(path, "invalid_type", "expected "+strings.Join(t, " or "), map[string]any{"expected": strings.Join(t, ","), "got": kindOf(v)})
		return
	}

	if enum, ok := schema["enum"].([]any); ok && !enumContains(enum, v) {
		c.add(path, "invalid_enum", fmt.Sprintf("value %v not in enum", v), map[string]any{"got": v})
	}

	switch t := v.(type) {
	case string:
		c.checkString(schema, t, path)
	case []any:
		c.checkArray(schema, t, path, refs)
	case map[string]any:
		c.checkObject(schema, t, path, refs)
	default:
		if f, ok := toFloat(v); ok {
			c.checkNumber(schema, f, path)
		}
	}
}

func (c *checker) checkRef(ref string, v any, path string, refs []string) {
	for _, seen := range refs {
		if seen == ref {
			// Cycle: a schema can only require what it already required.
			return
		}
	}
	target, ok := c.resolveRef(ref)
	if !ok {
		c.add(path, "ref_unresolved", "cannot resolve "+ref, nil)
		return
	}
	c.check(target, v, path, append(refs, ref))
}

func (c *checker) resolveRef(ref string) (map[string]any, bool) {
	ptr := strings.TrimPrefix(ref, "#")
	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, false
	}
	node, _, err := p.Get(c.root)
	if err != nil {
		return nil, false
	}
	m, ok := node.(map[string]any)
	return m, ok
}

func (c *checker) checkCombinators(schema map[string]any, v any, path string, refs []string) {
	if all, ok := schema["allOf"].([]any); ok {
		for _, s := range all {
			if m, ok := s.(map[string]any); ok {
				c.check(m, v, path, refs)
				if c.stopped() {
					return
				}
			}
		}
	}
	if anyOf, ok := schema["anyOf"].([]any); ok {
		if c.countMatches(anyOf, v, refs) == 0 {
			c.add(path, "union_mismatch", "no anyOf alternative matched", nil)
		}
	}
	if oneOf, ok := schema["oneOf"].([]any); ok {
		if n := c.countMatches(oneOf, v, refs); n != 1 {
			c.add(path, "union_mismatch", fmt.Sprintf("%d oneOf alternatives matched, want exactly 1", n), map[string]any{"matched": n})
		}
	}
	if not, ok := schema["not"].(map[string]any); ok {
		sub := &checker{root: c.root}
		sub.check(not, v, path, refs)
		if len(sub.issues) == 0 {
			c.add(path, "union_mismatch", "value matches the not schema", nil)
		}
	}
}

func (c *checker) countMatches(alts []any, v any, refs []string) int {
	n := 0
	for _, s := range alts {
		m, ok := s.(map[string]any)
		if !ok {
			continue
		}
		sub := &checker{root: c.root}
		sub.check(m, v, "", refs)
		if len(sub.issues) == 0 {
			n++
		}
	}
	return n
}

func (c *checker) checkNumber(schema map[string]any, f float64, path string) {
	if min, ok := numField(schema, "minimum"); ok {
		if f < min || (boolField(schema, "exclusiveMinimum") && f == min) {
			c.add(path, "too_small", fmt.Sprintf("%v is below minimum %v", f, min), map[string]any{"min": min, "got": f})
		}
	}
	if max, ok := numField(schema, "maximum"); ok {
		if f > max || (boolField(schema, "exclusiveMaximum") && f == max) {
			c.add(path, "too_big", fmt.Sprintf("%v is above maximum %v", f, max), map[string]any{"max": max, "got": f})
		}
	}
	if m, ok := numField(schema, "multipleOf"); ok && m > 0 {
		q := f / m
		if math.Abs(q-math.Round(q)) > 1e-9 {
			c.add(path, "not_multiple", fmt.Sprintf("%v is not a multiple of %v", f, m), map[string]any{"multipleOf": m, "got": f})
		}
	}
}

func (c *checker) checkString(schema map[string]any, s string, path string) {
	n := utf8.RuneCountInString(s)
	if min, ok := intField(schema, "minLength"); ok && n < min {
		c.add(path, "too_short", fmt.Sprintf("length %d is below minLength %d", n, min), map[string]any{"min": min, "got": n})
	}
	if max, ok := intField(schema, "maxLength"); ok && n > max {
		c.add(path, "too_long", fmt.Sprintf("length %d is above maxLength %d", n, max), map[string]any{"max": max, "got": n})
	}
	if pat, ok := schema["pattern"].(string); ok {
		re, err := regexp.Compile(pat)
		if err != nil {
			c.add(path, "pattern", "invalid pattern: "+pat, nil)
		} else if !re.MatchString(s) {
			c.add(path, "pattern", "value does not match "+pat, map[string]any{"pattern": pat})
		}
	}
	if format, ok := schema["format"].(string); ok {
		if chk, known := formatCheckers[format]; known && !chk(s) {
			c.add(path, "invalid_format", "not a valid "+format, map[string]any{"format": format})
		}
	}
}

func (c *checker) checkArray(schema map[string]any, arr []any, path string, refs []string) {
	if min, ok := intField(schema, "minItems"); ok && len(arr) < min {
		c.add(path, "too_few_items", fmt.Sprintf("%d items, need at least %d", len(arr), min), map[string]any{"min": min, "got": len(arr)})
	}
	if max, ok := intField(schema, "maxItems"); ok && len(arr) > max {
		c.add(path, "too_many_items", fmt.Sprintf("%d items, need at most %d", len(arr), max), map[string]any{"max": max, "got": len(arr)})
	}
	if boolField(schema, "uniqueItems") {
		for i := 0; i < len(arr); i++ {
			for j := i + 1; j < len(arr); j++ {
				if reflect.DeepEqual(arr[i], arr[j]) {
					c.add(path+"/"+strconv.Itoa(j), "duplicate_items", fmt.Sprintf("items %d and %d are equal", i, j), nil)
				}
			}
		}
	}
	switch items := schema["items"].(type) {
	case map[string]any:
		for i, el := range arr {
			c.check(items, el, path+"/"+strconv.Itoa(i), refs)
			if c.stopped() {
				return
			}
		}
	case []any:
		for i, el := range arr {
			if i >= len(items) {
				break
			}
			if m, ok := items[i].(map[string]any); ok {
				c.check(m, el, path+"/"+strconv.Itoa(i), refs)
				if c.stopped() {
					return
				}
			}
		}
	}
}

func (c *checker) checkObject(schema map[string]any, obj map[string]any, path string, refs []string) {
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if _, present := obj[name]; !present {
				c.add(path+"/"+jsonpointer.Escape(name), "required", "required property missing", map[string]any{"key": name})
			}
		}
	}
	props, _ := schema["properties"].(map[string]any)
	for name, raw := range obj {
		ps, ok := props[name].(map[string]any)
		if ok {
			c.check(ps, raw, path+"/"+jsonpointer.Escape(name), refs)
			if c.stopped() {
				return
			}
			continue
		}
		switch ap := schema["additionalProperties"].(type) {
		case bool:
			if !ap {
				c.add(path+"/"+jsonpointer.Escape(name), "invalid_type", "additional property not allowed", map[string]any{"key": name})
			}
		case map[string]any:
			c.check(ap, raw, path+"/"+jsonpointer.Escape(name), refs)
			if c.stopped() {
				return
			}
		}
	}
	if min, ok := intField(schema, "minProperties"); ok && len(obj) < min {
		c.add(path, "too_few_items", fmt.Sprintf("%d properties, need at least %d", len(obj), min), map[string]any{"min": min, "got": len(obj)})
	}
	if max, ok := intField(schema, "maxProperties"); ok && len(obj) > max {
		c.add(path, "too_many_items", fmt.Sprintf("%d properties, need at most %d", len(obj), max), map[string]any{"max": max, "got": len(obj)})
	}
}

// ---- schema field helpers ----

func schemaTypes(schema map[string]any) ([]string, bool) {
	switch t := schema["type"].(type) {
	case string:
		return []string{t}, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

func anyTypeMatches(types []string, v any) bool {
	for _, t := range types {
		if typeMatches(t, v) {
			return true
		}
	}
	return false
}

func typeMatches(t string, v any) bool {
	switch t {
	case "string":
		switch v.(type) {
		case string, time.Time:
			return true
		}
		return false
	case "integer":
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		case float32:
			return float64(n) == math.Trunc(float64(n))
		}
		return false
	case "number":
		_, ok := toFloat(v)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "null":
		return v == nil
	case "file":
		return true
	default:
		return true
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		if _, ok := toFloat(v); ok {
			return "number"
		}
		return reflect.TypeOf(v).String()
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func enumContains(enum []any, v any) bool {
	for _, e := range enum {
		if reflect.DeepEqual(e, v) {
			return true
		}
		ef, eok := toFloat(e)
		vf, vok := toFloat(v)
		if eok && vok && ef == vf {
			return true
		}
	}
	return false
}

func numField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func intField(m map[string]any, key string) (int, bool) {
	f, ok := numField(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
