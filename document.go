package openparam

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document wraps one decoded Swagger 2.0 root object. The root is shared by
// every Parameter resolved from it; the only mutation a Document ever
// performs on it is the one-time path-key escaping pass.
type Document struct {
	root    map[string]any
	escaped bool
}

// NewDocument wraps an already-decoded root object.
func NewDocument(root map[string]any) *Document { return &Document{root: root} }

// LoadJSON decodes a JSON document.
func LoadJSON(data []byte) (*Document, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("openparam: invalid JSON document: %w", err)
	}
	return NewDocument(root), nil
}

// LoadYAML decodes a YAML document, normalizing map[any]any nodes into the
// JSON-shaped map[string]any form the rest of the package traffics in.
func LoadYAML(data []byte) (*Document, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("openparam: invalid YAML document: %w", err)
	}
	root := yamlAnyToStringMap(node)
	if root == nil {
		return nil, errors.New("openparam: YAML root is not a mapping")
	}
	return NewDocument(root), nil
}

// Root returns the decoded root object. Callers must not mutate it.
func (d *Document) Root() map[string]any { return d.root }

// Parameters resolves the parameters that apply to one operation: path-item
// level entries first, overridden by operation level entries with the same
// (name, in) pair. Local $ref entries into #/parameters are resolved.
func (d *Document) Parameters(path, method string) ([]*Parameter, error) {
	d.escapePathKeys()
	paths, _ := d.root["paths"].(map[string]any)
	if paths == nil {
		return nil, errors.New("openparam: document has no paths object")
	}
	key := EscapeKey(path)
	item, _ := paths[key].(map[string]any)
	if item == nil {
		return nil, fmt.Errorf("openparam: path %q not found", path)
	}
	method = strings.ToLower(method)
	op, _ := item[method].(map[string]any)
	if op == nil {
		return nil, fmt.Errorf("openparam: operation %s %s not found", method, path)
	}

	basePtr := "/paths/" + jsonpointer.Escape(key)
	var out []*Parameter
	index := map[string]int{}
	add := func(list []any, listPtr string) error {
		for i, raw := range list {
			def, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			ptr := listPtr + "/" + strconv.Itoa(i)
			p, err := d.resolveParameter(def, ptr)
			if err != nil {
				return err
			}
			k := p.Name() + "\x00" + p.In()
			if j, seen := index[k]; seen {
				out[j] = p
				continue
			}
			index[k] = len(out)
			out = append(out, p)
		}
		return nil
	}
	if list, ok := item["parameters"].([]any); ok {
		if err := add(list, basePtr+"/parameters"); err != nil {
			return nil, err
		}
	}
	if list, ok := op["parameters"].([]any); ok {
		if err := add(list, basePtr+"/"+method+"/parameters"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Parameter resolves a single named parameter of one operation.
func (d *Document) Parameter(path, method, name string) (*Parameter, error) {
	params, err := d.Parameters(path, method)
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("openparam: parameter %q not found for %s %s", name, method, path)
}

// resolveParameter follows a local $ref into the document; the returned
// Parameter points at the ref target so schema paths resolve to the actual
// definition.
func (d *Document) resolveParameter(def map[string]any, ptr string) (*Parameter, error) {
	ref, ok := def["$ref"].(string)
	if !ok {
		return NewParameter(d, ptr, def), nil
	}
	target := strings.TrimPrefix(ref, "#")
	p, err := jsonpointer.New(target)
	if err != nil {
		return nil, fmt.Errorf("openparam: invalid $ref %q: %w", ref, err)
	}
	node, _, err := p.Get(d.root)
	if err != nil {
		return nil, fmt.Errorf("openparam: unresolved $ref %q: %w", ref, err)
	}
	resolved, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openparam: $ref %q does not point at a parameter object", ref)
	}
	return NewParameter(d, target, resolved), nil
}

// escapePathKeys rewrites every key under the paths object so literal single
// quotes cannot corrupt the validator's pointer syntax. The pass runs once
// per document; the escaper itself is idempotent so a repeat cannot
// double-escape.
func (d *Document) escapePathKeys() {
	if d.escaped {
		return
	}
	d.escaped = true
	paths, _ := d.root["paths"].(map[string]any)
	if paths == nil {
		return
	}
	for k, v := range paths {
		if ek := EscapeKey(k); ek != k {
			paths[ek] = v
			delete(paths, k)
		}
	}
}

// EscapeKey backslash-escapes single quotes in a path key. Already-escaped
// quotes are left alone, so applying it twice yields the same string as
// applying it once.
func EscapeKey(key string) string {
	if !strings.Contains(key, "'") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 2)
	escaped := false
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '\'' && !escaped {
			b.WriteByte('\\')
		}
		escaped = c == '\\' && !escaped
		b.WriteByte(c)
	}
	return b.String()
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
