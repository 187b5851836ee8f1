package openparam

// Parameter is a read-only view of one parameter definition inside a
// Document. It only reads the definition; the document owns it.
type Parameter struct {
	doc *Document
	ptr string
	def map[string]any
}

// NewParameter wraps an already-resolved parameter definition. ptr is the
// JSON Pointer of def within doc and must resolve to it.
func NewParameter(doc *Document, ptr string, def map[string]any) *Parameter {
	return &Parameter{doc: doc, ptr: ptr, def: def}
}

// ParameterFromDefinition wraps a standalone parameter definition in a
// minimal synthetic document so it can be processed without a full Swagger
// root. Intended for tests and one-off checks.
func ParameterFromDefinition(def map[string]any) *Parameter {
	doc := NewDocument(map[string]any{"parameters": map[string]any{"p": def}})
	return &Parameter{doc: doc, ptr: "/parameters/p", def: def}
}

// Document returns the owning document.
func (p *Parameter) Document() *Document { return p.doc }

// Ptr returns the JSON Pointer of the definition within its document.
func (p *Parameter) Ptr() string { return p.ptr }

// Definition returns the raw definition. Callers must not mutate it.
func (p *Parameter) Definition() map[string]any { return p.def }

// Name returns the parameter name.
func (p *Parameter) Name() string { return stringField(p.def, "name") }

// In returns the parameter location (query, path, header, formData, body).
func (p *Parameter) In() string { return stringField(p.def, "in") }

// Required reports whether the parameter is required. An absent flag counts
// as false.
func (p *Parameter) Required() bool { return boolField(p.def, "required") }

// Type returns the declared parameter type ("" for body parameters).
func (p *Parameter) Type() string { return stringField(p.def, "type") }

// CollectionFormat returns the declared collection format ("" means csv).
func (p *Parameter) CollectionFormat() string { return stringField(p.def, "collectionFormat") }

// AllowEmptyValue reports whether the parameter accepts an empty value.
func (p *Parameter) AllowEmptyValue() bool { return boolField(p.def, "allowEmptyValue") }

// Schema returns the schema the value is processed against: body parameters
// carry an explicit schema sub-object, all others are themselves
// schema-shaped.
func (p *Parameter) Schema() map[string]any {
	if sub, ok := p.def["schema"].(map[string]any); ok {
		return sub
	}
	return p.def
}

// SchemaPtr returns the JSON Pointer of Schema() within the document.
// Deterministic and pure: body parameters append /schema to Ptr, all others
// validate against the definition itself.
func (p *Parameter) SchemaPtr() string {
	if _, ok := p.def["schema"].(map[string]any); ok {
		return p.ptr + "/schema"
	}
	return p.ptr
}

// Value binds raw to this parameter and returns the lazy processing cell.
// Nothing is computed until a facet is first observed.
func (p *Parameter) Value(raw any, opts Options) *ParameterValue {
	return &ParameterValue{param: p, opts: opts, raw: raw}
}
