package openparam

import (
	"github.com/reoring/openparam/internal/validate"
)

// defaultValidator adapts the built-in draft4-subset engine to the Validator
// contract.
type defaultValidator struct{}

func (defaultValidator) Validate(root map[string]any, schemaPtr string, value any, opt Options) Result {
	issues, err := validate.At(root, schemaPtr, value, validate.Options{FailFast: opt.FailFast})
	if err != nil {
		return Result{Errors: Issues{{Code: CodeRefUnresolved, Message: err.Error()}}}
	}
	var out Issues
	for _, it := range issues {
		out = AppendIssues(out, Issue{
			Path:    it.Path,
			Code:    it.Code,
			Message: it.Message,
			Hint:    it.Hint,
			Params:  it.Params,
		})
	}
	return Result{Errors: out}
}
