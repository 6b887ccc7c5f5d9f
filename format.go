package hdfschema

// evaluateFormat checks every string element against the named format
// validator. Unknown format names are ignored, matching JSON-Schema
// tradition, and the whole keyword is an annotation when the compiler
// has format assertion disabled.
func evaluateFormat(compiler *Compiler, name *string, values []any, path string, attr string) *EvaluationError {
	if name == nil || compiler == nil || !compiler.AssertFormat {
		return nil
	}
	validate := compiler.formatValidator(*name)
	if validate == nil {
		return nil
	}
	for _, value := range values {
		if validate(value) {
			continue
		}
		params := map[string]any{
			"format": *name,
			"value":  value,
		}
		if attr != "" {
			params["attribute"] = attr
		}
		return NewEvaluationError(FormatViolation, "format", path,
			"Value {value} is not a valid {format}", params)
	}
	return nil
}
