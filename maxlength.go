package hdfschema

// evaluateMaxLength checks that no string element exceeds maxLength.
// Length semantics match evaluateMinLength.
func evaluateMaxLength(max *int, values []any, kind byte, path string, attr string) *EvaluationError {
	if max == nil {
		return nil
	}
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		length := stringLength(kind, s)
		if length <= *max {
			continue
		}
		params := map[string]any{
			"max_length": *max,
			"length":     length,
		}
		if attr != "" {
			params["attribute"] = attr
		}
		return NewEvaluationError(MaxLengthViolation, "maxLength", path,
			"String of length {length} is longer than the maximum length {max_length}", params)
	}
	return nil
}
