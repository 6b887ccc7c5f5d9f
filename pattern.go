package hdfschema

import "regexp"

// evaluatePattern checks every string element against the schema's
// regex. Search semantics apply: the pattern is not implicitly
// anchored. Compilation errors cannot reach this point; pattern syntax
// is a compile-time schema error.
func evaluatePattern(re *regexp.Regexp, source *string, values []any, path string, attr string) *EvaluationError {
	if source == nil {
		return nil
	}
	if re == nil {
		compiled, err := regexp.Compile(*source)
		if err != nil {
			return nil
		}
		re = compiled
	}
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if re.MatchString(s) {
			continue
		}
		params := map[string]any{
			"pattern": *source,
			"value":   s,
		}
		if attr != "" {
			params["attribute"] = attr
		}
		return NewEvaluationError(PatternViolation, "pattern", path,
			"Value {value} does not match the required pattern {pattern}", params)
	}
	return nil
}

// getCompiledPattern returns the cached compiled "pattern" regex,
// compiling and caching it on first use.
func (s *Schema) getCompiledPattern() *regexp.Regexp {
	if s.Pattern == nil {
		return nil
	}
	if s.compiledStringPattern == nil {
		re, err := regexp.Compile(*s.Pattern)
		if err != nil {
			return nil
		}
		s.compiledStringPattern = re
	}
	return s.compiledStringPattern
}
