package hdfschema

import (
	"sort"

	"github.com/kaptinlin/go-i18n"
)

// ErrorKind identifies a class of conformance error. The string value
// doubles as the localization code for the message catalog.
type ErrorKind string

const (
	KindMismatch            ErrorKind = "kind_mismatch"
	DtypeMismatch           ErrorKind = "dtype_mismatch"
	ShapeMismatch           ErrorKind = "shape_mismatch"
	MissingMember           ErrorKind = "missing_member"
	MissingAttribute        ErrorKind = "missing_attribute"
	EnumViolation           ErrorKind = "enum_violation"
	ConstViolation          ErrorKind = "const_violation"
	MinLengthViolation      ErrorKind = "min_length_violation"
	MaxLengthViolation      ErrorKind = "max_length_violation"
	PatternViolation        ErrorKind = "pattern_violation"
	FormatViolation         ErrorKind = "format_violation"
	AnyOfFailed             ErrorKind = "any_of_failed"
	OneOfNoneMatched        ErrorKind = "one_of_none_matched"
	OneOfMultipleMatched    ErrorKind = "one_of_multiple_matched"
	NotFailed               ErrorKind = "not_failed"
	DependentRequiredFailed ErrorKind = "dependent_required_failed"
	DependentSchemasFailed  ErrorKind = "dependent_schemas_failed"
	IOError                 ErrorKind = "io_error"
)

// EvaluationError is one conformance error found during validation. It
// carries the absolute path of the offending node, a message template
// with parameters, and, for combinator failures, the branch errors that
// led to it.
type EvaluationError struct {
	Kind    ErrorKind          `json:"kind"`
	Keyword string             `json:"keyword"`
	Path    string             `json:"path"`
	Message string             `json:"message"`
	Params  map[string]any     `json:"params,omitempty"`
	Causes  []*EvaluationError `json:"causes,omitempty"`
}

// NewEvaluationError creates a new evaluation error with the specified details.
func NewEvaluationError(kind ErrorKind, keyword, path, message string, params ...map[string]any) *EvaluationError {
	e := &EvaluationError{
		Kind:    kind,
		Keyword: keyword,
		Path:    path,
		Message: message,
	}
	if len(params) > 0 {
		e.Params = params[0]
	}
	return e
}

// WithCauses attaches nested branch errors to a combinator error.
func (e *EvaluationError) WithCauses(causes ...*EvaluationError) *EvaluationError {
	e.Causes = append(e.Causes, causes...)
	return e
}

func (e *EvaluationError) Error() string {
	return e.Path + ": " + replace(e.Message, e.Params)
}

// Localize returns a localized error message using the provided localizer.
func (e *EvaluationError) Localize(localizer *i18n.Localizer) string {
	if localizer != nil {
		return localizer.Get(string(e.Kind), i18n.Vars(e.Params))
	}
	return replace(e.Message, e.Params)
}

// Result is the outcome of one Validate call: the complete,
// path-annotated error list in stable emission order.
type Result struct {
	Valid  bool               `json:"valid"`
	Errors []*EvaluationError `json:"errors,omitempty"`
}

func newResult() *Result {
	return &Result{Valid: true}
}

// IsValid reports whether the tree conformed to the schema.
func (r *Result) IsValid() bool {
	return r.Valid
}

// AddError appends an evaluation error and marks the result invalid.
func (r *Result) AddError(err *EvaluationError) *Result {
	if err == nil {
		return r
	}
	r.Valid = false
	r.Errors = append(r.Errors, err)
	return r
}

// Merge appends another result's errors in order.
func (r *Result) Merge(other *Result) *Result {
	if other == nil {
		return r
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	return r
}

// Err returns the first error, or nil when the result is valid. It
// lets callers that only need a pass/fail signal treat the result as a
// plain error value.
func (r *Result) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// ToList flattens the error hierarchy into localized message strings
// sorted lexically by node path, expanding combinator causes
// depth-first under their parent. Errors at the same path keep their
// emission order; Errors itself stays in emission order.
func (r *Result) ToList(localizer *i18n.Localizer) []string {
	ordered := make([]*EvaluationError, len(r.Errors))
	copy(ordered, r.Errors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Path < ordered[j].Path
	})

	var list []string
	var walk func(errs []*EvaluationError, depth int)
	walk = func(errs []*EvaluationError, depth int) {
		for _, err := range errs {
			prefix := ""
			for i := 0; i < depth; i++ {
				prefix += "  "
			}
			list = append(list, prefix+err.Path+": "+err.Localize(localizer))
			walk(err.Causes, depth+1)
		}
	}
	walk(ordered, 0)
	return list
}
