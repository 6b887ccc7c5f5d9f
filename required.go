package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateRequired checks that every name listed in "required" exists
// as an actual child of the group, in the list's declaration order.
// Required names may be satisfied by pattern-matched children; only
// actual absence is an error.
func evaluateRequired(schema *Schema, node *tree.Node, path string) []*EvaluationError {
	if len(schema.Required) == 0 {
		return nil
	}
	var errs []*EvaluationError
	for _, name := range schema.Required {
		if node.HasChild(name) {
			continue
		}
		errs = append(errs, NewEvaluationError(MissingMember, "required", path,
			"Required member {member} is missing", map[string]any{
				"member": name,
			}))
	}
	return errs
}
