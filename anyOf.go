package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateAnyOf succeeds silently as soon as one branch matches the
// node. When none do, the single aggregate error carries every
// branch's errors as causes.
func (ev *evaluator) evaluateAnyOf(schema *Schema, node *tree.Node, path string) *EvaluationError {
	if len(schema.AnyOf) == 0 {
		return nil
	}
	var causes []*EvaluationError
	for _, sub := range schema.AnyOf {
		if sub == nil {
			continue
		}
		branch := ev.evaluate(sub, node, path)
		if branch.IsValid() {
			return nil
		}
		causes = append(causes, branch.Errors...)
	}
	return NewEvaluationError(AnyOfFailed, "anyOf", path,
		"Node does not match any of the anyOf schemas").WithCauses(causes...)
}
