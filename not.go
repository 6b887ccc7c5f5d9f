package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateNot succeeds iff the negated schema reports at least one
// error for the node.
func (ev *evaluator) evaluateNot(schema *Schema, node *tree.Node, path string) *EvaluationError {
	if schema.Not == nil {
		return nil
	}
	branch := ev.evaluate(schema.Not, node, path)
	if branch.IsValid() {
		return NewEvaluationError(NotFailed, "not", path,
			"Node matches the schema it must not match")
	}
	return nil
}
