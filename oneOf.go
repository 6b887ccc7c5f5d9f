package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateOneOf requires exactly one branch to match the node. Zero
// matches report the branch errors as causes; several matches report
// the matching branch indices.
func (ev *evaluator) evaluateOneOf(schema *Schema, node *tree.Node, path string) *EvaluationError {
	if len(schema.OneOf) == 0 {
		return nil
	}
	var matched []int
	var causes []*EvaluationError
	for i, sub := range schema.OneOf {
		if sub == nil {
			continue
		}
		branch := ev.evaluate(sub, node, path)
		if branch.IsValid() {
			matched = append(matched, i)
		} else {
			causes = append(causes, branch.Errors...)
		}
	}

	switch len(matched) {
	case 1:
		return nil
	case 0:
		return NewEvaluationError(OneOfNoneMatched, "oneOf", path,
			"Node does not match any of the oneOf schemas").WithCauses(causes...)
	default:
		return NewEvaluationError(OneOfMultipleMatched, "oneOf", path,
			"Node matches more than one oneOf schema at indices {matches}", map[string]any{
				"matches": matched,
			})
	}
}
