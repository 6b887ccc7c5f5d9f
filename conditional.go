package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateConditional applies if/then/else. The "if" branch runs as a
// silent sub-evaluation whose errors are discarded; only the selected
// then/else branch contributes errors. An absent branch is trivially
// satisfied.
func (ev *evaluator) evaluateConditional(schema *Schema, node *tree.Node, path string, result *Result) {
	if schema.If == nil {
		return
	}
	condition := ev.evaluate(schema.If, node, path)
	if condition.IsValid() {
		if schema.Then != nil {
			result.Merge(ev.evaluate(schema.Then, node, path))
		}
		return
	}
	if schema.Else != nil {
		result.Merge(ev.evaluate(schema.Else, node, path))
	}
}
