package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateAllOf applies every allOf branch to the node and
// concatenates all branch errors into the main stream, so that
// allOf[S1, allOf[S2, S3]] and allOf[S1, S2, S3] report the same set.
func (ev *evaluator) evaluateAllOf(schema *Schema, node *tree.Node, path string, result *Result) {
	for _, sub := range schema.AllOf {
		if sub != nil {
			result.Merge(ev.evaluate(sub, node, path))
		}
	}
}
