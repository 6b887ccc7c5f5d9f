package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateMembers pairs each actual child of a group with its
// effective schemas and recurses. A literal members entry wins
// outright and suppresses pattern matches for that child; otherwise
// every matching patternMembers schema applies conjunctively, in
// declaration order. Children matched by neither are unconstrained:
// groups are open-world on members.
func (ev *evaluator) evaluateMembers(schema *Schema, node *tree.Node, path string, result *Result) {
	if schema.Members == nil && len(schema.compiledMemberPatterns) == 0 {
		return
	}
	for _, child := range node.Children() {
		childPath := joinPath(path, child.Name())

		if schema.Members != nil {
			if member, ok := (*schema.Members)[child.Name()]; ok {
				result.Merge(ev.evaluate(member, child, childPath))
				continue
			}
		}
		for _, pm := range schema.compiledMemberPatterns {
			if pm.re.MatchString(child.Name()) {
				result.Merge(ev.evaluate(pm.schema, child, childPath))
			}
		}
	}
}
