package hdfschema

import (
	"sort"

	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateDependentSchemas applies each dependent schema to the whole
// node when its trigger name is present, using the same presence
// notion as dependentRequired. A failing dependent schema reports one
// aggregate error carrying the branch errors as causes.
func (ev *evaluator) evaluateDependentSchemas(schema *Schema, node *tree.Node, path string, result *Result) {
	if len(schema.DependentSchemas) == 0 {
		return
	}
	names := make([]string, 0, len(schema.DependentSchemas))
	for name := range schema.DependentSchemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub := schema.DependentSchemas[name]
		if sub == nil || !nodeHasName(node, name) {
			continue
		}
		branch := ev.evaluate(sub, node, path)
		if branch.IsValid() {
			continue
		}
		result.AddError(NewEvaluationError(DependentSchemasFailed, "dependentSchemas", path,
			"Presence of {name} requires the node to match its dependent schema", map[string]any{
				"name": name,
			}).WithCauses(branch.Errors...))
	}
}
