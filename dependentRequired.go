package hdfschema

import (
	"sort"

	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateDependentRequired checks that whenever a trigger name is
// present on the node, every dependent name is present too. Presence
// means a child of that name on groups, or an attribute of that name
// on any node. Trigger names are visited in sorted order to keep error
// output stable.
func evaluateDependentRequired(schema *Schema, node *tree.Node, path string) []*EvaluationError {
	if len(schema.DependentRequired) == 0 {
		return nil
	}
	names := make([]string, 0, len(schema.DependentRequired))
	for name := range schema.DependentRequired {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []*EvaluationError
	for _, name := range names {
		if !nodeHasName(node, name) {
			continue
		}
		var missing []string
		for _, dep := range schema.DependentRequired[name] {
			if !nodeHasName(node, dep) {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, NewEvaluationError(DependentRequiredFailed, "dependentRequired", path,
				"Presence of {name} requires {missing}, which are missing", map[string]any{
					"name":    name,
					"missing": missing,
				}))
		}
	}
	return errs
}
