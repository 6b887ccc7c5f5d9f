package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// evaluateAttrs applies each AttrSpec of the schema node to the actual
// node's attribute map. Attributes not named by any spec are allowed:
// the attribute list is open-world. Array-valued attributes are
// checked elementwise.
func evaluateAttrs(schema *Schema, node *tree.Node, path string, result *Result) {
	for _, spec := range schema.Attrs {
		if spec == nil || spec.Name == "" {
			continue
		}
		attr, ok := node.Attr(spec.Name)
		if !ok {
			if spec.isRequired() {
				result.AddError(NewEvaluationError(MissingAttribute, "attrs", path,
					"Required attribute {attribute} is missing", map[string]any{
						"attribute": spec.Name,
					}))
			}
			continue
		}

		if spec.Dtype != nil && !matchDtype(*spec.Dtype, attr.Dtype) {
			result.AddError(NewEvaluationError(DtypeMismatch, "attrs", path,
				"Attribute {attribute} has dtype {actual} but the schema declares {declared}", map[string]any{
					"attribute": spec.Name,
					"declared":  dtypeString(*spec.Dtype),
					"actual":    dtypeString(attr.Dtype),
				}))
		}
		if spec.Shape != nil && !spec.Shape.matches(attrShape(attr.Value)) {
			result.AddError(NewEvaluationError(ShapeMismatch, "attrs", path,
				"Attribute {attribute} has shape {actual} but the schema declares {declared}", map[string]any{
					"attribute": spec.Name,
					"declared":  []int(*spec.Shape),
					"actual":    attrShape(attr.Value),
				}))
		}

		values := attrValues(attr.Value)
		kind := stringKindOf(attr.Dtype)
		result.AddError(evaluateEnum(spec.Enum, values, path, spec.Name))
		result.AddError(evaluateConst(spec.Const, values, path, spec.Name))
		result.AddError(evaluateMinLength(spec.MinLength, values, kind, path, spec.Name))
		result.AddError(evaluateMaxLength(spec.MaxLength, values, kind, path, spec.Name))
		result.AddError(evaluatePattern(spec.compiledPattern, spec.Pattern, values, path, spec.Name))
		result.AddError(evaluateFormat(schema.GetCompiler(), spec.Format, values, path, spec.Name))
	}
}

// attrValues normalizes an attribute value to an element slice; a
// scalar becomes a one-element slice.
func attrValues(value any) []any {
	if values, ok := value.([]any); ok {
		return values
	}
	return []any{value}
}

// attrShape derives the shape of an attribute value: [] for scalars,
// [n] for 1-D arrays.
func attrShape(value any) []int {
	if values, ok := value.([]any); ok {
		return []int{len(values)}
	}
	return []int{}
}
