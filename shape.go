package hdfschema

import (
	"github.com/kaptinlin/hdfschema/tree"
)

// ShapeSpec is a declared shape vector. A dimension of -1 matches any
// extent; an empty spec matches only a rank-0 (scalar) dataset.
type ShapeSpec []int

// matches reports whether the actual extents satisfy the declared
// vector: ranks agree and every dimension is equal or wildcarded.
func (s ShapeSpec) matches(actual []int) bool {
	if len(s) != len(actual) {
		return false
	}
	for i, want := range s {
		if want != -1 && want != actual[i] {
			return false
		}
	}
	return true
}

// evaluateShape checks a dataset's actual shape against the schema's
// declared shape vector.
func evaluateShape(schema *Schema, node *tree.Node, path string) *EvaluationError {
	if schema.Shape == nil {
		return nil
	}
	if schema.Shape.matches(node.Shape()) {
		return nil
	}
	return NewEvaluationError(ShapeMismatch, "shape", path,
		"Dataset shape {actual} does not match the declared shape {declared}", map[string]any{
			"declared": []int(*schema.Shape),
			"actual":   node.Shape(),
		})
}
