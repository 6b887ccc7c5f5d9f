package hdfschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/hdfschema/tree"
)

func TestAllOfConcatenatesErrors(t *testing.T) {
	root := tree.NewGroup()
	root.AddDataset("data", tree.SimpleDtype("<i2"), []int{5}, nil)

	result := validateString(t, root, `{
		"type": "group",
		"members": {
			"data": {
				"type": "dataset",
				"allOf": [
					{"dtype": "<f8"},
					{"shape": [9]}
				]
			}
		}
	}`)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, DtypeMismatch, result.Errors[0].Kind)
	assert.Equal(t, ShapeMismatch, result.Errors[1].Kind)
}

func TestAllOfAssociativity(t *testing.T) {
	root := tree.NewGroup()
	root.AddDataset("data", tree.SimpleDtype("<i2"), []int{5}, []any{2.0, 3.0})

	nested := validateString(t, root, `{
		"type": "group",
		"members": {
			"data": {
				"type": "dataset",
				"allOf": [
					{"dtype": "<f8"},
					{"allOf": [{"shape": [9]}, {"enum": [1]}]}
				]
			}
		}
	}`)
	flat := validateString(t, root, `{
		"type": "group",
		"members": {
			"data": {
				"type": "dataset",
				"allOf": [
					{"dtype": "<f8"},
					{"shape": [9]},
					{"enum": [1]}
				]
			}
		}
	}`)

	nestedKinds := errorKinds(nested)
	flatKinds := errorKinds(flat)
	assert.ElementsMatch(t, flatKinds, nestedKinds)
}

func errorKinds(r *Result) []ErrorKind {
	kinds := make([]ErrorKind, 0, len(r.Errors))
	for _, err := range r.Errors {
		kinds = append(kinds, err.Kind)
	}
	return kinds
}
