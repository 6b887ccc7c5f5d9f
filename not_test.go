package hdfschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/hdfschema/tree"
)

// TestNotDuality checks that not(S) succeeds exactly when S fails.
func TestNotDuality(t *testing.T) {
	inner := `{"dtype": "<f8"}`

	tests := []struct {
		name  string
		dtype string
	}{
		{"inner matches", "<f8"},
		{"inner fails", "<i4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tree.NewGroup()
			root.AddDataset("data", tree.SimpleDtype(tt.dtype), []int{1}, nil)

			plain := validateString(t, root, `{
				"type": "group",
				"members": {"data": {"type": "dataset", "allOf": [`+inner+`]}}
			}`)
			negated := validateString(t, root, `{
				"type": "group",
				"members": {"data": {"type": "dataset", "not": `+inner+`}}
			}`)

			assert.Equal(t, plain.IsValid(), !negated.IsValid())
		})
	}
}

func TestNotFailedKind(t *testing.T) {
	root := tree.NewGroup()
	root.AddDataset("data", tree.SimpleDtype("<f8"), []int{1}, nil)

	result := validateString(t, root, `{
		"type": "group",
		"members": {"data": {"type": "dataset", "not": {"dtype": "<f8"}}}
	}`)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, NotFailed, result.Errors[0].Kind)
	assert.Equal(t, "/data", result.Errors[0].Path)
}
