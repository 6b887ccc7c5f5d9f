package hdfschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/hdfschema/tree"
)

func TestCompileRejectsMalformedRegex(t *testing.T) {
	tests := []struct {
		name   string
		schema string
	}{
		{
			name:   "pattern keyword",
			schema: `{"type": "dataset", "pattern": "(unclosed"}`,
		},
		{
			name:   "patternMembers key",
			schema: `{"type": "group", "patternMembers": {"[z-a]": {"type": "group"}}}`,
		},
		{
			name:   "attr pattern",
			schema: `{"type": "group", "attrs": [{"name": "id", "pattern": "(?=lookahead)"}]}`,
		},
		{
			name: "nested in defs",
			schema: `{"type": "group", "$defs": {
				"item": {"type": "dataset", "pattern": "(unclosed"}
			}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.schema))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRegexValidation)
		})
	}
}

func TestCompileRejectsInvalidType(t *testing.T) {
	_, err := Compile([]byte(`{"type": "table"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchemaType)

	_, err = Compile([]byte(`{
		"type": "group",
		"members": {"x": {"type": "object"}}
	}`))
	assert.ErrorIs(t, err, ErrInvalidSchemaType)
}

func TestCompileRejectsInconsistentCompound(t *testing.T) {
	_, err := Compile([]byte(`{
		"type": "dataset",
		"dtype": {
			"formats": [
				{"name": "a", "format": "<f8", "offset": 4},
				{"name": "b", "format": "<i4", "offset": 0}
			],
			"itemsize": 16
		}
	}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDtypeValidation)
}

func TestCompileRejectsArrayConst(t *testing.T) {
	_, err := Compile([]byte(`{"type": "dataset", "const": [1, 2, 3]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstValidation)
}

func TestCompileRejectsUnresolvedRef(t *testing.T) {
	_, err := Compile([]byte(`{
		"type": "group",
		"members": {"x": {"$ref": "#/$defs/missing"}}
	}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceResolution)
}

func TestCompileRejectsMalformedJSON(t *testing.T) {
	_, err := Compile([]byte(`{"type": `))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaCompilation)
}

func TestCompileYAML(t *testing.T) {
	schema, err := CompileYAML([]byte(`
type: group
members:
  data:
    type: dataset
    dtype: "<f8"
    shape: [100, 50]
required:
  - data
`))
	require.NoError(t, err)

	root := tree.NewGroup()
	root.AddDataset("data", tree.SimpleDtype("<f8"), []int{100, 50}, nil)
	result, err := schema.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}

func TestCompileYAMLRejectsMalformed(t *testing.T) {
	_, err := CompileYAML([]byte("{{not yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrYAMLUnmarshal)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewCompiler().MustCompile([]byte(`{"type": "table"}`))
	})
}

func TestRegisterFormat(t *testing.T) {
	compiler := NewCompiler()
	compiler.RegisterFormat("even-length", func(v any) bool {
		s, ok := v.(string)
		return !ok || len(s)%2 == 0
	})

	schema, err := compiler.Compile([]byte(`{
		"type": "group",
		"members": {"tag": {"type": "dataset", "format": "even-length"}}
	}`))
	require.NoError(t, err)

	root := tree.NewGroup()
	root.AddDataset("tag", tree.SimpleDtype("S4"), []int{1}, []any{"odd"})
	result, err := schema.Validate(root)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, FormatViolation, result.Errors[0].Kind)

	compiler.UnregisterFormat("even-length")
	result, err = schema.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsValid(), "unknown formats are ignored")
}

func TestAssertFormatToggle(t *testing.T) {
	compiler := NewCompiler().SetAssertFormat(false)
	schema, err := compiler.Compile([]byte(`{
		"type": "group",
		"members": {"contact": {"type": "dataset", "format": "email"}}
	}`))
	require.NoError(t, err)

	root := tree.NewGroup()
	root.AddDataset("contact", tree.SimpleDtype("S16"), []int{1}, []any{"not-an-email"})
	result, err := schema.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}

func TestUnknownFormatIgnored(t *testing.T) {
	root := tree.NewGroup()
	root.AddDataset("tag", tree.SimpleDtype("S4"), []int{1}, []any{"zzzz"})

	result := validateString(t, root, `{
		"type": "group",
		"members": {"tag": {"type": "dataset", "format": "no-such-format"}}
	}`)
	assert.True(t, result.IsValid())
}
