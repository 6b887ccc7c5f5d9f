package hdfschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/hdfschema/tree"
)

func buildExperimentTree() *tree.Node {
	root := tree.NewGroup()
	root.SetAttr("version", tree.SimpleDtype("S5"), "1.0.0")

	run := root.AddGroup("run_001")
	run.SetAttr("operator", tree.SimpleDtype("S8"), "brubeck")
	run.AddDataset("timestamps", tree.SimpleDtype("<f8"), []int{128}, nil)
	readings := run.AddDataset("readings", tree.SimpleDtype("<f4"), []int{128, 3}, nil)
	readings.SetAttr("units", tree.SimpleDtype("S2"), "mV")

	events := root.AddDataset("events", tree.CompoundDtype(12,
		tree.Field{Name: "time", Format: "<f8", Offset: 0},
		tree.Field{Name: "code", Format: "<i4", Offset: 8},
	), []int{16}, nil)
	events.SetAttr("flags", tree.SimpleDtype("<i4"), []any{1.0, 2.0})

	return root
}

// TestGenerateRoundTrip checks the generator contract: a tree always
// conforms to the schema generated from it.
func TestGenerateRoundTrip(t *testing.T) {
	root := buildExperimentTree()

	schema := GenerateSchema(root)
	result, err := schema.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Errors)
}

func TestGenerateRoundTripThroughJSON(t *testing.T) {
	root := buildExperimentTree()

	data, err := GenerateSchemaJSON(root)
	require.NoError(t, err)

	schema, err := Compile(data)
	require.NoError(t, err)

	result, err := schema.Validate(root)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}

func TestGeneratedSchemaDetectsDrift(t *testing.T) {
	schema := GenerateSchema(buildExperimentTree())

	drifted := buildExperimentTree()
	run, _ := drifted.Child("run_001")
	run.AddDataset("extra", tree.SimpleDtype("<f8"), []int{1}, nil)

	result, err := schema.Validate(drifted)
	require.NoError(t, err)
	// Extra members are allowed: groups are open-world.
	assert.True(t, result.IsValid())

	reshaped := tree.NewGroup()
	reshaped.SetAttr("version", tree.SimpleDtype("S5"), "1.0.0")
	result, err = schema.Validate(reshaped)
	require.NoError(t, err)
	assert.False(t, result.IsValid())
	kinds := errorKinds(result)
	assert.Contains(t, kinds, MissingMember)
}

func TestGenerateContainerRoundTrip(t *testing.T) {
	root := buildExperimentTree()

	data, err := root.MarshalJSON()
	require.NoError(t, err)

	reloaded, err := tree.Parse(data)
	require.NoError(t, err)

	result, err := GenerateSchema(root).Validate(reloaded)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
}
