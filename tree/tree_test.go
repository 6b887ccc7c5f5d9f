package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPaths(t *testing.T) {
	root := NewGroup()
	run := root.AddGroup("run_001")
	ds := run.AddDataset("readings", SimpleDtype("<f4"), []int{128, 3}, nil)

	assert.Equal(t, "/", root.Path())
	assert.Equal(t, "/run_001", run.Path())
	assert.Equal(t, "/run_001/readings", ds.Path())
	assert.Equal(t, root, ds.Root())
	assert.True(t, root.IsGroup())
	assert.True(t, ds.IsDataset())
	assert.Equal(t, "group", KindGroup.String())
	assert.Equal(t, "dataset", KindDataset.String())
}

func TestChildrenSorted(t *testing.T) {
	root := NewGroup()
	root.AddGroup("zeta")
	root.AddGroup("alpha")
	root.AddGroup("mid")

	names := []string{}
	for _, child := range root.Children() {
		names = append(names, child.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestAttrAccess(t *testing.T) {
	root := NewGroup()
	root.SetAttr("b", SimpleDtype("<i4"), 2.0)
	root.SetAttr("a", SimpleDtype("S3"), "one")

	assert.Equal(t, []string{"a", "b"}, root.AttrNames())
	attr, ok := root.Attr("a")
	require.True(t, ok)
	assert.Equal(t, "one", attr.Value)
	_, ok = root.Attr("missing")
	assert.False(t, ok)
}

func TestValueReader(t *testing.T) {
	root := NewGroup()
	ds := root.AddDataset("data", SimpleDtype("<f8"), []int{2}, []any{1.0, 2.0})

	values, err := ds.ReadValues()
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, values)

	ds.SetValueReader(func() ([]any, error) { return nil, ErrValueRead })
	_, err = ds.ReadValues()
	assert.ErrorIs(t, err, ErrValueRead)
}

func TestParseContainer(t *testing.T) {
	node, err := Parse([]byte(`{
		"kind": "group",
		"attrs": {"version": {"dtype": "S5", "value": "1.0.0"}},
		"children": {
			"run_001": {
				"kind": "group",
				"children": {
					"readings": {
						"kind": "dataset",
						"dtype": "<f4",
						"shape": [128, 3],
						"attrs": {"units": {"dtype": "S2", "value": "mV"}}
					}
				}
			},
			"events": {
				"kind": "dataset",
				"dtype": {
					"formats": [
						{"name": "time", "format": "<f8", "offset": 0},
						{"name": "code", "format": "<i4", "offset": 8}
					],
					"itemsize": 12
				},
				"shape": [16],
				"values": [1, 2, 3]
			}
		}
	}`))
	require.NoError(t, err)

	attr, ok := node.Attr("version")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", attr.Value)

	run, ok := node.Child("run_001")
	require.True(t, ok)
	readings, ok := run.Child("readings")
	require.True(t, ok)
	assert.Equal(t, "<f4", readings.Dtype().Simple)
	assert.Equal(t, []int{128, 3}, readings.Shape())

	events, ok := node.Child("events")
	require.True(t, ok)
	require.True(t, events.Dtype().IsCompound())
	assert.Equal(t, 12, events.Dtype().Itemsize)
	assert.Equal(t, "time", events.Dtype().Fields[0].Name)

	values, err := events.ReadValues()
	require.NoError(t, err)
	assert.Len(t, values, 3)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte(`{"kind": "dataset"}`))
	assert.ErrorIs(t, err, ErrContainerDecode)

	_, err = Parse([]byte(`{"children": {"x": {"kind": "link"}}}`))
	assert.ErrorIs(t, err, ErrContainerDecode)

	_, err = Parse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrContainerDecode)
}

func TestMarshalRoundTrip(t *testing.T) {
	root := NewGroup()
	root.SetAttr("creator", SimpleDtype("S5"), "admin")
	run := root.AddGroup("run_001")
	run.AddDataset("data", SimpleDtype("<f8"), []int{2}, []any{3.5, 4.5})

	data, err := root.MarshalJSON()
	require.NoError(t, err)

	reloaded, err := Parse(data)
	require.NoError(t, err)

	attr, ok := reloaded.Attr("creator")
	require.True(t, ok)
	assert.Equal(t, "admin", attr.Value)

	reloadedRun, ok := reloaded.Child("run_001")
	require.True(t, ok)
	ds, ok := reloadedRun.Child("data")
	require.True(t, ok)
	assert.Equal(t, []int{2}, ds.Shape())

	values, err := ds.ReadValues()
	require.NoError(t, err)
	assert.Equal(t, []any{3.5, 4.5}, values)
}
