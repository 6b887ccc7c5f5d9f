package hdfschema

import (
	"github.com/goccy/go-json"

	"github.com/kaptinlin/hdfschema/tree"
)

// GenerateSchema synthesizes a schema from a live tree. The generated
// schema declares every child as a required literal member, pins each
// dataset's dtype and shape, and requires every attribute with its
// observed dtype, so validating the source tree against it reports
// zero errors.
func GenerateSchema(node *tree.Node) *Schema {
	schema := generateNode(node)
	schema.initializeSchema(nil, nil)
	return schema
}

// GenerateSchemaJSON renders the generated schema as an indented JSON
// document.
func GenerateSchemaJSON(node *tree.Node) ([]byte, error) {
	return json.MarshalIndent(GenerateSchema(node), "", "  ")
}

func generateNode(node *tree.Node) *Schema {
	schema := &Schema{Type: node.Kind().String()}

	for _, name := range node.AttrNames() {
		attr, _ := node.Attr(name)
		spec := &AttrSpec{Name: name}
		if !attr.Dtype.IsZero() {
			dtype := attr.Dtype
			spec.Dtype = &dtype
		}
		schema.Attrs = append(schema.Attrs, spec)
	}

	if node.IsDataset() {
		if !node.Dtype().IsZero() {
			dtype := node.Dtype()
			schema.Dtype = &dtype
		}
		shape := ShapeSpec(append([]int{}, node.Shape()...))
		schema.Shape = &shape
		return schema
	}

	children := node.Children()
	if len(children) == 0 {
		return schema
	}
	members := make(SchemaMap, len(children))
	for _, child := range children {
		members[child.Name()] = generateNode(child)
		schema.Required = append(schema.Required, child.Name())
	}
	schema.Members = &members
	return schema
}
