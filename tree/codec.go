package tree

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrContainerDecode is returned when a container document cannot be
// decoded.
var ErrContainerDecode = errors.New("container decode failed")

// compoundDoc is the wire form of a compound dtype, shared with schema
// documents: {"formats": [{"name", "format", "offset"?}], "itemsize"}.
type compoundDoc struct {
	Formats []fieldDoc `json:"formats"`
	Itemsize int       `json:"itemsize,omitempty"`
}

type fieldDoc struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Offset *int   `json:"offset,omitempty"`
}

// UnmarshalJSON decodes a dtype descriptor from either a simple code
// string or a compound object. Omitted field offsets are packed
// sequentially by the schema compiler, so they stay -1 here.
func (d *Dtype) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		*d = Dtype{Simple: code}
		return nil
	}

	var doc compoundDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: dtype: %w", ErrContainerDecode, err)
	}
	d.Simple = ""
	d.Itemsize = doc.Itemsize
	d.Fields = make([]Field, 0, len(doc.Formats))
	for _, f := range doc.Formats {
		offset := -1
		if f.Offset != nil {
			offset = *f.Offset
		}
		d.Fields = append(d.Fields, Field{Name: f.Name, Format: f.Format, Offset: offset})
	}
	return nil
}

// MarshalJSON writes the descriptor back in its wire form.
func (d Dtype) MarshalJSON() ([]byte, error) {
	if !d.IsCompound() {
		return json.Marshal(d.Simple)
	}
	doc := compoundDoc{Itemsize: d.Itemsize}
	for _, f := range d.Fields {
		offset := f.Offset
		doc.Formats = append(doc.Formats, fieldDoc{Name: f.Name, Format: f.Format, Offset: &offset})
	}
	return json.Marshal(doc)
}

// nodeDoc is the JSON wire form of a container node.
type nodeDoc struct {
	Kind     string              `json:"kind"`
	Attrs    map[string]attrDoc  `json:"attrs,omitempty"`
	Children map[string]*nodeDoc `json:"children,omitempty"`
	Dtype    *Dtype              `json:"dtype,omitempty"`
	Shape    *[]int              `json:"shape,omitempty"`
	Values   []any               `json:"values,omitempty"`
}

type attrDoc struct {
	Dtype Dtype `json:"dtype"`
	Value any   `json:"value"`
}

// Parse decodes a JSON container document into a tree rooted at a
// group. Element and attribute values decode through json.Number so
// integer values stay exact instead of rounding through float64.
func Parse(data []byte) (*Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var doc nodeDoc
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainerDecode, err)
	}
	if doc.Kind != "" && doc.Kind != "group" {
		return nil, fmt.Errorf("%w: root must be a group, got %q", ErrContainerDecode, doc.Kind)
	}
	root := NewGroup()
	if err := populateGroup(root, &doc); err != nil {
		return nil, err
	}
	return root, nil
}

// Load reads and decodes a JSON container document from disk.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func populateGroup(n *Node, doc *nodeDoc) error {
	applyAttrs(n, doc.Attrs)
	for name, childDoc := range doc.Children {
		switch childDoc.Kind {
		case "group", "":
			child := n.AddGroup(name)
			if err := populateGroup(child, childDoc); err != nil {
				return err
			}
		case "dataset":
			var dtype Dtype
			if childDoc.Dtype != nil {
				dtype = *childDoc.Dtype
			}
			shape := []int{}
			if childDoc.Shape != nil {
				shape = *childDoc.Shape
			}
			values := childDoc.Values
			for i, value := range values {
				values[i] = normalizeValue(value)
			}
			child := n.AddDataset(name, dtype, shape, values)
			applyAttrs(child, childDoc.Attrs)
		default:
			return fmt.Errorf("%w: node kind %q at %s/%s", ErrContainerDecode, childDoc.Kind, n.Path(), name)
		}
	}
	return nil
}

func applyAttrs(n *Node, attrs map[string]attrDoc) {
	for name, a := range attrs {
		n.SetAttr(name, a.Dtype, normalizeValue(a.Value))
	}
}

// normalizeValue rewrites json.Number values into int64, uint64 or
// float64: integer forms stay integers, fractional and exponent forms
// become floats.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i
			}
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return u
			}
		}
		f, _ := n.Float64()
		return f
	case []any:
		for i, elem := range n {
			n[i] = normalizeValue(elem)
		}
	}
	return v
}

// MarshalJSON writes the node and its subtree back as a container
// document.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toDoc())
}

func (n *Node) toDoc() *nodeDoc {
	doc := &nodeDoc{Kind: n.kind.String()}
	if len(n.attrs) > 0 {
		doc.Attrs = make(map[string]attrDoc, len(n.attrs))
		for _, name := range n.AttrNames() {
			a := n.attrs[name]
			doc.Attrs[name] = attrDoc{Dtype: a.Dtype, Value: a.Value}
		}
	}
	if n.kind == KindGroup {
		if len(n.children) > 0 {
			doc.Children = make(map[string]*nodeDoc, len(n.children))
			for _, child := range n.Children() {
				doc.Children[child.name] = child.toDoc()
			}
		}
		return doc
	}
	dtype := n.dtype
	doc.Dtype = &dtype
	shape := n.shape
	if shape == nil {
		shape = []int{}
	}
	doc.Shape = &shape
	if values, err := n.ReadValues(); err == nil {
		doc.Values = values
	}
	return doc
}
