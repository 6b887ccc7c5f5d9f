package hdfschema

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kaptinlin/hdfschema/tree"
)

// Dtype code grammar: an optional byte-order prefix ('<', '>', '|' or
// '=' for native), a kind letter, and a size. Canonical aliases such as
// "int32" map onto the prefixed form. Native order resolves to
// little-endian.
var (
	errEmptyDtype     = errors.New("empty dtype code")
	errDtypeKind      = errors.New("unknown dtype kind")
	errDtypeSize      = errors.New("invalid dtype size")
	errDtypeOffsets   = errors.New("field offsets must be strictly increasing")
	errDtypeItemsize  = errors.New("field exceeds itemsize")
	errDtypeFieldName = errors.New("compound field without a name")
)

// dtypeAliases maps canonical alias names to their coded form.
var dtypeAliases = map[string]string{
	"bool":       "|b1",
	"int8":       "|i1",
	"uint8":      "|u1",
	"byte":       "|i1",
	"ubyte":      "|u1",
	"int16":      "<i2",
	"uint16":     "<u2",
	"int32":      "<i4",
	"uint32":     "<u4",
	"int64":      "<i8",
	"uint64":     "<u8",
	"int":        "<i8",
	"float16":    "<f2",
	"float32":    "<f4",
	"float64":    "<f8",
	"float":      "<f8",
	"complex64":  "<c8",
	"complex128": "<c16",
}

// simpleDtype is the canonical decomposition of a simple dtype code.
type simpleDtype struct {
	order byte // '<', '>' or '|'
	kind  byte // 'i', 'u', 'f', 'b', 'c', 'S' or 'U'
	size  int
	sized bool // false for bare "S"/"U" (any length of that kind)
}

// parseSimpleDtype canonicalizes a simple dtype code. Native order
// ('=' or no prefix) resolves to '<'; single-byte and string kinds
// carry the order-less '|'.
func parseSimpleDtype(code string) (simpleDtype, error) {
	if alias, ok := dtypeAliases[code]; ok {
		code = alias
	}
	if code == "" {
		return simpleDtype{}, errEmptyDtype
	}

	d := simpleDtype{order: '<'}
	switch code[0] {
	case '<', '>', '|':
		d.order = code[0]
		code = code[1:]
	case '=':
		code = code[1:]
	}
	if code == "" {
		return simpleDtype{}, errEmptyDtype
	}

	switch code[0] {
	case 'i', 'u', 'f', 'b', 'c', 'S', 'U':
		d.kind = code[0]
	default:
		return simpleDtype{}, fmt.Errorf("%w: %q", errDtypeKind, string(code[0]))
	}
	code = code[1:]

	switch {
	case code == "" && (d.kind == 'S' || d.kind == 'U'):
		// Unsized string kinds match any declared length.
	case code == "" && d.kind == 'b':
		d.size, d.sized = 1, true
	case code == "":
		return simpleDtype{}, errDtypeSize
	default:
		size, err := strconv.Atoi(code)
		if err != nil || size <= 0 {
			return simpleDtype{}, fmt.Errorf("%w: %q", errDtypeSize, code)
		}
		d.size, d.sized = size, true
	}

	if d.kind == 'S' || d.kind == 'U' || d.kind == 'b' || (d.sized && d.size == 1 && d.kind != 'c') {
		d.order = '|'
	}
	return d, nil
}

// String renders the canonical code, e.g. "<f8", "b1", "S16"; the
// order-less '|' prefix is omitted.
func (d simpleDtype) String() string {
	s := ""
	if d.order != '|' {
		s = string(d.order)
	}
	s += string(d.kind)
	if d.sized {
		s += strconv.Itoa(d.size)
	}
	return s
}

// byteSize returns the element size in bytes; fixed Unicode elements
// occupy four bytes per code point.
func (d simpleDtype) byteSize() int {
	if d.kind == 'U' {
		return 4 * d.size
	}
	return d.size
}

// matchSimpleDtype compares a declared simple code against an actual
// one after canonicalization. An unsized schema kind ("S", "U")
// matches any length of that kind.
func matchSimpleDtype(declared, actual string) bool {
	want, err := parseSimpleDtype(declared)
	if err != nil {
		return false
	}
	got, err := parseSimpleDtype(actual)
	if err != nil {
		return false
	}
	if want.kind != got.kind {
		return false
	}
	if !want.sized {
		return true
	}
	return want.order == got.order && want.size == got.size
}

// matchDtype compares a declared descriptor against the actual one.
// Compound never matches simple. Compound descriptors are equal iff
// the field sequences agree on name, format and offset, and the total
// itemsize matches.
func matchDtype(declared, actual tree.Dtype) bool {
	if declared.IsCompound() != actual.IsCompound() {
		return false
	}
	if !declared.IsCompound() {
		return matchSimpleDtype(declared.Simple, actual.Simple)
	}
	if declared.Itemsize != actual.Itemsize || len(declared.Fields) != len(actual.Fields) {
		return false
	}
	for i, want := range declared.Fields {
		got := actual.Fields[i]
		if want.Name != got.Name || want.Offset != got.Offset {
			return false
		}
		if !matchSimpleDtype(want.Format, got.Format) {
			return false
		}
	}
	return true
}

// normalizeDtypeSpec validates a declared dtype descriptor at compile
// time and fills in packed offsets and itemsize where the document
// omitted them. Offsets must be strictly increasing and every field
// must fit inside the itemsize.
func normalizeDtypeSpec(d *tree.Dtype) error {
	if !d.IsCompound() {
		_, err := parseSimpleDtype(d.Simple)
		return err
	}

	next := 0
	end := 0
	prevOffset := -1
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			return errDtypeFieldName
		}
		parsed, err := parseSimpleDtype(f.Format)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if !parsed.sized {
			return fmt.Errorf("field %q: %w", f.Name, errDtypeSize)
		}
		if f.Offset < 0 {
			f.Offset = next
		}
		if f.Offset <= prevOffset {
			return fmt.Errorf("field %q: %w", f.Name, errDtypeOffsets)
		}
		prevOffset = f.Offset
		next = f.Offset + parsed.byteSize()
		if next > end {
			end = next
		}
	}
	if d.Itemsize == 0 {
		d.Itemsize = end
	}
	if end > d.Itemsize {
		return errDtypeItemsize
	}
	return nil
}

// stringKindOf returns 'S' or 'U' for simple string dtypes and 0
// otherwise; it selects the length semantics of the string
// constraints.
func stringKindOf(d tree.Dtype) byte {
	if d.IsCompound() {
		return 0
	}
	parsed, err := parseSimpleDtype(d.Simple)
	if err != nil {
		return 0
	}
	if parsed.kind == 'S' || parsed.kind == 'U' {
		return parsed.kind
	}
	return 0
}

// dtypeString renders a descriptor for error messages.
func dtypeString(d tree.Dtype) string {
	if !d.IsCompound() {
		if parsed, err := parseSimpleDtype(d.Simple); err == nil {
			return parsed.String()
		}
		return d.Simple
	}
	s := "{"
	for i, f := range d.Fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s:%s@%d", f.Name, f.Format, f.Offset)
	}
	return s + fmt.Sprintf("}%d", d.Itemsize)
}

// evaluateDtype checks a dataset's actual dtype against the schema's
// declared descriptor.
func evaluateDtype(schema *Schema, node *tree.Node, path string) *EvaluationError {
	if schema.Dtype == nil {
		return nil
	}
	if matchDtype(*schema.Dtype, node.Dtype()) {
		return nil
	}
	return NewEvaluationError(DtypeMismatch, "dtype", path,
		"Dataset dtype {actual} does not match the declared dtype {declared}", map[string]any{
			"declared": dtypeString(*schema.Dtype),
			"actual":   dtypeString(node.Dtype()),
		})
}
