package hdfschema

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/kaptinlin/hdfschema/tree"
)

// replace substitutes placeholders in a template string with actual parameter values.
func replace(template string, params map[string]any) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// joinPath appends a name segment to a slash-separated node path.
func joinPath(path, name string) string {
	if path == "/" || path == "" {
		return "/" + name
	}
	return path + "/" + name
}

// nodeHasName is the presence notion of the dependency keywords: a
// child of that name on groups, or an attribute of that name on any
// node.
func nodeHasName(node *tree.Node, name string) bool {
	if node.IsGroup() && node.HasChild(name) {
		return true
	}
	_, ok := node.Attr(name)
	return ok
}

// stringLength counts element length per the dtype kind: bytes for
// fixed ASCII ('S'), Unicode code points otherwise.
func stringLength(kind byte, s string) int {
	if kind == 'S' {
		return len(s)
	}
	return utf8.RuneCountInString(s)
}

// valueEqual compares an element value against a schema constant.
// Integer pairs compare exactly: widening through float64 would
// conflate distinct values beyond 2^53. Mixed integer/float pairs and
// float pairs compare by value; NaN equals nothing, so const can never
// be satisfied by NaN elements.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	aneg, amag, aok := toExactInt(a)
	bneg, bmag, bok := toExactInt(b)
	if aok && bok {
		return aneg == bneg && amag == bmag
	}
	af, afok := toFloat(a)
	bf, bfok := toFloat(b)
	if afok && bfok {
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

// toExactInt decomposes any integer value into sign and magnitude so
// two integers compare bit-for-bit regardless of their Go type.
func toExactInt(v any) (negative bool, magnitude uint64, ok bool) {
	switch n := v.(type) {
	case int:
		return intParts(int64(n))
	case int8:
		return intParts(int64(n))
	case int16:
		return intParts(int64(n))
	case int32:
		return intParts(int64(n))
	case int64:
		return intParts(n)
	case uint:
		return false, uint64(n), true
	case uint8:
		return false, uint64(n), true
	case uint16:
		return false, uint64(n), true
	case uint32:
		return false, uint64(n), true
	case uint64:
		return false, n, true
	}
	return false, 0, false
}

func intParts(n int64) (bool, uint64, bool) {
	if n < 0 {
		// Negate via the complement so MinInt64 does not overflow.
		return true, uint64(^n) + 1, true
	}
	return false, uint64(n), true
}

// decodeConstantValue decodes a schema constant (const, enum entries)
// keeping integer literals exact: plain json.Unmarshal would truncate
// them through float64 before the validator ever compares them.
func decodeConstantValue(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return normalizeNumbers(value), nil
}

// normalizeNumbers rewrites json.Number values into int64, uint64 or
// float64: integer forms stay integers, fractional and exponent forms
// become floats.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		s := v.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i
			}
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return u
			}
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i, elem := range v {
			v[i] = normalizeNumbers(elem)
		}
	case map[string]any:
		for key, elem := range v {
			v[key] = normalizeNumbers(elem)
		}
	}
	return value
}

// toFloat widens any numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
