package hdfschema

import (
	"fmt"

	"github.com/kaptinlin/jsonpointer"
)

// jsonPointerParse splits a JSON Pointer into its string segments.
func jsonPointerParse(pointer string) []string {
	path := jsonpointer.ParseJsonPointer(pointer)
	segments := make([]string, len(path))
	for i, step := range path {
		segments[i] = fmt.Sprint(step)
	}
	return segments
}

// jsonPointerFormat joins segments into an escaped JSON Pointer string.
func jsonPointerFormat(tokens ...string) string {
	path := make(jsonpointer.Path, len(tokens))
	for i, t := range tokens {
		path[i] = t
	}
	return jsonpointer.FormatJsonPointer(path)
}
