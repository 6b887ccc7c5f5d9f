package hdfschema

import (
	"fmt"
	"strconv"
	"strings"
)

// resolveReferences walks the document and binds every $ref to the
// schema node its pointer names. An unresolvable pointer is a schema
// error that fails compilation; data validation never sees it.
func (s *Schema) resolveReferences(visited map[*Schema]bool) error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	if s.Ref != "" && s.ResolvedRef == nil {
		resolved, err := s.resolveRef(s.Ref)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrReferenceResolution, s.Ref, err)
		}
		s.ResolvedRef = resolved
		if err := resolved.resolveReferences(visited); err != nil {
			return err
		}
	}

	var err error
	s.eachSubschema(func(child *Schema) {
		if err == nil {
			err = child.resolveReferences(visited)
		}
	})
	return err
}

// resolveRef resolves a reference against the enclosing document. Only
// same-document pointers are supported: "#" for the root and
// "#/$defs/..." (or any other document-rooted pointer).
func (s *Schema) resolveRef(ref string) (*Schema, error) {
	if ref == "#" {
		return s.getRootSchema(), nil
	}
	pointer, ok := strings.CutPrefix(ref, "#")
	if !ok || !strings.HasPrefix(pointer, "/") {
		return nil, ErrJSONPointerSegmentDecode
	}
	return s.getRootSchema().resolveJSONPointer(pointer)
}

// resolveJSONPointer walks the schema document along the pointer
// segments, understanding the keyword containers a pointer can cross.
func (s *Schema) resolveJSONPointer(pointer string) (*Schema, error) {
	if pointer == "/" {
		return s, nil
	}

	segments := jsonPointerParse(pointer)
	current := s
	previous := ""

	for _, segment := range segments {
		next, found := findSchemaInSegment(current, segment, previous)
		if found {
			current = next
			previous = ""
			continue
		}
		// Keyword containers ($defs, members, ...) are not schemas
		// themselves; remember the segment and consume the next one.
		if isSchemaContainer(segment) && previous == "" {
			previous = segment
			continue
		}
		return nil, fmt.Errorf("%w: %q", ErrJSONPointerSegmentNotFound, segment)
	}
	if previous != "" {
		// Pointer ended on a container keyword rather than a schema.
		return nil, fmt.Errorf("%w: %q", ErrJSONPointerSegmentNotFound, previous)
	}
	return current, nil
}

func isSchemaContainer(segment string) bool {
	switch segment {
	case "$defs", "members", "patternMembers", "dependentSchemas",
		"allOf", "anyOf", "oneOf":
		return true
	}
	return false
}

// findSchemaInSegment steps from a schema into one of its nested
// schemas, dispatching on the container keyword crossed before.
func findSchemaInSegment(current *Schema, segment string, previous string) (*Schema, bool) {
	switch previous {
	case "$defs":
		if def, exists := current.Defs[segment]; exists {
			return def, true
		}
	case "members":
		if current.Members != nil {
			if member, exists := (*current.Members)[segment]; exists {
				return member, true
			}
		}
	case "patternMembers":
		if current.PatternMembers != nil {
			if sub, exists := current.PatternMembers.Get(segment); exists {
				return sub, true
			}
		}
	case "dependentSchemas":
		if sub, exists := current.DependentSchemas[segment]; exists {
			return sub, true
		}
	case "allOf", "anyOf", "oneOf":
		list := current.AllOf
		switch previous {
		case "anyOf":
			list = current.AnyOf
		case "oneOf":
			list = current.OneOf
		}
		if index, err := strconv.Atoi(segment); err == nil && index >= 0 && index < len(list) {
			return list[index], true
		}
	case "":
		switch segment {
		case "not":
			if current.Not != nil {
				return current.Not, true
			}
		case "if":
			if current.If != nil {
				return current.If, true
			}
		case "then":
			if current.Then != nil {
				return current.Then, true
			}
		case "else":
			if current.Else != nil {
				return current.Else, true
			}
		}
	}
	return nil, false
}
