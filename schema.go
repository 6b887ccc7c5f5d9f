package hdfschema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/kaptinlin/hdfschema/tree"
)

// Schema is one node of the schema document: a group spec, a dataset
// spec, a constraint-only overlay (no "type"), or a $ref. Combinator
// and conditional keywords are fields on the node rather than separate
// variants.
type Schema struct {
	compiledMemberPatterns []*memberPattern // patternMembers in declaration order
	compiledStringPattern  *regexp.Regexp   // cached "pattern" regex
	compiler               *Compiler
	parent                 *Schema

	// Core keywords.
	Type        string             `json:"type,omitempty"` // "group" or "dataset"; empty for overlays
	Ref         string             `json:"$ref,omitempty"` // suppresses sibling keywords when present
	ResolvedRef *Schema            `json:"-"`
	Defs        map[string]*Schema `json:"$defs,omitempty"`

	// Group keywords.
	Members        *SchemaMap                              `json:"members,omitempty"`
	PatternMembers *orderedmap.OrderedMap[string, *Schema] `json:"patternMembers,omitempty"`
	Required       []string                                `json:"required,omitempty"`

	// Attribute specs, applicable to any node kind.
	Attrs []*AttrSpec `json:"attrs,omitempty"`

	// Dataset keywords.
	Dtype *tree.Dtype `json:"dtype,omitempty"`
	Shape *ShapeSpec  `json:"shape,omitempty"`

	// Value constraints on dataset elements.
	Enum      []any       `json:"enum,omitempty"`
	Const     *ConstValue `json:"const,omitempty"`
	MinLength *int        `json:"minLength,omitempty"`
	MaxLength *int        `json:"maxLength,omitempty"`
	Pattern   *string     `json:"pattern,omitempty"`
	Format    *string     `json:"format,omitempty"`

	// Combinators.
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	// Conditionals.
	If   *Schema `json:"if,omitempty"`
	Then *Schema `json:"then,omitempty"`
	Else *Schema `json:"else,omitempty"`

	// Dependency rules. Presence means a child of that name (groups) or
	// an attribute of that name (any node).
	DependentRequired map[string][]string `json:"dependentRequired,omitempty"`
	DependentSchemas  map[string]*Schema  `json:"dependentSchemas,omitempty"`

	// Annotations, ignored by semantics and preserved for diagnostics.
	ID          string  `json:"$id,omitempty"`
	Comment     string  `json:"$comment,omitempty"`
	Description *string `json:"description,omitempty"`
}

// memberPattern is one compiled patternMembers entry; declaration order
// in the source document is preserved.
type memberPattern struct {
	source string
	re     *regexp.Regexp
	schema *Schema
}

// AttrSpec constrains one attribute of a node. An absent "required"
// key means the attribute must be present.
type AttrSpec struct {
	compiledPattern *regexp.Regexp

	Name      string      `json:"name"`
	Required  *bool       `json:"required,omitempty"`
	Dtype     *tree.Dtype `json:"dtype,omitempty"`
	Shape     *ShapeSpec  `json:"shape,omitempty"`
	Enum      []any       `json:"enum,omitempty"`
	Const     *ConstValue `json:"const,omitempty"`
	MinLength *int        `json:"minLength,omitempty"`
	MaxLength *int        `json:"maxLength,omitempty"`
	Pattern   *string     `json:"pattern,omitempty"`
	Format    *string     `json:"format,omitempty"`

	Comment     string  `json:"$comment,omitempty"`
	Description *string `json:"description,omitempty"`
}

// isRequired reports whether the attribute must be present.
func (a *AttrSpec) isRequired() bool {
	return a.Required == nil || *a.Required
}

// newSchema parses schema JSON and returns a Schema object.
func newSchema(jsonSchema []byte) (*Schema, error) {
	schema := &Schema{}
	if err := json.Unmarshal(jsonSchema, schema); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONUnmarshal, err)
	}
	return schema, nil
}

// UnmarshalJSON handles unmarshaling JSON data into the Schema type,
// with explicit handling for "const" (a JSON null constant must be
// distinguishable from an absent keyword) and "enum" (integer entries
// must stay exact).
func (s *Schema) UnmarshalJSON(data []byte) error {
	type Alias Schema
	alias := (*Alias)(s)
	if err := json.Unmarshal(data, alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if constData, ok := raw["const"]; ok {
		if s.Const == nil {
			s.Const = &ConstValue{}
		}
		if err := s.Const.UnmarshalJSON(constData); err != nil {
			return err
		}
	}
	if enumData, ok := raw["enum"]; ok {
		enum, err := decodeEnumValues(enumData)
		if err != nil {
			return err
		}
		s.Enum = enum
	}
	return nil
}

// decodeEnumValues re-decodes an enum array with integer literals kept
// exact.
func decodeEnumValues(data []byte) ([]any, error) {
	value, err := decodeConstantValue(data)
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: enum must be an array", ErrJSONUnmarshal)
	}
	return list, nil
}

// UnmarshalJSON handles unmarshaling an attribute spec, with the same
// explicit const and enum treatment as Schema.
func (a *AttrSpec) UnmarshalJSON(data []byte) error {
	type Alias AttrSpec
	alias := (*Alias)(a)
	if err := json.Unmarshal(data, alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if constData, ok := raw["const"]; ok {
		if a.Const == nil {
			a.Const = &ConstValue{}
		}
		if err := a.Const.UnmarshalJSON(constData); err != nil {
			return err
		}
	}
	if enumData, ok := raw["enum"]; ok {
		enum, err := decodeEnumValues(enumData)
		if err != nil {
			return err
		}
		a.Enum = enum
	}
	return nil
}

// MarshalJSON implements json.Marshaler, re-attaching the const value
// which otherwise marshals through its wrapper.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type Alias Schema
	alias := (*Alias)(s)

	data, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}
	if s.Const == nil {
		return data, nil
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	result["const"] = s.Const.Value
	return json.Marshal(result)
}

// initializeSchema wires up parent/compiler links, compiles
// patternMembers in declaration order, and recurses into every nested
// schema.
func (s *Schema) initializeSchema(compiler *Compiler, parent *Schema) {
	if compiler != nil {
		s.compiler = compiler
	}
	s.parent = parent

	if s.PatternMembers != nil && s.compiledMemberPatterns == nil {
		s.compiledMemberPatterns = make([]*memberPattern, 0, s.PatternMembers.Len())
		for pair := s.PatternMembers.Oldest(); pair != nil; pair = pair.Next() {
			re, err := regexp.Compile(pair.Key)
			if err != nil {
				continue // reported by validateRegexSyntax
			}
			s.compiledMemberPatterns = append(s.compiledMemberPatterns, &memberPattern{
				source: pair.Key,
				re:     re,
				schema: pair.Value,
			})
		}
	}

	for _, spec := range s.Attrs {
		if spec != nil && spec.Pattern != nil && spec.compiledPattern == nil {
			if re, err := regexp.Compile(*spec.Pattern); err == nil {
				spec.compiledPattern = re
			}
		}
	}

	s.eachSubschema(func(child *Schema) {
		child.initializeSchema(compiler, s)
	})
}

// eachSubschema calls fn once for every directly nested schema node.
func (s *Schema) eachSubschema(fn func(*Schema)) {
	visit := func(child *Schema) {
		if child != nil {
			fn(child)
		}
	}
	for _, def := range s.Defs {
		visit(def)
	}
	if s.Members != nil {
		for _, member := range *s.Members {
			visit(member)
		}
	}
	if s.PatternMembers != nil {
		for pair := s.PatternMembers.Oldest(); pair != nil; pair = pair.Next() {
			visit(pair.Value)
		}
	}
	for _, sub := range s.AllOf {
		visit(sub)
	}
	for _, sub := range s.AnyOf {
		visit(sub)
	}
	for _, sub := range s.OneOf {
		visit(sub)
	}
	visit(s.Not)
	visit(s.If)
	visit(s.Then)
	visit(s.Else)
	for _, sub := range s.DependentSchemas {
		visit(sub)
	}
}

// getRootSchema returns the highest-level parent schema, serving as the
// root of the schema document.
func (s *Schema) getRootSchema() *Schema {
	if s.parent != nil {
		return s.parent.getRootSchema()
	}
	return s
}

// GetCompiler gets the effective Compiler for the Schema.
// Lookup order: current Schema -> parent Schema -> defaultCompiler.
func (s *Schema) GetCompiler() *Compiler {
	if s.compiler != nil {
		return s.compiler
	}
	if s.parent != nil {
		return s.parent.GetCompiler()
	}
	return defaultCompiler
}

// validateRegexSyntax verifies that every "pattern" and every
// patternMembers key in the document is valid Go RE2 syntax.
func (s *Schema) validateRegexSyntax() error {
	visited := make(map[*Schema]bool)
	errs := s.collectRegexErrors(nil, visited)
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrRegexValidation}, errs...)...)
}

func (s *Schema) collectRegexErrors(pathTokens []string, visited map[*Schema]bool) []error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	var errs []error
	report := func(keyword, pattern string, tokens []string, err error) {
		errs = append(errs, &RegexPatternError{
			Keyword:  keyword,
			Location: "#" + jsonPointerFormat(tokens...),
			Pattern:  pattern,
			Err:      err,
		})
	}

	if s.Pattern != nil {
		if _, err := regexp.Compile(*s.Pattern); err != nil {
			report("pattern", *s.Pattern, append(pathTokens, "pattern"), err)
		}
	}
	if s.PatternMembers != nil {
		for pair := s.PatternMembers.Oldest(); pair != nil; pair = pair.Next() {
			tokens := append(pathTokens, "patternMembers", pair.Key)
			if _, err := regexp.Compile(pair.Key); err != nil {
				report("patternMembers", pair.Key, tokens, err)
				continue
			}
			errs = append(errs, pair.Value.collectRegexErrors(tokens, visited)...)
		}
	}
	for i, spec := range s.Attrs {
		if spec != nil && spec.Pattern != nil {
			if _, err := regexp.Compile(*spec.Pattern); err != nil {
				report("pattern", *spec.Pattern, append(pathTokens, "attrs", strconv.Itoa(i), "pattern"), err)
			}
		}
	}

	s.eachNamedSubschema(pathTokens, func(child *Schema, tokens []string) {
		errs = append(errs, child.collectRegexErrors(tokens, visited)...)
	})
	return errs
}

// eachNamedSubschema visits every nested schema along with its
// JSON-pointer tokens, for compile-time document checks.
func (s *Schema) eachNamedSubschema(pathTokens []string, fn func(*Schema, []string)) {
	visit := func(child *Schema, tokens ...string) {
		if child != nil {
			fn(child, append(append([]string{}, pathTokens...), tokens...))
		}
	}
	for name, def := range s.Defs {
		visit(def, "$defs", name)
	}
	if s.Members != nil {
		for name, member := range *s.Members {
			visit(member, "members", name)
		}
	}
	// patternMembers values are visited by the caller so the key regex
	// check and the recursion share a location.
	for i, sub := range s.AllOf {
		visit(sub, "allOf", strconv.Itoa(i))
	}
	for i, sub := range s.AnyOf {
		visit(sub, "anyOf", strconv.Itoa(i))
	}
	for i, sub := range s.OneOf {
		visit(sub, "oneOf", strconv.Itoa(i))
	}
	visit(s.Not, "not")
	visit(s.If, "if")
	visit(s.Then, "then")
	visit(s.Else, "else")
	for name, sub := range s.DependentSchemas {
		visit(sub, "dependentSchemas", name)
	}
}

// validateKinds verifies every "type" value in the document is "group"
// or "dataset".
func (s *Schema) validateKinds(pathTokens []string, visited map[*Schema]bool) error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	if s.Type != "" && s.Type != "group" && s.Type != "dataset" {
		return fmt.Errorf("%w: %q at #%s", ErrInvalidSchemaType, s.Type, jsonPointerFormat(pathTokens...))
	}
	var err error
	collect := func(child *Schema, tokens []string) {
		if err == nil {
			err = child.validateKinds(tokens, visited)
		}
	}
	s.eachNamedSubschema(pathTokens, collect)
	if err == nil && s.PatternMembers != nil {
		for pair := s.PatternMembers.Oldest(); pair != nil && err == nil; pair = pair.Next() {
			err = pair.Value.validateKinds(append(pathTokens, "patternMembers", pair.Key), visited)
		}
	}
	return err
}

// validateDtypes normalizes every declared dtype descriptor, filling
// packed offsets and itemsize, and rejects inconsistent compound
// layouts.
func (s *Schema) validateDtypes(pathTokens []string, visited map[*Schema]bool) error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	check := func(d *tree.Dtype, tokens []string) error {
		if d == nil {
			return nil
		}
		if err := normalizeDtypeSpec(d); err != nil {
			return errors.Join(ErrDtypeValidation, &DtypeSpecError{
				Location: "#" + jsonPointerFormat(tokens...),
				Code:     dtypeString(*d),
				Err:      err,
			})
		}
		return nil
	}

	if err := check(s.Dtype, append(pathTokens, "dtype")); err != nil {
		return err
	}
	for i, spec := range s.Attrs {
		if spec == nil {
			continue
		}
		if err := check(spec.Dtype, append(pathTokens, "attrs", strconv.Itoa(i), "dtype")); err != nil {
			return err
		}
	}

	var err error
	s.eachNamedSubschema(pathTokens, func(child *Schema, tokens []string) {
		if err == nil {
			err = child.validateDtypes(tokens, visited)
		}
	})
	if err == nil && s.PatternMembers != nil {
		for pair := s.PatternMembers.Oldest(); pair != nil && err == nil; pair = pair.Next() {
			err = pair.Value.validateDtypes(append(pathTokens, "patternMembers", pair.Key), visited)
		}
	}
	return err
}

// validateConsts rejects array-valued const: only the scalar form
// (every element equals the scalar) is defined.
func (s *Schema) validateConsts(pathTokens []string, visited map[*Schema]bool) error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	isArray := func(c *ConstValue) bool {
		if c == nil {
			return false
		}
		_, ok := c.Value.([]any)
		return ok
	}
	if isArray(s.Const) {
		return fmt.Errorf("%w: array const at #%s", ErrConstValidation, jsonPointerFormat(append(pathTokens, "const")...))
	}
	for i, spec := range s.Attrs {
		if spec != nil && isArray(spec.Const) {
			return fmt.Errorf("%w: array const at #%s", ErrConstValidation,
				jsonPointerFormat(append(pathTokens, "attrs", strconv.Itoa(i), "const")...))
		}
	}

	var err error
	s.eachNamedSubschema(pathTokens, func(child *Schema, tokens []string) {
		if err == nil {
			err = child.validateConsts(tokens, visited)
		}
	})
	if err == nil && s.PatternMembers != nil {
		for pair := s.PatternMembers.Oldest(); pair != nil && err == nil; pair = pair.Next() {
			err = pair.Value.validateConsts(append(pathTokens, "patternMembers", pair.Key), visited)
		}
	}
	return err
}

// hasValueConstraints reports whether the schema requires reading
// dataset element values.
func (s *Schema) hasValueConstraints() bool {
	return len(s.Enum) > 0 || s.Const != nil ||
		s.MinLength != nil || s.MaxLength != nil ||
		s.Pattern != nil || s.Format != nil
}

// SchemaMap represents a map of member names to schema nodes.
type SchemaMap map[string]*Schema

// ConstValue wraps a constant so that an explicit JSON null is
// distinguishable from an absent keyword.
type ConstValue struct {
	Value any
	IsSet bool
}

// UnmarshalJSON handles unmarshaling a JSON value into the ConstValue
// type. Integer constants decode exactly rather than through float64.
func (cv *ConstValue) UnmarshalJSON(data []byte) error {
	if cv == nil {
		return ErrNilConstValue
	}
	cv.IsSet = true
	if string(data) == "null" {
		cv.Value = nil
		return nil
	}
	value, err := decodeConstantValue(data)
	if err != nil {
		return err
	}
	cv.Value = value
	return nil
}

// MarshalJSON handles marshaling the ConstValue type back to JSON.
func (cv ConstValue) MarshalJSON() ([]byte, error) {
	if cv.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(cv.Value)
}
