package hdfschema

import (
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
)

// Compiler turns schema documents into validated, reference-resolved
// Schema values. A compiler created by NewCompiler asserts format
// constraints; SetAssertFormat(false) downgrades "format" to an
// annotation.
type Compiler struct {
	AssertFormat bool

	customFormats   map[string]func(any) bool
	customFormatsRW sync.RWMutex
}

// Default compiler instance used by package-level helpers.
var defaultCompiler = NewCompiler()

// NewCompiler creates a new Compiler instance with default settings.
func NewCompiler() *Compiler {
	return &Compiler{
		AssertFormat:  true,
		customFormats: make(map[string]func(any) bool),
	}
}

// Compile parses a JSON schema document, validates the parts that are
// schema errors by contract (regex syntax, dtype layouts, type values,
// array consts, unresolved references) and resolves every $ref.
func (c *Compiler) Compile(jsonSchema []byte) (*Schema, error) {
	schema, err := newSchema(jsonSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaCompilation, err)
	}

	schema.initializeSchema(c, nil)

	if err := schema.validateRegexSyntax(); err != nil {
		return nil, err
	}
	if err := schema.validateKinds(nil, make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	if err := schema.validateDtypes(nil, make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	if err := schema.validateConsts(nil, make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	if err := schema.resolveReferences(make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	return schema, nil
}

// CompileYAML parses a YAML schema document by converting it to JSON
// first, then compiling as usual.
func (c *Compiler) CompileYAML(yamlSchema []byte) (*Schema, error) {
	jsonSchema, err := yaml.YAMLToJSON(yamlSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYAMLUnmarshal, err)
	}
	return c.Compile(jsonSchema)
}

// MustCompile is like Compile but panics on error, for schemas known
// good at program start.
func (c *Compiler) MustCompile(jsonSchema []byte) *Schema {
	schema, err := c.Compile(jsonSchema)
	if err != nil {
		panic(err)
	}
	return schema
}

// SetAssertFormat enables or disables format assertion.
func (c *Compiler) SetAssertFormat(assert bool) *Compiler {
	c.AssertFormat = assert
	return c
}

// RegisterFormat registers a custom format validator under the given
// name, shadowing a built-in of the same name.
func (c *Compiler) RegisterFormat(name string, validator func(any) bool) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()
	c.customFormats[name] = validator
	return c
}

// UnregisterFormat removes a custom format.
func (c *Compiler) UnregisterFormat(name string) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()
	delete(c.customFormats, name)
	return c
}

// formatValidator returns the effective validator for a format name;
// unknown names return nil and are ignored by the caller.
func (c *Compiler) formatValidator(name string) func(any) bool {
	c.customFormatsRW.RLock()
	fn, ok := c.customFormats[name]
	c.customFormatsRW.RUnlock()
	if ok {
		return fn
	}
	return Formats[name]
}

// Compile compiles a JSON schema document with the default compiler.
func Compile(jsonSchema []byte) (*Schema, error) {
	return defaultCompiler.Compile(jsonSchema)
}

// CompileYAML compiles a YAML schema document with the default compiler.
func CompileYAML(yamlSchema []byte) (*Schema, error) {
	return defaultCompiler.CompileYAML(yamlSchema)
}
