package hdfschema

import (
	"fmt"

	"github.com/kaptinlin/hdfschema/tree"
)

// Validate checks the container tree rooted at node against the
// schema. Data errors are collected into the result; only schema
// errors (an unresolved $ref on a hand-built schema) are returned as
// the error value.
func (s *Schema) Validate(node *tree.Node) (*Result, error) {
	if s == nil {
		return nil, ErrSchemaIsNil
	}
	if node == nil {
		return nil, ErrNilNode
	}
	ev := &evaluator{visited: make(map[visitKey]struct{})}
	result := ev.evaluate(s, node, node.Path())
	if ev.schemaErr != nil {
		return nil, ev.schemaErr
	}
	return result, nil
}

// Validate compiles a JSON schema document with the default compiler
// and validates the tree against it.
func Validate(node *tree.Node, schemaJSON []byte) (*Result, error) {
	schema, err := Compile(schemaJSON)
	if err != nil {
		return nil, err
	}
	return schema.Validate(node)
}

// visitKey identifies one active (resolved schema, node path)
// application; re-entering the same pair means a $ref cycle.
type visitKey struct {
	schema *Schema
	path   string
}

// evaluator holds the per-validation state: the cycle visit set and a
// schema error slot that aborts the walk.
type evaluator struct {
	visited   map[visitKey]struct{}
	schemaErr error
}

// evaluate applies one schema node to one tree node. Emission order
// for a subtree is fixed: local dtype/shape checks, value constraints,
// attribute checks, missing-required checks, child recursion in sorted
// child order, then combinators, conditionals and dependency rules.
func (ev *evaluator) evaluate(schema *Schema, node *tree.Node, path string) *Result {
	result := newResult()
	if schema == nil || ev.schemaErr != nil {
		return result
	}

	// A $ref suppresses sibling keywords. The visit set terminates
	// recursion through reference cycles: once the same resolved schema
	// re-enters at the same data path, the sub-evaluation succeeds
	// vacuously because container trees are finite and acyclic.
	if schema.Ref != "" {
		resolved := schema.ResolvedRef
		if resolved == nil {
			ev.schemaErr = fmt.Errorf("%w: %q", ErrReferenceResolution, schema.Ref)
			return result
		}
		key := visitKey{schema: resolved, path: path}
		if _, active := ev.visited[key]; active {
			return result
		}
		ev.visited[key] = struct{}{}
		result.Merge(ev.evaluate(resolved, node, path))
		delete(ev.visited, key)
		return result
	}

	// A declared kind gates the rest of the subtree.
	if schema.Type != "" && schema.Type != node.Kind().String() {
		result.AddError(NewEvaluationError(KindMismatch, "type", path,
			"Node is a {actual} but the schema declares a {declared}", map[string]any{
				"declared": schema.Type,
				"actual":   node.Kind().String(),
			}))
		return result
	}

	if node.IsDataset() {
		result.AddError(evaluateDtype(schema, node, path))
		result.AddError(evaluateShape(schema, node, path))
		if schema.hasValueConstraints() {
			ev.evaluateDatasetValues(schema, node, path, result)
		}
	}

	evaluateAttrs(schema, node, path, result)

	if node.IsGroup() {
		for _, err := range evaluateRequired(schema, node, path) {
			result.AddError(err)
		}
		ev.evaluateMembers(schema, node, path, result)
	}

	ev.evaluateAllOf(schema, node, path, result)
	result.AddError(ev.evaluateAnyOf(schema, node, path))
	result.AddError(ev.evaluateOneOf(schema, node, path))
	result.AddError(ev.evaluateNot(schema, node, path))
	ev.evaluateConditional(schema, node, path, result)
	for _, err := range evaluateDependentRequired(schema, node, path) {
		result.AddError(err)
	}
	ev.evaluateDependentSchemas(schema, node, path, result)

	return result
}

// evaluateDatasetValues streams the dataset's elements once and runs
// every value constraint over them. A read failure is surfaced as an
// IOError record and ends value checking for this dataset only.
func (ev *evaluator) evaluateDatasetValues(schema *Schema, node *tree.Node, path string, result *Result) {
	values, err := node.ReadValues()
	if err != nil {
		result.AddError(NewEvaluationError(IOError, "values", path,
			"Reading dataset values failed: {error}", map[string]any{
				"error": err.Error(),
			}))
		return
	}
	kind := stringKindOf(node.Dtype())
	result.AddError(evaluateEnum(schema.Enum, values, path, ""))
	result.AddError(evaluateConst(schema.Const, values, path, ""))
	result.AddError(evaluateMinLength(schema.MinLength, values, kind, path, ""))
	result.AddError(evaluateMaxLength(schema.MaxLength, values, kind, path, ""))
	result.AddError(evaluatePattern(schema.getCompiledPattern(), schema.Pattern, values, path, ""))
	result.AddError(evaluateFormat(schema.GetCompiler(), schema.Format, values, path, ""))
}
