// Package hdfschema validates hierarchical scientific-data containers
// (trees of groups, datasets and attributes) against a declarative,
// JSON-compatible schema document.
//
// A schema describes the expected structure of a container: literal and
// regex-matched group members, dataset dtype and shape, attribute
// specs, value constraints (enum, const, string length, pattern,
// format), JSON-Schema-style combinators (allOf/anyOf/oneOf/not),
// conditionals (if/then/else), dependency rules, and $defs/$ref
// references, including recursive ones.
//
// Regular expressions use Go RE2 syntax with search (unanchored)
// semantics; lookaround is not supported and is rejected at compile
// time.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package hdfschema
