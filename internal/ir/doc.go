// Package ir defines the analyzer's intermediate representation: the
// Node tree extracted from a connector definition, the Issue diagnostics
// produced while walking it, the directed call Graph, and the Bundle
// that aggregates one run's result.
//
// All IR types are created once per run and never mutated afterward.
// Node identity is content-addressed: a deterministic hash of
// (kind, name, loc) over canonical JSON, so identical input always
// yields identical ids.
package ir
