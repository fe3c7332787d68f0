// Package ir implements the generic fixed-point tree framework of §4.4:
// expression and statement nodes parametric in a metadata type, with
// Map/Fold traversal utilities written once against the pattern shape and
// reused across every metadata specialization.
//
// Go generics cannot express a single traversal combinator that changes
// the metadata type parameter across a recursive sum type (that would
// need a generic method on an interface, which Go disallows), so the
// label-assignment pass that turns a TypedLocated tree into a Labeled one
// is a dedicated walker (ast/label.go) rather than an instantiation of the
// generic MapExpr/MapStmt combinators — the same tradeoff real Go compilers make
// (e.g. golang-tools/go/ssa writes dedicated passes, not catamorphisms).
package ir

import (
	"modelc/internal/diagnostics"
	"modelc/internal/types"
)

// NoMeta is the untyped AST's metadata: a source span only, per §6's
// "the untyped statement/expression variant of §3 with location spans" —
// the parser (external) attaches spans before the analyzer ever runs, but
// no type or ad-level is known yet.
type NoMeta struct {
	Span diagnostics.SourceSpan
}

// TypedLocated is the metadata of a fully typed expression: its unsized
// type, ad-level, and source span.
type TypedLocated struct {
	Type types.UnsizedType
	Ad   types.AdLevel
	Span diagnostics.SourceSpan
}

// Labeled is TypedLocated plus a unique integer label, assigned by the
// single linear labeling pass described in §3's Lifecycle and §4.4's
// associate operation.
type Labeled struct {
	TypedLocated
	Label int
}

// StmtNoMeta is the untyped statement metadata: a source span only.
type StmtNoMeta struct {
	Span diagnostics.SourceSpan
}

// StmtLocated is a statement's metadata after semantic checking: a source
// span only (statements carry no type, per §3).
type StmtLocated struct {
	Span diagnostics.SourceSpan
}

// StmtLabeled is StmtLocated plus a unique integer label.
type StmtLabeled struct {
	StmtLocated
	Label int
}
