// Package mir implements the §4.7 lowering boundary: a function
// `to_mir(program_typed) -> program_mir` required to preserve variable
// identities, source locations, and function kinds, handing the
// optimizer a tree in canonical form (every call marked with a resolved
// FunKind, every declared type fully sized).
//
// The MIR shares the exact node shape as the typed AST (§3's "AST + MIR
// data" is deliberately one pattern reused across stages) plus the one
// thing a partial evaluator needs that a type checker does not: a stable
// per-node identity to key rewrite-visited-once bookkeeping and the
// associate() lookup of §4.4. That is exactly ir.Labeled, so lowering to
// MIR is label assignment — grounded on ast.Label/ast.Associate, which
// already do the "preserve everything, add a label" walk this boundary
// requires.
package mir

import (
	"modelc/internal/ast"
	"modelc/internal/ir"
)

// Program is the MIR program shape: the typed AST's seven blocks, each
// statement and expression additionally carrying a unique label.
type Program = ast.LabeledProgram

// Expr and Stmt are the MIR's node types, re-exported for callers that
// only need to talk about a single subtree rather than a whole program.
type Expr = ast.LabeledExpr
type Stmt = ast.LabeledStmt

// ToMIR lowers a fully typed program to MIR. It preserves every
// variable's identity (names are not renamed), every node's source
// span (carried inside the embedded TypedLocated), and every call's
// resolved FunKind (set by the analyzer, untouched here); the only
// thing it adds is the label a node did not have before.
func ToMIR(typed *ast.TypedProgram) *Program {
	return ast.Label(typed)
}

// Associate indexes a MIR program's expressions and statements by their
// label, re-exported for optimizer callers that need to look a rewritten
// node's label back up after a pass.
func Associate(p *Program) (exprs map[int]*Expr, stmts map[int]*Stmt) {
	return ast.Associate(p)
}

// Relabel renumbers every expression and statement in p sequentially from
// 0, in the same strict pre-order ast.Label originally used, preserving
// every other metadata field. Unlike Label (which changes metadata type
// from TypedLocated to Labeled and so must be a dedicated walker — see
// ast/label.go), Relabel's input and output are both already ir.Labeled,
// so it is a direct instantiation of §4.4's traverse_with_state
// (ir.TraverseStmtWithState/TraverseExprWithState): the optimizer calls
// this after rewriting, since dead-branch elimination and constant
// folding can both delete labeled subtrees and leave gaps, which would
// otherwise violate §8 Testable Property 2 ("the set of labels equals
// {0, ..., N-1}, no duplicates, no gaps").
func Relabel(p *Program) *Program {
	counter := 0
	exprFn := func(state int, e *Expr) (ir.Labeled, int) {
		return ir.Labeled{TypedLocated: e.Meta.TypedLocated, Label: state}, state + 1
	}
	stmtFn := func(state int, s *Stmt) (ir.StmtLabeled, int) {
		return ir.StmtLabeled{StmtLocated: s.Meta.StmtLocated, Label: state}, state + 1
	}
	relabelBlock := func(b ast.ProgramBlock[ir.Labeled, ir.StmtLabeled]) ast.ProgramBlock[ir.Labeled, ir.StmtLabeled] {
		if !b.Present {
			return ast.ProgramBlock[ir.Labeled, ir.StmtLabeled]{}
		}
		stmts := make([]*Stmt, len(b.Stmts))
		for i, s := range b.Stmts {
			var relabeled *Stmt
			relabeled, counter = ir.TraverseStmtWithState(s, counter, exprFn, stmtFn)
			stmts[i] = relabeled
		}
		return ast.NewBlock(stmts)
	}
	return &Program{
		Name:                  p.Name,
		Functions:             relabelBlock(p.Functions),
		Data:                  relabelBlock(p.Data),
		TransformedData:       relabelBlock(p.TransformedData),
		Parameters:            relabelBlock(p.Parameters),
		TransformedParameters: relabelBlock(p.TransformedParameters),
		Model:                 relabelBlock(p.Model),
		GeneratedQuantities:   relabelBlock(p.GeneratedQuantities),
	}
}
