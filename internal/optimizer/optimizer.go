// Package optimizer implements §4.6, the MIR partial evaluator: a
// bottom-up rewriter performing constant folding (§4.6.1), specialized-
// function rewriting (§4.6.2), the short-circuit/ternary simplifications
// that fall out of the same pass, and dead-branch elimination on an
// IfElse/While whose condition has reduced to a literal. Every rewrite
// is re-validated against the catalog (§4.6.3) before it is accepted, and
// termination follows from §4.6's well-founded measure: each accepted
// rewrite strictly shrinks the node count (folding collapses a subtree
// to a literal) or its specialization rank (a generic call becomes one
// specialized function, never the reverse), so no rewrite ever re-fires
// on its own output.
package optimizer

import (
	"modelc/internal/ast"
	"modelc/internal/catalog"
	"modelc/internal/ir"
	"modelc/internal/mir"
	"modelc/internal/types"
)

// Optimizer runs the bottom-up rewrite pass described by §4.6 against a
// fixed builtin catalog, used both to resolve a rewritten call's return
// type and to veto rewrites that would reference a signature the
// catalog does not have (§4.6.3).
type Optimizer struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Optimizer {
	return &Optimizer{cat: cat}
}

// Program rewrites every block of p in place, bottom-up, then renumbers
// labels (mir.Relabel) to close any gaps dead-branch elimination or
// constant folding left behind — see mir.Relabel's doc comment.
func (o *Optimizer) Program(p *mir.Program) *mir.Program {
	blocks := []*ast.ProgramBlock[ir.Labeled, ir.StmtLabeled]{
		&p.Functions, &p.Data, &p.TransformedData, &p.Parameters,
		&p.TransformedParameters, &p.Model, &p.GeneratedQuantities,
	}
	for _, b := range blocks {
		if !b.Present {
			continue
		}
		for i, s := range b.Stmts {
			b.Stmts[i] = ir.MapStmt(s, o.rewriteExpr, o.rewriteStmt)
		}
	}
	return mir.Relabel(p)
}

// Expr rewrites a single expression subtree bottom-up (children first,
// left to right, then the node itself — §4.6); exposed for callers (and
// tests) that want to optimize in isolation from a full program.
func (o *Optimizer) Expr(e *mir.Expr) *mir.Expr {
	return ir.MapExpr(e, o.rewriteExpr)
}

// Stmt rewrites a single statement subtree bottom-up, exposed for
// callers (and tests) that want dead-branch elimination in isolation.
func (o *Optimizer) Stmt(s *mir.Stmt) *mir.Stmt {
	return ir.MapStmt(s, o.rewriteExpr, o.rewriteStmt)
}

// rewriteExpr is the per-node step ir.MapExpr invokes after a node's
// children have already been rewritten. It tries constant folding
// first (§4.6.1 operates on any literal operands the child rewrites may
// just have produced), then the specialized-function table (§4.6.2) in
// listed order, accepting the first candidate that survives the
// applicability guard.
func (o *Optimizer) rewriteExpr(e *mir.Expr) *mir.Expr {
	if folded, ok := foldExpr(e); ok {
		return folded
	}
	if rewritten, ok := o.applyRewriteTable(e); ok {
		return rewritten
	}
	return e
}

// rewriteStmt is the per-node step ir.MapStmt invokes after a
// statement's expression and statement children have already been
// rewritten. It collapses an IfElse/While whose condition reduced to a
// literal (§4.6's dead-branch elimination) to the branch that survives.
func (o *Optimizer) rewriteStmt(s *mir.Stmt) *mir.Stmt {
	if folded, ok := foldStmt(s); ok {
		return folded
	}
	return s
}

func (o *Optimizer) applyRewriteTable(e *mir.Expr) (*mir.Expr, bool) {
	for _, rule := range specializedRules {
		cand, ok := rule(e)
		if !ok {
			continue
		}
		if result, ok := o.accept(e, cand); ok {
			return result, true
		}
	}
	return e, false
}

// accept implements §4.6.3: the candidate's argument types are checked
// against the catalog before the rewrite is allowed through. A
// candidate whose specialized function has no matching signature at
// the inferred argument types is rejected and the original call stands.
func (o *Optimizer) accept(e *mir.Expr, cand candidate) (*mir.Expr, bool) {
	actuals := make([]types.Actual, len(cand.args))
	ads := make([]types.AdLevel, len(cand.args))
	for i, a := range cand.args {
		actuals[i] = types.Actual{Type: a.Meta.Type, Ad: a.Meta.Ad}
		ads[i] = a.Meta.Ad
	}
	ret, ok := o.cat.ReturnType(cand.name, actuals)
	if !ok || ret.Kind != types.RReturning {
		return e, false
	}
	meta := ir.Labeled{
		TypedLocated: ir.TypedLocated{Type: ret.Type, Ad: lubAd(ads...), Span: e.Meta.Span},
		Label:        e.Meta.Label,
	}
	return ir.NewExpr[ir.Labeled](&ast.FunApp[ir.Labeled]{Kind: ast.FunStanLib, Name: cand.name, Args: cand.args}, meta), true
}

// lubAd mirrors the analyzer's least-upper-bound rule (§9): a call's
// result is AutoDiffable if any argument is, DataOnly only if all are.
func lubAd(ads ...types.AdLevel) types.AdLevel {
	for _, ad := range ads {
		if ad == types.AutoDiffable {
			return types.AutoDiffable
		}
	}
	return types.DataOnly
}
