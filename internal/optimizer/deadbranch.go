package optimizer

import (
	"modelc/internal/ast"
	"modelc/internal/ir"
	"modelc/internal/mir"
)

// foldStmt implements the dead-branch elimination half of §4.6: an
// IfElse/While whose condition is already a literal integer (constant
// folded, or written that way to begin with) collapses to whichever
// branch can actually run, the same way foldExpr collapses a TernaryIf
// on a literal condition.
func foldStmt(s *mir.Stmt) (*mir.Stmt, bool) {
	switch p := s.Pattern.(type) {
	case *ast.IfElse[ir.Labeled, ir.StmtLabeled]:
		return foldIfElse(s, p)
	case *ast.While[ir.Labeled, ir.StmtLabeled]:
		return foldWhile(s, p)
	default:
		return s, false
	}
}

func foldIfElse(s *mir.Stmt, p *ast.IfElse[ir.Labeled, ir.StmtLabeled]) (*mir.Stmt, bool) {
	f, isInt, ok := litValue(p.Cond)
	if !ok || !isInt {
		return s, false
	}
	if truthy(f) {
		return p.Then, true
	}
	if p.Else != nil {
		return p.Else, true
	}
	return newSkip(s.Meta), true
}

// foldWhile only eliminates the always-false case: `while (true) body`
// cannot be proven terminating without running it, so it is left alone.
func foldWhile(s *mir.Stmt, p *ast.While[ir.Labeled, ir.StmtLabeled]) (*mir.Stmt, bool) {
	f, isInt, ok := litValue(p.Cond)
	if !ok || !isInt || truthy(f) {
		return s, false
	}
	return newSkip(s.Meta), true
}

func newSkip(meta ir.StmtLabeled) *mir.Stmt {
	return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&ast.Skip[ir.Labeled, ir.StmtLabeled]{}, meta)
}
