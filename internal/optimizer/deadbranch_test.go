package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelc/internal/ast"
	"modelc/internal/ir"
)

func TestFoldIfElseOnLiteralCondition(t *testing.T) {
	then, els := breakStmt(), continueStmt()

	got, ok := foldStmt(ifElseStmt(intLit(1), then, els))
	assert.True(t, ok)
	assert.Same(t, then, got)

	got, ok = foldStmt(ifElseStmt(intLit(0), then, els))
	assert.True(t, ok)
	assert.Same(t, els, got)
}

func TestFoldIfOnFalseLiteralWithNoElseBecomesSkip(t *testing.T) {
	got, ok := foldStmt(ifElseStmt(intLit(0), breakStmt(), nil))
	assert.True(t, ok)
	_, isSkip := got.Pattern.(*ast.Skip[ir.Labeled, ir.StmtLabeled])
	assert.True(t, isSkip, "expected a Skip statement, got %T", got.Pattern)
}

func TestFoldWhileOnFalseLiteralBecomesSkip(t *testing.T) {
	got, ok := foldStmt(whileStmt(intLit(0), breakStmt()))
	assert.True(t, ok)
	_, isSkip := got.Pattern.(*ast.Skip[ir.Labeled, ir.StmtLabeled])
	assert.True(t, isSkip, "expected a Skip statement, got %T", got.Pattern)
}

func TestFoldWhileOnTrueLiteralIsNotEliminated(t *testing.T) {
	_, ok := foldStmt(whileStmt(intLit(1), breakStmt()))
	assert.False(t, ok, "while(true) cannot be proven to terminate and must be left alone")
}

func TestFoldStmtDoesNotApplyToNonLiteralCondition(t *testing.T) {
	cond := ir.NewExpr[ir.Labeled](&ast.Var[ir.Labeled]{Name: "b"}, meta(intLit(0).Meta.Type, intLit(0).Meta.Ad))
	s := ifElseStmt(cond, breakStmt(), continueStmt())
	got, ok := foldStmt(s)
	assert.False(t, ok)
	assert.Same(t, s, got)
}

func TestOptimizerStmtElimatesDeadIfElseEndToEnd(t *testing.T) {
	opt := New(testCatalog)
	then, els := breakStmt(), continueStmt()
	// Greater__(2, 1) in the condition must be constant-folded to 1
	// before the dead-branch check runs, since rewriteExpr/rewriteStmt
	// share the same bottom-up walk. MapStmt rebuilds every statement
	// node, so the surviving branch is identified by pattern and label.
	cond := binCall("Greater__", intLit(2), intLit(1))
	got := opt.Stmt(ifElseStmt(cond, then, els))
	_, isBreak := got.Pattern.(*ast.Break[ir.Labeled, ir.StmtLabeled])
	assert.True(t, isBreak, "expected the then-branch Break, got %T", got.Pattern)
	assert.Equal(t, then.Meta.Label, got.Meta.Label)
}
