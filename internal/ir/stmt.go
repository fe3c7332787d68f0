package ir

// Stmt is a fixed-point statement node, generic in two metadata type
// parameters: EM for the expressions it contains, SM for itself and its
// nested statements. Statements carry metadata "analogous to expressions
// but without type" (§3), hence the separate SM type rather than reusing
// EM.
type Stmt[EM any, SM any] struct {
	Pattern StmtPattern[EM, SM]
	Meta    SM
}

// StmtPattern is implemented by every statement variant (Assign,
// TargetPlusEq, IfElse, While, For, Block, Decl, ...). ExprChildren and
// StmtChildren report children in left-to-right, natural-reading order
// (condition before branches, lower before upper, head before tail).
// WithChildren rebuilds the same variant with replacement children, in
// the same order the Children accessors returned them.
type StmtPattern[EM any, SM any] interface {
	ExprChildren() []*Expr[EM]
	StmtChildren() []*Stmt[EM, SM]
	WithChildren(exprChildren []*Expr[EM], stmtChildren []*Stmt[EM, SM]) StmtPattern[EM, SM]
}

// NewStmt builds a node from a pattern and metadata.
func NewStmt[EM any, SM any](p StmtPattern[EM, SM], m SM) *Stmt[EM, SM] {
	return &Stmt[EM, SM]{Pattern: p, Meta: m}
}

// MapStmt rebuilds the tree bottom-up, applying exprFn to every contained
// expression (via MapExpr) and stmtFn to every statement node, children
// first.
func MapStmt[EM any, SM any](s *Stmt[EM, SM], exprFn func(*Expr[EM]) *Expr[EM], stmtFn func(*Stmt[EM, SM]) *Stmt[EM, SM]) *Stmt[EM, SM] {
	exprChildren := s.Pattern.ExprChildren()
	newExprChildren := make([]*Expr[EM], len(exprChildren))
	for i, c := range exprChildren {
		newExprChildren[i] = MapExpr(c, exprFn)
	}

	stmtChildren := s.Pattern.StmtChildren()
	newStmtChildren := make([]*Stmt[EM, SM], len(stmtChildren))
	for i, c := range stmtChildren {
		newStmtChildren[i] = MapStmt(c, exprFn, stmtFn)
	}

	s = &Stmt[EM, SM]{Pattern: s.Pattern.WithChildren(newExprChildren, newStmtChildren), Meta: s.Meta}
	return stmtFn(s)
}

// FoldStmt performs a pre-order, left-to-right fold over every statement
// and expression subtree reachable from s. exprFn folds into expressions,
// stmtFn folds into statements; both see the running accumulator.
func FoldStmt[EM any, SM any, A any](s *Stmt[EM, SM], acc A, exprFn func(A, *Expr[EM]) A, stmtFn func(A, *Stmt[EM, SM]) A) A {
	acc = stmtFn(acc, s)
	for _, c := range s.Pattern.ExprChildren() {
		acc = FoldExpr(c, acc, exprFn)
	}
	for _, c := range s.Pattern.StmtChildren() {
		acc = FoldStmt(c, acc, exprFn, stmtFn)
	}
	return acc
}

// TraverseStmtWithState is TraverseExprWithState's statement-side
// counterpart (§4.4): a single state threads left-to-right across the
// statement itself, its contained expressions (each fully traversed by
// TraverseExprWithState), and its nested statements, in that order —
// matching the natural reading order ExprChildren/StmtChildren already
// return. exprFn and stmtFn see and return the same running state, so
// labels assigned to a statement's expressions and to sibling statements
// stay monotonically increasing across the whole tree.
func TraverseStmtWithState[EM any, SM any, S any](s *Stmt[EM, SM], state S, exprFn func(S, *Expr[EM]) (EM, S), stmtFn func(S, *Stmt[EM, SM]) (SM, S)) (*Stmt[EM, SM], S) {
	newMeta, state := stmtFn(state, s)

	exprChildren := s.Pattern.ExprChildren()
	newExprChildren := make([]*Expr[EM], len(exprChildren))
	for i, c := range exprChildren {
		newExprChildren[i], state = TraverseExprWithState(c, state, exprFn)
	}

	stmtChildren := s.Pattern.StmtChildren()
	newStmtChildren := make([]*Stmt[EM, SM], len(stmtChildren))
	for i, c := range stmtChildren {
		newStmtChildren[i], state = TraverseStmtWithState(c, state, exprFn, stmtFn)
	}

	pattern := s.Pattern.WithChildren(newExprChildren, newStmtChildren)
	return &Stmt[EM, SM]{Pattern: pattern, Meta: newMeta}, state
}
