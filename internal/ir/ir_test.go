package ir

import "testing"

// leaf is a minimal ExprPattern/StmtPattern with no children, used to
// exercise Map/Fold without pulling in package ast (which imports ir).
type leaf struct{ val int }

func (l *leaf) Children() []*Expr[int]                        { return nil }
func (l *leaf) WithChildren(children []*Expr[int]) ExprPattern[int] { return l }

// pair wraps two child expressions, in left-to-right order.
type pair struct{ left, right *Expr[int] }

func (p *pair) Children() []*Expr[int] { return []*Expr[int]{p.left, p.right} }
func (p *pair) WithChildren(children []*Expr[int]) ExprPattern[int] {
	return &pair{left: children[0], right: children[1]}
}

func TestMapExprRewritesBottomUp(t *testing.T) {
	tree := NewExpr[int](&pair{
		left:  NewExpr[int](&leaf{val: 1}, 0),
		right: NewExpr[int](&leaf{val: 2}, 0),
	}, 0)

	var order []int
	got := MapExpr(tree, func(e *Expr[int]) *Expr[int] {
		if l, ok := e.Pattern.(*leaf); ok {
			order = append(order, l.val)
			return NewExpr[int](&leaf{val: l.val * 10}, e.Meta)
		}
		order = append(order, -1)
		return e
	})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != -1 {
		t.Fatalf("expected children visited before parent, got %v", order)
	}
	root, ok := got.Pattern.(*pair)
	if !ok {
		t.Fatalf("root pattern changed type: %T", got.Pattern)
	}
	if root.left.Pattern.(*leaf).val != 10 || root.right.Pattern.(*leaf).val != 20 {
		t.Fatalf("rewrite did not apply to both children: %+v", root)
	}
}

func TestFoldExprPreOrderLeftToRight(t *testing.T) {
	tree := NewExpr[int](&pair{
		left:  NewExpr[int](&leaf{val: 1}, 0),
		right: NewExpr[int](&leaf{val: 2}, 0),
	}, 0)

	var visited []int
	FoldExpr(tree, struct{}{}, func(acc struct{}, e *Expr[int]) struct{} {
		if l, ok := e.Pattern.(*leaf); ok {
			visited = append(visited, l.val)
		} else {
			visited = append(visited, 0)
		}
		return acc
	})

	if len(visited) != 3 || visited[0] != 0 || visited[1] != 1 || visited[2] != 2 {
		t.Fatalf("expected pre-order [root, left, right], got %v", visited)
	}
}

func TestEqualExprIgnoresMeta(t *testing.T) {
	a := NewExpr[int](&leaf{val: 1}, 0)
	b := NewExpr[int](&leaf{val: 1}, 99)
	if !EqualExpr(a, b) {
		t.Fatalf("EqualExpr should ignore the metadata slot")
	}
	c := NewExpr[int](&leaf{val: 2}, 0)
	if EqualExpr(a, c) {
		t.Fatalf("EqualExpr should still distinguish different patterns")
	}
}

// stmtLeaf is a minimal StmtPattern with no expression or statement
// children.
type stmtLeaf struct{ val int }

func (s *stmtLeaf) ExprChildren() []*Expr[int] { return nil }
func (s *stmtLeaf) StmtChildren() []*Stmt[int, int] { return nil }
func (s *stmtLeaf) WithChildren(e []*Expr[int], st []*Stmt[int, int]) StmtPattern[int, int] {
	return s
}

// stmtSeq chains a leaf expression and two child statements, exercising
// both ExprChildren and StmtChildren in MapStmt/FoldStmt.
type stmtSeq struct {
	tag   *Expr[int]
	first *Stmt[int, int]
	next  *Stmt[int, int]
}

func (s *stmtSeq) ExprChildren() []*Expr[int] { return []*Expr[int]{s.tag} }
func (s *stmtSeq) StmtChildren() []*Stmt[int, int] {
	return []*Stmt[int, int]{s.first, s.next}
}
func (s *stmtSeq) WithChildren(e []*Expr[int], st []*Stmt[int, int]) StmtPattern[int, int] {
	return &stmtSeq{tag: e[0], first: st[0], next: st[1]}
}

func TestMapStmtAppliesExprFnAndStmtFn(t *testing.T) {
	tree := NewStmt[int, int](&stmtSeq{
		tag:   NewExpr[int](&leaf{val: 7}, 0),
		first: NewStmt[int, int](&stmtLeaf{val: 1}, 0),
		next:  NewStmt[int, int](&stmtLeaf{val: 2}, 0),
	}, 0)

	var stmtOrder []int
	got := MapStmt(tree,
		func(e *Expr[int]) *Expr[int] {
			if l, ok := e.Pattern.(*leaf); ok {
				return NewExpr[int](&leaf{val: l.val + 100}, e.Meta)
			}
			return e
		},
		func(s *Stmt[int, int]) *Stmt[int, int] {
			switch p := s.Pattern.(type) {
			case *stmtLeaf:
				stmtOrder = append(stmtOrder, p.val)
			default:
				stmtOrder = append(stmtOrder, -1)
			}
			return s
		},
	)

	if len(stmtOrder) != 3 || stmtOrder[0] != 1 || stmtOrder[1] != 2 || stmtOrder[2] != -1 {
		t.Fatalf("expected statement children visited before parent, got %v", stmtOrder)
	}
	root := got.Pattern.(*stmtSeq)
	if root.tag.Pattern.(*leaf).val != 107 {
		t.Fatalf("exprFn did not reach the nested expression, got %+v", root.tag)
	}
}

func TestFoldStmtPreOrder(t *testing.T) {
	tree := NewStmt[int, int](&stmtSeq{
		tag:   NewExpr[int](&leaf{val: 7}, 0),
		first: NewStmt[int, int](&stmtLeaf{val: 1}, 0),
		next:  NewStmt[int, int](&stmtLeaf{val: 2}, 0),
	}, 0)

	var visited []string
	FoldStmt(tree, struct{}{},
		func(acc struct{}, e *Expr[int]) struct{} {
			visited = append(visited, "expr")
			return acc
		},
		func(acc struct{}, s *Stmt[int, int]) struct{} {
			visited = append(visited, "stmt")
			return acc
		},
	)

	want := []string{"stmt", "expr", "stmt", "stmt"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited = %v, want %v", visited, want)
		}
	}
}

func TestTraverseExprWithStateAssignsMonotonicLabels(t *testing.T) {
	tree := NewExpr[int](&pair{
		left:  NewExpr[int](&leaf{val: 1}, 0),
		right: NewExpr[int](&leaf{val: 2}, 0),
	}, 0)

	label := func(state int, e *Expr[int]) (int, int) { return state, state + 1 }
	got, final := TraverseExprWithState(tree, 0, label)

	if final != 3 {
		t.Fatalf("expected final state 3 after labeling 3 nodes, got %d", final)
	}
	root := got.Pattern.(*pair)
	if got.Meta != 0 {
		t.Fatalf("root should claim the smallest label (pre-order), got %d", got.Meta)
	}
	if root.left.Meta != 1 || root.right.Meta != 2 {
		t.Fatalf("children should be labeled left to right after the root, got left=%d right=%d", root.left.Meta, root.right.Meta)
	}
}

func TestTraverseStmtWithStateThreadsSingleCounterAcrossExprAndStmt(t *testing.T) {
	tree := NewStmt[int, int](&stmtSeq{
		tag:   NewExpr[int](&leaf{val: 7}, 0),
		first: NewStmt[int, int](&stmtLeaf{val: 1}, 0),
		next:  NewStmt[int, int](&stmtLeaf{val: 2}, 0),
	}, 0)

	labelExpr := func(state int, e *Expr[int]) (int, int) { return state, state + 1 }
	labelStmt := func(state int, s *Stmt[int, int]) (int, int) { return state, state + 1 }
	got, final := TraverseStmtWithState(tree, 0, labelExpr, labelStmt)

	if final != 4 {
		t.Fatalf("expected final state 4 after labeling 1 stmt root + 1 tag expr + 2 child stmts, got %d", final)
	}
	if got.Meta != 0 {
		t.Fatalf("root statement should claim label 0, got %d", got.Meta)
	}
	root := got.Pattern.(*stmtSeq)
	if root.tag.Meta != 1 {
		t.Fatalf("the statement's own expression children should be labeled right after it, got %d", root.tag.Meta)
	}
	if root.first.Meta != 2 || root.next.Meta != 3 {
		t.Fatalf("nested statements should be labeled left to right after the tag expression, got first=%d next=%d", root.first.Meta, root.next.Meta)
	}
}
