package ir

// Expr is a fixed-point expression node: a pattern-functor value (one of
// the variants declared in package ast) plus a metadata slot, generic in
// the metadata type M so the same node shape serves NoMeta, TypedLocated,
// and Labeled trees.
type Expr[M any] struct {
	Pattern ExprPattern[M]
	Meta    M
}

// ExprPattern is implemented by every expression variant (Var, Lit,
// FunApp, TernaryIf, EAnd, EOr, Indexed, ...). Children reports the
// variant's child expressions in strict left-to-right, natural-reading
// order (condition before branches, etc.) — the order label assignment
// and folding rely on. WithChildren rebuilds the same variant with
// replacement children, in the same order Children returned them; it is
// the one per-variant hook Map needs to stay generic over M.
type ExprPattern[M any] interface {
	Children() []*Expr[M]
	WithChildren(children []*Expr[M]) ExprPattern[M]
}

// NewExpr builds a node from a pattern and metadata.
func NewExpr[M any](p ExprPattern[M], m M) *Expr[M] {
	return &Expr[M]{Pattern: p, Meta: m}
}

// MapExpr rebuilds the tree bottom-up: children are transformed first
// (recursively, left to right), then fn is applied to the resulting node.
// This is the shape the partial evaluator needs (§4.6: "children are
// evaluated first; then the current node is considered for rewriting").
func MapExpr[M any](e *Expr[M], fn func(*Expr[M]) *Expr[M]) *Expr[M] {
	children := e.Pattern.Children()
	if len(children) > 0 {
		newChildren := make([]*Expr[M], len(children))
		for i, c := range children {
			newChildren[i] = MapExpr(c, fn)
		}
		e = &Expr[M]{Pattern: e.Pattern.WithChildren(newChildren), Meta: e.Meta}
	}
	return fn(e)
}

// FoldExpr performs a pre-order (node before children), left-to-right
// fold over every subtree of e.
func FoldExpr[M any, A any](e *Expr[M], acc A, fn func(A, *Expr[M]) A) A {
	acc = fn(acc, e)
	for _, c := range e.Pattern.Children() {
		acc = FoldExpr(c, acc, fn)
	}
	return acc
}

// TraverseExprWithState performs §4.4's traverse_with_state: a strict
// pre-order, left-to-right walk that both rebuilds the tree and threads a
// running state through it. fn is applied to a node before its children
// are visited, so the state it returns is what the node's first child
// sees — exactly the shape monotonic label assignment needs (the parent
// claims the smaller label). The rebuilt node's metadata is whatever fn
// returns; the metadata type itself cannot change mid-traversal (Go
// forbids a generic method on ExprPattern's WithChildren that would let
// it), so callers that need to change metadata type end-to-end still use
// a dedicated walker — see ast/label.go.
func TraverseExprWithState[M any, S any](e *Expr[M], state S, fn func(S, *Expr[M]) (M, S)) (*Expr[M], S) {
	newMeta, state := fn(state, e)
	children := e.Pattern.Children()
	pattern := e.Pattern
	if len(children) > 0 {
		newChildren := make([]*Expr[M], len(children))
		for i, c := range children {
			newChildren[i], state = TraverseExprWithState(c, state, fn)
		}
		pattern = pattern.WithChildren(newChildren)
	}
	return &Expr[M]{Pattern: pattern, Meta: newMeta}, state
}
