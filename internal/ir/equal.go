package ir

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// EqualExpr is the "deep equality that ignores the metadata slot" called
// for by design note 9 ("Structural equality modulo metadata"), used by
// several optimizer rewrites that compare subtrees (x == y) and by the
// idempotence testable property in §8. Built on google/go-cmp rather than
// a hand-rolled recursive comparator, since go-cmp already handles
// interface-typed fields (ExprPattern); the Exporter option lets it
// compare patterns with unexported fields instead of panicking.
func EqualExpr[M any](a, b *Expr[M]) bool {
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }), cmpopts.IgnoreFields(Expr[M]{}, "Meta"))
}

// EqualStmt is EqualExpr's statement counterpart.
func EqualStmt[EM any, SM any](a, b *Stmt[EM, SM]) bool {
	return cmp.Equal(a, b,
		cmp.Exporter(func(reflect.Type) bool { return true }),
		cmpopts.IgnoreFields(Expr[EM]{}, "Meta"),
		cmpopts.IgnoreFields(Stmt[EM, SM]{}, "Meta"),
	)
}
