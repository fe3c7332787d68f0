package ast

import (
	"modelc/internal/ir"
	"modelc/internal/types"
)

// SizedKind tags the variant of a SizedType (§3).
type SizedKind int

const (
	SInt SizedKind = iota
	SReal
	SVector
	SRowVector
	SMatrix
	SArray
)

// SizedType carries the size expressions a top-level declaration needs:
// SInt, SReal, SVector(e), SRowVector(e), SMatrix(rows, cols),
// SArray(elem, len). Generic in M so size expressions belong to whichever
// tree (untyped/typed/MIR) the declaration itself belongs to.
type SizedType[M any] struct {
	Kind SizedKind
	Rows *ir.Expr[M] // SVector/SMatrix's row count, or SArray's length
	Cols *ir.Expr[M] // SMatrix's column count only
	Elem *SizedType[M]
}

func MkSInt[M any]() SizedType[M]  { return SizedType[M]{Kind: SInt} }
func MkSReal[M any]() SizedType[M] { return SizedType[M]{Kind: SReal} }

func MkSVector[M any](n *ir.Expr[M]) SizedType[M] { return SizedType[M]{Kind: SVector, Rows: n} }

func MkSRowVector[M any](n *ir.Expr[M]) SizedType[M] {
	return SizedType[M]{Kind: SRowVector, Rows: n}
}

func MkSMatrix[M any](rows, cols *ir.Expr[M]) SizedType[M] {
	return SizedType[M]{Kind: SMatrix, Rows: rows, Cols: cols}
}

func MkSArray[M any](elem SizedType[M], length *ir.Expr[M]) SizedType[M] {
	e := elem
	return SizedType[M]{Kind: SArray, Elem: &e, Rows: length}
}

// Children returns the size expressions contained in t, left to right
// (e.g. rows before cols, element type before length).
func (t SizedType[M]) Children() []*ir.Expr[M] {
	switch t.Kind {
	case SInt, SReal:
		return nil
	case SVector, SRowVector:
		return []*ir.Expr[M]{t.Rows}
	case SMatrix:
		return []*ir.Expr[M]{t.Rows, t.Cols}
	case SArray:
		children := t.Elem.Children()
		return append(children, t.Rows)
	default:
		return nil
	}
}

// WithChildren rebuilds t with replacement size expressions, consuming
// exactly as many as Children produced.
func (t SizedType[M]) WithChildren(children []*ir.Expr[M]) (SizedType[M], []*ir.Expr[M]) {
	switch t.Kind {
	case SInt, SReal:
		return t, children
	case SVector:
		return SizedType[M]{Kind: SVector, Rows: children[0]}, children[1:]
	case SRowVector:
		return SizedType[M]{Kind: SRowVector, Rows: children[0]}, children[1:]
	case SMatrix:
		return SizedType[M]{Kind: SMatrix, Rows: children[0], Cols: children[1]}, children[2:]
	case SArray:
		elem, rest := t.Elem.WithChildren(children)
		return SizedType[M]{Kind: SArray, Elem: &elem, Rows: rest[0]}, rest[1:]
	default:
		return t, children
	}
}

// Unsized erases size information, producing the UnsizedType a SizedType
// corresponds to (used once a declaration has been checked and its
// unsized shape is all the symbol table needs to remember).
func (t SizedType[M]) Unsized() types.UnsizedType {
	switch t.Kind {
	case SInt:
		return types.Int()
	case SReal:
		return types.Real()
	case SVector:
		return types.Vector()
	case SRowVector:
		return types.RowVector()
	case SMatrix:
		return types.Matrix()
	case SArray:
		return types.Array(t.Elem.Unsized())
	default:
		return types.UnsizedType{}
	}
}
