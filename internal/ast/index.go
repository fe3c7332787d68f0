package ast

import "modelc/internal/ir"

// IndexKind tags the variant of an Index (§3).
type IndexKind int

const (
	IndexAll IndexKind = iota
	IndexSingle
	IndexMulti
	IndexUpfrom
	IndexDownfrom
	IndexBetween
)

func (k IndexKind) String() string {
	switch k {
	case IndexAll:
		return "all"
	case IndexSingle:
		return "single"
	case IndexMulti:
		return "multi"
	case IndexUpfrom:
		return "upfrom"
	case IndexDownfrom:
		return "downfrom"
	case IndexBetween:
		return "between"
	default:
		return "?"
	}
}

// Index is one index expression in an Indexed access: All, Single(e),
// Multi(e), Upfrom(e), Downfrom(e), or Between(e1,e2).
type Index[M any] struct {
	Kind   IndexKind
	Lower  *ir.Expr[M] // Single/Multi/Upfrom/Downfrom/Between's first bound
	Upper  *ir.Expr[M] // Between's second bound only
}

func All[M any]() Index[M] { return Index[M]{Kind: IndexAll} }

func Single[M any](e *ir.Expr[M]) Index[M] { return Index[M]{Kind: IndexSingle, Lower: e} }

func Multi[M any](e *ir.Expr[M]) Index[M] { return Index[M]{Kind: IndexMulti, Lower: e} }

func Upfrom[M any](e *ir.Expr[M]) Index[M] { return Index[M]{Kind: IndexUpfrom, Lower: e} }

func Downfrom[M any](e *ir.Expr[M]) Index[M] { return Index[M]{Kind: IndexDownfrom, Lower: e} }

func Between[M any](lo, hi *ir.Expr[M]) Index[M] {
	return Index[M]{Kind: IndexBetween, Lower: lo, Upper: hi}
}

// children returns this index's expression children, in natural reading
// order (lower before upper).
func (ix Index[M]) children() []*ir.Expr[M] {
	switch ix.Kind {
	case IndexAll:
		return nil
	case IndexBetween:
		return []*ir.Expr[M]{ix.Lower, ix.Upper}
	default:
		return []*ir.Expr[M]{ix.Lower}
	}
}

// withChildren rebuilds an index of the same Kind from replacement
// children, consuming exactly as many as children() produced.
func (ix Index[M]) withChildren(children []*ir.Expr[M]) (Index[M], []*ir.Expr[M]) {
	switch ix.Kind {
	case IndexAll:
		return ix, children
	case IndexBetween:
		return Index[M]{Kind: IndexBetween, Lower: children[0], Upper: children[1]}, children[2:]
	default:
		return Index[M]{Kind: ix.Kind, Lower: children[0]}, children[1:]
	}
}
