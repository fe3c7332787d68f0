// Package types implements the type lattice: unsized and sized types, the
// ad-level (data vs autodiffable) modifier, return types, and the
// block-origin partial order used to compute least-upper-bounds for
// compound expressions.
package types

import "fmt"

// Kind tags the variant of an UnsizedType.
type Kind int

const (
	KInt Kind = iota
	KReal
	KVector
	KRowVector
	KMatrix
	KArray
	KFun
	KMathLibraryFunction
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "int"
	case KReal:
		return "real"
	case KVector:
		return "vector"
	case KRowVector:
		return "row_vector"
	case KMatrix:
		return "matrix"
	case KArray:
		return "array"
	case KFun:
		return "fun"
	case KMathLibraryFunction:
		return "MathLibraryFunction"
	default:
		return "?"
	}
}

// AdLevel marks whether a value participates in automatic differentiation.
type AdLevel int

const (
	DataOnly AdLevel = iota
	AutoDiffable
)

func (a AdLevel) String() string {
	if a == AutoDiffable {
		return "autodiffable"
	}
	return "data"
}

// FunParam is one parameter of a Fun type: its ad-level and unsized type.
type FunParam struct {
	Ad   AdLevel
	Type UnsizedType
}

// ReturnKind distinguishes a void function from one returning a value.
type ReturnKind int

const (
	RVoid ReturnKind = iota
	RReturning
)

// ReturnType is Void or ReturnType(UnsizedType).
type ReturnType struct {
	Kind ReturnKind
	Type UnsizedType // meaningful only when Kind == RReturning
}

func Void() ReturnType                { return ReturnType{Kind: RVoid} }
func Returning(t UnsizedType) ReturnType { return ReturnType{Kind: RReturning, Type: t} }

func (r ReturnType) String() string {
	if r.Kind == RVoid {
		return "void"
	}
	return r.Type.String()
}

// UnsizedType is the tag+payload family of §3: Int, Real, Vector,
// RowVector, Matrix, Array(UnsizedType), Fun(params, returntype), or
// MathLibraryFunction.
type UnsizedType struct {
	Kind Kind

	// Array holds the element type when Kind == KArray.
	Elem *UnsizedType

	// Fun holds the signature when Kind == KFun.
	Params     []FunParam
	ReturnType *ReturnType
}

func Int() UnsizedType  { return UnsizedType{Kind: KInt} }
func Real() UnsizedType { return UnsizedType{Kind: KReal} }
func Vector() UnsizedType { return UnsizedType{Kind: KVector} }
func RowVector() UnsizedType { return UnsizedType{Kind: KRowVector} }
func Matrix() UnsizedType { return UnsizedType{Kind: KMatrix} }
func MathLibraryFunction() UnsizedType { return UnsizedType{Kind: KMathLibraryFunction} }

func Array(elem UnsizedType) UnsizedType {
	e := elem
	return UnsizedType{Kind: KArray, Elem: &e}
}

func Fun(params []FunParam, rt ReturnType) UnsizedType {
	r := rt
	return UnsizedType{Kind: KFun, Params: params, ReturnType: &r}
}

// Equal reports structural equality of two unsized types.
func (t UnsizedType) Equal(o UnsizedType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KArray:
		return t.Elem.Equal(*o.Elem)
	case KFun:
		if len(t.Params) != len(o.Params) {
			return false
		}
		for i := range t.Params {
			if t.Params[i].Ad != o.Params[i].Ad || !t.Params[i].Type.Equal(o.Params[i].Type) {
				return false
			}
		}
		if t.ReturnType.Kind != o.ReturnType.Kind {
			return false
		}
		if t.ReturnType.Kind == RReturning {
			return t.ReturnType.Type.Equal(o.ReturnType.Type)
		}
		return true
	default:
		return true
	}
}

func (t UnsizedType) String() string {
	switch t.Kind {
	case KArray:
		return fmt.Sprintf("array[%s]", t.Elem.String())
	case KFun:
		return fmt.Sprintf("fun(...) => %s", t.ReturnType.String())
	default:
		return t.Kind.String()
	}
}

// ContainsInt reports whether t is Int or an array whose element (at any
// depth) contains Int.
func ContainsInt(t UnsizedType) bool {
	switch t.Kind {
	case KInt:
		return true
	case KArray:
		return ContainsInt(*t.Elem)
	default:
		return false
	}
}

// BlockOrigin is the program section in which a name was introduced,
// ordered Functions < MathLibrary < Data < TData < Param < TParam <
// Model < GQuant.
type BlockOrigin int

const (
	Functions BlockOrigin = iota
	MathLibrary
	Data
	TData
	Param
	TParam
	Model
	GQuant
)

var blockOriginNames = [...]string{
	"functions", "MathLibrary", "data", "transformed data",
	"parameters", "transformed parameters", "model", "generated quantities",
}

func (b BlockOrigin) String() string {
	if int(b) < 0 || int(b) >= len(blockOriginNames) {
		return "?"
	}
	return blockOriginNames[b]
}

// LUB returns the least upper bound of two block origins under the total
// order declared above (the order is total, so LUB is simply max).
func LUB(a, b BlockOrigin) BlockOrigin {
	if a > b {
		return a
	}
	return b
}

// LUBAll folds LUB across a slice of origins; an empty slice yields
// Functions, the bottom of the order.
func LUBAll(origins []BlockOrigin) BlockOrigin {
	if len(origins) == 0 {
		return Functions
	}
	acc := origins[0]
	for _, o := range origins[1:] {
		acc = LUB(acc, o)
	}
	return acc
}
