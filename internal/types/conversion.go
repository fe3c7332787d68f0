package types

import "strings"

// CanConvertAD reports whether a value at ad-level `from` may flow into a
// position requiring ad-level `to`. True unless from is DataOnly and to
// is AutoDiffable: widening data to autodiff would require rederivation,
// so only that one direction is disallowed.
func CanConvertAD(from, to AdLevel) bool {
	return !(from == DataOnly && to == AutoDiffable)
}

// SameTypeModConv reports whether t2 may stand in for t1 under the rules
// named `name`: assign_-prefixed names demand exact equality; otherwise
// Int may widen to Real (t2 == Int, t1 == Real); Fun types require exact
// return-type equality and pairwise parameter equality with the ad-level
// check flipped (a narrower caller-supplied ad-level may satisfy a wider
// declared one).
func SameTypeModConv(name string, t1, t2 UnsizedType) bool {
	if strings.HasPrefix(name, "assign_") {
		return t1.Equal(t2)
	}
	if t1.Kind == KFun && t2.Kind == KFun {
		if t1.ReturnType.Kind != t2.ReturnType.Kind {
			return false
		}
		if t1.ReturnType.Kind == RReturning && !t1.ReturnType.Type.Equal(t2.ReturnType.Type) {
			return false
		}
		if len(t1.Params) != len(t2.Params) {
			return false
		}
		for i := range t1.Params {
			if !SameTypeModConv(name, t1.Params[i].Type, t2.Params[i].Type) {
				return false
			}
			// flipped direction: the declared (t1) parameter's ad-level is
			// the "from" side, the supplied (t2) one is the "to" side.
			if !CanConvertAD(t1.Params[i].Ad, t2.Params[i].Ad) {
				return false
			}
		}
		return true
	}
	if t1.Equal(t2) {
		return true
	}
	return t1.Kind == KReal && t2.Kind == KInt
}

// SameTypeModArrayConv is SameTypeModConv extended to recurse through
// Array element types.
func SameTypeModArrayConv(name string, t1, t2 UnsizedType) bool {
	if t1.Kind == KArray && t2.Kind == KArray {
		return SameTypeModArrayConv(name, *t1.Elem, *t2.Elem)
	}
	if t1.Kind == KArray || t2.Kind == KArray {
		return false
	}
	return SameTypeModConv(name, t1, t2)
}

// Actual is one argument's unsized type plus its ad-level, as computed by
// the analyzer for a call site.
type Actual struct {
	Ad   AdLevel
	Type UnsizedType
}

// Formal is one declared parameter of a signature overload.
type Formal struct {
	Ad   AdLevel
	Type UnsizedType
}

// CompatibleArgumentsModConv reports whether a tuple of actual arguments
// may satisfy a tuple of formal parameters: equal arity, pairwise
// SameTypeModArrayConv on the unsized parts, and pairwise CanConvertAD on
// the ad-levels.
func CompatibleArgumentsModConv(name string, formals []Formal, actuals []Actual) bool {
	if len(formals) != len(actuals) {
		return false
	}
	for i := range formals {
		if !SameTypeModArrayConv(name, formals[i].Type, actuals[i].Type) {
			return false
		}
		if !CanConvertAD(actuals[i].Ad, formals[i].Ad) {
			return false
		}
	}
	return true
}

// ExactMatch reports whether actuals match formals with no widening or ad
// conversion at all (used by overload resolution's first pass).
func ExactMatch(formals []Formal, actuals []Actual) bool {
	if len(formals) != len(actuals) {
		return false
	}
	for i := range formals {
		if !formals[i].Type.Equal(actuals[i].Type) {
			return false
		}
		if formals[i].Ad != actuals[i].Ad {
			return false
		}
	}
	return true
}

// PromotionRank counts how many argument positions require an Int->Real
// widening to satisfy formals from actuals; used to pick the narrowest
// promotion among multiple compatible overloads. Assumes compatibility
// has already been checked.
func PromotionRank(formals []Formal, actuals []Actual) int {
	rank := 0
	for i := range formals {
		if arrayPromotionDepth(formals[i].Type, actuals[i].Type) > 0 {
			rank += arrayPromotionDepth(formals[i].Type, actuals[i].Type)
		}
	}
	return rank
}

func arrayPromotionDepth(formal, actual UnsizedType) int {
	if formal.Kind == KArray && actual.Kind == KArray {
		return arrayPromotionDepth(*formal.Elem, *actual.Elem)
	}
	if formal.Kind == KReal && actual.Kind == KInt {
		return 1
	}
	return 0
}
