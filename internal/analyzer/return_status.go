package analyzer

import "modelc/internal/types"

// StatusKind tags one of the four return statuses of §4.5.7.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusAny
	StatusIncomplete
	StatusComplete
)

// ReturnStatus is a statement's contribution to its enclosing function's
// return-completeness analysis.
type ReturnStatus struct {
	Kind StatusKind
	RT   types.ReturnType
}

func noneStatus() ReturnStatus { return ReturnStatus{Kind: StatusNone} }
func anyStatus() ReturnStatus  { return ReturnStatus{Kind: StatusAny} }

func joinReturnType(a, b types.ReturnType) (types.ReturnType, bool) {
	if a.Kind != b.Kind {
		return types.ReturnType{}, false
	}
	if a.Kind == types.RVoid {
		return types.Void(), true
	}
	t, ok := unify(a.Type, b.Type)
	if !ok {
		return types.ReturnType{}, false
	}
	return types.Returning(t), true
}

// weaken demotes a Complete status to Incomplete; every other status
// passes through unchanged. Used when a statement's completeness cannot
// be relied upon by its enclosing construct (a loop may run zero times;
// an if with no else may not take its branch).
func weaken(s ReturnStatus) ReturnStatus {
	if s.Kind == StatusComplete {
		return ReturnStatus{Kind: StatusIncomplete, RT: s.RT}
	}
	return s
}

// joinStatus implements the two-branch join table of §4.5.7, extended
// (in a straightforward, documented way) to cover NoReturn and AnyReturn:
// NoReturn joined with a concrete status weakens it to Incomplete (only
// one of the two paths is guaranteed to return); AnyReturn defers to
// whatever concrete status it is joined with, and AnyReturn⊕AnyReturn is
// AnyReturn. ok is false when the two sides return incompatible types.
func joinStatus(a, b ReturnStatus) (ReturnStatus, bool) {
	switch {
	case a.Kind == StatusNone && b.Kind == StatusNone:
		return noneStatus(), true
	case a.Kind == StatusNone:
		return weaken(b), true
	case b.Kind == StatusNone:
		return weaken(a), true
	case a.Kind == StatusAny && b.Kind == StatusAny:
		return anyStatus(), true
	case a.Kind == StatusAny:
		return b, true
	case b.Kind == StatusAny:
		return a, true
	case a.Kind == StatusComplete && b.Kind == StatusComplete:
		rt, ok := joinReturnType(a.RT, b.RT)
		if !ok {
			return ReturnStatus{}, false
		}
		return ReturnStatus{Kind: StatusComplete, RT: rt}, true
	default:
		rt, ok := joinReturnType(a.RT, b.RT)
		if !ok {
			return ReturnStatus{}, false
		}
		return ReturnStatus{Kind: StatusIncomplete, RT: rt}, true
	}
}

// sequence folds the return statuses of a statement list left to right:
// once a Complete status is reached, later statements are still checked
// (by the caller) but do not weaken the accumulated status, and anything
// after a Break/Continue/Return/reject marker is unreachable for status
// purposes (the caller passes terminal=true for the marker statement
// itself, and add ignores every statement after it).
type sequencer struct {
	acc  ReturnStatus
	done bool // true once acc is Complete or an unreachable marker was hit
}

func newSequencer() *sequencer { return &sequencer{acc: noneStatus()} }

func (s *sequencer) add(st ReturnStatus, terminal bool) {
	if s.done {
		return
	}
	switch {
	case s.acc.Kind == StatusNone:
		s.acc = st
	case st.Kind == StatusNone:
	default:
		if joined, ok := joinStatus(s.acc, st); ok {
			if st.Kind == StatusComplete {
				joined.Kind = StatusComplete
			}
			s.acc = joined
		}
	}
	if s.acc.Kind == StatusComplete || terminal {
		s.done = true
	}
}

func (s *sequencer) result() ReturnStatus { return s.acc }
