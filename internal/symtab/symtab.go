// Package symtab implements the scoped symbol table of §4.3: a stack of
// frames mapping name to (block origin, unsized type), with read-only and
// assigned/unassigned bits per binding.
//
// Grounded on internal/compregister's Compiler.scope: a parent-linked
// Scope{parent, locals, depth} walked innermost-first by resolveLocal,
// pushed/popped by pushScope/popScope. Table keeps the same walk-order
// and push/pop shape but as an explicit slice of frames (rather than a
// linked list) since the analyzer never needs to retain a frame pointer
// after popping it, and stores a richer per-binding payload than a bare
// register number.
package symtab

import (
	"fmt"

	"modelc/internal/types"
)

// Binding is everything the table tracks about one name.
type Binding struct {
	Origin     types.BlockOrigin
	Type       types.UnsizedType
	Ad         types.AdLevel
	ReadOnly   bool
	Unassigned bool
}

type frame map[string]*Binding

// Table is a stack of frames, innermost last. A freshly constructed
// Table has one frame (the root/global frame); IsGlobal reports bindings
// found in that frame.
type Table struct {
	frames []frame
}

// New returns a table with a single root frame.
func New() *Table {
	return &Table{frames: []frame{{}}}
}

// BeginScope pushes a new, empty frame.
func (t *Table) BeginScope() {
	t.frames = append(t.frames, frame{})
}

// EndScope pops the innermost frame. Popping the root frame is a misuse
// by the caller (the analyzer always balances BeginScope/EndScope around
// a Block), so it panics rather than silently under-popping.
func (t *Table) EndScope() {
	if len(t.frames) <= 1 {
		panic("symtab: EndScope called with no open scope")
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Enter inserts name into the innermost frame. It fails if name is
// already present in that same frame (shadowing an outer frame's binding
// is fine; redeclaring within one frame is not, per §4.5.1).
func (t *Table) Enter(name string, b Binding) error {
	top := t.frames[len(t.frames)-1]
	if _, exists := top[name]; exists {
		return fmt.Errorf("symtab: %q already declared in this scope", name)
	}
	top[name] = &b
	return nil
}

// Look walks the frame stack innermost first, returning the first
// binding found.
func (t *Table) Look(name string) (Binding, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if b, ok := t.frames[i][name]; ok {
			return *b, true
		}
	}
	return Binding{}, false
}

func (t *Table) find(name string) *Binding {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if b, ok := t.frames[i][name]; ok {
			return b
		}
	}
	return nil
}

// SetReadOnly marks name's binding read-only. No-op if name is unbound.
func (t *Table) SetReadOnly(name string) {
	if b := t.find(name); b != nil {
		b.ReadOnly = true
	}
}

// SetIsUnassigned marks name's binding as not yet assigned.
func (t *Table) SetIsUnassigned(name string) {
	if b := t.find(name); b != nil {
		b.Unassigned = true
	}
}

// SetIsAssigned marks name's binding as assigned.
func (t *Table) SetIsAssigned(name string) {
	if b := t.find(name); b != nil {
		b.Unassigned = false
	}
}

// IsGlobal reports whether name's binding lives in the root frame.
func (t *Table) IsGlobal(name string) bool {
	_, ok := t.frames[0][name]
	return ok
}

// UnsafeReplace overwrites name's binding in place, wherever in the frame
// stack it currently lives, with new data. Used only by the analyzer to
// elevate a local's origin upward to the LUB of its declared origin and
// its right-hand side's origin once that RHS has been typed (§4.5.4's
// "assignment may raise a variable's recorded origin").
func (t *Table) UnsafeReplace(name string, b Binding) {
	if existing := t.find(name); existing != nil {
		*existing = b
		return
	}
	panic(fmt.Sprintf("symtab: UnsafeReplace on unbound name %q", name))
}
