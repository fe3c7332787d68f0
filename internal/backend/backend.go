// Package backend defines the §4.7 code-generation boundary: the shape
// an emitter must have to consume an optimized MIR program, without
// implementing one. Code generation (C++/LLVM, or any other target) is
// an explicit non-goal (§1) — this package stops at the contract.
package backend

import "modelc/internal/mir"

// Emitter turns an optimized MIR program into target output. Emit
// returns the emitted bytes (object code, generated source, bitcode —
// whatever the concrete emitter targets) or an error if the program
// contains a construct that emitter cannot lower.
//
// No implementation lives in this module: constructing LLVM or C++ AST
// nodes from mir.Program is out of scope per §1/§4.7.
type Emitter interface {
	Emit(program *mir.Program) ([]byte, error)
}
