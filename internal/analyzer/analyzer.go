// Package analyzer implements the single-pass semantic analyzer of
// §4.5: a scoped-symbol-table walk that turns an untyped program into a
// fully typed one, reporting structured diagnostics for every semantic
// violation it finds along the way.
//
// Grounded on internal/compiler's HoistingCompiler, which also walks a
// program in a fixed block order maintaining scoped locals and reporting
// compile errors through an accumulator rather than panicking; analyzer
// generalizes that two-pass hoisting shape into the single typed pass
// §4.5 actually calls for, threading a richer context-flag record
// (current block, in-function/in-loop/in-rng/in-lp flags) alongside the
// symbol table.
package analyzer

import (
	"fmt"

	"modelc/internal/ast"
	"modelc/internal/catalog"
	"modelc/internal/diagnostics"
	"modelc/internal/ir"
	"modelc/internal/symtab"
	"modelc/internal/types"
)

// Options configures one analysis run.
type Options struct {
	// ModelName is the program's configured name; an identifier equal to
	// it is rejected per §4.5.1.
	ModelName string
}

// context is the mutable per-position flag record threaded through
// statement and expression checking (§5's "context-flag record").
type context struct {
	currentBlock types.BlockOrigin

	inFunDef          bool
	inReturningFunDef bool
	inRngFunDef       bool
	inLpFunDef        bool
	inLoop            bool

	expectedReturn types.ReturnType
}

// Analyzer holds the state that lives for the duration of one program's
// compilation: the builtin catalog, the symbol table, the context-flag
// record, and the diagnostic sink.
type Analyzer struct {
	cat   *catalog.Catalog
	tab   *symtab.Table
	sink  *diagnostics.Sink
	opts  Options
	ctx   context
	funcs map[string]*funcSignature
}

type funcSignature struct {
	returnType types.ReturnType
	params     []ast.Param
	defined    bool
}

// recoveryType is substituted for an expression's type after a typing
// error, so the walk can keep going and surface further diagnostics
// instead of aborting the whole block on the first mistake.
var recoveryType = types.Real()

// Analyze runs the analyzer over an untyped program, returning the typed
// program and the diagnostics collected along the way. A semantic error
// does not stop the walk: the offending expression is given recoveryType
// and analysis continues through the rest of the block and into later
// blocks to surface more diagnostics.
func Analyze(p *ast.UntypedProgram, opts Options, cat *catalog.Catalog) (*ast.TypedProgram, *diagnostics.Sink) {
	a := &Analyzer{
		cat:   cat,
		tab:   symtab.New(),
		sink:  diagnostics.NewSink(),
		opts:  opts,
		funcs: map[string]*funcSignature{},
	}

	typed := &ast.TypedProgram{Name: p.Name}
	blockTargets := []struct {
		origin types.BlockOrigin
		in     ast.ProgramBlock[ir.NoMeta, ir.StmtNoMeta]
		out    *ast.ProgramBlock[ir.TypedLocated, ir.StmtLocated]
	}{
		{types.Functions, p.Functions, &typed.Functions},
		{types.Data, p.Data, &typed.Data},
		{types.TData, p.TransformedData, &typed.TransformedData},
		{types.Param, p.Parameters, &typed.Parameters},
		{types.TParam, p.TransformedParameters, &typed.TransformedParameters},
		{types.Model, p.Model, &typed.Model},
		{types.GQuant, p.GeneratedQuantities, &typed.GeneratedQuantities},
	}

	for _, bt := range blockTargets {
		if !bt.in.Present {
			continue
		}
		a.ctx = context{currentBlock: bt.origin}
		if bt.origin == types.Model {
			a.tab.BeginScope()
		}
		stmts, _ := a.checkStmtSequence(bt.in.Stmts)
		if bt.origin == types.Model {
			a.tab.EndScope()
		}
		*bt.out = ast.NewBlock(stmts)
	}

	return typed, a.sink
}

func (a *Analyzer) report(kind diagnostics.Kind, span diagnostics.SourceSpan, format string, args ...any) {
	a.sink.Report(kind, span, format, args...)
}

func (a *Analyzer) fatalf(span diagnostics.SourceSpan, format string, args ...any) {
	a.sink.ReportFatal(span, fmt.Errorf(format, args...))
}
