package analyzer

import (
	"strings"

	"modelc/internal/ast"
	"modelc/internal/diagnostics"
	"modelc/internal/ir"
	"modelc/internal/symtab"
	"modelc/internal/types"
)

var lpSuffixes = []string{"_lpdf", "_lpmf", "_lcdf", "_lccdf", "_log", "_lp"}

func hasLpSuffix(name string) bool {
	for _, s := range lpSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func hasRngSuffix(name string) bool {
	return strings.HasSuffix(name, "_rng")
}

func stmtMeta(span diagnostics.SourceSpan) ir.StmtLocated {
	return ir.StmtLocated{Span: span}
}

// checkStmt implements §4.5.6's per-variant statement checking, folded
// together with the §4.5.7 return-status computation each variant
// contributes to its enclosing block.
func (a *Analyzer) checkStmt(s *ast.UntypedStmt) (*ast.TypedStmt, ReturnStatus) {
	span := s.Meta.Span
	switch p := s.Pattern.(type) {
	case *ast.Assign[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkAssign(p, span)
	case *ast.TargetPlusEq[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkTargetPlusEq(p, span)
	case *ast.NRFunApp[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkNRFunApp(p, span)
	case *ast.Break[ir.NoMeta, ir.StmtNoMeta]:
		if !a.ctx.inLoop {
			a.report(diagnostics.FatalInternal, span, "break outside a loop")
		}
		return ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Break[ir.TypedLocated, ir.StmtLocated]{}, stmtMeta(span)), anyStatus()
	case *ast.Continue[ir.NoMeta, ir.StmtNoMeta]:
		if !a.ctx.inLoop {
			a.report(diagnostics.FatalInternal, span, "continue outside a loop")
		}
		return ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Continue[ir.TypedLocated, ir.StmtLocated]{}, stmtMeta(span)), anyStatus()
	case *ast.Return[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkReturn(p, span)
	case *ast.Skip[ir.NoMeta, ir.StmtNoMeta]:
		return ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Skip[ir.TypedLocated, ir.StmtLocated]{}, stmtMeta(span)), noneStatus()
	case *ast.IfElse[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkIfElse(p, span)
	case *ast.While[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkWhile(p, span)
	case *ast.For[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkFor(p, span)
	case *ast.Block[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkBlock(p, span)
	case *ast.SList[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkSList(p, span)
	case *ast.Decl[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkDecl(p, span)
	case *ast.Tilde[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkTilde(p, span)
	case *ast.FunDef[ir.NoMeta, ir.StmtNoMeta]:
		return a.checkFunDef(p, span)
	default:
		a.fatalf(span, "analyzer: unhandled statement pattern %T", p)
		return ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Skip[ir.TypedLocated, ir.StmtLocated]{}, stmtMeta(span)), noneStatus()
	}
}

func (a *Analyzer) checkAssign(p *ast.Assign[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	lhs := a.typeExpr(p.Lvalue)
	rhs := a.typeExpr(p.Value)

	if v, isVar := lhs.Pattern.(*ast.Var[ir.TypedLocated]); isVar {
		if b, ok := a.tab.Look(v.Name); ok {
			if b.ReadOnly {
				a.report(diagnostics.IllTypedNotAFunction, span, "%q is read-only", v.Name)
			}
			if a.tab.IsGlobal(v.Name) && b.Origin != a.ctx.currentBlock {
				a.report(diagnostics.IllTypedNotAFunction, span, "cannot assign %q from block %s (declared in %s)", v.Name, a.ctx.currentBlock, b.Origin)
			}
			rhsOrigin := a.ctx.currentBlock
			if types.LUB(rhsOrigin, b.Origin) != b.Origin {
				a.tab.UnsafeReplace(v.Name, symtab.Binding{Origin: types.LUB(rhsOrigin, b.Origin), Type: b.Type, Ad: b.Ad, ReadOnly: b.ReadOnly})
			}
			a.tab.SetIsAssigned(v.Name)
		}
	}

	if !types.SameTypeModConv(p.Op, lhs.Meta.Type, rhs.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "%s: cannot assign %s to %s", p.Op, rhs.Meta.Type, lhs.Meta.Type)
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Assign[ir.TypedLocated, ir.StmtLocated]{Lvalue: lhs, Op: p.Op, Value: rhs}, stmtMeta(span))
	return st, noneStatus()
}

func (a *Analyzer) checkTargetPlusEq(p *ast.TargetPlusEq[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	if !a.ctx.currentBlockIsModelOrLp() {
		a.report(diagnostics.FnTargetPlusEquals, span, "target += is only valid in the model block or a _lp function")
	}
	val := a.typeExpr(p.Value)
	if !intOrReal(val.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "target += requires an int or real value, got %s", val.Meta.Type)
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.TargetPlusEq[ir.TypedLocated, ir.StmtLocated]{Value: val}, stmtMeta(span))
	return st, noneStatus()
}

func (c *context) currentBlockIsModelOrLp() bool {
	return c.currentBlock == types.Model || c.inLpFunDef
}

// rngAllowed implements §3's "_rng-suffixed calls may appear only in
// TData, GQuant, or inside functions whose name ends with _rng"
// (Testable Property 7, §8).
func (c *context) rngAllowed() bool {
	return c.currentBlock == types.TData || c.currentBlock == types.GQuant || c.inRngFunDef
}

// checkSuffixRestrictions implements §3's invariant grouping
// `_lp`-suffixed and `_rng`-suffixed calls under the same placement
// rules as `target +=`/`~` and the built-in `_rng` family
// (Testable Properties 6 and 7, §8).
func (a *Analyzer) checkSuffixRestrictions(name string, span diagnostics.SourceSpan) {
	if hasLpSuffix(name) && !a.ctx.currentBlockIsModelOrLp() {
		a.report(diagnostics.FnConditioning, span, "%s: _lp-suffixed function calls are only valid in the model block or a _lp function", name)
	}
	if hasRngSuffix(name) && !a.ctx.rngAllowed() {
		a.report(diagnostics.FnRng, span, "%s: _rng-suffixed function calls are only valid in transformed data, generated quantities, or a _rng function", name)
	}
}

func (a *Analyzer) checkNRFunApp(p *ast.NRFunApp[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	a.checkSuffixRestrictions(p.Name, span)
	typedArgs, actuals := a.typeArgs(p.Args)
	kind := a.classifyFunKind(p.Name)
	_, ok := a.cat.ReturnType(p.Name, actuals)
	if !ok && kind == ast.FunUserDefined {
		if sig, found := a.funcs[p.Name]; found {
			formals := make([]types.Formal, len(sig.params))
			for i, param := range sig.params {
				formals[i] = types.Formal{Ad: param.Ad, Type: param.Type}
			}
			ok = types.CompatibleArgumentsModConv(p.Name, formals, actuals)
		} else {
			a.report(diagnostics.IllTypedNoSuchFunction, span, "no such function %q", p.Name)
		}
	} else if !ok {
		a.report(diagnostics.IllTypedFunctionApp, span, "no matching overload for %s(%s)", p.Name, formatActuals(actuals))
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.NRFunApp[ir.TypedLocated, ir.StmtLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, stmtMeta(span))
	if p.Name == "reject" {
		return st, anyStatus()
	}
	return st, noneStatus()
}

func (a *Analyzer) checkReturn(p *ast.Return[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	if !a.ctx.inFunDef {
		a.report(diagnostics.FatalInternal, span, "return outside a function")
	}
	if p.Value == nil {
		if a.ctx.inReturningFunDef {
			a.report(diagnostics.IllTypedIfReturnTypes, span, "bare return is only valid in a void function")
		}
		st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Return[ir.TypedLocated, ir.StmtLocated]{}, stmtMeta(span))
		return st, ReturnStatus{Kind: StatusComplete, RT: types.Void()}
	}
	val := a.typeExpr(p.Value)
	expected := a.ctx.expectedReturn
	if expected.Kind != types.RReturning {
		a.report(diagnostics.IllTypedIfReturnTypes, span, "return with a value is only valid in a non-void function")
	} else if _, ok := unify(expected.Type, val.Meta.Type); !ok {
		a.report(diagnostics.IllTypedIfReturnTypes, span, "returned %s, expected %s", val.Meta.Type, expected.Type)
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Return[ir.TypedLocated, ir.StmtLocated]{Value: val}, stmtMeta(span))
	return st, ReturnStatus{Kind: StatusComplete, RT: types.Returning(val.Meta.Type)}
}

func (a *Analyzer) checkIfElse(p *ast.IfElse[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	cond := a.typeExpr(p.Cond)
	if !intOrReal(cond.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "if condition must be int or real, got %s", cond.Meta.Type)
	}
	then, thenStatus := a.checkStmt(p.Then)
	var els *ast.TypedStmt
	elseStatus := noneStatus()
	if p.Else != nil {
		els, elseStatus = a.checkStmt(p.Else)
	}
	joined, ok := joinStatus(thenStatus, elseStatus)
	if !ok {
		a.report(diagnostics.IllTypedIfReturnTypes, span, "if/else branches return incompatible types")
		joined = noneStatus()
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.IfElse[ir.TypedLocated, ir.StmtLocated]{Cond: cond, Then: then, Else: els}, stmtMeta(span))
	return st, joined
}

func (a *Analyzer) checkWhile(p *ast.While[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	cond := a.typeExpr(p.Cond)
	if !intOrReal(cond.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "while condition must be int or real, got %s", cond.Meta.Type)
	}
	wasLoop := a.ctx.inLoop
	a.ctx.inLoop = true
	body, bodyStatus := a.checkStmt(p.Body)
	a.ctx.inLoop = wasLoop
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.While[ir.TypedLocated, ir.StmtLocated]{Cond: cond, Body: body}, stmtMeta(span))
	return st, weaken(bodyStatus)
}

func (a *Analyzer) checkFor(p *ast.For[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	lower := a.typeExpr(p.Lower)
	upper := a.typeExpr(p.Upper)
	if lower.Meta.Type.Kind != types.KInt {
		a.report(diagnostics.IllTypedBinOp, span, "for loop lower bound must be int, got %s", lower.Meta.Type)
	}
	if upper.Meta.Type.Kind != types.KInt {
		a.report(diagnostics.IllTypedBinOp, span, "for loop upper bound must be int, got %s", upper.Meta.Type)
	}

	a.tab.BeginScope()
	_ = a.tab.Enter(p.LoopVar, symtab.Binding{Origin: types.Functions, Type: types.Int(), Ad: types.DataOnly, ReadOnly: true})
	wasLoop := a.ctx.inLoop
	a.ctx.inLoop = true
	body, bodyStatus := a.checkStmt(p.Body)
	a.ctx.inLoop = wasLoop
	a.tab.EndScope()

	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.For[ir.TypedLocated, ir.StmtLocated]{LoopVar: p.LoopVar, Lower: lower, Upper: upper, Body: body}, stmtMeta(span))
	return st, weaken(bodyStatus)
}

func (a *Analyzer) checkBlock(p *ast.Block[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	a.tab.BeginScope()
	stmts, status := a.checkStmtSequence(p.Stmts)
	a.tab.EndScope()
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Block[ir.TypedLocated, ir.StmtLocated]{Stmts: stmts}, stmtMeta(span))
	return st, status
}

func (a *Analyzer) checkSList(p *ast.SList[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	stmts, status := a.checkStmtSequence(p.Stmts)
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.SList[ir.TypedLocated, ir.StmtLocated]{Stmts: stmts}, stmtMeta(span))
	return st, status
}

func isTerminalMarker(p ir.StmtPattern[ir.NoMeta, ir.StmtNoMeta]) bool {
	switch p.(type) {
	case *ast.Break[ir.NoMeta, ir.StmtNoMeta], *ast.Continue[ir.NoMeta, ir.StmtNoMeta], *ast.Return[ir.NoMeta, ir.StmtNoMeta]:
		return true
	}
	if nr, ok := p.(*ast.NRFunApp[ir.NoMeta, ir.StmtNoMeta]); ok && nr.Name == "reject" {
		return true
	}
	return false
}

func (a *Analyzer) checkStmtSequence(in []*ast.UntypedStmt) ([]*ast.TypedStmt, ReturnStatus) {
	out := make([]*ast.TypedStmt, len(in))
	seq := newSequencer()
	for i, s := range in {
		typed, status := a.checkStmt(s)
		out[i] = typed
		seq.add(status, isTerminalMarker(s.Pattern))
	}
	return out, seq.result()
}

func (a *Analyzer) checkDecl(p *ast.Decl[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	if kind, ok := checkIdentifier(p.Name, a.opts.ModelName); !ok {
		a.report(kind, span, "invalid identifier %q", p.Name)
	}
	if !a.checkFreshBuiltin(p.Name, true) {
		a.report(diagnostics.IdentifierIsStanMathName, span, "%q collides with a built-in name", p.Name)
	}
	sizedType := a.checkSizedType(p.Type)
	unsized := sizedType.Unsized()

	// currentBlock is already Functions for the whole body of a function
	// (checkFunDef sets it before walking Body), so this needs no extra
	// in-function special case.
	origin := a.ctx.currentBlock
	if (a.ctx.currentBlock == types.Param || a.ctx.currentBlock == types.TParam) && types.ContainsInt(unsized) {
		a.report(diagnostics.InvalidIndex, span, "parameters and transformed parameters cannot have an integer-containing type")
	}

	if err := a.tab.Enter(p.Name, symtab.Binding{Origin: origin, Type: unsized, Ad: p.Ad, Unassigned: true}); err != nil {
		a.report(diagnostics.IdentifierInUse, span, "%s", err)
	}
	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Decl[ir.TypedLocated, ir.StmtLocated]{Ad: p.Ad, Name: p.Name, Type: sizedType}, stmtMeta(span))
	return st, noneStatus()
}

func (a *Analyzer) checkSizedType(t ast.SizedType[ir.NoMeta]) ast.SizedType[ir.TypedLocated] {
	switch t.Kind {
	case ast.SInt:
		return ast.MkSInt[ir.TypedLocated]()
	case ast.SReal:
		return ast.MkSReal[ir.TypedLocated]()
	case ast.SVector:
		return ast.MkSVector(a.typeExpr(t.Rows))
	case ast.SRowVector:
		return ast.MkSRowVector(a.typeExpr(t.Rows))
	case ast.SMatrix:
		return ast.MkSMatrix(a.typeExpr(t.Rows), a.typeExpr(t.Cols))
	case ast.SArray:
		elem := a.checkSizedType(*t.Elem)
		return ast.MkSArray(elem, a.typeExpr(t.Rows))
	default:
		return ast.MkSReal[ir.TypedLocated]()
	}
}

func (a *Analyzer) checkTilde(p *ast.Tilde[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	if !a.ctx.currentBlockIsModelOrLp() {
		a.report(diagnostics.FnConditioning, span, "~ sampling statements are only valid in the model block or a _lp function")
	}
	arg := a.typeExpr(p.Arg)
	args, actuals := a.typeArgs(p.Args)
	allActuals := append([]types.Actual{{Ad: arg.Meta.Ad, Type: arg.Meta.Type}}, actuals...)

	density := p.Distribution + "_lpdf"
	if !a.cat.Has(density) {
		density = p.Distribution + "_lpmf"
	}
	if !a.cat.Has(density) {
		density = p.Distribution + "_log"
	}
	if _, ok := a.cat.ReturnType(density, allActuals); !ok {
		a.report(diagnostics.IllTypedNoSuchFunction, span, "no _lpdf/_lpmf/_log overload for %s", p.Distribution)
	}

	var typedLower, typedUpper *ast.TypedExpr
	if p.Truncation == ast.TruncLowerOnly || p.Truncation == ast.TruncBoth {
		typedLower = a.typeExpr(p.TruncLower)
		if !a.cat.Has(p.Distribution+"_lccdf") && !a.cat.Has(p.Distribution+"_ccdf_log") {
			a.report(diagnostics.IllTypedNoSuchFunction, span, "no _lccdf overload for truncated %s", p.Distribution)
		}
	}
	if p.Truncation == ast.TruncUpperOnly || p.Truncation == ast.TruncBoth {
		typedUpper = a.typeExpr(p.TruncUpper)
		if !a.cat.Has(p.Distribution+"_lcdf") && !a.cat.Has(p.Distribution+"_cdf_log") {
			a.report(diagnostics.IllTypedNoSuchFunction, span, "no _lcdf overload for truncated %s", p.Distribution)
		}
	}

	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.Tilde[ir.TypedLocated, ir.StmtLocated]{
		Arg: arg, Distribution: p.Distribution, Args: args,
		Truncation: p.Truncation, TruncLower: typedLower, TruncUpper: typedUpper,
	}, stmtMeta(span))
	return st, noneStatus()
}

func (a *Analyzer) checkFunDef(p *ast.FunDef[ir.NoMeta, ir.StmtNoMeta], span diagnostics.SourceSpan) (*ast.TypedStmt, ReturnStatus) {
	if kind, ok := checkIdentifier(p.Name, a.opts.ModelName); !ok {
		a.report(kind, span, "invalid identifier %q", p.Name)
	}

	if existing, ok := a.funcs[p.Name]; ok {
		if existing.defined && p.Body != nil {
			a.report(diagnostics.IdentifierInUse, span, "%q already defined", p.Name)
		}
		if !sameFunSignature(existing, p) {
			a.report(diagnostics.IllTypedFunctionApp, span, "redeclaration of %q does not match its first declaration", p.Name)
		}
		if p.Body != nil {
			existing.defined = true
		}
	} else {
		a.funcs[p.Name] = &funcSignature{returnType: p.ReturnType, params: p.Params, defined: p.Body != nil}
	}

	var typedBody *ast.TypedStmt
	if p.Body != nil {
		a.tab.BeginScope()
		for _, param := range p.Params {
			_ = a.tab.Enter(param.Name, symtab.Binding{Origin: types.Functions, Type: param.Type, Ad: param.Ad})
		}
		savedCtx := a.ctx
		a.ctx = context{
			currentBlock:      types.Functions,
			inFunDef:          true,
			inReturningFunDef: p.ReturnType.Kind == types.RReturning,
			inRngFunDef:       hasRngSuffix(p.Name),
			inLpFunDef:        hasLpSuffix(p.Name),
			expectedReturn:    p.ReturnType,
		}
		body, status := a.checkStmt(p.Body)
		typedBody = body
		if p.ReturnType.Kind == types.RReturning && status.Kind != StatusComplete && status.Kind != StatusAny {
			a.report(diagnostics.IllTypedIfReturnTypes, span, "function %q does not return on every path", p.Name)
		}
		a.ctx = savedCtx
		a.tab.EndScope()
	}

	st := ir.NewStmt[ir.TypedLocated, ir.StmtLocated](&ast.FunDef[ir.TypedLocated, ir.StmtLocated]{
		ReturnType: p.ReturnType, Name: p.Name, Params: p.Params, Body: typedBody,
	}, stmtMeta(span))
	return st, noneStatus()
}

func sameFunSignature(existing *funcSignature, p *ast.FunDef[ir.NoMeta, ir.StmtNoMeta]) bool {
	if existing.returnType.Kind != p.ReturnType.Kind {
		return false
	}
	if existing.returnType.Kind == types.RReturning && !existing.returnType.Type.Equal(p.ReturnType.Type) {
		return false
	}
	if len(existing.params) != len(p.Params) {
		return false
	}
	for i := range existing.params {
		if existing.params[i].Ad != p.Params[i].Ad || !existing.params[i].Type.Equal(p.Params[i].Type) {
			return false
		}
	}
	return true
}
