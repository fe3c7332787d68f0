package analyzer

import (
	"strings"

	"modelc/internal/ast"
	"modelc/internal/diagnostics"
	"modelc/internal/ir"
	"modelc/internal/types"
)

// Expression-level "origin" (§4.5.4's LUB-of-operand-origins rule) is
// tracked here at AdLevel granularity rather than full BlockOrigin: every
// BlockOrigin below Param collapses to DataOnly, Param and above collapse
// to AutoDiffable, and a symbol's exact BlockOrigin (needed only for the
// global-redeclaration and origin-elevation rules of §4.5.6) stays where
// it is actually consulted, on the symtab.Binding. This keeps
// ir.TypedLocated's metadata to {Type, Ad, Span} instead of also carrying
// an 8-valued origin on every expression node.
func lubAd(ads ...types.AdLevel) types.AdLevel {
	for _, ad := range ads {
		if ad == types.AutoDiffable {
			return types.AutoDiffable
		}
	}
	return types.DataOnly
}

func adFromOrigin(o types.BlockOrigin) types.AdLevel {
	switch o {
	case types.Param, types.TParam, types.Model, types.GQuant:
		return types.AutoDiffable
	default:
		return types.DataOnly
	}
}

func unify(a, b types.UnsizedType) (types.UnsizedType, bool) {
	if a.Equal(b) {
		return a, true
	}
	if a.Kind == types.KInt && b.Kind == types.KReal {
		return b, true
	}
	if a.Kind == types.KReal && b.Kind == types.KInt {
		return a, true
	}
	return types.UnsizedType{}, false
}

func intOrReal(t types.UnsizedType) bool {
	return t.Kind == types.KInt || t.Kind == types.KReal
}

func meta(t types.UnsizedType, ad types.AdLevel, span diagnostics.SourceSpan) ir.TypedLocated {
	return ir.TypedLocated{Type: t, Ad: ad, Span: span}
}

// isOperatorName reports whether name is one of the catalog's operator
// entries (§4.2: "Plus__, Minus__, TernaryIf"), as opposed to an ordinary
// math-library or user-defined function name.
func isOperatorName(name string) bool {
	return strings.HasSuffix(name, "__") || name == "TernaryIf"
}

func (a *Analyzer) classifyFunKind(name string) ast.FunKind {
	switch {
	case isOperatorName(name):
		return ast.FunCompilerInternal
	case a.cat.Has(name):
		return ast.FunStanLib
	default:
		return ast.FunUserDefined
	}
}

// typeExpr implements §4.5.4's expression typing rules.
func (a *Analyzer) typeExpr(e *ast.UntypedExpr) *ast.TypedExpr {
	span := e.Meta.Span
	switch p := e.Pattern.(type) {
	case *ast.Lit[ir.NoMeta]:
		return a.typeLit(p, span)
	case *ast.Var[ir.NoMeta]:
		return a.typeVar(p, span)
	case *ast.FunApp[ir.NoMeta]:
		return a.typeFunApp(p, span)
	case *ast.TernaryIf[ir.NoMeta]:
		return a.typeTernaryIf(p, span)
	case *ast.EAnd[ir.NoMeta]:
		return a.typeEAnd(p, span)
	case *ast.EOr[ir.NoMeta]:
		return a.typeEOr(p, span)
	case *ast.Indexed[ir.NoMeta]:
		return a.typeIndexed(p, span)
	case *ast.CondDistApp[ir.NoMeta]:
		return a.typeCondDistApp(p, span)
	default:
		a.fatalf(span, "analyzer: unhandled expression pattern %T", p)
		return ir.NewExpr[ir.TypedLocated](&ast.Lit[ir.TypedLocated]{Kind: ast.LitReal, Text: "0"}, meta(recoveryType, types.DataOnly, span))
	}
}

func (a *Analyzer) typeLit(p *ast.Lit[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	var t types.UnsizedType
	switch p.Kind {
	case ast.LitInt:
		t = types.Int()
	case ast.LitReal:
		t = types.Real()
	default: // LitStr: the type lattice has no string type, so it is typed as real.
		t = types.Real()
	}
	return ir.NewExpr[ir.TypedLocated](&ast.Lit[ir.TypedLocated]{Kind: p.Kind, Text: p.Text}, meta(t, types.DataOnly, span))
}

func (a *Analyzer) typeVar(p *ast.Var[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	if b, ok := a.tab.Look(p.Name); ok {
		return ir.NewExpr[ir.TypedLocated](&ast.Var[ir.TypedLocated]{Name: p.Name}, meta(b.Type, b.Ad, span))
	}
	if a.cat.Has(p.Name) {
		if rt, ok := a.cat.ReturnType(p.Name, nil); ok && rt.Kind == types.RReturning {
			return ir.NewExpr[ir.TypedLocated](&ast.Var[ir.TypedLocated]{Name: p.Name}, meta(rt.Type, types.DataOnly, span))
		}
	}
	a.report(diagnostics.IdentifierNotInScope, span, "identifier %q is not in scope", p.Name)
	return ir.NewExpr[ir.TypedLocated](&ast.Var[ir.TypedLocated]{Name: p.Name}, meta(recoveryType, types.DataOnly, span))
}

func (a *Analyzer) typeArgs(args []*ast.UntypedExpr) ([]*ast.TypedExpr, []types.Actual) {
	typed := make([]*ast.TypedExpr, len(args))
	actuals := make([]types.Actual, len(args))
	for i, arg := range args {
		te := a.typeExpr(arg)
		typed[i] = te
		actuals[i] = types.Actual{Ad: te.Meta.Ad, Type: te.Meta.Type}
	}
	return typed, actuals
}

// resolveCall implements §4.5.4's FunApp overload-resolution rule set —
// symbol-table lookup (rejecting non-function bindings), then catalog or
// user-defined signature matching — shared by FunApp and CondDistApp
// typing. A returned kind of FunUnresolved means the caller should return
// its recovery expression immediately: the diagnostic for that case (not a
// function / no such function) has already been reported.
func (a *Analyzer) resolveCall(name string, actuals []types.Actual, span diagnostics.SourceSpan) (ast.FunKind, types.ReturnType, bool) {
	if b, ok := a.tab.Look(name); ok && b.Type.Kind != types.KFun {
		a.report(diagnostics.IllTypedNotAFunction, span, "%q does not name a function", name)
		return ast.FunUnresolved, types.ReturnType{}, false
	}

	kind := a.classifyFunKind(name)
	switch kind {
	case ast.FunUserDefined:
		sig, found := a.funcs[name]
		if !found {
			a.report(diagnostics.IllTypedNoSuchFunction, span, "no such function %q", name)
			return ast.FunUnresolved, types.ReturnType{}, false
		}
		formals := make([]types.Formal, len(sig.params))
		for i, param := range sig.params {
			formals[i] = types.Formal{Ad: param.Ad, Type: param.Type}
		}
		if !types.CompatibleArgumentsModConv(name, formals, actuals) {
			return kind, types.ReturnType{}, false
		}
		return kind, sig.returnType, true
	default:
		rt, ok := a.cat.ReturnType(name, actuals)
		return kind, rt, ok
	}
}

func (a *Analyzer) typeFunApp(p *ast.FunApp[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	a.checkSuffixRestrictions(p.Name, span)
	typedArgs, actuals := a.typeArgs(p.Args)
	ads := make([]types.AdLevel, len(actuals))
	for i, act := range actuals {
		ads[i] = act.Ad
	}

	kind, rt, ok := a.resolveCall(p.Name, actuals, span)
	if kind == ast.FunUnresolved {
		return ir.NewExpr[ir.TypedLocated](&ast.FunApp[ir.TypedLocated]{Kind: ast.FunUnresolved, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	if !ok {
		a.report(diagnostics.IllTypedFunctionApp, span, "no matching overload for %s(%s)", p.Name, formatActuals(actuals))
		return ir.NewExpr[ir.TypedLocated](&ast.FunApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	if rt.Kind == types.RVoid {
		a.report(diagnostics.IllTypedNRFunction, span, "%q does not return a value", p.Name)
		return ir.NewExpr[ir.TypedLocated](&ast.FunApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	return ir.NewExpr[ir.TypedLocated](&ast.FunApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(rt.Type, lubAd(ads...), span))
}

// distSuffixes are the distribution-naming suffixes §4.5.4 requires of a
// CondDistApp callee — the density/mass/cdf family, as opposed to the
// `_rng`/`_lp` placement suffixes gated by checkSuffixRestrictions.
var distSuffixes = []string{"_lpdf", "_lpmf", "_lcdf", "_lccdf", "_log", "_cdf", "_ccdf"}

func hasDistSuffix(name string) bool {
	for _, s := range distSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// typeCondDistApp implements §4.5.4's CondDistApp rule: typed as FunApp,
// additionally requiring name to end with a distribution suffix.
func (a *Analyzer) typeCondDistApp(p *ast.CondDistApp[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	if !hasDistSuffix(p.Name) {
		a.report(diagnostics.IllTypedFunctionApp, span, "%s: a conditional-density expression requires a distribution-suffixed name (_lpdf, _lpmf, _lcdf, _lccdf, _log, _cdf, or _ccdf)", p.Name)
	}
	typedArgs, actuals := a.typeArgs(p.Args)
	ads := make([]types.AdLevel, len(actuals))
	for i, act := range actuals {
		ads[i] = act.Ad
	}

	kind, rt, ok := a.resolveCall(p.Name, actuals, span)
	if kind == ast.FunUnresolved {
		return ir.NewExpr[ir.TypedLocated](&ast.CondDistApp[ir.TypedLocated]{Kind: ast.FunUnresolved, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	if !ok {
		a.report(diagnostics.IllTypedFunctionApp, span, "no matching overload for %s(%s)", p.Name, formatActuals(actuals))
		return ir.NewExpr[ir.TypedLocated](&ast.CondDistApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	if rt.Kind == types.RVoid {
		a.report(diagnostics.IllTypedNRFunction, span, "%q does not return a value", p.Name)
		return ir.NewExpr[ir.TypedLocated](&ast.CondDistApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(recoveryType, types.DataOnly, span))
	}
	return ir.NewExpr[ir.TypedLocated](&ast.CondDistApp[ir.TypedLocated]{Kind: kind, Name: p.Name, Args: typedArgs}, meta(rt.Type, lubAd(ads...), span))
}

func formatActuals(actuals []types.Actual) string {
	var sb strings.Builder
	for i, a := range actuals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Type.String())
	}
	return sb.String()
}

func (a *Analyzer) typeTernaryIf(p *ast.TernaryIf[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	cond := a.typeExpr(p.Cond)
	then := a.typeExpr(p.Then)
	els := a.typeExpr(p.Else)
	joined, ok := unify(then.Meta.Type, els.Meta.Type)
	if !intOrReal(cond.Meta.Type) || !ok {
		a.report(diagnostics.IllTypedTernaryIf, span, "incompatible ternary branches: cond=%s then=%s else=%s", cond.Meta.Type, then.Meta.Type, els.Meta.Type)
		joined = recoveryType
	}
	ad := lubAd(cond.Meta.Ad, then.Meta.Ad, els.Meta.Ad)
	return ir.NewExpr[ir.TypedLocated](&ast.TernaryIf[ir.TypedLocated]{Cond: cond, Then: then, Else: els}, meta(joined, ad, span))
}

func (a *Analyzer) typeEAnd(p *ast.EAnd[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	left := a.typeExpr(p.Left)
	right := a.typeExpr(p.Right)
	if !intOrReal(left.Meta.Type) || !intOrReal(right.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "&& requires int or real operands, got %s and %s", left.Meta.Type, right.Meta.Type)
	}
	ad := lubAd(left.Meta.Ad, right.Meta.Ad)
	return ir.NewExpr[ir.TypedLocated](&ast.EAnd[ir.TypedLocated]{Left: left, Right: right}, meta(types.Int(), ad, span))
}

func (a *Analyzer) typeEOr(p *ast.EOr[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	left := a.typeExpr(p.Left)
	right := a.typeExpr(p.Right)
	if !intOrReal(left.Meta.Type) || !intOrReal(right.Meta.Type) {
		a.report(diagnostics.IllTypedBinOp, span, "|| requires int or real operands, got %s and %s", left.Meta.Type, right.Meta.Type)
	}
	ad := lubAd(left.Meta.Ad, right.Meta.Ad)
	return ir.NewExpr[ir.TypedLocated](&ast.EOr[ir.TypedLocated]{Left: left, Right: right}, meta(types.Int(), ad, span))
}

func (a *Analyzer) typeIndexed(p *ast.Indexed[ir.NoMeta], span diagnostics.SourceSpan) *ast.TypedExpr {
	object := a.typeExpr(p.Object)
	typedIndices := make([]ast.Index[ir.TypedLocated], len(p.Indices))
	kinds := make([]ast.IndexKind, len(p.Indices))
	for i, idx := range p.Indices {
		typedIndices[i], kinds[i] = a.typeIndex(idx)
	}
	result, ok := reduceRank(object.Meta.Type, kinds)
	if !ok {
		a.report(diagnostics.InvalidIndex, span, "cannot index %s with %d index(es)", object.Meta.Type, len(kinds))
		result = recoveryType
	}
	return ir.NewExpr[ir.TypedLocated](&ast.Indexed[ir.TypedLocated]{Object: object, Indices: typedIndices}, meta(result, object.Meta.Ad, span))
}

// typeIndex types one Index and returns its effective rank-reduction
// kind: a Single index whose expression type is an int array is treated
// as Multi, per §4.5.4.
func (a *Analyzer) typeIndex(idx ast.Index[ir.NoMeta]) (ast.Index[ir.TypedLocated], ast.IndexKind) {
	switch idx.Kind {
	case ast.IndexAll:
		return ast.All[ir.TypedLocated](), ast.IndexAll
	case ast.IndexBetween:
		lo := a.typeExpr(idx.Lower)
		hi := a.typeExpr(idx.Upper)
		return ast.Between(lo, hi), ast.IndexBetween
	default:
		lower := a.typeExpr(idx.Lower)
		effective := idx.Kind
		if idx.Kind == ast.IndexSingle && lower.Meta.Type.Kind == types.KArray && lower.Meta.Type.Elem.Kind == types.KInt {
			effective = ast.IndexMulti
		}
		rebuilt := ast.Index[ir.TypedLocated]{Kind: idx.Kind, Lower: lower}
		return rebuilt, effective
	}
}

// reduceRank implements §4.5.5's indexing rank-reduction rules.
func reduceRank(base types.UnsizedType, kinds []ast.IndexKind) (types.UnsizedType, bool) {
	if len(kinds) == 0 {
		return base, true
	}
	switch base.Kind {
	case types.KArray:
		inner, ok := reduceRank(*base.Elem, kinds[1:])
		if !ok {
			return types.UnsizedType{}, false
		}
		if kinds[0] == ast.IndexSingle {
			return inner, true
		}
		return types.Array(inner), true
	case types.KMatrix:
		if len(kinds) == 2 && kinds[0] != ast.IndexSingle && kinds[1] == ast.IndexSingle {
			return types.Vector(), true
		}
		var next types.UnsizedType
		if kinds[0] == ast.IndexSingle {
			next = types.RowVector()
		} else {
			next = types.Matrix()
		}
		return reduceRank(next, kinds[1:])
	case types.KVector, types.KRowVector:
		var next types.UnsizedType
		if kinds[0] == ast.IndexSingle {
			next = types.Real()
		} else {
			next = base
		}
		return reduceRank(next, kinds[1:])
	default:
		return types.UnsizedType{}, false
	}
}
