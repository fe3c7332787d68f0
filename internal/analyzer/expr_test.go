package analyzer

import (
	"testing"

	"modelc/internal/ast"
	"modelc/internal/ir"
	"modelc/internal/symtab"
	"modelc/internal/types"
)

func TestTypeLit(t *testing.T) {
	a := newAnalyzer(Options{}, context{})

	got := a.typeExpr(litInt("3"))
	if got.Meta.Type.Kind != types.KInt {
		t.Fatalf("literal 3 got type %s, want int", got.Meta.Type)
	}
	if got.Meta.Ad != types.DataOnly {
		t.Fatalf("literal 3 got ad %s, want data", got.Meta.Ad)
	}

	got = a.typeExpr(litReal("3.5"))
	if got.Meta.Type.Kind != types.KReal {
		t.Fatalf("literal 3.5 got type %s, want real", got.Meta.Type)
	}
}

func TestTypeVarLooksUpBinding(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	_ = a.tab.Enter("x", symtab.Binding{Origin: types.Param, Type: types.Real(), Ad: types.AutoDiffable})

	got := a.typeExpr(varExpr("x"))
	if got.Meta.Type.Kind != types.KReal || got.Meta.Ad != types.AutoDiffable {
		t.Fatalf("typeVar(x) = %+v, want real/autodiffable", got.Meta)
	}
}

func TestTypeVarUnboundReportsDiagnostic(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	a.typeExpr(varExpr("nope"))
	if !a.sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an unbound identifier")
	}
}

func TestTypeFunAppCatalogOverload(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	x := autodiffReal(a, "x")
	got := a.typeExpr(callExpr("exp", x))
	if a.sink.HasErrors() {
		t.Fatalf("exp(x) should resolve cleanly, got diagnostics: %v", a.sink.Diagnostics())
	}
	if got.Meta.Type.Kind != types.KReal {
		t.Fatalf("exp(real) = %s, want real", got.Meta.Type)
	}
}

func TestTypeFunAppNoSuchOverload(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	x := autodiffReal(a, "x")
	a.typeExpr(callExpr("exp", x, x))
	if !a.sink.HasErrors() {
		t.Fatalf("exp/2 should fail to resolve")
	}
}

func TestTypeFunAppUnknownUserDefined(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	a.typeExpr(callExpr("totally_unknown_function", litReal("1.0")))
	if !a.sink.HasErrors() {
		t.Fatalf("a name absent from both scope and catalog should fail to resolve")
	}
}

func TestTypeFunAppRngOutsideAllowedBlocksRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Model})
	a.typeExpr(callExpr("normal_rng", litReal("0"), litReal("1")))
	if !a.sink.HasErrors() {
		t.Fatalf("normal_rng() used as an expression in the model block should be rejected")
	}
}

func TestTypeFunAppRngInTDataOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TData})
	a.typeExpr(callExpr("normal_rng", litReal("0"), litReal("1")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_rng() in transformed data should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestTypeFunAppLpOutsideModelRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TParam})
	a.typeExpr(callExpr("normal_lpdf", autodiffReal(a, "y"), autodiffReal(a, "mu"), autodiffReal(a, "sigma")))
	if !a.sink.HasErrors() {
		t.Fatalf("normal_lpdf() used as an expression outside the model block or a _lp function should be rejected")
	}
}

func TestTypeFunAppLpInLpFunctionOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Functions, inLpFunDef: true})
	a.typeExpr(callExpr("normal_lpdf", autodiffReal(a, "y"), autodiffReal(a, "mu"), autodiffReal(a, "sigma")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_lpdf() inside a _lp function should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestTypeCondDistAppRequiresDistributionSuffix(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	x := autodiffReal(a, "x")
	a.typeExpr(condDistApp("exp", x))
	if !a.sink.HasErrors() {
		t.Fatalf("a CondDistApp callee without a distribution suffix should be rejected")
	}
}

func TestTypeCondDistAppWithDistributionSuffixOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	y := autodiffReal(a, "y")
	mu := autodiffReal(a, "mu")
	sigma := autodiffReal(a, "sigma")
	got := a.typeExpr(condDistApp("normal_lpdf", y, mu, sigma))
	if a.sink.HasErrors() {
		t.Fatalf("normal_lpdf(y, mu, sigma) as a CondDistApp should type-check, got: %v", a.sink.Diagnostics())
	}
	if got.Meta.Type.Kind != types.KReal {
		t.Fatalf("normal_lpdf(...) = %s, want real", got.Meta.Type)
	}
}

func TestTypeTernaryIf(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	got := a.typeExpr(ir.NewExpr[ir.NoMeta](&ast.TernaryIf[ir.NoMeta]{
		Cond: litInt("1"), Then: litInt("2"), Else: litReal("3.0"),
	}, ir.NoMeta{}))
	if a.sink.HasErrors() {
		t.Fatalf("int ? int : real should unify to real, got diagnostics: %v", a.sink.Diagnostics())
	}
	if got.Meta.Type.Kind != types.KReal {
		t.Fatalf("ternary result = %s, want real", got.Meta.Type)
	}
}

func TestTypeTernaryIfIncompatibleBranches(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	_ = a.tab.Enter("v", symtab.Binding{Origin: types.Data, Type: types.Vector(), Ad: types.DataOnly})
	a.typeExpr(ir.NewExpr[ir.NoMeta](&ast.TernaryIf[ir.NoMeta]{
		Cond: litInt("1"), Then: litInt("2"), Else: varExpr("v"),
	}, ir.NoMeta{}))
	if !a.sink.HasErrors() {
		t.Fatalf("int vs. vector branches should fail to unify")
	}
}

func TestReduceRankArrayOfMatrixThreeIndices(t *testing.T) {
	base := types.Array(types.Matrix())
	got, ok := reduceRank(base, []ast.IndexKind{ast.IndexSingle, ast.IndexMulti, ast.IndexSingle})
	if !ok {
		t.Fatalf("reduceRank should succeed")
	}
	if got.Kind != types.KVector {
		t.Fatalf("array[matrix][single][multi][single] = %s, want vector", got)
	}
}

func TestReduceRankArrayElementOnly(t *testing.T) {
	base := types.Array(types.Real())
	got, ok := reduceRank(base, []ast.IndexKind{ast.IndexSingle})
	if !ok {
		t.Fatalf("reduceRank should succeed")
	}
	if got.Kind != types.KReal {
		t.Fatalf("array[real][single] = %s, want real", got)
	}
}

func TestReduceRankTooManyIndices(t *testing.T) {
	_, ok := reduceRank(types.Real(), []ast.IndexKind{ast.IndexSingle})
	if ok {
		t.Fatalf("indexing a real should fail")
	}
}

func TestTypeIndexedSingleIntArrayBecomesMulti(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	_ = a.tab.Enter("v", symtab.Binding{Origin: types.Data, Type: types.Vector(), Ad: types.DataOnly})
	_ = a.tab.Enter("idx", symtab.Binding{Origin: types.Data, Type: types.Array(types.Int()), Ad: types.DataOnly})

	got := a.typeExpr(indexed(varExpr("v"), ast.Single[ir.NoMeta](varExpr("idx"))))
	if a.sink.HasErrors() {
		t.Fatalf("vector[int-array] should type-check, got diagnostics: %v", a.sink.Diagnostics())
	}
	if got.Meta.Type.Kind != types.KVector {
		t.Fatalf("vector indexed by an int array = %s, want vector (Single treated as Multi)", got.Meta.Type)
	}
}
