package analyzer

import (
	"testing"

	"modelc/internal/ast"
	"modelc/internal/ir"
	"modelc/internal/symtab"
	"modelc/internal/types"
)

func TestCheckDeclEntersBinding(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Data})
	_, status := a.checkStmt(declStmt(types.DataOnly, "n", ast.MkSInt[ir.NoMeta]()))
	if a.sink.HasErrors() {
		t.Fatalf("declaring a fresh int should not report, got: %v", a.sink.Diagnostics())
	}
	if status.Kind != StatusNone {
		t.Fatalf("a decl contributes no return status, got %v", status.Kind)
	}
	b, ok := a.tab.Look("n")
	if !ok || b.Type.Kind != types.KInt || b.Origin != types.Data {
		t.Fatalf("Decl should enter a data-origin int binding, got %+v, ok=%v", b, ok)
	}
}

func TestCheckDeclRejectsModelName(t *testing.T) {
	a := newAnalyzer(Options{ModelName: "taken"}, context{currentBlock: types.Data})
	a.checkStmt(declStmt(types.DataOnly, "taken", ast.MkSInt[ir.NoMeta]()))
	if !a.sink.HasErrors() {
		t.Fatalf("declaring a name equal to the model name should be rejected")
	}
}

func TestCheckDeclRejectsIntInParamBlock(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Param})
	a.checkStmt(declStmt(types.AutoDiffable, "k", ast.MkSInt[ir.NoMeta]()))
	if !a.sink.HasErrors() {
		t.Fatalf("an integer-typed parameter should be rejected")
	}
}

func TestCheckDeclDuplicateInSameScope(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Data})
	a.checkStmt(declStmt(types.DataOnly, "n", ast.MkSInt[ir.NoMeta]()))
	a.checkStmt(declStmt(types.DataOnly, "n", ast.MkSInt[ir.NoMeta]()))
	if !a.sink.HasErrors() {
		t.Fatalf("redeclaring n in the same frame should be rejected")
	}
}

func TestCheckAssignTypeMismatch(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TData})
	_ = a.tab.Enter("x", symtab.Binding{Origin: types.TData, Type: types.Int(), Ad: types.DataOnly})
	a.checkStmt(assignStmt(varExpr("x"), "assign_", litReal("1.5")))
	if !a.sink.HasErrors() {
		t.Fatalf("assigning a real literal to an int should be rejected under assign_'s exact-match rule")
	}
}

func TestCheckAssignIntToRealRejectedUnderExactMatch(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TData})
	_ = a.tab.Enter("x", symtab.Binding{Origin: types.TData, Type: types.Real(), Ad: types.DataOnly})
	a.checkStmt(assignStmt(varExpr("x"), "assign_", litInt("1")))
	if !a.sink.HasErrors() {
		t.Fatalf("assigning int to real should be rejected under assign_'s exact-match rule (no widening)")
	}
}

func TestCheckAssignReadOnlyRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Model})
	_ = a.tab.Enter("i", symtab.Binding{Origin: types.Functions, Type: types.Int(), Ad: types.DataOnly, ReadOnly: true})
	a.checkStmt(assignStmt(varExpr("i"), "assign_", litInt("2")))
	if !a.sink.HasErrors() {
		t.Fatalf("assigning to a read-only loop variable should be rejected")
	}
}

func TestCheckBlockSequencerStopsAtReturn(t *testing.T) {
	a := newAnalyzer(Options{}, context{
		currentBlock: types.Functions, inFunDef: true, inReturningFunDef: true,
		expectedReturn: types.Returning(types.Real()),
	})
	body := blockStmt(
		returnStmt(litReal("1.0")),
		declStmt(types.DataOnly, "unreachable", ast.MkSInt[ir.NoMeta]()),
	)
	_, status := a.checkStmt(body)
	if status.Kind != StatusComplete {
		t.Fatalf("a block starting with return should report Complete, got %v", status.Kind)
	}
}

func TestCheckIfElseJoinBothComplete(t *testing.T) {
	a := newAnalyzer(Options{}, context{
		currentBlock: types.Functions, inFunDef: true, inReturningFunDef: true,
		expectedReturn: types.Returning(types.Real()),
	})
	stmt := ifElseStmt(litInt("1"), returnStmt(litReal("1.0")), returnStmt(litReal("2.0")))
	_, status := a.checkStmt(stmt)
	if status.Kind != StatusComplete {
		t.Fatalf("if/else with both branches returning should be Complete, got %v", status.Kind)
	}
}

func TestCheckIfElseJoinOneBranchMissing(t *testing.T) {
	a := newAnalyzer(Options{}, context{
		currentBlock: types.Functions, inFunDef: true, inReturningFunDef: true,
		expectedReturn: types.Returning(types.Real()),
	})
	stmt := ifElseStmt(litInt("1"), returnStmt(litReal("1.0")), nil)
	_, status := a.checkStmt(stmt)
	if status.Kind != StatusIncomplete {
		t.Fatalf("if without an else should weaken Complete to Incomplete, got %v", status.Kind)
	}
}

func TestCheckFunDefRequiresExhaustiveReturn(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	fn := ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.FunDef[ir.NoMeta, ir.StmtNoMeta]{
		ReturnType: types.Returning(types.Real()),
		Name:       "half",
		Params:     []ast.Param{{Ad: types.DataOnly, Name: "x", Type: types.Real()}},
		Body:       blockStmt(declStmt(types.DataOnly, "y", ast.MkSReal[ir.NoMeta]())),
	}, ir.StmtNoMeta{})
	a.checkStmt(fn)
	if !a.sink.HasErrors() {
		t.Fatalf("a non-void function with no return statement should be rejected")
	}
}

func TestCheckFunDefExhaustiveReturnOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	fn := ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.FunDef[ir.NoMeta, ir.StmtNoMeta]{
		ReturnType: types.Returning(types.Real()),
		Name:       "half",
		Params:     []ast.Param{{Ad: types.DataOnly, Name: "x", Type: types.Real()}},
		Body:       blockStmt(returnStmt(varExpr("x"))),
	}, ir.StmtNoMeta{})
	a.checkStmt(fn)
	if a.sink.HasErrors() {
		t.Fatalf("a function that always returns should not be rejected, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckTildeOutsideModelRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TData})
	_ = a.tab.Enter("y", symtab.Binding{Origin: types.TData, Type: types.Real(), Ad: types.AutoDiffable})
	mu := autodiffReal(a, "mu")
	sigma := autodiffReal(a, "sigma")
	a.checkStmt(tildeStmt(varExpr("y"), "normal", mu, sigma))
	if !a.sink.HasErrors() {
		t.Fatalf("a ~ statement outside the model block or an _lp function should be rejected")
	}
}

func TestCheckTildeInModelOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Model})
	_ = a.tab.Enter("y", symtab.Binding{Origin: types.Model, Type: types.Real(), Ad: types.AutoDiffable})
	mu := autodiffReal(a, "mu")
	sigma := autodiffReal(a, "sigma")
	a.checkStmt(tildeStmt(varExpr("y"), "normal", mu, sigma))
	if a.sink.HasErrors() {
		t.Fatalf("y ~ normal(mu, sigma) in the model block should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckNRFunAppRngOutsideAllowedBlocksRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Model})
	a.checkStmt(nrFunAppStmt("normal_rng", litReal("0"), litReal("1")))
	if !a.sink.HasErrors() {
		t.Fatalf("normal_rng() in the model block should be rejected")
	}
}

func TestCheckNRFunAppRngInGQuantOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.GQuant})
	a.checkStmt(nrFunAppStmt("normal_rng", litReal("0"), litReal("1")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_rng() in generated quantities should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckNRFunAppRngInRngFunctionOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Functions, inRngFunDef: true})
	a.checkStmt(nrFunAppStmt("normal_rng", litReal("0"), litReal("1")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_rng() inside a _rng function should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckNRFunAppLpOutsideModelRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.TParam})
	a.checkStmt(nrFunAppStmt("normal_lpdf", autodiffReal(a, "y"), autodiffReal(a, "mu"), autodiffReal(a, "sigma")))
	if !a.sink.HasErrors() {
		t.Fatalf("normal_lpdf() outside the model block or a _lp function should be rejected")
	}
}

func TestCheckNRFunAppLpInModelOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Model})
	a.checkStmt(nrFunAppStmt("normal_lpdf", autodiffReal(a, "y"), autodiffReal(a, "mu"), autodiffReal(a, "sigma")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_lpdf() in the model block should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckNRFunAppLpInLpFunctionOK(t *testing.T) {
	a := newAnalyzer(Options{}, context{currentBlock: types.Functions, inLpFunDef: true})
	a.checkStmt(nrFunAppStmt("normal_lpdf", autodiffReal(a, "y"), autodiffReal(a, "mu"), autodiffReal(a, "sigma")))
	if a.sink.HasErrors() {
		t.Fatalf("normal_lpdf() inside a _lp function should type-check, got: %v", a.sink.Diagnostics())
	}
}

func TestCheckBreakOutsideLoopRejected(t *testing.T) {
	a := newAnalyzer(Options{}, context{})
	brk := ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Break[ir.NoMeta, ir.StmtNoMeta]{}, ir.StmtNoMeta{})
	a.checkStmt(brk)
	if !a.sink.HasFatal() {
		t.Fatalf("break outside a loop should raise a fatal diagnostic")
	}
}
