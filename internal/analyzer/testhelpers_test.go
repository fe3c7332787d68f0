package analyzer

import (
	"modelc/internal/ast"
	"modelc/internal/catalog"
	"modelc/internal/diagnostics"
	"modelc/internal/ir"
	"modelc/internal/symtab"
	"modelc/internal/types"
)

var testCatalog = catalog.MustLoad()

func newAnalyzer(opts Options, ctx context) *Analyzer {
	return &Analyzer{
		cat:   testCatalog,
		tab:   symtab.New(),
		sink:  diagnostics.NewSink(),
		opts:  opts,
		ctx:   ctx,
		funcs: map[string]*funcSignature{},
	}
}

// litInt builds an untyped integer literal expression.
func litInt(text string) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.Lit[ir.NoMeta]{Kind: ast.LitInt, Text: text}, ir.NoMeta{})
}

func litReal(text string) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.Lit[ir.NoMeta]{Kind: ast.LitReal, Text: text}, ir.NoMeta{})
}

func varExpr(name string) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.Var[ir.NoMeta]{Name: name}, ir.NoMeta{})
}

// autodiffReal binds name as an AutoDiffable real in a's table and returns a
// reference to it. Catalog formals default to AutoDiffable (see
// internal/catalog/typespec.go), and can_convert_ad forbids DataOnly flowing
// into an AutoDiffable requirement, so tests that call into the catalog need
// an AutoDiffable actual rather than a bare (always-DataOnly) literal.
func autodiffReal(a *Analyzer, name string) *ast.UntypedExpr {
	_ = a.tab.Enter(name, symtab.Binding{Origin: a.ctx.currentBlock, Type: types.Real(), Ad: types.AutoDiffable})
	return varExpr(name)
}

func callExpr(name string, args ...*ast.UntypedExpr) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.FunApp[ir.NoMeta]{Name: name, Args: args}, ir.NoMeta{})
}

func condDistApp(name string, args ...*ast.UntypedExpr) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.CondDistApp[ir.NoMeta]{Name: name, Args: args}, ir.NoMeta{})
}

func indexed(obj *ast.UntypedExpr, idxs ...ast.Index[ir.NoMeta]) *ast.UntypedExpr {
	return ir.NewExpr[ir.NoMeta](&ast.Indexed[ir.NoMeta]{Object: obj, Indices: idxs}, ir.NoMeta{})
}

func declStmt(ad types.AdLevel, name string, t ast.SizedType[ir.NoMeta]) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Decl[ir.NoMeta, ir.StmtNoMeta]{Ad: ad, Name: name, Type: t}, ir.StmtNoMeta{})
}

func assignStmt(lvalue *ast.UntypedExpr, op string, value *ast.UntypedExpr) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Assign[ir.NoMeta, ir.StmtNoMeta]{Lvalue: lvalue, Op: op, Value: value}, ir.StmtNoMeta{})
}

func blockStmt(stmts ...*ast.UntypedStmt) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Block[ir.NoMeta, ir.StmtNoMeta]{Stmts: stmts}, ir.StmtNoMeta{})
}

func returnStmt(value *ast.UntypedExpr) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Return[ir.NoMeta, ir.StmtNoMeta]{Value: value}, ir.StmtNoMeta{})
}

func ifElseStmt(cond *ast.UntypedExpr, then, els *ast.UntypedStmt) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.IfElse[ir.NoMeta, ir.StmtNoMeta]{Cond: cond, Then: then, Else: els}, ir.StmtNoMeta{})
}

func tildeStmt(arg *ast.UntypedExpr, dist string, args ...*ast.UntypedExpr) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.Tilde[ir.NoMeta, ir.StmtNoMeta]{Arg: arg, Distribution: dist, Args: args}, ir.StmtNoMeta{})
}

func nrFunAppStmt(name string, args ...*ast.UntypedExpr) *ast.UntypedStmt {
	return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&ast.NRFunApp[ir.NoMeta, ir.StmtNoMeta]{Name: name, Args: args}, ir.StmtNoMeta{})
}
