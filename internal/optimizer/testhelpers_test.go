package optimizer

import (
	"modelc/internal/ast"
	"modelc/internal/catalog"
	"modelc/internal/diagnostics"
	"modelc/internal/ir"
	"modelc/internal/mir"
	"modelc/internal/types"
)

var testCatalog = catalog.MustLoad()

var nextTestLabel = 0

func freshLabel() int {
	nextTestLabel++
	return nextTestLabel
}

func meta(t types.UnsizedType, ad types.AdLevel) ir.Labeled {
	return ir.Labeled{TypedLocated: ir.TypedLocated{Type: t, Ad: ad, Span: diagnostics.SourceSpan{}}, Label: freshLabel()}
}

func intLit(n int64) *mir.Expr {
	return newIntLit(meta(types.Int(), types.DataOnly), n)
}

func realLit(f float64) *mir.Expr {
	return newRealLit(meta(types.Real(), types.DataOnly), f)
}

func realVar(name string) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Var[ir.Labeled]{Name: name}, meta(types.Real(), types.AutoDiffable))
}

func matrixVar(name string) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Var[ir.Labeled]{Name: name}, meta(types.Matrix(), types.AutoDiffable))
}

func vectorVar(name string) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Var[ir.Labeled]{Name: name}, meta(types.Vector(), types.AutoDiffable))
}

func intVar(name string) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Var[ir.Labeled]{Name: name}, meta(types.Int(), types.DataOnly))
}

func binCall(name string, l, r *mir.Expr) *mir.Expr {
	ad := types.DataOnly
	if l.Meta.Ad == types.AutoDiffable || r.Meta.Ad == types.AutoDiffable {
		ad = types.AutoDiffable
	}
	return ir.NewExpr[ir.Labeled](&ast.FunApp[ir.Labeled]{Kind: ast.FunStanLib, Name: name, Args: []*mir.Expr{l, r}}, meta(types.Real(), ad))
}

func call1(name string, arg *mir.Expr, retType types.UnsizedType) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.FunApp[ir.Labeled]{Kind: ast.FunStanLib, Name: name, Args: []*mir.Expr{arg}}, meta(retType, arg.Meta.Ad))
}

func callN(name string, args []*mir.Expr, retType types.UnsizedType) *mir.Expr {
	ad := types.DataOnly
	for _, a := range args {
		if a.Meta.Ad == types.AutoDiffable {
			ad = types.AutoDiffable
		}
	}
	return ir.NewExpr[ir.Labeled](&ast.FunApp[ir.Labeled]{Kind: ast.FunStanLib, Name: name, Args: args}, meta(retType, ad))
}

func stmtMeta() ir.StmtLabeled {
	return ir.StmtLabeled{StmtLocated: ir.StmtLocated{Span: diagnostics.SourceSpan{}}, Label: freshLabel()}
}

func breakStmt() *mir.Stmt {
	return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&ast.Break[ir.Labeled, ir.StmtLabeled]{}, stmtMeta())
}

func continueStmt() *mir.Stmt {
	return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&ast.Continue[ir.Labeled, ir.StmtLabeled]{}, stmtMeta())
}

func ifElseStmt(cond *mir.Expr, then, els *mir.Stmt) *mir.Stmt {
	return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&ast.IfElse[ir.Labeled, ir.StmtLabeled]{Cond: cond, Then: then, Else: els}, stmtMeta())
}

func whileStmt(cond *mir.Expr, body *mir.Stmt) *mir.Stmt {
	return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&ast.While[ir.Labeled, ir.StmtLabeled]{Cond: cond, Body: body}, stmtMeta())
}
