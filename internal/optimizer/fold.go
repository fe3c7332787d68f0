package optimizer

import (
	"strconv"

	"modelc/internal/ast"
	"modelc/internal/ir"
	"modelc/internal/mir"
)

// litValue reads a literal's numeric value, if e is one. ok is false for
// any non-literal expression.
func litValue(e *mir.Expr) (f float64, isInt bool, ok bool) {
	lit, isLit := e.Pattern.(*ast.Lit[ir.Labeled])
	if !isLit {
		return 0, false, false
	}
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return 0, false, false
		}
		return float64(n), true, true
	case ast.LitReal:
		r, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return 0, false, false
		}
		return r, false, true
	default:
		return 0, false, false
	}
}

func newIntLit(meta ir.Labeled, n int64) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Lit[ir.Labeled]{Kind: ast.LitInt, Text: strconv.FormatInt(n, 10)}, meta)
}

func newRealLit(meta ir.Labeled, f float64) *mir.Expr {
	return ir.NewExpr[ir.Labeled](&ast.Lit[ir.Labeled]{Kind: ast.LitReal, Text: strconv.FormatFloat(f, 'g', -1, 64)}, meta)
}

// truthy implements §4.6.1's "0/non-0 truthiness" for literal operands.
func truthy(f float64) bool { return f != 0 }

// foldExpr attempts the constant folding of §4.6.1: prefix/binary ops on
// Int/Real literals, EAnd/EOr short-circuit on literal operands, and the
// two TernaryIf-on-literal-condition shrinkages. It returns (result,
// true) when folding applied, else (e, false).
func foldExpr(e *mir.Expr) (*mir.Expr, bool) {
	switch p := e.Pattern.(type) {
	case *ast.FunApp[ir.Labeled]:
		return foldFunApp(e, p)
	case *ast.EAnd[ir.Labeled]:
		return foldEAnd(e, p)
	case *ast.EOr[ir.Labeled]:
		return foldEOr(e, p)
	case *ast.TernaryIf[ir.Labeled]:
		return foldTernary(e, p)
	case *ast.Indexed[ir.Labeled]:
		return foldIndexed(e, p)
	default:
		return e, false
	}
}

// foldIndexed implements §4.6.2's index-literal folding:
// `Indexed(make_array(e1,...,en), [i])` with i a positive integer literal
// in [1,n] reduces to e_i. `make_array` is an ordinary call by that name
// (§3 has no dedicated array-literal variant), so this matches on the
// callee name like any other specialized rewrite, but — like §4.6.1's
// constant folding and unlike the catalog-validated rules in
// rewrites.go — the result is an existing subexpression, not a new call,
// so there is nothing to re-validate against the catalog.
func foldIndexed(e *mir.Expr, p *ast.Indexed[ir.Labeled]) (*mir.Expr, bool) {
	lit, ok := p.Object.Pattern.(*ast.FunApp[ir.Labeled])
	if !ok || lit.Name != "make_array" {
		return e, false
	}
	if len(p.Indices) != 1 || p.Indices[0].Kind != ast.IndexSingle {
		return e, false
	}
	n, isInt, ok := litValue(p.Indices[0].Lower)
	if !ok || !isInt || n < 1 || int(n) > len(lit.Args) {
		return e, false
	}
	return lit.Args[int(n)-1], true
}

var prefixOps = map[string]bool{"UnaryPlus__": true, "UnaryMinus__": true, "LogicalNot__": true}

var binOps = map[string]bool{
	"Plus__": true, "Minus__": true, "Times__": true, "Divide__": true, "Modulo__": true,
	"Equals__": true, "NEquals__": true, "Less__": true, "LessOrEquals__": true,
	"Greater__": true, "GreaterOrEquals__": true,
}

var comparisonOps = map[string]bool{
	"Equals__": true, "NEquals__": true, "Less__": true, "LessOrEquals__": true,
	"Greater__": true, "GreaterOrEquals__": true,
}

func foldFunApp(e *mir.Expr, p *ast.FunApp[ir.Labeled]) (*mir.Expr, bool) {
	switch {
	case len(p.Args) == 1 && prefixOps[p.Name]:
		return foldPrefix(e, p)
	case len(p.Args) == 2 && binOps[p.Name]:
		return foldBinary(e, p)
	default:
		return e, false
	}
}

func foldPrefix(e *mir.Expr, p *ast.FunApp[ir.Labeled]) (*mir.Expr, bool) {
	f, isInt, ok := litValue(p.Args[0])
	if !ok {
		return e, false
	}
	switch p.Name {
	case "UnaryPlus__":
		return p.Args[0], true
	case "UnaryMinus__":
		if isInt {
			return newIntLit(e.Meta, -int64(f)), true
		}
		return newRealLit(e.Meta, -f), true
	case "LogicalNot__":
		if !truthy(f) {
			return newIntLit(e.Meta, 1), true
		}
		return newIntLit(e.Meta, 0), true
	default:
		return e, false
	}
}

func foldBinary(e *mir.Expr, p *ast.FunApp[ir.Labeled]) (*mir.Expr, bool) {
	lf, lInt, lok := litValue(p.Args[0])
	rf, rInt, rok := litValue(p.Args[1])
	if !lok || !rok {
		return e, false
	}
	bothInt := lInt && rInt

	if comparisonOps[p.Name] {
		var result bool
		switch p.Name {
		case "Equals__":
			result = lf == rf
		case "NEquals__":
			result = lf != rf
		case "Less__":
			result = lf < rf
		case "LessOrEquals__":
			result = lf <= rf
		case "Greater__":
			result = lf > rf
		case "GreaterOrEquals__":
			result = lf >= rf
		}
		if result {
			return newIntLit(e.Meta, 1), true
		}
		return newIntLit(e.Meta, 0), true
	}

	switch p.Name {
	case "Plus__":
		return foldArith(e, lf+rf, bothInt), true
	case "Minus__":
		return foldArith(e, lf-rf, bothInt), true
	case "Times__":
		return foldArith(e, lf*rf, bothInt), true
	case "Divide__":
		if rf == 0 {
			return e, false
		}
		if bothInt {
			return newIntLit(e.Meta, int64(lf)/int64(rf)), true
		}
		return newRealLit(e.Meta, lf/rf), true
	case "Modulo__":
		if !bothInt || int64(rf) == 0 {
			return e, false
		}
		return newIntLit(e.Meta, int64(lf)%int64(rf)), true
	default:
		return e, false
	}
}

func foldArith(e *mir.Expr, f float64, bothInt bool) *mir.Expr {
	if bothInt {
		return newIntLit(e.Meta, int64(f))
	}
	return newRealLit(e.Meta, f)
}

func foldEAnd(e *mir.Expr, p *ast.EAnd[ir.Labeled]) (*mir.Expr, bool) {
	lf, _, lok := litValue(p.Left)
	rf, _, rok := litValue(p.Right)
	switch {
	case lok && !truthy(lf):
		return newIntLit(e.Meta, 0), true
	case lok && rok:
		if truthy(lf) && truthy(rf) {
			return newIntLit(e.Meta, 1), true
		}
		return newIntLit(e.Meta, 0), true
	default:
		return e, false
	}
}

func foldEOr(e *mir.Expr, p *ast.EOr[ir.Labeled]) (*mir.Expr, bool) {
	lf, _, lok := litValue(p.Left)
	rf, _, rok := litValue(p.Right)
	switch {
	case lok && truthy(lf):
		return newIntLit(e.Meta, 1), true
	case lok && rok:
		if truthy(lf) || truthy(rf) {
			return newIntLit(e.Meta, 1), true
		}
		return newIntLit(e.Meta, 0), true
	default:
		return e, false
	}
}

// foldTernary implements TernaryIf(Lit(Int,"0"), _, e) -> e and
// TernaryIf(Lit(Int,k!=0), t, _) -> t.
func foldTernary(e *mir.Expr, p *ast.TernaryIf[ir.Labeled]) (*mir.Expr, bool) {
	f, isInt, ok := litValue(p.Cond)
	if !ok || !isInt {
		return e, false
	}
	if truthy(f) {
		return p.Then, true
	}
	return p.Else, true
}
