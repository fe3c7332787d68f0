package optimizer

import (
	"modelc/internal/ast"
	"modelc/internal/ir"
	"modelc/internal/mir"
	"modelc/internal/types"
)

// candidate is a proposed rewrite: call name plus its argument list,
// not yet validated against the catalog.
type candidate struct {
	name string
	args []*mir.Expr
}

// rewriteRule inspects e and, if its shape matches, returns the
// specialized call it would become. Rules are tried in the §4.6.2
// listing order; the first whose candidate also survives the §4.6.3
// applicability guard wins.
type rewriteRule func(e *mir.Expr) (candidate, bool)

func funApp(e *mir.Expr) (*ast.FunApp[ir.Labeled], bool) {
	p, ok := e.Pattern.(*ast.FunApp[ir.Labeled])
	return p, ok
}

// call matches e as a call to name with exactly n arguments.
func call(e *mir.Expr, name string, n int) (*ast.FunApp[ir.Labeled], bool) {
	p, ok := funApp(e)
	if !ok || p.Name != name || len(p.Args) != n {
		return nil, false
	}
	return p, true
}

// isOneLit reports whether e is the literal 1 (int or real).
func isOneLit(e *mir.Expr) bool {
	f, _, ok := litValue(e)
	return ok && f == 1
}

func isLitValue(e *mir.Expr, want float64) bool {
	f, _, ok := litValue(e)
	return ok && f == want
}

// oneMinus/plusOneOf matches `1 - inner` / `1 + inner`, returning inner.
func oneMinus(e *mir.Expr) (*mir.Expr, bool) {
	p, ok := call(e, "Minus__", 2)
	if !ok || !isOneLit(p.Args[0]) {
		return nil, false
	}
	return p.Args[1], true
}

func onePlus(e *mir.Expr) (*mir.Expr, bool) {
	p, ok := call(e, "Plus__", 2)
	if ok && isOneLit(p.Args[0]) {
		return p.Args[1], true
	}
	p, ok = call(e, "Plus__", 2)
	if ok && isOneLit(p.Args[1]) {
		return p.Args[0], true
	}
	return nil, false
}

var specializedRules = []rewriteRule{
	// log(1 - exp(x)) -> log1m_exp(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		inner, ok := oneMinus(logArg)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(inner, "exp", 1); ok {
			return candidate{"log1m_exp", p.Args}, true
		}
		return candidate{}, false
	},
	// log(1 - inv_logit(x)) -> log1m_inv_logit(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		inner, ok := oneMinus(logArg)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(inner, "inv_logit", 1); ok {
			return candidate{"log1m_inv_logit", p.Args}, true
		}
		return candidate{}, false
	},
	// log(1 - x) -> log1m(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := oneMinus(logArg); ok {
			return candidate{"log1m", []*mir.Expr{inner}}, true
		}
		return candidate{}, false
	},
	// log(1 + exp(x)) -> log1p_exp(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		inner, ok := onePlus(logArg)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(inner, "exp", 1); ok {
			return candidate{"log1p_exp", p.Args}, true
		}
		return candidate{}, false
	},
	// log(1 + x) -> log1p(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := onePlus(logArg); ok {
			return candidate{"log1p", []*mir.Expr{inner}}, true
		}
		return candidate{}, false
	},
	// log(inv_logit(x)) -> log_inv_logit(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(logArg, "inv_logit", 1); ok {
			return candidate{"log_inv_logit", p.Args}, true
		}
		return candidate{}, false
	},
	// log(|det(x)|) -> log_determinant(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		abs, ok := call(logArg, "fabs", 1)
		if !ok {
			abs, ok = call(logArg, "abs", 1)
		}
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(abs.Args[0], "det", 1); ok {
			return candidate{"log_determinant", p.Args}, true
		}
		return candidate{}, false
	},
	// log(exp(x) - exp(y)) -> log_diff_exp(x,y)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		minus, ok := call(logArg, "Minus__", 2)
		if !ok {
			return candidate{}, false
		}
		lp, lok := call(minus.Args[0], "exp", 1)
		rp, rok := call(minus.Args[1], "exp", 1)
		if lok && rok {
			return candidate{"log_diff_exp", []*mir.Expr{lp.Args[0], rp.Args[0]}}, true
		}
		return candidate{}, false
	},
	// log(exp(x) + exp(y)) -> log_sum_exp(x,y)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		plus, ok := call(logArg, "Plus__", 2)
		if !ok {
			return candidate{}, false
		}
		lp, lok := call(plus.Args[0], "exp", 1)
		rp, rok := call(plus.Args[1], "exp", 1)
		if lok && rok {
			return candidate{"log_sum_exp", []*mir.Expr{lp.Args[0], rp.Args[0]}}, true
		}
		return candidate{}, false
	},
	// exp(x) - 1 -> expm1(x)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Minus__", 2)
		if !ok || !isOneLit(p.Args[1]) {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[0], "exp", 1); ok {
			return candidate{"expm1", inner.Args}, true
		}
		return candidate{}, false
	},
	// 1 - erf(x) -> erfc(x); 1 - erfc(x) -> erf(x)
	// 1 - gamma_p(x,y) -> gamma_q(x,y); 1 - gamma_q(x,y) -> gamma_p(x,y)
	func(e *mir.Expr) (candidate, bool) {
		inner, ok := oneMinus(e)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(inner, "erf", 1); ok {
			return candidate{"erfc", p.Args}, true
		}
		if p, ok := call(inner, "erfc", 1); ok {
			return candidate{"erf", p.Args}, true
		}
		if p, ok := call(inner, "gamma_p", 2); ok {
			return candidate{"gamma_q", p.Args}, true
		}
		if p, ok := call(inner, "gamma_q", 2); ok {
			return candidate{"gamma_p", p.Args}, true
		}
		return candidate{}, false
	},
	// x*y + z and z + x*y -> fma(x,y,z)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Plus__", 2)
		if !ok {
			return candidate{}, false
		}
		if times, ok := call(p.Args[0], "Times__", 2); ok {
			return candidate{"fma", []*mir.Expr{times.Args[0], times.Args[1], p.Args[1]}}, true
		}
		if times, ok := call(p.Args[1], "Times__", 2); ok {
			return candidate{"fma", []*mir.Expr{times.Args[0], times.Args[1], p.Args[0]}}, true
		}
		return candidate{}, false
	},
	// pow(2, x) -> exp2(x); pow(x, 2) -> square(x); pow(x, 0.5) -> sqrt(x)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "pow", 2)
		if !ok {
			p, ok = call(e, "Pow__", 2)
		}
		if !ok {
			return candidate{}, false
		}
		if isLitValue(p.Args[0], 2) {
			return candidate{"exp2", []*mir.Expr{p.Args[1]}}, true
		}
		if isLitValue(p.Args[1], 2) {
			return candidate{"square", []*mir.Expr{p.Args[0]}}, true
		}
		if isLitValue(p.Args[1], 0.5) {
			return candidate{"sqrt", []*mir.Expr{p.Args[0]}}, true
		}
		return candidate{}, false
	},
	// square(sd(x)) -> variance(x)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "square", 1)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[0], "sd", 1); ok {
			return candidate{"variance", inner.Args}, true
		}
		return candidate{}, false
	},
	// sqrt(2) -> sqrt2()
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "sqrt", 1)
		if !ok || !isLitValue(p.Args[0], 2) {
			return candidate{}, false
		}
		return candidate{"sqrt2", nil}, true
	},
	// sum(square(x - y)) -> squared_distance(x,y)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "sum", 1)
		if !ok {
			return candidate{}, false
		}
		sq, ok := call(p.Args[0], "square", 1)
		if !ok {
			return candidate{}, false
		}
		if minus, ok := call(sq.Args[0], "Minus__", 2); ok {
			return candidate{"squared_distance", minus.Args}, true
		}
		return candidate{}, false
	},
	// sum(diagonal(m)) -> trace(m)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "sum", 1)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[0], "diagonal", 1); ok {
			return candidate{"trace", inner.Args}, true
		}
		return candidate{}, false
	},
	// trace(quad_form(a,b)) -> trace_quad_form(a,b)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "trace", 1)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[0], "quad_form", 2); ok {
			return candidate{"trace_quad_form", inner.Args}, true
		}
		return candidate{}, false
	},
	// transpose(diag_matrix(v)) * a * diag_matrix(v) -> quad_form_diag(a,v)
	func(e *mir.Expr) (candidate, bool) {
		outer, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		inner, ok := call(outer.Args[0], "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		tr, ok := call(inner.Args[0], "Transpose__", 1)
		if !ok {
			return candidate{}, false
		}
		dv1, ok := call(tr.Args[0], "diag_matrix", 1)
		if !ok {
			return candidate{}, false
		}
		dv2, ok := call(outer.Args[1], "diag_matrix", 1)
		if !ok || !ir.EqualExpr(dv1.Args[0], dv2.Args[0]) {
			return candidate{}, false
		}
		return candidate{"quad_form_diag", []*mir.Expr{inner.Args[1], dv1.Args[0]}}, true
	},
	// transpose(b) * a * b -> quad_form(a,b)
	func(e *mir.Expr) (candidate, bool) {
		outer, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		inner, ok := call(outer.Args[0], "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		tr, ok := call(inner.Args[0], "Transpose__", 1)
		if !ok || !ir.EqualExpr(tr.Args[0], outer.Args[1]) {
			return candidate{}, false
		}
		return candidate{"quad_form", []*mir.Expr{inner.Args[1], outer.Args[1]}}, true
	},
	// m * diag_matrix(v) -> diag_post_multiply(m,v)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		if dv, ok := call(p.Args[1], "diag_matrix", 1); ok {
			return candidate{"diag_post_multiply", []*mir.Expr{p.Args[0], dv.Args[0]}}, true
		}
		return candidate{}, false
	},
	// diag_matrix(v) * m -> diag_pre_multiply(v,m)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		if dv, ok := call(p.Args[0], "diag_matrix", 1); ok {
			return candidate{"diag_pre_multiply", []*mir.Expr{dv.Args[0], p.Args[1]}}, true
		}
		return candidate{}, false
	},
	// matrix_exp(t * a) * b -> scale_matrix_exp_multiply(t,a,b). Tried
	// before the plain matrix_exp_multiply rule below since that rule's
	// matrix_exp(X) would otherwise match this X = t*a shape too.
	func(e *mir.Expr) (candidate, bool) {
		outer, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		me, ok := call(outer.Args[0], "matrix_exp", 1)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(me.Args[0], "Times__", 2); ok {
			return candidate{"scale_matrix_exp_multiply", []*mir.Expr{inner.Args[0], inner.Args[1], outer.Args[1]}}, true
		}
		return candidate{}, false
	},
	// matrix_exp(a) * b -> matrix_exp_multiply(a,b)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[0], "matrix_exp", 1); ok {
			return candidate{"matrix_exp_multiply", []*mir.Expr{inner.Args[0], p.Args[1]}}, true
		}
		return candidate{}, false
	},
	// x * log(y) -> multiply_log(x,y)
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(p.Args[1], "log", 1); ok {
			return candidate{"multiply_log", []*mir.Expr{p.Args[0], inner.Args[0]}}, true
		}
		return candidate{}, false
	},
	// columns_dot_product(x,x) -> columns_dot_self(x); analogous rows_/
	// plain dot_product; inv(sqrt(x)) -> inv_sqrt(x); inv(square(x)) ->
	// inv_square(x).
	func(e *mir.Expr) (candidate, bool) {
		if p, ok := call(e, "columns_dot_product", 2); ok && ir.EqualExpr(p.Args[0], p.Args[1]) {
			return candidate{"columns_dot_self", []*mir.Expr{p.Args[0]}}, true
		}
		if p, ok := call(e, "rows_dot_product", 2); ok && ir.EqualExpr(p.Args[0], p.Args[1]) {
			return candidate{"rows_dot_self", []*mir.Expr{p.Args[0]}}, true
		}
		if p, ok := call(e, "dot_product", 2); ok && ir.EqualExpr(p.Args[0], p.Args[1]) {
			return candidate{"dot_self", []*mir.Expr{p.Args[0]}}, true
		}
		if p, ok := call(e, "inv", 1); ok {
			if inner, ok := call(p.Args[0], "sqrt", 1); ok {
				return candidate{"inv_sqrt", inner.Args}, true
			}
			if inner, ok := call(p.Args[0], "square", 1); ok {
				return candidate{"inv_square", inner.Args}, true
			}
		}
		return candidate{}, false
	},
	// bernoulli_lpmf(y, inv_logit(a)) -> bernoulli_logit_lpmf(y,a);
	// bernoulli_rng(inv_logit(a)) -> bernoulli_logit_rng(a).
	func(e *mir.Expr) (candidate, bool) {
		if p, ok := call(e, "bernoulli_lpmf", 2); ok {
			if inv, ok := call(p.Args[1], "inv_logit", 1); ok {
				return candidate{"bernoulli_logit_lpmf", []*mir.Expr{p.Args[0], inv.Args[0]}}, true
			}
		}
		if p, ok := call(e, "bernoulli_rng", 1); ok {
			if inv, ok := call(p.Args[0], "inv_logit", 1); ok {
				return candidate{"bernoulli_logit_rng", inv.Args}, true
			}
		}
		return candidate{}, false
	},
	// bernoulli_lpmf(y, inv_logit(a + x*beta)) (either operand order) ->
	// bernoulli_logit_glm_lpmf(y, x, a, beta).
	func(e *mir.Expr) (candidate, bool) {
		p, ok := call(e, "bernoulli_lpmf", 2)
		if !ok {
			return candidate{}, false
		}
		inv, ok := call(p.Args[1], "inv_logit", 1)
		if !ok {
			return candidate{}, false
		}
		x, alpha, beta, ok := matchGLMLinearPredictor(inv.Args[0])
		if !ok {
			return candidate{}, false
		}
		return candidate{"bernoulli_logit_glm_lpmf", []*mir.Expr{p.Args[0], x, alpha, beta}}, true
	},
	// log(falling_factorial(x,n)) -> log_falling_factorial(x,n)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(logArg, "falling_factorial", 2); ok {
			return candidate{"log_falling_factorial", p.Args}, true
		}
		return candidate{}, false
	},
	// log(rising_factorial(x,n)) -> log_rising_factorial(x,n)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(logArg, "rising_factorial", 2); ok {
			return candidate{"log_rising_factorial", p.Args}, true
		}
		return candidate{}, false
	},
	// log(softmax(x)) -> log_softmax(x)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		if p, ok := call(logArg, "softmax", 1); ok {
			return candidate{"log_softmax", p.Args}, true
		}
		return candidate{}, false
	},
	// log(sum(exp(l))) -> log_sum_exp(l)
	func(e *mir.Expr) (candidate, bool) {
		logArg, ok := logOf(e)
		if !ok {
			return candidate{}, false
		}
		s, ok := call(logArg, "sum", 1)
		if !ok {
			return candidate{}, false
		}
		if inner, ok := call(s.Args[0], "exp", 1); ok {
			return candidate{"log_sum_exp", inner.Args}, true
		}
		return candidate{}, false
	},
	// trace(d * quad_form(a,b)) or trace(quad_form(a,b) * d) ->
	// trace_gen_quad_form(d,a,b). Relies on the quad_form rule above
	// having already reduced the nested transpose/Times chain, since
	// rules apply bottom-up: a node's children are fully rewritten
	// before the node itself is matched.
	func(e *mir.Expr) (candidate, bool) {
		tr, ok := call(e, "trace", 1)
		if !ok {
			return candidate{}, false
		}
		times, ok := call(tr.Args[0], "Times__", 2)
		if !ok {
			return candidate{}, false
		}
		if qf, ok := call(times.Args[1], "quad_form", 2); ok {
			return candidate{"trace_gen_quad_form", []*mir.Expr{times.Args[0], qf.Args[0], qf.Args[1]}}, true
		}
		if qf, ok := call(times.Args[0], "quad_form", 2); ok {
			return candidate{"trace_gen_quad_form", []*mir.Expr{times.Args[1], qf.Args[0], qf.Args[1]}}, true
		}
		return candidate{}, false
	},
}

// matchGLMLinearPredictor matches `a + x*beta` or `x*beta + a`, where a is
// a scalar real (the "zero-alpha" case is out of scope of this matcher
// and falls through to the plain GLM rule elsewhere if ever added), x is
// Matrix-typed, and beta is the coefficient vector.
func matchGLMLinearPredictor(e *mir.Expr) (x, alpha, beta *mir.Expr, ok bool) {
	p, ok := call(e, "Plus__", 2)
	if !ok {
		return nil, nil, nil, false
	}
	if times, ok := call(p.Args[1], "Times__", 2); ok && times.Args[0].Meta.Type.Kind == types.KMatrix {
		return times.Args[0], p.Args[0], times.Args[1], true
	}
	if times, ok := call(p.Args[0], "Times__", 2); ok && times.Args[0].Meta.Type.Kind == types.KMatrix {
		return times.Args[0], p.Args[1], times.Args[1], true
	}
	return nil, nil, nil, false
}

// logOf matches a call to "log" with one argument, returning that
// argument.
func logOf(e *mir.Expr) (*mir.Expr, bool) {
	p, ok := call(e, "log", 1)
	if !ok {
		return nil, false
	}
	return p.Args[0], true
}
