package analyzer

// reservedWords is the fixed keyword set of §4.5.1: language keywords
// plus target-backend keywords. Held verbatim rather than derived, per
// the spec's instruction that this list is held verbatim by the
// implementation.
var reservedWords = map[string]bool{
	"for": true, "in": true, "while": true, "repeat": true, "until": true,
	"if": true, "else": true, "then": true,
	"true": true, "false": true,
	"target": true, "return": true, "break": true, "continue": true,
	"void": true, "int": true, "real": true,
	"vector": true, "row_vector": true, "matrix": true, "array": true,
	"simplex": true, "unit_vector": true, "ordered": true, "positive_ordered": true,
	"cholesky_factor_corr": true, "cholesky_factor_cov": true,
	"corr_matrix": true, "cov_matrix": true,
	"functions": true, "model": true, "data": true, "parameters": true,
	"quantities": true, "transformed": true, "generated": true,
	"var": true, "fvar": true,
	"lower": true, "upper": true, "offset": true, "multiplier": true,
	"print": true, "reject": true, "get_lp": true, "increment_log_prob": true,
	"profile": true, "jacobian": true,
	"STAN_MAJOR": true, "STAN_MINOR": true, "STAN_PATCH": true,
	"STAN_MATH_MAJOR": true, "STAN_MATH_MINOR": true, "STAN_MATH_PATCH": true,
}

func isReserved(name string) bool {
	return reservedWords[name]
}
