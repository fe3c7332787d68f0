package analyzer

import "strings"

// suffixSiblings implements §4.5.3's variant table literally: for a name
// ending in one of these suffixes, the freshness check additionally
// rejects the listed sibling suffixes of the same base name.
var suffixSiblings = map[string][]string{
	"_lpmf":     {"_lpdf", "_log"},
	"_lpdf":     {"_lpmf", "_log"},
	"_lcdf":     {"_cdf_log"},
	"_lccdf":    {"_ccdf_log"},
	"_cdf_log":  {"_lcdf"},
	"_ccdf_log": {"_lccdf"},
	"_log":      {"_lpmf", "_lpdf"},
}

// exemptFromSuffixRule holds the names that end with a tracked suffix but
// are treated as plain names, per §4.5.3.
var exemptFromSuffixRule = map[string]bool{
	"multiply_log":             true,
	"binomial_coefficient_log": true,
}

// distributionSiblings returns the full sibling names the freshness check
// must also reject for name, per the literal mapping of §4.5.3. Returns
// nil if name carries no tracked suffix, or is exempt.
func distributionSiblings(name string) []string {
	if exemptFromSuffixRule[name] {
		return nil
	}
	// The longest matching suffix wins, so "_cdf_log" is not read as "_log".
	best := ""
	for suffix := range suffixSiblings {
		if strings.HasSuffix(name, suffix) && len(suffix) > len(best) {
			best = suffix
		}
	}
	if best == "" {
		return nil
	}
	base := strings.TrimSuffix(name, best)
	siblings := suffixSiblings[best]
	out := make([]string, len(siblings))
	for i, s := range siblings {
		out[i] = base + s
	}
	return out
}

// checkFreshBuiltin implements the built-in half of §4.5.2's check_fresh:
// a name (and, per §4.5.3, its distribution-suffix siblings) fails
// freshness if it matches a built-in and either is_nullary is true or the
// built-in has no zero-arity overload. The scope-binding half of
// check_fresh is implemented by symtab.Table.Enter's own same-frame
// duplicate check (IdentifierInUse); this function covers the built-in
// collision that Enter cannot see.
func (a *Analyzer) checkFreshBuiltin(name string, isNullary bool) bool {
	names := append([]string{name}, distributionSiblings(name)...)
	for _, n := range names {
		if !a.cat.Has(n) {
			continue
		}
		if isNullary {
			return false
		}
		if !a.hasNullaryOverload(n) {
			return false
		}
	}
	return true
}

func (a *Analyzer) hasNullaryOverload(name string) bool {
	for _, sig := range a.cat.Signatures(name) {
		if len(sig.Params) == 0 {
			return true
		}
	}
	return false
}
