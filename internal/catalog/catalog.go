// Package catalog implements the built-in signature catalog of §4.2: a
// name-keyed table of overloaded signatures (functions, distributions, and
// operators alike — `Plus__`, `Minus__`, `TernaryIf` are names like any
// other) with overload resolution under the conversion rules of package
// types.
//
// Grounded on internal/compiler's two-pass HoistingCompiler, which
// resolves call sites against a registered builtin table before emitting
// bytecode; here the table is data (embedded YAML) rather than Go
// literals so it can grow without a recompile of the resolution logic,
// the way internal/module's manifest-driven package registry works.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"modelc/internal/types"
)

//go:embed builtins.yaml
var builtinsYAML []byte

// Signature is one overload: a tuple of formal parameters and a return
// type (possibly Void).
type Signature struct {
	Params []types.Formal
	Return types.ReturnType
}

// Catalog is the built-in table: name to the ordered list of its
// overloads, in declaration order (overload-resolution ties break on
// this order).
type Catalog struct {
	entries map[string][]Signature
	order   []string
}

type yamlSignature struct {
	Params []string `yaml:"params"`
	Return string   `yaml:"return"`
}

type yamlEntry struct {
	Name       string          `yaml:"name"`
	Signatures []yamlSignature `yaml:"signatures"`
}

type yamlCatalog struct {
	Builtins []yamlEntry `yaml:"builtins"`
}

// Load parses the embedded builtin catalog. It only returns an error if
// builtins.yaml itself is malformed, which would be a build-time defect
// rather than something callers need to recover from.
func Load() (*Catalog, error) {
	var doc yamlCatalog
	if err := yaml.Unmarshal(builtinsYAML, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parsing builtins.yaml: %w", err)
	}
	c := &Catalog{entries: map[string][]Signature{}}
	for _, e := range doc.Builtins {
		sigs := make([]Signature, len(e.Signatures))
		for i, s := range e.Signatures {
			params := make([]types.Formal, len(s.Params))
			for j, p := range s.Params {
				formal, err := parseFormal(p)
				if err != nil {
					return nil, fmt.Errorf("catalog: %s: %w", e.Name, err)
				}
				params[j] = formal
			}
			var ret types.ReturnType
			if s.Return == "void" || s.Return == "" {
				ret = types.Void()
			} else {
				t, err := parseType(s.Return)
				if err != nil {
					return nil, fmt.Errorf("catalog: %s: %w", e.Name, err)
				}
				ret = types.Returning(t)
			}
			sigs[i] = Signature{Params: params, Return: ret}
		}
		if _, exists := c.entries[e.Name]; !exists {
			c.order = append(c.order, e.Name)
		}
		c.entries[e.Name] = append(c.entries[e.Name], sigs...)
	}
	return c, nil
}

// MustLoad is Load, panicking on error; used at package-var init time by
// callers that treat a malformed embedded catalog as unrecoverable.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether name is registered at all (any arity).
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Signatures returns name's overloads in declaration order, or nil if
// name is not registered.
func (c *Catalog) Signatures(name string) []Signature {
	return c.entries[name]
}

// ReturnType implements §4.2's return_type(name, actual_types): linear
// overload resolution, first exact match, else first match under
// compatible_arguments_mod_conv preferring the narrowest promotion (ties
// broken by declaration order). ok is false when no overload matches.
func (c *Catalog) ReturnType(name string, actuals []types.Actual) (types.ReturnType, bool) {
	sigs := c.entries[name]
	if len(sigs) == 0 {
		return types.ReturnType{}, false
	}

	for _, sig := range sigs {
		if types.ExactMatch(sig.Params, actuals) {
			return sig.Return, true
		}
	}

	best := -1
	bestRank := -1
	for i, sig := range sigs {
		if !types.CompatibleArgumentsModConv(name, sig.Params, actuals) {
			continue
		}
		rank := types.PromotionRank(sig.Params, actuals)
		if best == -1 || rank < bestRank {
			best = i
			bestRank = rank
		}
	}
	if best == -1 {
		return types.ReturnType{}, false
	}
	return sigs[best].Return, true
}
