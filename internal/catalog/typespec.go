package catalog

import (
	"fmt"
	"strings"

	"modelc/internal/types"
)

// parseType parses the small type grammar used by builtins.yaml:
// int, real, vector, row_vector, matrix, or array(<type>).
func parseType(s string) (types.UnsizedType, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "int":
		return types.Int(), nil
	case "real":
		return types.Real(), nil
	case "vector":
		return types.Vector(), nil
	case "row_vector":
		return types.RowVector(), nil
	case "matrix":
		return types.Matrix(), nil
	}
	if strings.HasPrefix(s, "array(") && strings.HasSuffix(s, ")") {
		inner := s[len("array(") : len(s)-1]
		elem, err := parseType(inner)
		if err != nil {
			return types.UnsizedType{}, err
		}
		return types.Array(elem), nil
	}
	return types.UnsizedType{}, fmt.Errorf("catalog: unrecognized type %q", s)
}

// parseFormal parses one YAML parameter entry: "real" (autodiffable by
// default) or "data real" (data-only).
func parseFormal(s string) (types.Formal, error) {
	s = strings.TrimSpace(s)
	ad := types.AutoDiffable
	if strings.HasPrefix(s, "data ") {
		ad = types.DataOnly
		s = strings.TrimSpace(strings.TrimPrefix(s, "data "))
	}
	t, err := parseType(s)
	if err != nil {
		return types.Formal{}, err
	}
	return types.Formal{Ad: ad, Type: t}, nil
}
