// Package diagnostics implements the error model of §7: structured error
// kinds, source spans, and an accumulating, source-excerpt-rendering
// reporter. Grounded on internal/errors/errors.go's SentraError (type +
// location + optional source line, rendered with a caret).
package diagnostics

import "fmt"

// Position is a line:col pair, 1-based as in the teacher's SourceLocation.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SourceSpan is {file, begin, end} plus an optional chain of #include
// sites, per §6.
type SourceSpan struct {
	File  string
	Begin Position
	End   Position

	// IncludedFrom is the span, in the including file, that pulled File
	// in; nil at the top of the chain.
	IncludedFrom *SourceSpan
}

func (s SourceSpan) String() string {
	if s.File == "" {
		return "<no location>"
	}
	return fmt.Sprintf("%s:%s", s.File, s.Begin)
}

// Chain returns the span and every span it was included from, outermost
// last, for rendering a "included from" trace.
func (s SourceSpan) Chain() []SourceSpan {
	chain := []SourceSpan{s}
	cur := s.IncludedFrom
	for cur != nil {
		chain = append(chain, *cur)
		cur = cur.IncludedFrom
	}
	return chain
}
