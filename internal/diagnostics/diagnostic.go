package diagnostics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Diagnostic is a structured error: a kind, a location, and a prose
// message, per §7. It never carries a Go error value for ordinary
// semantic errors (those are raised as plain Diagnostics); FatalInternal
// diagnostics additionally carry the wrapped panic/invariant violation so
// a stack trace survives to the CLI boundary.
type Diagnostic struct {
	Kind    Kind
	Span    SourceSpan
	Message string

	// BatchID identifies the Analyze (or optimizer) call that produced
	// this diagnostic, so a CLI driving several compilation units can
	// group diagnostics per unit without threading an explicit id through
	// every call site. The teacher's go.mod declares google/uuid but never
	// imports it; this is where it actually gets used.
	BatchID uuid.UUID

	// Cause is set only for FatalInternal: an invariant violation that
	// should never occur, wrapped with a stack trace.
	Cause error
}

// New creates a non-fatal diagnostic.
func New(kind Kind, span SourceSpan, batch uuid.UUID, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
		BatchID: batch,
	}
}

// Fatal creates a FatalInternal diagnostic wrapping cause with a stack
// trace, for an invariant violation that should never occur.
func Fatal(span SourceSpan, batch uuid.UUID, cause error) Diagnostic {
	return Diagnostic{
		Kind:    FatalInternal,
		Span:    span,
		Message: cause.Error(),
		BatchID: batch,
		Cause:   errors.WithStack(cause),
	}
}

// Error implements the error interface, rendering kind + location +
// message, matching the shape of the teacher's SentraError.Error().
func (d Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", d.Kind, d.Message)
	if d.Span.File != "" {
		fmt.Fprintf(&sb, "  at %s\n", d.Span)
	}
	chain := d.Span.Chain()
	for _, included := range chain[1:] {
		fmt.Fprintf(&sb, "  included from %s\n", included)
	}
	return sb.String()
}

// WithSource renders a two-line source excerpt around the span's begin
// position with a caret under the offending column, mirroring the
// teacher's SentraError.WithSource / caret-drawing logic.
func WithSource(d Diagnostic, lines []string) string {
	var sb strings.Builder
	sb.WriteString(d.Error())
	line := d.Span.Begin.Line
	if line < 1 || line > len(lines) {
		return sb.String()
	}
	src := lines[line-1]
	fmt.Fprintf(&sb, "\n  %d | %s\n", line, src)
	gutter := fmt.Sprintf("  %d | ", line)
	sb.WriteString(strings.Repeat(" ", len(gutter)))
	if d.Span.Begin.Col > 0 {
		sb.WriteString(strings.Repeat(" ", d.Span.Begin.Col-1))
	}
	sb.WriteString("^\n")
	return sb.String()
}
