package diagnostics

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDiagnosticError(t *testing.T) {
	d := New(IdentifierNotInScope, SourceSpan{File: "model.stan", Begin: Position{3, 5}, End: Position{3, 6}}, uuid.New(), "unknown identifier %q", "mu")
	msg := d.Error()
	if !strings.Contains(msg, "IdentifierNotInScope") {
		t.Errorf("expected kind name in message, got %q", msg)
	}
	if !strings.Contains(msg, "mu") {
		t.Errorf("expected formatted message content, got %q", msg)
	}
	if !strings.Contains(msg, "model.stan:3:5") {
		t.Errorf("expected rendered span, got %q", msg)
	}
}

func TestDiagnosticIncludedFromChain(t *testing.T) {
	outer := SourceSpan{File: "outer.stan", Begin: Position{1, 1}}
	inner := SourceSpan{File: "inner.stan", Begin: Position{2, 2}, IncludedFrom: &outer}
	d := New(IllTypedBinOp, inner, uuid.New(), "bad operands")
	msg := d.Error()
	if !strings.Contains(msg, "included from outer.stan:1:1") {
		t.Errorf("expected included-from line, got %q", msg)
	}
}

func TestWithSourceCaret(t *testing.T) {
	d := New(IllTypedTernaryIf, SourceSpan{File: "m.stan", Begin: Position{2, 4}}, uuid.New(), "branch mismatch")
	rendered := WithSource(d, []string{"real x;", "  bad + 1"})
	if !strings.Contains(rendered, "2 | ") {
		t.Errorf("expected source line rendered, got %q", rendered)
	}
	if !strings.Contains(rendered, "^") {
		t.Errorf("expected caret marker, got %q", rendered)
	}
}

func TestSinkAccumulatesAndTracksFatal(t *testing.T) {
	s := NewSink()
	if s.HasErrors() {
		t.Fatal("new sink should have no errors")
	}
	s.Report(IdentifierInUse, SourceSpan{}, "name %q already bound", "n")
	if !s.HasErrors() || s.HasFatal() {
		t.Fatal("expected one non-fatal error")
	}
	s.ReportFatal(SourceSpan{}, errFixture("invariant violated"))
	if !s.HasFatal() {
		t.Fatal("expected fatal error to be tracked")
	}
	if len(s.Diagnostics()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(s.Diagnostics()))
	}
	for _, d := range s.Diagnostics() {
		if d.BatchID != s.BatchID() {
			t.Error("expected every diagnostic to share the sink's batch id")
		}
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }
