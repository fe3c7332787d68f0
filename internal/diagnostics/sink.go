package diagnostics

import "github.com/google/uuid"

// Sink accumulates diagnostics for one compilation unit. The analyzer
// records semantic errors here and keeps going, through the rest of the
// current block and into later ones, to surface more diagnostics; fatal
// errors abort the whole compilation.
// Sink is passed by reference into each phase rather than returned,
// matching design note "Error carrying": errors are values propagated
// through an explicit sink, not exceptions.
type Sink struct {
	batch uuid.UUID
	diags []Diagnostic
}

// NewSink creates an empty sink tagged with a fresh batch id.
func NewSink() *Sink {
	return &Sink{batch: uuid.New()}
}

// BatchID returns the correlation id shared by every diagnostic this sink
// produces.
func (s *Sink) BatchID() uuid.UUID { return s.batch }

// Report appends a non-fatal diagnostic.
func (s *Sink) Report(kind Kind, span SourceSpan, format string, args ...interface{}) {
	s.diags = append(s.diags, New(kind, span, s.batch, format, args...))
}

// ReportFatal appends a FatalInternal diagnostic wrapping cause.
func (s *Sink) ReportFatal(span SourceSpan, cause error) {
	s.diags = append(s.diags, Fatal(span, s.batch, cause))
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool { return len(s.diags) > 0 }

// HasFatal reports whether a FatalInternal diagnostic was recorded; the
// caller must abort the whole compilation when this is true.
func (s *Sink) HasFatal() bool {
	for _, d := range s.diags {
		if d.Kind == FatalInternal {
			return true
		}
	}
	return false
}

// Diagnostics returns the accumulated diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}
