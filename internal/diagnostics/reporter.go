package diagnostics

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Reporter writes diagnostics to an io.Writer, matching the teacher's
// direct-to-stdout fmt/log style (no logging framework, see SPEC_FULL's
// Ambient Stack / Logging note).
type Reporter struct {
	w      io.Writer
	color  bool
	source map[string][]string
}

// NewReporter creates a reporter writing to w. Color/caret rendering is
// gated on w being a terminal when w is an *os.File, via go-isatty.
func NewReporter(w io.Writer, fd uintptr, forceColor bool) *Reporter {
	return &Reporter{
		w:      w,
		color:  forceColor || isatty.IsTerminal(fd),
		source: map[string][]string{},
	}
}

// SetSource registers the line-split source text for a file, enabling
// excerpt rendering for diagnostics whose span names that file.
func (r *Reporter) SetSource(file string, lines []string) {
	r.source[file] = lines
}

// Report writes one diagnostic, with a source excerpt when available.
func (r *Reporter) Report(d Diagnostic) {
	if lines, ok := r.source[d.Span.File]; ok {
		fmt.Fprint(r.w, r.colorize(WithSource(d, lines)))
		return
	}
	fmt.Fprint(r.w, r.colorize(d.Error()))
}

func (r *Reporter) colorize(s string) string {
	if !r.color {
		return s
	}
	const red = "\x1b[31m"
	const reset = "\x1b[0m"
	return red + s + reset
}

// Summary writes a trailing human-readable line, e.g. after a compilation
// unit finishes: "analyzed 1,204 nodes, 3 error(s)".
func (r *Reporter) Summary(nodeCount, errCount int) {
	fmt.Fprintf(r.w, "analyzed %s nodes, %d error(s)\n", humanize.Comma(int64(nodeCount)), errCount)
}
