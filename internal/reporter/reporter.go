// Package reporter renders source-range diagnostics: the message, a
// "file:line:col" location and a caret pointing at the offending span.
package reporter

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Ranger is anything that carries a byte (start, end) range into the source
// text, inclusive on both ends. token.Token and ast nodes implement it.
type Ranger interface {
	Range() (int, int)
}

// Reporter turns byte offsets into line/column diagnostics against one
// source file. It never panics on a bad report; failures fall back to a
// best-effort message so a single malformed diagnostic never hides another.
type Reporter struct {
	path   string
	source string
	lines  []lineSpan
	// Failed is true once at least one error has been reported. The driver
	// consults it to decide whether the backend may run at all (the backend
	// never runs on ill-typed input).
	Failed bool
	// Diagnostics accumulates every reported error in structured form.
	Diagnostics []Diagnostic
}

type lineSpan struct{ start, end int }

// Diagnostic is a structured record of a single reported error, kept
// alongside the printed stderr form so non-terminal consumers (the LSP
// server) can render it without scraping text.
type Diagnostic struct {
	Line, Col, Length int
	Message           string
}

func New(path string, source string) *Reporter {
	r := &Reporter{path: path, source: source}
	start := 0
	for i, ch := range source {
		if ch == '\n' {
			r.lines = append(r.lines, lineSpan{start, i})
			start = i + 1
		}
	}
	if start < len(source) {
		r.lines = append(r.lines, lineSpan{start, len(source)})
	}
	return r
}

// Error reports a diagnostic anchored at an explicit line and a byte offset
// within the whole source, with a caret span of the given length.
func (r *Reporter) Error(line, pos, length int, format string, args ...interface{}) {
	r.Failed = true
	msg := fmt.Sprintf(format, args...)
	col := pos
	if line >= 1 && line <= len(r.lines) {
		col = pos - r.lines[line-1].start
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Line: line, Col: col, Length: length, Message: msg})
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", msg)
	if r.path != "" {
		fmt.Fprintf(os.Stderr, "  --> %s:%d:%d\n", r.path, line, col+1)
	}
	r.printCaret(line, pos, length)
}

// ErrorAt reports a diagnostic anchored at a Ranger's byte range, finding
// the line its start offset falls on first.
func (r *Reporter) ErrorAt(rg Ranger, format string, args ...interface{}) {
	start, _ := rg.Range()
	line, _ := r.locate(start)
	r.Error(line, start, 1, format, args...)
}

// Internal reports a compiler-internal invariant violation, tagging the
// failing pass by name. Internal errors never originate from user input.
func (r *Reporter) Internal(pass string, format string, args ...interface{}) {
	r.Failed = true
	msg := fmt.Sprintf(format, args...)
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Internal compiler error in %s: %s\n", pass, msg)
}

func (r *Reporter) locate(offset int) (line, col int) {
	for i, span := range r.lines {
		if offset >= span.start && offset <= span.end {
			return i + 1, offset - span.start
		}
	}
	return 1, offset
}

func (r *Reporter) printCaret(line, pos, length int) {
	if line < 1 || line > len(r.lines) {
		return
	}
	if length <= 0 {
		length = 1
	}
	span := r.lines[line-1]
	text := ""
	if span.end >= span.start {
		text = r.sourceSlice(span)
	}
	col := pos - span.start
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(os.Stderr, "%d | %s\n", line, text)
	pad := len(fmt.Sprintf("%d", line))
	color.New(color.FgRed).Fprintf(os.Stderr, "%s | %s%s\n", spaces(pad), spaces(col), carets(length))
}

func (r *Reporter) sourceSlice(span lineSpan) string {
	if span.start < 0 || span.end > len(r.source) || span.start > span.end {
		return ""
	}
	return r.source[span.start:span.end]
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func carets(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '^'
	}
	return string(b)
}
