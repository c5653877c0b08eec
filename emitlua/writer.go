// Package emitlua emits a Lua 5.1+ validator module from a compiled JTD
// schema.
package emitlua

import "strings"

// CodeWriter is an indentation-aware line buffer for Lua source.
type CodeWriter struct {
	buf   strings.Builder
	depth int
}

// NewCodeWriter returns an empty writer at indent level zero.
func NewCodeWriter() *CodeWriter {
	return &CodeWriter{}
}

// Line writes text at the current indentation level.
func (w *CodeWriter) Line(text string) {
	w.writeIndent()
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// Open writes text and increases the indent level. text should end with
// "then", "do", or be a function header.
func (w *CodeWriter) Open(text string) {
	w.writeIndent()
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
	w.depth++
}

// Close decreases the indent level, saturating at zero, and writes text
// (usually "end").
func (w *CodeWriter) Close(text string) {
	if w.depth > 0 {
		w.depth--
	}
	w.writeIndent()
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// CloseOpen dedents, writes text, then indents -- used for else/elseif.
func (w *CodeWriter) CloseOpen(text string) {
	if w.depth > 0 {
		w.depth--
	}
	w.writeIndent()
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
	w.depth++
}

// Finish returns the accumulated source text.
func (w *CodeWriter) Finish() string {
	return w.buf.String()
}

func (w *CodeWriter) writeIndent() {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString("  ")
	}
}

// Escape renders s as a literal for embedding inside a Lua double-quoted
// string.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
