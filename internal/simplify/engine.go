package simplify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoText is returned verbatim for empty input. No header or footer is added.
const NoText = "No text to simplify."

const (
	// HeaderMarker opens every simplified document.
	HeaderMarker = "=== SIMPLIFIED LEGAL DOCUMENT ==="
	// FooterMarker introduces the takeaways list.
	FooterMarker = "=== KEY TAKEAWAYS ==="

	header = HeaderMarker + "\n\n" +
		"This is a simplified version of the legal document:\n\n"
)

// Takeaways are the fixed footer bullets, in output order.
var takeaways = [...]string{
	"This document contains legal terms and conditions",
	"Please consult a lawyer for legal advice",
	"This simplified version is for general understanding only",
}

// Engine rewrites legal jargon using a fixed replacement table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table Table
}

// NewEngine returns an Engine applying t.
func NewEngine(t Table) *Engine {
	return &Engine{table: t}
}

// Table returns the table the engine applies.
func (e *Engine) Table() Table { return e.table }

// Simplify substitutes every table term in order and wraps the result with
// the fixed header and takeaways footer. Matching is literal: a term inside a
// longer word is replaced too. Each term sees the output of earlier terms.
func (e *Engine) Simplify(text string) string {
	if text == "" {
		return NoText
	}
	body := e.Substitute(text)

	var b strings.Builder
	b.Grow(len(header) + len(body) + 256)
	b.WriteString(header)
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(FooterMarker)
	b.WriteString("\n")
	for _, t := range takeaways {
		b.WriteString("• ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}

// Substitute applies the table to text without adding header or footer.
func (e *Engine) Substitute(text string) string {
	out := text
	for _, entry := range e.table.entries {
		out = strings.ReplaceAll(out, entry.Term, entry.Plain)
		out = strings.ReplaceAll(out, capitalize(entry.Term), capitalize(entry.Plain))
		out = strings.ReplaceAll(out, strings.ToUpper(entry.Term), strings.ToUpper(entry.Plain))
	}
	return out
}

// capitalize uppercases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
