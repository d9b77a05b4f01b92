// Package cifraw defines the lossless raw tree (spec §3.4, §4.2): the
// intermediate form the PEG-pairs builder (C6) produces, preserving every
// syntactic choice (quote character, doubled quotes, list/table source
// text) so the version-rules pass (C7) can make dialect-specific
// decisions without re-parsing.
package cifraw

import "github.com/cifkit/cif/pkg/span"

// Kind discriminates the variants of Value.
type Kind int

const (
	// KindQuoted is a single- or double-quoted string.
	KindQuoted Kind = iota
	// KindTripleQuoted is a '''...''' or """..."""-delimited string.
	KindTripleQuoted
	// KindTextField is a ;-delimited multi-line text field.
	KindTextField
	// KindUnquoted is a bare, trimmed token.
	KindUnquoted
	// KindList is 2.0 `[ ... ]` syntax.
	KindList
	// KindTable is 2.0 `{ ... }` syntax.
	KindTable
)

// TableEntry is one key:value pair inside table syntax. The key is
// restricted to Quoted or TripleQuoted raw values at this layer (spec
// §4.2: "Table keys are restricted to Quoted or TripleQuoted variants").
type TableEntry struct {
	Key   Value
	Value Value
}

// Value is a raw (unresolved) CIF value, carrying both the literal
// source text and, for composite syntax, a best-effort parsed interior —
// so a later resolution pass can pick either the literal or typed
// interpretation in O(1), without re-parsing (spec §4.2, §9).
type Value struct {
	Kind Kind
	Span span.Span

	// Raw is the untouched source text as it appeared between delimiters
	// (for Quoted/TripleQuoted, the content only; for List/Table, the
	// full bracketed/braced text).
	Raw string

	// QuoteChar is '\'' or '"' for Quoted/TripleQuoted values.
	QuoteChar byte
	// HasDoubledQuotes reports whether Raw contains the doubled-quote
	// escape sequence for QuoteChar (spec §4.2).
	HasDoubledQuotes bool

	// Content holds the TextField interior (already stripped of the
	// delimiting semicolons).
	Content string

	// Text holds the trimmed Unquoted token text.
	Text string

	// Elements holds the parsed interior of List syntax.
	Elements []Value
	// Entries holds the parsed interior of Table syntax.
	Entries []TableEntry
}

// NewQuoted builds a Quoted raw value.
func NewQuoted(raw string, quoteChar byte, hasDoubled bool, sp span.Span) Value {
	return Value{Kind: KindQuoted, Raw: raw, QuoteChar: quoteChar, HasDoubledQuotes: hasDoubled, Span: sp}
}

// NewTripleQuoted builds a TripleQuoted raw value.
func NewTripleQuoted(raw string, quoteChar byte, sp span.Span) Value {
	return Value{Kind: KindTripleQuoted, Raw: raw, QuoteChar: quoteChar, Span: sp}
}

// NewTextField builds a TextField raw value.
func NewTextField(content string, sp span.Span) Value {
	return Value{Kind: KindTextField, Content: content, Span: sp}
}

// NewUnquoted builds an Unquoted raw value.
func NewUnquoted(text string, sp span.Span) Value {
	return Value{Kind: KindUnquoted, Text: text, Span: sp}
}

// NewList builds a List raw value.
func NewList(raw string, elements []Value, sp span.Span) Value {
	return Value{Kind: KindList, Raw: raw, Elements: elements, Span: sp}
}

// NewTable builds a Table raw value.
func NewTable(raw string, entries []TableEntry, sp span.Span) Value {
	return Value{Kind: KindTable, Raw: raw, Entries: entries, Span: sp}
}
