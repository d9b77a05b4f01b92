// Package grammar implements the PEG-described recognition grammar of spec
// §4.1 as a hand-written scanner plus recursive-descent parser, grounded on
// the original implementation's own one-pass approach (its pest pairs are
// walked straight into AST constructors, never materialised as a generic
// tree first). The CIF lexical grammar is context-sensitive — a text field
// is only a text field when its leading ';' sits in column 1 — which is
// awkward for a regex-driven token table, so recognition (C3) and raw-tree
// construction (C6) are fused into a single traversal here, exactly as the
// original parser/*.rs files do.
package grammar

// tokenKind enumerates the lexical categories produced by the scanner.
// Whitespace and comments are consumed internally and never emitted.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokDataHeader
	tokLoopKw
	tokGlobalKw
	tokStopKw
	tokSaveOpen
	tokSaveClose
	tokSingleQuoted
	tokDoubleQuoted
	tokTripleSingleQuoted
	tokTripleDoubleQuoted
	tokTextField
	tokListOpen
	tokListClose
	tokTableOpen
	tokTableClose
	tokColon
	tokUnquoted
)

// token is a single lexeme. start/end are byte offsets into the original
// (BOM-stripped) source text, [start, end). text carries the already
// delimiter-stripped content for quoted/triple-quoted/text-field tokens, the
// full match otherwise (e.g. "data_foo", "loop_", "save_bar").
type token struct {
	kind       tokenKind
	start, end int
	text       string
}
