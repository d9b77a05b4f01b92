package span

import "sort"

// Index maps byte offsets into a source text to 1-indexed (line, column)
// pairs. It is built once per input by scanning for newline byte offsets,
// then answers lookups via binary search in O(log n).
//
// Per §5 of the spec, an Index is scoped to a single parse: build one,
// use it for the duration of that parse, then let it be garbage collected.
// Reusing an Index across unrelated inputs produces nonsensical positions.
type Index struct {
	text     string
	newlines []int // byte offsets of '\n' characters, ascending
}

// NewIndex scans text for line-terminator offsets and returns a
// ready-to-use Index. \n, \r\n, and \r are all recognised as terminators
// (spec §6.1); a \r\n pair counts as a single terminator, recorded at the
// offset of its \r byte.
func NewIndex(text string) *Index {
	idx := &Index{text: text}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			idx.newlines = append(idx.newlines, i)
		case '\r':
			idx.newlines = append(idx.newlines, i)
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		}
	}
	return idx
}

// Lookup converts a byte offset into the original text to a 1-indexed
// (line, col) pair. An offset that lands exactly on a newline byte
// resolves to that newline's own line and column (it is treated as the
// last byte of the line it terminates).
func (idx *Index) Lookup(offset int) (line, col int) {
	// first newline offset >= offset
	i := sort.Search(len(idx.newlines), func(i int) bool {
		return idx.newlines[i] >= offset
	})
	line = i + 1
	lineStart := 0
	if i > 0 {
		lineStart = idx.newlines[i-1] + 1
	}
	col = offset - lineStart + 1
	return line, col
}

// Span builds a Span covering byte range [start, end) of the original text.
func (idx *Index) Span(start, end int) Span {
	if end < start {
		end = start
	}
	sl, sc := idx.Lookup(start)
	el, ec := idx.Lookup(end)
	// end is exclusive in byte terms but spans describe the last covered
	// character; step back one column (never past the line start) so a
	// zero-length match doesn't claim to cover the following character.
	if end > start {
		el, ec = idx.Lookup(end - 1)
	}
	return Span{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}
