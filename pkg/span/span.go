// Package span provides source-location tracking for the CIF toolkit: a
// 1-indexed (line, column) range type and a precomputed newline index for
// O(log n) byte-offset-to-position lookups.
package span

// Span is a 1-indexed source range, inclusive at both ends: (EndLine,
// EndCol) is the last character covered. The zero value is the default
// span, used for synthesized
// nodes that carry no real source location.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Zero is the default span: no location information.
var Zero = Span{}

// IsZero reports whether s is the default (unlocated) span.
func (s Span) IsZero() bool {
	return s == Zero
}

// Point returns a zero-width span at (line, col).
func Point(line, col int) Span {
	return Span{StartLine: line, StartCol: col, EndLine: line, EndCol: col}
}

// Merge returns the span covering both s and other: s's start through
// other's end. Merge assumes other begins at or after s in document
// order; it does not sort operands.
func (s Span) Merge(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	return Span{
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
		EndLine:   other.EndLine,
		EndCol:    other.EndCol,
	}
}

// Contains reports whether (line, col) falls within s, inclusive of both
// endpoints.
func (s Span) Contains(line, col int) bool {
	if s.IsZero() {
		return false
	}
	if before(line, col, s.StartLine, s.StartCol) {
		return false
	}
	if before(s.EndLine, s.EndCol, line, col) {
		return false
	}
	return true
}

// before reports whether (l1, c1) is lexicographically before (l2, c2).
func before(l1, c1, l2, c2 int) bool {
	if l1 != l2 {
		return l1 < l2
	}
	return c1 < c2
}

// Valid reports whether s satisfies the ordering invariant
// (start_line, start_col) <= (end_line, end_col).
func (s Span) Valid() bool {
	if s.StartLine != s.EndLine {
		return s.StartLine < s.EndLine
	}
	return s.StartCol <= s.EndCol
}
