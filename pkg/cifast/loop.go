package cifast

import "github.com/cifkit/cif/pkg/span"

// Loop is tabular data: ordered column tags and row-major values (spec
// §3.3). Every row has exactly len(Tags) cells (spec §8 invariant).
type Loop struct {
	Tags   []string
	Values [][]Value // row-major: Values[row][col]
	Span   span.Span
}

// Len returns the number of rows.
func (l Loop) Len() int { return len(l.Values) }

// Get returns the value at (row, col), or false if out of range.
func (l Loop) Get(row, col int) (Value, bool) {
	if row < 0 || row >= len(l.Values) {
		return Value{}, false
	}
	cols := l.Values[row]
	if col < 0 || col >= len(cols) {
		return Value{}, false
	}
	return cols[col], true
}

// ColumnIndex returns the column index of tag, or -1 if not present.
func (l Loop) ColumnIndex(tag string) int {
	for i, t := range l.Tags {
		if t == tag {
			return i
		}
	}
	return -1
}

// GetByTag returns the value at (row, tag).
func (l Loop) GetByTag(row int, tag string) (Value, bool) {
	col := l.ColumnIndex(tag)
	if col < 0 {
		return Value{}, false
	}
	return l.Get(row, col)
}

// GetColumn returns every row's value for tag, in row order.
func (l Loop) GetColumn(tag string) ([]Value, bool) {
	col := l.ColumnIndex(tag)
	if col < 0 {
		return nil, false
	}
	out := make([]Value, 0, len(l.Values))
	for _, row := range l.Values {
		out = append(out, row[col])
	}
	return out, true
}
