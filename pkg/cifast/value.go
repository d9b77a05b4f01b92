// Package cifast defines the typed, span-annotated CIF document tree: the
// resolved form produced by a version-rules pass over a raw tree (spec §3.2,
// §3.3, §4.3).
package cifast

import (
	"fmt"
	"strconv"

	"github.com/cifkit/cif/pkg/span"
)

// Kind discriminates the variants of Value (spec §3.2).
type Kind int

const (
	// KindText holds a quoted, text-field, or stringified (1.1-degraded)
	// string.
	KindText Kind = iota
	// KindNumeric holds a float64, including scientific notation.
	KindNumeric
	// KindNumericWithUncertainty holds a value and its parenthetical
	// uncertainty, e.g. "1.234(5)" -> 1.234 +/- 0.005.
	KindNumericWithUncertainty
	// KindUnknown is the literal `?`.
	KindUnknown
	// KindNotApplicable is the literal `.`.
	KindNotApplicable
	// KindList holds an ordered sequence of Values (CIF 2.0 only).
	KindList
	// KindTable holds a string-keyed mapping of Values (CIF 2.0 only).
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumeric:
		return "Numeric"
	case KindNumericWithUncertainty:
		return "NumericWithUncertainty"
	case KindUnknown:
		return "Unknown"
	case KindNotApplicable:
		return "NotApplicable"
	case KindList:
		return "List"
	case KindTable:
		return "Table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the typed-AST value sum type (spec §3.2). Exactly one group of
// fields is meaningful, selected by Kind; the rest are zero.
type Value struct {
	Kind  Kind
	Span  span.Span
	Text  string
	// Number holds the value for KindNumeric and KindNumericWithUncertainty.
	Number float64
	// Uncertainty holds the uncertainty magnitude for
	// KindNumericWithUncertainty only.
	Uncertainty float64
	List        []Value
	Table       map[string]Value
}

// NewText builds a Text value.
func NewText(text string, sp span.Span) Value {
	return Value{Kind: KindText, Text: text, Span: sp}
}

// NewNumeric builds a Numeric value.
func NewNumeric(n float64, sp span.Span) Value {
	return Value{Kind: KindNumeric, Number: n, Span: sp}
}

// NewNumericWithUncertainty builds a NumericWithUncertainty value.
func NewNumericWithUncertainty(n, uncertainty float64, sp span.Span) Value {
	return Value{Kind: KindNumericWithUncertainty, Number: n, Uncertainty: uncertainty, Span: sp}
}

// NewUnknown builds the `?` special value.
func NewUnknown(sp span.Span) Value {
	return Value{Kind: KindUnknown, Span: sp}
}

// NewNotApplicable builds the `.` special value.
func NewNotApplicable(sp span.Span) Value {
	return Value{Kind: KindNotApplicable, Span: sp}
}

// NewList builds a List value.
func NewList(items []Value, sp span.Span) Value {
	return Value{Kind: KindList, List: items, Span: sp}
}

// NewTable builds a Table value.
func NewTable(entries map[string]Value, sp span.Span) Value {
	return Value{Kind: KindTable, Table: entries, Span: sp}
}

// IsSpecial reports whether v is Unknown or NotApplicable — the two
// values that bypass type/range/enumeration checks during validation
// (spec §4.12.1, §8).
func (v Value) IsSpecial() bool {
	return v.Kind == KindUnknown || v.Kind == KindNotApplicable
}

// AsText returns v's string content when Kind is KindText.
func (v Value) AsText() (string, bool) {
	if v.Kind != KindText {
		return "", false
	}
	return v.Text, true
}

// AsNumeric returns v's numeric content for KindNumeric or
// KindNumericWithUncertainty.
func (v Value) AsNumeric() (float64, bool) {
	switch v.Kind {
	case KindNumeric, KindNumericWithUncertainty:
		return v.Number, true
	default:
		return 0, false
	}
}

// AsList returns v's elements when Kind is KindList.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// AsTable returns v's entries when Kind is KindTable.
func (v Value) AsTable() (map[string]Value, bool) {
	if v.Kind != KindTable {
		return nil, false
	}
	return v.Table, true
}

// TextForm renders v as the string form used by enumeration/range checks
// (spec §4.12.1): the literal text for Text values, a plain decimal
// rendering for numeric values, and "?"/"." for the special values.
func (v Value) TextForm() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumeric, KindNumericWithUncertainty:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindUnknown:
		return "?"
	case KindNotApplicable:
		return "."
	default:
		return ""
	}
}
