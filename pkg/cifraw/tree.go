package cifraw

import "github.com/cifkit/cif/pkg/span"

// Item mirrors cifast.Item but holds a raw Value (spec §3.4).
type Item struct {
	Tag      string
	Value    Value
	ItemSpan span.Span
	TagSpan  span.Span
}

// Loop mirrors cifast.Loop, but the values are not yet chunked into rows:
// alignment against len(Tags) is a resolution-time concern (spec §4.4.4),
// so the raw tree keeps the flat sequence exactly as encountered.
type Loop struct {
	Tags   []string
	Values []Value
	Span   span.Span
}

// Frame mirrors cifast.Frame (spec §3.4). Frames never nest.
type Frame struct {
	Name     string
	Items    []Item
	Loops    []Loop
	Span     span.Span
	NameSpan span.Span
}

// Block mirrors cifast.Block (spec §3.4).
type Block struct {
	Name     string
	IsGlobal bool
	Items    []Item
	Loops    []Loop
	Frames   []Frame
	NameSpan span.Span
	Span     span.Span
}

// Document is the root of a raw tree (spec §3.4). HasCif2Magic records
// whether the first non-blank line of the input begins with the exact byte
// sequence "#\#CIF_2.0" (spec §4.2, §6.1).
type Document struct {
	Blocks       []Block
	Span         span.Span
	HasCif2Magic bool
}
