package cifast

import "github.com/cifkit/cif/pkg/span"

// Dialect distinguishes CIF 1.1 from CIF 2.0 (spec §3.3, §4.4.6).
type Dialect int

const (
	// V1_1 is the historical, permissive CIF dialect.
	V1_1 Dialect = iota
	// V2_0 is the strict, Unicode/list/table-capable dialect.
	V2_0
)

func (d Dialect) String() string {
	switch d {
	case V1_1:
		return "1.1"
	case V2_0:
		return "2.0"
	default:
		return "unknown"
	}
}

// Document is the root of a resolved CIF document (spec §3.3).
type Document struct {
	Blocks         []Block
	Dialect        Dialect
	Span           span.Span
	HasMagicHeader bool
}

// GetBlock returns the block named name using an exact, case-preserved
// match (spec §4.3).
func (d Document) GetBlock(name string) (*Block, bool) {
	for i := range d.Blocks {
		if d.Blocks[i].Name == name {
			return &d.Blocks[i], true
		}
	}
	return nil, false
}

// FirstBlock returns the document's first block, the common case for
// single-block files (spec §4.3).
func (d Document) FirstBlock() (*Block, bool) {
	if len(d.Blocks) == 0 {
		return nil, false
	}
	return &d.Blocks[0], true
}
