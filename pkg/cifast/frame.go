package cifast

import "github.com/cifkit/cif/pkg/span"

// Frame is a named save-frame (spec §3.3). Frames never nest.
type Frame struct {
	Name     string
	Items    ItemMap
	Loops    []Loop
	Span     span.Span
	NameSpan span.Span
}

// GetItem returns the Value mapped from tag within the frame.
func (f Frame) GetItem(tag string) (Value, bool) {
	return f.Items.Get(tag)
}

// FindLoop returns the first loop whose tag list contains tag.
func (f Frame) FindLoop(tag string) (*Loop, bool) {
	for i := range f.Loops {
		if f.Loops[i].ColumnIndex(tag) >= 0 {
			return &f.Loops[i], true
		}
	}
	return nil, false
}

// Block is a data block (spec §3.3): named, or global (name is empty and
// IsGlobal is true).
type Block struct {
	Name     string
	IsGlobal bool
	Items    ItemMap
	Loops    []Loop
	Frames   []Frame
	NameSpan span.Span
	Span     span.Span
}

// GetItem returns the Value mapped from tag within the block.
func (b Block) GetItem(tag string) (Value, bool) {
	return b.Items.Get(tag)
}

// FindLoop returns the first loop whose tag list contains tag.
func (b Block) FindLoop(tag string) (*Loop, bool) {
	for i := range b.Loops {
		if b.Loops[i].ColumnIndex(tag) >= 0 {
			return &b.Loops[i], true
		}
	}
	return nil, false
}

// GetFrame returns the frame named name, or false if none matches.
func (b Block) GetFrame(name string) (*Frame, bool) {
	for i := range b.Frames {
		if b.Frames[i].Name == name {
			return &b.Frames[i], true
		}
	}
	return nil, false
}
