package validate

import "github.com/cifkit/cif/pkg/span"

// entry pairs a Value's span with the canonical item name it was
// validated against.
type entry struct {
	span span.Span
	name string
}

// DefinitionIndex answers "what item definition covers this cursor
// position" for a document that has already been walked by Engine.
// Validate (spec §4.13). It backs a hover/inspection surface, not
// validation itself.
type DefinitionIndex struct {
	entries []entry
}

func newDefinitionIndex() *DefinitionIndex {
	return &DefinitionIndex{}
}

func (idx *DefinitionIndex) record(sp span.Span, canonicalName string) {
	if sp.IsZero() {
		return
	}
	idx.entries = append(idx.entries, entry{span: sp, name: canonicalName})
}

// DefinitionAt returns the canonical item name whose recorded span
// contains (line, col), or false if no recorded value covers that
// position. A caller resolves the name through the same Dictionary
// passed to New to recover the full DataItem.
func (idx *DefinitionIndex) DefinitionAt(line, col int) (string, bool) {
	for _, e := range idx.entries {
		if e.span.Contains(line, col) {
			return e.name, true
		}
	}
	return "", false
}

// Len returns the number of recorded (span, name) entries.
func (idx *DefinitionIndex) Len() int { return len(idx.entries) }
