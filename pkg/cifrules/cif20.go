package cifrules

import "github.com/cifkit/cif/pkg/cifast"

// Cif20Rules implements VersionRules for the strict CIF 2.0 dialect
// (spec §4.4.2): block/frame names must be non-empty, doubled quotes are
// a violation rather than a convention, the magic header is mandatory,
// and list/table bracket syntax resolves recursively into structured
// values.
type Cif20Rules struct{ baseRules }

// NewCif20Rules constructs the CIF 2.0 strategy.
func NewCif20Rules() Cif20Rules {
	return Cif20Rules{baseRules{
		dialect:            cifast.V2_0,
		allowEmptyNames:    false,
		allowDoubledQuotes: false,
		requireMagicHeader: true,
		degradeComposites:  false,
	}}
}
