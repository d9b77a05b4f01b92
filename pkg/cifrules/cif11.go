package cifrules

import "github.com/cifkit/cif/pkg/cifast"

// Cif11Rules implements VersionRules for the historical, permissive CIF
// 1.1 dialect (spec §4.4.1): empty block/frame names and doubled quotes
// are tolerated, no magic header is expected, and list/table bracket
// syntax has no special meaning — it degrades to literal text.
type Cif11Rules struct{ baseRules }

// NewCif11Rules constructs the CIF 1.1 strategy.
func NewCif11Rules() Cif11Rules {
	return Cif11Rules{baseRules{
		dialect:            cifast.V1_1,
		allowEmptyNames:    true,
		allowDoubledQuotes: true,
		requireMagicHeader: false,
		degradeComposites:  true,
	}}
}
