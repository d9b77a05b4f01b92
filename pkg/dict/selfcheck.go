package dict

import (
	"strings"

	"github.com/cifkit/cif/pkg/drel"
)

// SelfCheck verifies that every item's dREL method (spec §4.11):
//  1. parses under the dREL grammar, and
//  2. only references data names and categories the dictionary itself
//     defines.
//
// It never aborts on the first problem item; every failing item
// contributes its error to the returned slice, so a caller sees the
// full picture of what's inconsistent. An empty result means the
// dictionary is internally consistent.
func SelfCheck(d *Dictionary) []error {
	var errs []error

	for name, item := range d.Items {
		if item.DrelMethod == "" {
			continue
		}

		stmts, err := drel.Parse(item.DrelMethod)
		if err != nil {
			errs = append(errs, errInvalidDrel(name, err.Error(), item.Span))
			continue
		}

		for _, ref := range drel.ExtractReferences(stmts) {
			switch ref.Kind {
			case drel.RefDataName:
				full := "_" + ref.Category + "." + ref.Object
				if !d.HasItem(full) {
					errs = append(errs, errMissingDrelReference(name, full, ref.Span))
				}
			case drel.RefCategory:
				if !categoryKnown(d, ref.Category) {
					errs = append(errs, errMissingDrelReference(name, "category "+ref.Category, ref.Span))
				}
			case drel.RefIdentifier:
				// Bare identifiers outside of locals carry no
				// resolvable dictionary meaning on their own (spec
				// §4.11 only requires checking DataName/Category
				// references).
			}
		}
	}

	return errs
}

// categoryKnown reports whether name is a category the dictionary
// defines directly, or is the category of at least one known item
// (spec §4.11: "require either dict.get_category or at least one item
// whose category matches").
func categoryKnown(d *Dictionary, name string) bool {
	if _, ok := d.GetCategory(name); ok {
		return true
	}
	lower := strings.ToLower(name)
	for _, item := range d.Items {
		if strings.ToLower(item.Category) == lower {
			return true
		}
	}
	return false
}
