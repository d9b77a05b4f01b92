package cifrules

import (
	"fmt"

	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/cifraw"
	"github.com/cifkit/cif/pkg/span"
)

// baseRules implements everything common to both dialects: numeric/
// special-value interpretation (spec §4.4.3) is identical regardless of
// version, so only a handful of policy flags ever vary between Cif11Rules
// and Cif20Rules (spec §4.4.1-§4.4.2, §4.4.6).
type baseRules struct {
	dialect            cifast.Dialect
	allowEmptyNames    bool
	allowDoubledQuotes bool
	requireMagicHeader bool
	degradeComposites  bool
}

func (b baseRules) Dialect() cifast.Dialect { return b.dialect }

// DegradesComposites reports whether this dialect has no list/table
// syntax, so "[...]"/"{...}" resolve to literal Text rather than a
// structured List/Table (spec §4.4.1).
func (b baseRules) DegradesComposites() bool { return b.degradeComposites }

func (b baseRules) CheckMagicHeader(doc *cifraw.Document) *ciferr.Violation {
	if b.requireMagicHeader && !doc.HasCif2Magic {
		return &ciferr.Violation{
			Span:       doc.Span,
			Message:    `CIF 2.0 documents must begin with the "#\#CIF_2.0" magic header`,
			RuleID:     ciferr.RuleMissingMagicHeader,
			Suggestion: `add "#\#CIF_2.0" as the document's first line`,
		}
	}
	return nil
}

func (b baseRules) ValidateBlockName(name string, sp span.Span) *ciferr.Violation {
	if name == "" && !b.allowEmptyNames {
		return &ciferr.Violation{
			Span:       sp,
			Message:    "data block name must not be empty under CIF 2.0",
			RuleID:     ciferr.RuleNoEmptyBlockName,
			Suggestion: "give the block a name, e.g. data_mystructure",
		}
	}
	return nil
}

func (b baseRules) ValidateFrameName(name string, sp span.Span) *ciferr.Violation {
	if name == "" && !b.allowEmptyNames {
		return &ciferr.Violation{
			Span:       sp,
			Message:    "save frame name must not be empty under CIF 2.0",
			RuleID:     ciferr.RuleNoEmptyFrameName,
			Suggestion: "give the frame a name, e.g. save_myframe",
		}
	}
	return nil
}

// ResolveValue classifies a leaf raw value (spec §4.2, §4.4.3). List and
// Table are never passed in: the walker recurses into their interiors
// itself (pkg/cifrules.resolveValueTree).
func (b baseRules) ResolveValue(raw cifraw.Value) (cifast.Value, *ciferr.Violation) {
	switch raw.Kind {
	case cifraw.KindQuoted, cifraw.KindTripleQuoted:
		var violation *ciferr.Violation
		if raw.HasDoubledQuotes && !b.allowDoubledQuotes {
			violation = &ciferr.Violation{
				Span:       raw.Span,
				Message:    "doubled quotes are not permitted in CIF 2.0 strings",
				RuleID:     ciferr.RuleNoDoubledQuotes,
				Suggestion: "remove the duplicated quote character or switch the outer delimiter",
			}
		}
		return cifast.NewText(raw.Raw, raw.Span), violation

	case cifraw.KindTextField:
		return cifast.NewText(raw.Content, raw.Span), nil

	case cifraw.KindUnquoted:
		return resolveUnquoted(raw.Text, raw.Span), nil

	default:
		return cifast.NewText(raw.Raw, raw.Span), nil
	}
}

// resolveUnquoted implements the shared special-value/numeric
// interpretation order (spec §4.4.3): "?" and "." first, then the
// N(k)-with-uncertainty grammar, then a plain float, falling back to
// literal text.
func resolveUnquoted(text string, sp span.Span) cifast.Value {
	switch text {
	case "?":
		return cifast.NewUnknown(sp)
	case ".":
		return cifast.NewNotApplicable(sp)
	}
	if f, uncertainty, hasUncertainty, ok := parseNumeric(text); ok {
		if hasUncertainty {
			return cifast.NewNumericWithUncertainty(f, uncertainty, sp)
		}
		return cifast.NewNumeric(f, sp)
	}
	return cifast.NewText(text, sp)
}

func loopMisalignedMessage(tags, values int) string {
	return fmt.Sprintf("loop has %d tag(s) but %d value(s), not a multiple of the tag count", tags, values)
}
