// Package cifrules resolves a lossless raw tree (pkg/cifraw) into a typed,
// span-annotated document (pkg/cifast) under a specific CIF dialect's
// rules (spec §4.4). The dialect-specific behaviour is captured by the
// VersionRules strategy interface; everything dialect-agnostic (tree
// recursion, numeric-with-uncertainty parsing, special-value recognition)
// lives in this package's shared walker so Cif11Rules and Cif20Rules only
// ever differ in a handful of yes/no policy flags.
package cifrules

import (
	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/cifraw"
	"github.com/cifkit/cif/pkg/span"
)

// VersionRules is the strategy interface a dialect implements to resolve
// raw syntax into typed values and to police the dialect-sensitive
// structural rules (spec §4.4.1-§4.4.6).
type VersionRules interface {
	Dialect() cifast.Dialect
	ResolveValue(raw cifraw.Value) (cifast.Value, *ciferr.Violation)
	ValidateBlockName(name string, sp span.Span) *ciferr.Violation
	ValidateFrameName(name string, sp span.Span) *ciferr.Violation
	CheckMagicHeader(doc *cifraw.Document) *ciferr.Violation
	// DegradesComposites reports whether List/Table raw syntax resolves to
	// literal Text instead of a structured List/Table (spec §4.4.1: CIF
	// 1.1 has no list/table syntax, so "[...]"/"{...}" degrade silently to
	// their raw bracketed/braced text rather than being parsed).
	DegradesComposites() bool
}

// DetectDialect implements the Auto dialect-selection default (spec
// §4.4.6, §6.4): a document carrying the 2.0 magic header resolves under
// Cif20Rules, everything else under Cif11Rules.
func DetectDialect(raw *cifraw.Document) cifast.Dialect {
	if raw.HasCif2Magic {
		return cifast.V2_0
	}
	return cifast.V1_1
}

// Resolve walks raw under rules and returns the typed document, or the
// first violation encountered (wrapped as an invalid-structure error) if
// any were found. See CollectViolations for the non-aborting variant that
// pkg/cif uses for Options.CollectViolations and upgrade guidance.
func Resolve(raw *cifraw.Document, rules VersionRules) (*cifast.Document, error) {
	doc, violations := CollectViolations(raw, rules)
	if len(violations) > 0 {
		return nil, ciferr.NewStructureErrorFromViolation(violations[0])
	}
	return doc, nil
}

// CollectViolations walks raw under rules, building a best-effort typed
// document regardless of how many rule violations it finds along the way
// (spec §9 open question 3, §4.12). Every violation is returned in
// encounter order.
func CollectViolations(raw *cifraw.Document, rules VersionRules) (*cifast.Document, []ciferr.Violation) {
	var violations []ciferr.Violation
	report := func(v ciferr.Violation) { violations = append(violations, v) }
	doc := resolveDocument(raw, rules, report)
	return doc, violations
}

func resolveDocument(raw *cifraw.Document, rules VersionRules, report func(ciferr.Violation)) *cifast.Document {
	if v := rules.CheckMagicHeader(raw); v != nil {
		report(*v)
	}
	blocks := make([]cifast.Block, 0, len(raw.Blocks))
	for _, rb := range raw.Blocks {
		blocks = append(blocks, resolveBlock(rb, rules, report))
	}
	return &cifast.Document{
		Blocks:         blocks,
		Dialect:        rules.Dialect(),
		Span:           raw.Span,
		HasMagicHeader: raw.HasCif2Magic,
	}
}

func resolveBlock(raw cifraw.Block, rules VersionRules, report func(ciferr.Violation)) cifast.Block {
	if !raw.IsGlobal {
		if v := rules.ValidateBlockName(raw.Name, raw.NameSpan); v != nil {
			report(*v)
		}
	}
	items := cifast.NewItemMap()
	for _, it := range raw.Items {
		items.Append(resolveItem(it, rules, report))
	}
	loops := make([]cifast.Loop, 0, len(raw.Loops))
	for _, l := range raw.Loops {
		loops = append(loops, resolveLoop(l, rules, report))
	}
	frames := make([]cifast.Frame, 0, len(raw.Frames))
	for _, f := range raw.Frames {
		frames = append(frames, resolveFrame(f, rules, report))
	}
	return cifast.Block{
		Name:     raw.Name,
		IsGlobal: raw.IsGlobal,
		Items:    items,
		Loops:    loops,
		Frames:   frames,
		NameSpan: raw.NameSpan,
		Span:     raw.Span,
	}
}

func resolveFrame(raw cifraw.Frame, rules VersionRules, report func(ciferr.Violation)) cifast.Frame {
	if v := rules.ValidateFrameName(raw.Name, raw.NameSpan); v != nil {
		report(*v)
	}
	items := cifast.NewItemMap()
	for _, it := range raw.Items {
		items.Append(resolveItem(it, rules, report))
	}
	loops := make([]cifast.Loop, 0, len(raw.Loops))
	for _, l := range raw.Loops {
		loops = append(loops, resolveLoop(l, rules, report))
	}
	return cifast.Frame{Name: raw.Name, Items: items, Loops: loops, Span: raw.Span, NameSpan: raw.NameSpan}
}

func resolveItem(raw cifraw.Item, rules VersionRules, report func(ciferr.Violation)) cifast.Item {
	return cifast.Item{
		Tag:      raw.Tag,
		Value:    resolveValueTree(raw.Value, rules, report),
		ItemSpan: raw.ItemSpan,
		TagSpan:  raw.TagSpan,
	}
}

// resolveLoop chunks the raw flat value sequence into rows of len(Tags)
// (spec §4.4.4). A tag-less loop or a value count that isn't a multiple of
// the tag count is reported as a violation; misaligned loops still resolve
// as many complete rows as the values allow, best-effort.
func resolveLoop(raw cifraw.Loop, rules VersionRules, report func(ciferr.Violation)) cifast.Loop {
	n := len(raw.Tags)
	if n == 0 {
		report(ciferr.Violation{
			Span:    raw.Span,
			Message: "loop_ declares no tags",
			RuleID:  ciferr.RuleLoopNoTags,
		})
		return cifast.Loop{Span: raw.Span}
	}
	if len(raw.Values)%n != 0 {
		report(ciferr.Violation{
			Span:       raw.Span,
			Message:    loopMisalignedMessage(n, len(raw.Values)),
			RuleID:     ciferr.RuleLoopValuesMisaligned,
			Suggestion: "check for a missing or extra value in one of the loop's rows",
		})
	}
	rows := len(raw.Values) / n
	values := make([][]cifast.Value, 0, rows)
	for r := 0; r < rows; r++ {
		row := make([]cifast.Value, 0, n)
		for c := 0; c < n; c++ {
			row = append(row, resolveValueTree(raw.Values[r*n+c], rules, report))
		}
		values = append(values, row)
	}
	return cifast.Loop{Tags: raw.Tags, Values: values, Span: raw.Span}
}

// resolveValueTree recurses into List/Table interiors itself, unless
// rules.DegradesComposites says the dialect has no list/table syntax at
// all, in which case the raw bracketed/braced text is kept as a literal
// Text value (spec §4.4.1, matching the original's Cif1Rules::resolve_list/
// resolve_table). rules.ResolveValue only ever sees leaf (Quoted/
// TripleQuoted/TextField/Unquoted) raw values (spec §4.2, §4.4.3).
func resolveValueTree(raw cifraw.Value, rules VersionRules, report func(ciferr.Violation)) cifast.Value {
	switch raw.Kind {
	case cifraw.KindList:
		if rules.DegradesComposites() {
			return cifast.NewText(raw.Raw, raw.Span)
		}
		elems := make([]cifast.Value, 0, len(raw.Elements))
		for _, e := range raw.Elements {
			elems = append(elems, resolveValueTree(e, rules, report))
		}
		return cifast.NewList(elems, raw.Span)
	case cifraw.KindTable:
		if rules.DegradesComposites() {
			return cifast.NewText(raw.Raw, raw.Span)
		}
		entries := make(map[string]cifast.Value, len(raw.Entries))
		for _, e := range raw.Entries {
			keyVal, violation := rules.ResolveValue(e.Key)
			if violation != nil {
				report(*violation)
			}
			key, _ := keyVal.AsText()
			entries[key] = resolveValueTree(e.Value, rules, report)
		}
		return cifast.NewTable(entries, raw.Span)
	default:
		v, violation := rules.ResolveValue(raw)
		if violation != nil {
			report(*violation)
		}
		return v
	}
}
