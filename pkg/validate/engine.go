package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cifkit/cif/internal/logging"
	"github.com/cifkit/cif/internal/metrics"
	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/dict"
	"github.com/cifkit/cif/pkg/span"
)

// logger is the package's structured logger (spec's ambient logging
// contract; see pkg/cif for the same convention).
var logger = logging.Setup("validate", "", "json", nil)

// Mode controls how strictly Engine treats unknown data names and
// stylistic issues (spec §4.12).
type Mode int

const (
	// Strict treats unknown data names as fatal errors. Default mode.
	Strict Mode = iota
	// Lenient demotes unknown data names to warnings and allows a
	// single value where a List is declared.
	Lenient
	// Pedantic demotes unknown data names to warnings, like Lenient, but
	// keeps Strict's type and container checks. Mixed-category loop
	// warnings are emitted in both Pedantic and Strict.
	Pedantic
)

// Engine checks a typed Document against a Dictionary (spec §4.12).
type Engine struct {
	dictionary *dict.Dictionary
	mode       Mode
	result     Result
	index      *DefinitionIndex
	metrics    *metrics.Metrics
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMetrics records every Validate call's mode, outcome, and
// error/warning categories against m. Skipped entirely when no option
// is given.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an Engine that validates against dictionary in mode. The
// returned Engine's Result carries a fresh ULID, so results from different
// Engines can be told apart; the ID is not written to log lines or metric
// labels.
func New(dictionary *dict.Dictionary, mode Mode, opts ...Option) *Engine {
	e := &Engine{
		dictionary: dictionary,
		mode:       mode,
		result:     Result{ID: ulid.Make()},
		index:      newDefinitionIndex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate walks every block (and their frames) in doc, accumulating
// errors and warnings into the returned Result (spec §4.12.1-§4.12.5).
// It also populates the DefinitionIndex available afterwards via
// Engine.Index (spec §4.13).
func (e *Engine) Validate(doc *cifast.Document) Result {
	for i := range doc.Blocks {
		e.validateBlock(&doc.Blocks[i])
	}
	logger.Debug("validate: run complete", "mode", e.modeLabel(), "errors", len(e.result.Errors), "warnings", len(e.result.Warnings))
	if e.metrics != nil {
		e.metrics.ObserveValidation(e.modeLabel(), e.result.IsValid(), errorCategories(e.result.Errors), warningCategories(e.result.Warnings))
	}
	return e.result
}

func (e *Engine) modeLabel() string {
	switch e.mode {
	case Lenient:
		return "lenient"
	case Pedantic:
		return "pedantic"
	default:
		return "strict"
	}
}

func errorCategories(errs []Error) []string {
	if len(errs) == 0 {
		return nil
	}
	cats := make([]string, len(errs))
	for i, e := range errs {
		cats[i] = e.Category.String()
	}
	return cats
}

func warningCategories(warnings []Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	cats := make([]string, len(warnings))
	for i, w := range warnings {
		cats[i] = w.Category.String()
	}
	return cats
}

// Index returns the span-to-definition index filled by this Engine's
// Validate calls; entries from every call accumulate (spec §4.13).
func (e *Engine) Index() *DefinitionIndex { return e.index }

func (e *Engine) validateBlock(block *cifast.Block) {
	for _, item := range block.Items.Items() {
		e.validateItem(item.Tag, item.Value)
	}
	for i := range block.Loops {
		e.validateLoop(&block.Loops[i])
	}
	for i := range block.Frames {
		e.validateFrame(&block.Frames[i])
	}
	e.checkMandatoryItems(block.Items, block.Loops, block.Span)
}

func (e *Engine) validateFrame(frame *cifast.Frame) {
	for _, item := range frame.Items.Items() {
		e.validateItem(item.Tag, item.Value)
	}
	for i := range frame.Loops {
		e.validateLoop(&frame.Loops[i])
	}
	e.checkMandatoryItems(frame.Items, frame.Loops, frame.Span)
}

func (e *Engine) validateItem(name string, value cifast.Value) {
	def, ok := e.dictionary.GetItem(name)
	if !ok {
		switch e.mode {
		case Strict:
			e.result.addError(unknownDataNameError(name, value.Span))
		default:
			e.result.addWarning(unknownItemWarning(name, value.Span))
		}
		return
	}

	e.index.record(value.Span, def.Name)

	if value.IsSpecial() {
		return
	}

	e.validateType(name, value, def)
	e.validateContainer(name, value, def)
	e.validateConstraints(name, value, def)
}

func (e *Engine) validateType(name string, value cifast.Value, def *dict.Item) {
	switch def.Type.Contents {
	case dict.ContentInteger, dict.ContentIndex, dict.ContentCount:
		e.validateInteger(name, value, def)
	case dict.ContentReal:
		e.validateReal(name, value)
	case dict.ContentWord, dict.ContentCode:
		e.validateWord(name, value)
	case dict.ContentDate:
		e.validateDate(name, value)
	case dict.ContentDateTime:
		e.validateDateTime(name, value)
	default:
		// Text, Name, Tag, Uri, and the other string-ish contents
		// accept any string (spec §4.12.1).
	}
}

func (e *Engine) validateInteger(name string, value cifast.Value, def *dict.Item) {
	switch value.Kind {
	case cifast.KindNumeric:
		e.checkIntegerBounds(name, value.Number, value.Span, def)
	case cifast.KindNumericWithUncertainty:
		if e.mode != Lenient && math.Trunc(value.Number) != value.Number {
			e.result.addError(typeErrorResult(name, "integer", "float "+formatFloat(value.Number), value.Span))
		}
	case cifast.KindText:
		if _, err := strconv.ParseInt(strings.TrimSpace(value.Text), 10, 64); err != nil {
			e.result.addError(typeErrorResult(name, "integer", "text '"+value.Text+"'", value.Span))
		}
	default:
		e.result.addError(typeErrorResult(name, "integer", "non-numeric value", value.Span))
	}
}

func (e *Engine) checkIntegerBounds(name string, n float64, sp span.Span, def *dict.Item) {
	if math.Trunc(n) != n {
		e.result.addError(typeErrorResult(name, "integer", "float "+formatFloat(n), sp))
	}
	switch def.Type.Contents {
	case dict.ContentIndex:
		if n < 1 {
			one := 1.0
			e.result.addError(rangeErrorResult(name, n, &one, nil, sp))
		}
	case dict.ContentCount:
		if n < 0 {
			zero := 0.0
			e.result.addError(rangeErrorResult(name, n, &zero, nil, sp))
		}
	}
}

func (e *Engine) validateReal(name string, value cifast.Value) {
	switch value.Kind {
	case cifast.KindNumeric, cifast.KindNumericWithUncertainty:
		// Valid.
	case cifast.KindText:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64); err != nil {
			e.result.addError(typeErrorResult(name, "real number", "text '"+value.Text+"'", value.Span))
		}
	default:
		e.result.addError(typeErrorResult(name, "real number", "non-numeric value", value.Span))
	}
}

func (e *Engine) validateWord(name string, value cifast.Value) {
	text, ok := value.AsText()
	if !ok {
		return
	}
	if strings.ContainsFunc(text, isSpace) {
		e.result.addError(typeErrorResult(name, "single word (no whitespace)", "text with whitespace '"+text+"'", value.Span))
	}
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func (e *Engine) validateDate(name string, value cifast.Value) {
	text, ok := value.AsText()
	if !ok {
		return
	}
	if !isDateShape(text) {
		e.result.addError(typeErrorResult(name, "date (YYYY-MM-DD)", "'"+text+"'", value.Span))
	}
}

func isDateShape(s string) bool {
	parts := strings.Split(s, "-")
	return len(parts) == 3 && len(parts[0]) == 4 && len(parts[1]) == 2 && len(parts[2]) == 2
}

func (e *Engine) validateDateTime(name string, value cifast.Value) {
	text, ok := value.AsText()
	if !ok {
		return
	}
	if !strings.ContainsAny(text, "T ") {
		e.validateDate(name, value)
	}
}

func (e *Engine) validateContainer(name string, value cifast.Value, def *dict.Item) {
	switch def.Type.Container {
	case dict.ContainerList, dict.ContainerArray:
		if value.Kind != cifast.KindList && e.mode != Lenient {
			e.result.addError(typeErrorResult(name, "list", "single value", value.Span))
		}
	case dict.ContainerMatrix:
		outer, ok := value.AsList()
		if !ok {
			e.result.addError(typeErrorResult(name, "matrix", "non-list value", value.Span))
			return
		}
		for _, inner := range outer {
			if inner.Kind != cifast.KindList {
				e.result.addError(typeErrorResult(name, "matrix (list of lists)", "non-matrix structure", value.Span))
				return
			}
		}
	case dict.ContainerTable:
		if value.Kind != cifast.KindTable {
			e.result.addError(typeErrorResult(name, "table", "non-table value", value.Span))
		}
	case dict.ContainerSingle:
		// No constraint.
	}
}

func (e *Engine) validateConstraints(name string, value cifast.Value, def *dict.Item) {
	if def.Constraints.Enumeration != nil {
		e.validateEnumeration(name, value, def.Constraints.Enumeration)
	}
	if def.Constraints.Range != nil {
		e.validateRange(name, value, def.Constraints.Range)
	}
}

func (e *Engine) validateEnumeration(name string, value cifast.Value, constraint *dict.EnumerationConstraint) {
	text, ok := value.AsText()
	if !ok {
		return
	}
	if constraint.Contains(text) {
		return
	}
	suggestions := suggestSimilar(text, constraint.Values)
	e.result.addError(enumerationErrorResult(name, text, constraint.Values, suggestions, value.Span))
}

func (e *Engine) validateRange(name string, value cifast.Value, r *dict.RangeConstraint) {
	n, ok := value.AsNumeric()
	if !ok {
		return
	}
	if !r.Contains(n) {
		e.result.addError(rangeErrorResult(name, n, r.Min, r.Max, value.Span))
	}
}

func (e *Engine) validateLoop(loop *cifast.Loop) {
	categories := make([]string, len(loop.Tags))
	var unknownTags []string
	for i, tag := range loop.Tags {
		if def, ok := e.dictionary.GetItem(tag); ok {
			categories[i] = def.Category
		} else {
			unknownTags = append(unknownTags, tag)
		}
	}

	if e.mode == Strict {
		for _, tag := range unknownTags {
			e.result.addError(unknownDataNameError(tag, loop.Span))
		}
	}

	if e.mode == Strict || e.mode == Pedantic {
		seen := map[string]bool{}
		var distinct []string
		for _, c := range categories {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			distinct = append(distinct, c)
		}
		if len(distinct) > 1 {
			e.result.addWarning(mixedCategoriesWarning(distinct, loop.Span))
		}
	}

	for col, tag := range loop.Tags {
		for row := 0; row < loop.Len(); row++ {
			value, ok := loop.Get(row, col)
			if !ok {
				continue
			}
			e.validateItem(tag, value)
		}
	}
}

func (e *Engine) checkMandatoryItems(items cifast.ItemMap, loops []cifast.Loop, blockSpan span.Span) {
	presentCategories := map[string]bool{}
	presentItems := map[string]bool{}

	note := func(name string) {
		presentItems[e.dictionary.ResolveName(name)] = true
		if def, ok := e.dictionary.GetItem(name); ok {
			presentCategories[strings.ToLower(def.Category)] = true
		}
	}

	for _, tag := range items.Tags() {
		note(tag)
	}
	for i := range loops {
		for _, tag := range loops[i].Tags {
			note(tag)
		}
	}

	for catName := range presentCategories {
		cat, ok := e.dictionary.GetCategory(catName)
		if !ok {
			continue
		}
		for _, itemName := range cat.ItemNames {
			item, ok := e.dictionary.GetItem(itemName)
			if !ok || !item.IsMandatory() {
				continue
			}
			present := presentItems[strings.ToLower(item.Name)]
			if !present {
				for _, alias := range item.Aliases {
					if presentItems[strings.ToLower(alias)] {
						present = true
						break
					}
				}
			}
			if !present {
				e.result.addError(missingMandatoryError(item.Name, blockSpan))
			}
		}
	}
}

func formatFloat(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
