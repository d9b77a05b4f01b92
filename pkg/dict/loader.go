package dict

import (
	"strings"

	"github.com/cifkit/cif/internal/logging"
	"github.com/cifkit/cif/internal/metrics"
	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/errutil"
)

// logger is the package's structured logger (spec's ambient logging
// contract; see pkg/cif for the same convention).
var logger = logging.Setup("dict", "", "json", nil)

// loadConfig holds the optional knobs a caller can set via LoadOption.
type loadConfig struct {
	metrics *metrics.Metrics
}

// LoadOption configures a Load call.
type LoadOption func(*loadConfig)

// WithMetrics records this load's outcome and every error kind it
// produced against m. Skipped entirely when no option is given.
func WithMetrics(m *metrics.Metrics) LoadOption {
	return func(c *loadConfig) { c.metrics = m }
}

// Load builds a Dictionary from a parsed CIF 2.0 document containing
// one data block and many save-frames (spec §4.10). It never aborts:
// every frame that fails to load is skipped and its error appended to
// the returned slice, so a caller can inspect what did load alongside
// what didn't (spec §7: "partial success allowed").
func Load(doc *cifast.Document, opts ...LoadOption) (*Dictionary, []error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := New()
	var errs []error

	block, ok := doc.FirstBlock()
	if !ok {
		logger.Debug("dict: document carries no blocks")
		recordLoad(cfg.metrics, errs)
		return d, errs
	}

	loadMetadata(&d.Metadata, block)

	for _, frame := range block.Frames {
		switch content, item, cat, err := loadFrame(&frame); content {
		case frameCategory:
			if err != nil {
				errutil.LogError(logger, "dict: failed to load frame", err)
				errs = append(errs, err)
				continue
			}
			d.Categories[strings.ToLower(cat.Name)] = cat
		case frameItem:
			if err != nil {
				errutil.LogError(logger, "dict: failed to load frame", err)
				errs = append(errs, err)
				continue
			}
			nameLower := strings.ToLower(item.Name)
			for _, alias := range item.Aliases {
				d.Aliases[strings.ToLower(alias)] = nameLower
			}
			d.Items[nameLower] = item
		case frameSkip:
			// unrecognised frame shape, not a dictionary error
		}
	}

	populateCategoryItems(d)

	logger.Debug("dict: loaded dictionary", "categories", len(d.Categories), "items", len(d.Items), "errors", len(errs))
	recordLoad(cfg.metrics, errs)
	return d, errs
}

func recordLoad(m *metrics.Metrics, errs []error) {
	if m == nil {
		return
	}
	kinds := make([]string, 0, len(errs))
	for _, err := range errs {
		if le, ok := err.(*LoadError); ok {
			kinds = append(kinds, le.Kind.String())
		}
	}
	m.ObserveDictionaryLoad(kinds)
}

type frameContentKind int

const (
	frameSkip frameContentKind = iota
	frameCategory
	frameItem
)

func loadFrame(frame *cifast.Frame) (frameContentKind, *Item, *Category, error) {
	scope, _ := getText(frame, "_definition.scope")
	switch strings.ToLower(scope) {
	case "category":
		cat, err := loadCategory(frame)
		return frameCategory, nil, cat, err
	default:
		if _, hasType := frame.GetItem("_type.contents"); hasType {
			item, err := loadItem(frame)
			return frameItem, item, nil, err
		}
		if _, hasID := frame.GetItem("_definition.id"); hasID {
			item, err := loadItem(frame)
			return frameItem, item, nil, err
		}
		return frameSkip, nil, nil, nil
	}
}

func loadCategory(frame *cifast.Frame) (*Category, error) {
	definitionID, ok := getText(frame, "_definition.id")
	if !ok {
		return nil, errMissingField(frame.Name, "_definition.id", frame.Span)
	}

	name, ok := getText(frame, "_name.object_id")
	if !ok {
		name = definitionID
	}

	classStr, _ := getText(frame, "_definition.class")
	parent, _ := getText(frame, "_name.category_id")
	description, _ := getText(frame, "_description.text")

	return &Category{
		Name:         strings.ToLower(name),
		DefinitionID: definitionID,
		Description:  description,
		Class:        ParseCategoryClass(classStr),
		Parent:       parent,
		KeyItems:     extractColumn(frame, "_category_key.name"),
		Span:         frame.Span,
	}, nil
}

func loadItem(frame *cifast.Frame) (*Item, error) {
	name, ok := getText(frame, "_definition.id")
	if !ok {
		return nil, errMissingField(frame.Name, "_definition.id", frame.Span)
	}

	category, object, ok := ParseDataName(name)
	if !ok {
		category, _ = getText(frame, "_name.category_id")
		object, _ = getText(frame, "_name.object_id")
		category = strings.ToLower(category)
		object = strings.ToLower(object)
	}

	description, _ := getText(frame, "_description.text")
	defaultValue, _ := getText(frame, "_enumeration.default")
	drelMethod, _ := getText(frame, "_method.expression")
	linkedItem, _ := getText(frame, "_name.linked_item_id")

	return &Item{
		Name:        name,
		Category:    category,
		Object:      object,
		Aliases:     extractColumn(frame, "_alias.definition_id"),
		Type:        extractTypeInfo(frame),
		Constraints: extractConstraints(frame),
		Links:       Links{LinkedItem: linkedItem},
		Description: description,
		Default:     defaultValue,
		DrelMethod:  drelMethod,
		Span:        frame.Span,
	}, nil
}

func extractTypeInfo(frame *cifast.Frame) TypeInfo {
	contents, _ := getText(frame, "_type.contents")
	container, _ := getText(frame, "_type.container")
	purpose, _ := getText(frame, "_type.purpose")
	source, _ := getText(frame, "_type.source")
	units, _ := getText(frame, "_units.code")

	return TypeInfo{
		Contents:  ParseContentType(contents),
		Container: ParseContainerType(container),
		Purpose:   ParsePurpose(purpose),
		Source:    ParseSource(source),
		Units:     units,
	}
}

func extractConstraints(frame *cifast.Frame) Constraints {
	mandatoryCode, _ := getText(frame, "_definition.mandatory_code")

	c := Constraints{
		Mandatory: strings.EqualFold(mandatoryCode, "yes"),
	}

	if values := extractEnumeration(frame); len(values) > 0 {
		c.Enumeration = &EnumerationConstraint{Values: values}
	}

	if rangeStr, ok := getText(frame, "_enumeration.range"); ok {
		if rc, ok := ParseRangeConstraint(rangeStr); ok {
			c.Range = &rc
		}
	}

	return c
}

func extractEnumeration(frame *cifast.Frame) []string {
	var values []string

	if v, ok := frame.GetItem("_enumeration.set"); ok {
		switch v.Kind {
		case cifast.KindList:
			for _, el := range v.List {
				if s, ok := el.AsText(); ok {
					values = append(values, s)
				}
			}
		case cifast.KindText:
			values = append(values, v.Text)
		}
	}

	for _, tag := range []string{"_enumeration_set.state", "_enumeration.set"} {
		values = append(values, extractColumn(frame, tag)...)
	}

	return values
}

// extractColumn returns either the single item value at tag, or every
// row of whichever loop carries tag as a column (spec §4.10 step 4:
// "single value or a loop column").
func extractColumn(frame *cifast.Frame, tag string) []string {
	var out []string
	if v, ok := frame.GetItem(tag); ok {
		if s, ok := v.AsText(); ok {
			out = append(out, s)
		}
	}
	if col, ok := frame.FindLoop(tag); ok {
		if values, ok := col.GetColumn(tag); ok {
			for _, v := range values {
				if s, ok := v.AsText(); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func getText(frame *cifast.Frame, tag string) (string, bool) {
	v, ok := frame.GetItem(tag)
	if !ok {
		return "", false
	}
	return v.AsText()
}

func loadMetadata(m *Metadata, block *cifast.Block) {
	m.Title, _ = getBlockText(block, "_dictionary.title")
	m.Version, _ = getBlockText(block, "_dictionary.version")
	m.Date, _ = getBlockText(block, "_dictionary.date")
	m.URI, _ = getBlockText(block, "_dictionary.uri")
	m.DDLConformance, _ = getBlockText(block, "_dictionary.ddl_conformance")
	m.Namespace, _ = getBlockText(block, "_dictionary.namespace")
}

func getBlockText(block *cifast.Block, tag string) (string, bool) {
	v, ok := block.GetItem(tag)
	if !ok {
		return "", false
	}
	return v.AsText()
}

func populateCategoryItems(d *Dictionary) {
	byCategory := make(map[string][]string)
	for name, item := range d.Items {
		byCategory[strings.ToLower(item.Category)] = append(byCategory[strings.ToLower(item.Category)], name)
	}
	for catName, names := range byCategory {
		if cat, ok := d.Categories[catName]; ok {
			cat.ItemNames = names
		}
	}
}
