// Package dict models DDLm dictionaries: the category/item/type/
// constraint vocabulary a dictionary file defines, and the lookups a
// validator needs against it (spec §3.5, §4.9).
package dict

import (
	"strconv"
	"strings"

	"github.com/cifkit/cif/pkg/span"
)

// Metadata holds the dictionary-level fields read from a dictionary
// document's block header (spec §3.5, §4.10 step 1).
type Metadata struct {
	Title           string
	Version         string
	Date            string
	URI             string
	DDLConformance  string
	Namespace       string
}

// CategoryClass says how a category's items may appear in a document
// (spec §3.5).
type CategoryClass int

const (
	// ClassSet is the default: items appear singly, never in a loop.
	ClassSet CategoryClass = iota
	// ClassLoop items may appear as loop columns.
	ClassLoop
	// ClassHead marks the top of a category hierarchy.
	ClassHead
)

// ParseCategoryClass parses a DDLm `_definition.class` value
// case-insensitively; an unrecognised string defaults to ClassSet
// (spec §3.5: "Unknown strings default to ... Single/Describe/
// Recorded", the same permissive-default convention applied here to
// the class field).
func ParseCategoryClass(s string) CategoryClass {
	switch strings.ToLower(s) {
	case "head":
		return ClassHead
	case "loop":
		return ClassLoop
	default:
		return ClassSet
	}
}

// Category groups related data items (spec §3.5).
type Category struct {
	Name         string
	DefinitionID string
	Description  string
	Class        CategoryClass
	Parent       string
	KeyItems     []string
	ItemNames    []string
	Span         span.Span
}

// ContentType is a DDLm `_type.contents` value (spec §3.5).
type ContentType int

const (
	ContentText ContentType = iota
	ContentReal
	ContentInteger
	ContentCount
	ContentIndex
	ContentWord
	ContentCode
	ContentName
	ContentTag
	ContentURI
	ContentDate
	ContentDateTime
	ContentVersion
	ContentDimension
	ContentRange
	ContentComplex
	ContentBinary
	ContentByReference
	ContentImplied
)

var contentTypeNames = map[string]ContentType{
	"real":        ContentReal,
	"integer":     ContentInteger,
	"count":       ContentCount,
	"index":       ContentIndex,
	"text":        ContentText,
	"word":        ContentWord,
	"code":        ContentCode,
	"name":        ContentName,
	"tag":         ContentTag,
	"uri":         ContentURI,
	"date":        ContentDate,
	"datetime":    ContentDateTime,
	"version":     ContentVersion,
	"dimension":   ContentDimension,
	"range":       ContentRange,
	"complex":     ContentComplex,
	"binary":      ContentBinary,
	"byreference": ContentByReference,
	"implied":     ContentImplied,
}

// ParseContentType parses a `_type.contents` value; unknown strings
// default to ContentText (spec §3.5).
func ParseContentType(s string) ContentType {
	if ct, ok := contentTypeNames[strings.ToLower(s)]; ok {
		return ct
	}
	return ContentText
}

// IsNumeric reports whether values of this content type are expected
// to parse as numbers (spec §4.12.1).
func (c ContentType) IsNumeric() bool {
	switch c {
	case ContentReal, ContentInteger, ContentCount, ContentIndex, ContentComplex:
		return true
	default:
		return false
	}
}

// ContainerType is a DDLm `_type.container` value (spec §3.5).
type ContainerType int

const (
	ContainerSingle ContainerType = iota
	ContainerList
	ContainerArray
	ContainerMatrix
	ContainerTable
)

// ParseContainerType parses a `_type.container` value; unknown strings
// default to ContainerSingle (spec §3.5).
func ParseContainerType(s string) ContainerType {
	switch strings.ToLower(s) {
	case "list":
		return ContainerList
	case "array":
		return ContainerArray
	case "matrix":
		return ContainerMatrix
	case "table":
		return ContainerTable
	default:
		return ContainerSingle
	}
}

// Purpose is a DDLm `_type.purpose` value (spec §3.5).
type Purpose int

const (
	PurposeDescribe Purpose = iota
	PurposeMeasurand
	PurposeNumber
	PurposeCount
	PurposeIndex
	PurposeEncode
	PurposeState
	PurposeLink
	PurposeKey
	PurposeComposite
	PurposeAudit
)

var purposeNames = map[string]Purpose{
	"measurand": PurposeMeasurand,
	"number":    PurposeNumber,
	"count":     PurposeCount,
	"index":     PurposeIndex,
	"describe":  PurposeDescribe,
	"encode":    PurposeEncode,
	"state":     PurposeState,
	"link":      PurposeLink,
	"key":       PurposeKey,
	"composite": PurposeComposite,
	"audit":     PurposeAudit,
}

// ParsePurpose parses a `_type.purpose` value; unknown strings default
// to PurposeDescribe (spec §3.5).
func ParsePurpose(s string) Purpose {
	if p, ok := purposeNames[strings.ToLower(s)]; ok {
		return p
	}
	return PurposeDescribe
}

// Source is a DDLm `_type.source` value (spec §3.5).
type Source int

const (
	SourceRecorded Source = iota
	SourceAssigned
	SourceDerived
)

// ParseSource parses a `_type.source` value; unknown strings default
// to SourceRecorded (spec §3.5).
func ParseSource(s string) Source {
	switch strings.ToLower(s) {
	case "assigned":
		return SourceAssigned
	case "derived":
		return SourceDerived
	default:
		return SourceRecorded
	}
}

// TypeInfo is the type vocabulary a DataItem declares (spec §3.5).
type TypeInfo struct {
	Contents   ContentType
	Container  ContainerType
	Purpose    Purpose
	Source     Source
	Units      string
	Dimensions []int
}

// EnumerationConstraint restricts a value's text form to a fixed set
// (spec §3.5, §4.9).
type EnumerationConstraint struct {
	Values        []string
	CaseSensitive bool
}

// Contains reports whether value is one of the allowed enumeration
// values, honouring CaseSensitive (spec §4.9).
func (e EnumerationConstraint) Contains(value string) bool {
	for _, v := range e.Values {
		if e.CaseSensitive {
			if v == value {
				return true
			}
		} else if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// RangeConstraint bounds a numeric value (spec §3.5, §4.9). Either
// bound may be absent (nil), meaning unbounded on that side.
type RangeConstraint struct {
	Min *float64
	Max *float64
}

// ParseRangeConstraint parses a DDLm range string of the form "a:b"
// (either side may be empty; at least one must be present). Returns
// false if s is malformed (spec §3.5).
func ParseRangeConstraint(s string) (RangeConstraint, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return RangeConstraint{}, false
	}
	var rc RangeConstraint
	if parts[0] != "" {
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return RangeConstraint{}, false
		}
		rc.Min = &v
	}
	if parts[1] != "" {
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return RangeConstraint{}, false
		}
		rc.Max = &v
	}
	if rc.Min == nil && rc.Max == nil {
		return RangeConstraint{}, false
	}
	return rc, true
}

// Contains reports whether value satisfies min <= value <= max for
// whichever bounds are present (spec §4.9).
func (r RangeConstraint) Contains(value float64) bool {
	if r.Min != nil && value < *r.Min {
		return false
	}
	if r.Max != nil && value > *r.Max {
		return false
	}
	return true
}

// Constraints bundles the optional value restrictions a DataItem
// declares (spec §3.5).
type Constraints struct {
	Enumeration *EnumerationConstraint
	Range       *RangeConstraint
	Mandatory   bool
}

// Links records a data item's foreign-key relationship to another
// item (spec §3.5).
type Links struct {
	LinkedItem string
}

// Item is a single DDLm data item definition (spec §3.5).
type Item struct {
	Name        string // "_category.object" as written in _definition.id; Dictionary.Items keys it lowercased
	Category    string
	Object      string
	Aliases     []string
	Type        TypeInfo
	Constraints Constraints
	Links       Links
	Description string
	Default     string
	DrelMethod  string
	Span        span.Span
}

// IsMandatory reports whether the item must be present whenever its
// category is observed (spec §3.5, §4.12.4).
func (i Item) IsMandatory() bool { return i.Constraints.Mandatory }

// FullName returns the item's name with a leading underscore, adding
// one if Name was stored without it.
func (i Item) FullName() string {
	if strings.HasPrefix(i.Name, "_") {
		return i.Name
	}
	return "_" + i.Name
}

// ParseDataName splits a data name into its lowercased (category,
// object) halves (spec §4.9, §4.10 step 4, open question 2). Modern
// names split on the first '.'; legacy names split on the first '_'
// after stripping the leading underscore — a heuristic that may not
// always be correct, inherited unchanged from the format this was
// distilled from. Returns false if name carries neither separator.
func ParseDataName(name string) (category, object string, ok bool) {
	name = strings.TrimPrefix(name, "_")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[:i]), strings.ToLower(name[i+1:]), true
	}
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return strings.ToLower(name[:i]), strings.ToLower(name[i+1:]), true
	}
	return "", "", false
}
