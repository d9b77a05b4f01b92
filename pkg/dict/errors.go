package dict

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/cifkit/cif/pkg/span"
)

// LoadError is one failure encountered while loading a dictionary
// document (spec §4.10, §4.11, §7: "partial success allowed ... accumulate
// and return as a vector alongside still-loadable state"). Loading
// never aborts on the first LoadError; Load returns every one it
// collects.
type LoadError struct {
	Kind    LoadErrorKind
	Item    string // the save-frame/definition id this error concerns
	Field   string // only meaningful for MissingField/InvalidField
	Ref     string // only meaningful for MissingDrelReference: the unresolved name
	Span    span.Span
	Message string
	err     error
}

// LoadErrorKind discriminates the dictionary-loading/self-validation
// error families named by spec §4.10-§4.11.
type LoadErrorKind int

const (
	// KindMissingField: a required field (e.g. "_definition.id") was
	// absent from a save frame.
	KindMissingField LoadErrorKind = iota
	// KindInvalidField: a field was present but its value couldn't be
	// interpreted.
	KindInvalidField
	// KindInvalidDrel: an item's _method.expression failed to parse.
	KindInvalidDrel
	// KindMissingDrelReference: a dREL method references a data name
	// or category the dictionary doesn't define.
	KindMissingDrelReference
	// KindParseError: the underlying CIF document failed to parse.
	KindParseError
	// KindIOError: the dictionary file couldn't be read.
	KindIOError
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "missing-field"
	case KindInvalidField:
		return "invalid-field"
	case KindInvalidDrel:
		return "invalid-drel"
	case KindMissingDrelReference:
		return "missing-drel-reference"
	case KindParseError:
		return "parse-error"
	case KindIOError:
		return "io-error"
	default:
		return "unknown"
	}
}

func (e *LoadError) Error() string { return e.Message }

func (e *LoadError) Unwrap() error { return e.err }

func newLoadError(kind LoadErrorKind, item, field, ref string, sp span.Span, message string) *LoadError {
	wrapped := oops.
		Code("dict-" + kind.String()).
		With("item", item).
		With("span", sp).
		Errorf("%s", message)
	return &LoadError{
		Kind:    kind,
		Item:    item,
		Field:   field,
		Ref:     ref,
		Span:    sp,
		Message: message,
		err:     wrapped,
	}
}

func errMissingField(item, field string, sp span.Span) *LoadError {
	return newLoadError(KindMissingField, item, field, "", sp,
		fmt.Sprintf("missing required field %q in definition for %q", field, item))
}

func errInvalidField(item, field, reason string, sp span.Span) *LoadError {
	return newLoadError(KindInvalidField, item, field, "", sp,
		fmt.Sprintf("invalid value for %q in %q: %s", field, item, reason))
}

func errInvalidDrel(item, reason string, sp span.Span) *LoadError {
	return newLoadError(KindInvalidDrel, item, "", "", sp,
		fmt.Sprintf("invalid dREL method in %q: %s", item, reason))
}

func errMissingDrelReference(item, referenced string, sp span.Span) *LoadError {
	return newLoadError(KindMissingDrelReference, item, "", referenced, sp,
		fmt.Sprintf("dREL method in %q references unknown %q", item, referenced))
}
