// Package validate checks a typed CIF document against a merged DDLm
// dictionary (spec §4.12), and exposes the span-to-definition index a
// hover/inspection surface consumes (spec §4.13).
package validate

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cifkit/cif/pkg/span"
)

// ErrorCategory discriminates validation failure kinds (spec §4.12).
type ErrorCategory int

const (
	UnknownDataName ErrorCategory = iota
	TypeError
	RangeError
	EnumerationError
	MissingMandatory
	LoopStructure
)

func (c ErrorCategory) String() string {
	switch c {
	case UnknownDataName:
		return "unknown data name"
	case TypeError:
		return "type error"
	case RangeError:
		return "range error"
	case EnumerationError:
		return "enumeration error"
	case MissingMandatory:
		return "missing mandatory item"
	case LoopStructure:
		return "loop structure error"
	default:
		return "unknown error"
	}
}

// Error is one validation failure (spec §4.12, §4.12.5).
type Error struct {
	Category    ErrorCategory
	Message     string
	Span        span.Span
	DataName    string
	Expected    string
	Actual      string
	Suggestions []string
}

func (e Error) Error() string {
	msg := fmt.Sprintf("%s at %d:%d", e.Message, e.Span.StartLine, e.Span.StartCol)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (suggestions: %v)", e.Suggestions)
	}
	return msg
}

func unknownDataNameError(name string, sp span.Span) Error {
	return Error{
		Category: UnknownDataName,
		Message:  fmt.Sprintf("unknown data name %q", name),
		Span:     sp,
		DataName: name,
	}
}

func typeErrorResult(name, expected, actual string, sp span.Span) Error {
	return Error{
		Category: TypeError,
		Message:  fmt.Sprintf("type error for %q: expected %s, got %s", name, expected, actual),
		Span:     sp,
		DataName: name,
		Expected: expected,
		Actual:   actual,
	}
}

func rangeErrorResult(name string, value float64, min, max *float64, sp span.Span) Error {
	return Error{
		Category: RangeError,
		Message:  fmt.Sprintf("value %v for %q is outside allowed range %s", value, name, describeRange(min, max)),
		Span:     sp,
		DataName: name,
		Expected: describeRange(min, max),
		Actual:   fmt.Sprintf("%v", value),
	}
}

func describeRange(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%v to %v", *min, *max)
	case min != nil:
		return fmt.Sprintf(">= %v", *min)
	case max != nil:
		return fmt.Sprintf("<= %v", *max)
	default:
		return "any value"
	}
}

func enumerationErrorResult(name, actual string, allowed []string, suggestions []string, sp span.Span) Error {
	return Error{
		Category:    EnumerationError,
		Message:     fmt.Sprintf("value %q for %q is not in allowed values %v", actual, name, allowed),
		Span:        sp,
		DataName:    name,
		Expected:    fmt.Sprintf("one of %v", allowed),
		Actual:      actual,
		Suggestions: suggestions,
	}
}

func missingMandatoryError(name string, blockSpan span.Span) Error {
	return Error{
		Category: MissingMandatory,
		Message:  fmt.Sprintf("missing mandatory item %q", name),
		Span:     blockSpan,
		DataName: name,
	}
}

// WarningCategory discriminates non-fatal validation observations
// (spec §4.12.1, §4.12.2).
type WarningCategory int

const (
	MixedCategories WarningCategory = iota
	UnknownItem
)

func (c WarningCategory) String() string {
	switch c {
	case MixedCategories:
		return "mixed categories"
	case UnknownItem:
		return "unknown item"
	default:
		return "unknown warning"
	}
}

// Warning is a non-fatal validation observation (spec §4.12).
type Warning struct {
	Category WarningCategory
	Message  string
	Span     span.Span
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s at %d:%d", w.Message, w.Span.StartLine, w.Span.StartCol)
}

func mixedCategoriesWarning(categories []string, sp span.Span) Warning {
	return Warning{
		Category: MixedCategories,
		Message:  fmt.Sprintf("loop contains items from multiple categories %v", categories),
		Span:     sp,
	}
}

func unknownItemWarning(name string, sp span.Span) Warning {
	return Warning{
		Category: UnknownItem,
		Message:  fmt.Sprintf("unknown data name %q", name),
		Span:     sp,
	}
}

// Result is the outcome of validating a document (spec §4.12.5). ID is a
// ULID unique to the Engine that produced this Result.
type Result struct {
	ID       ulid.ULID
	Errors   []Error
	Warnings []Warning
}

// IsValid reports whether Result carries no errors (spec §4.12.5:
// "is_valid = errors.empty()").
func (r Result) IsValid() bool { return len(r.Errors) == 0 }

func (r *Result) addError(e Error)     { r.Errors = append(r.Errors, e) }
func (r *Result) addWarning(w Warning) { r.Warnings = append(r.Warnings, w) }
