// Package ciferr defines the CIF toolkit's structured error taxonomy:
// parse (grammar recognition) errors, invalid-structure (dialect
// violation) errors, and I/O errors, each carrying source location where
// one is meaningful. See spec §4.6.
package ciferr

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/cifkit/cif/pkg/span"
)

// RuleID is a stable, machine-readable identifier for a version-rule
// violation (spec §6.7). New ids may be added over time; existing ids
// never change meaning.
type RuleID string

// The rule-id registry named explicitly by spec §6.7. Additional rule ids
// are declared alongside the checks that produce them (see pkg/cifrules).
const (
	RuleMissingMagicHeader RuleID = "cif2-missing-magic-header"
	RuleNoEmptyBlockName   RuleID = "cif2-no-empty-block-name"
	RuleNoEmptyFrameName   RuleID = "cif2-no-empty-frame-name"
	RuleNoDoubledQuotes    RuleID = "cif2-no-doubled-quotes"
	RuleLoopNoTags         RuleID = "loop-no-tags"
	RuleLoopValuesMisaligned RuleID = "loop-values-misaligned"
)

// Violation is a located, rule-tagged diagnostic produced while resolving
// a raw tree under a specific dialect's rules (spec §4.4). Violations are
// not necessarily fatal: cifrules.Resolve aborts on the first one, while
// CollectViolations accumulates every one it finds without aborting.
type Violation struct {
	Span       span.Span
	Message    string
	RuleID     RuleID
	Suggestion string // empty means "no suggestion"
}

// Error renders the violation as "[{rule_id}] {message}{ suggestion?}",
// the exact shape spec §4.6 mandates for invalid-structure errors derived
// from a version violation.
func (v Violation) Error() string {
	s := fmt.Sprintf("[%s] %s", v.RuleID, v.Message)
	if v.Suggestion != "" {
		s += " " + v.Suggestion
	}
	return s
}

// ParseError wraps a grammar recognition failure (spec §4.6 family 1).
// Line/Col come from the parsing engine's own position tracking.
type ParseError struct {
	Line int
	Col  int
	err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %v", e.Line, e.Col, e.err)
}

func (e *ParseError) Unwrap() error { return e.err }

// NewParseError wraps err (a recognition error from internal/grammar's
// scanner/parser, or from pkg/drel's participle parser) with
// a structured oops error carrying line/column context, and returns a
// *ParseError as the error value callers match against.
func NewParseError(line, col int, err error) error {
	wrapped := oops.
		Code("cif-parse-error").
		With("line", line).
		With("col", col).
		Wrapf(err, "parsing CIF input")
	return &ParseError{Line: line, Col: col, err: wrapped}
}

// StructureError is an invalid-structure error (spec §4.6 family 2):
// either produced directly by the raw-tree builder, or converted from a
// Violation when a version-rules Resolve pass aborts.
type StructureError struct {
	Span    span.Span
	Message string
	err     error
}

func (e *StructureError) Error() string { return e.Message }

func (e *StructureError) Unwrap() error { return e.err }

// NewStructureError builds a plain invalid-structure error with an
// optional span (span.Zero means "no location").
func NewStructureError(sp span.Span, message string) error {
	wrapped := oops.
		Code("cif-invalid-structure").
		With("span", sp).
		Errorf("%s", message)
	return &StructureError{Span: sp, Message: message, err: wrapped}
}

// NewStructureErrorFromViolation converts a fatal Violation into the
// invalid-structure error shape, preserving rule-id and suggestion via
// the oops context so callers can recover them with errors.As.
func NewStructureErrorFromViolation(v Violation) error {
	wrapped := oops.
		Code(string(v.RuleID)).
		With("span", v.Span).
		With("rule_id", string(v.RuleID)).
		With("suggestion", v.Suggestion).
		Errorf("%s", v.Error())
	return &StructureError{Span: v.Span, Message: v.Error(), err: wrapped}
}

// IOError wraps a file-read failure from a convenience loading path
// (spec §4.6 family 3). It carries no span.
type IOError struct {
	Path string
	err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("I/O error reading %s: %v", e.Path, e.err)
}

func (e *IOError) Unwrap() error { return e.err }

// NewIOError wraps err as an IOError for path.
func NewIOError(path string, err error) error {
	wrapped := oops.
		Code("cif-io-error").
		With("path", path).
		Wrapf(err, "reading CIF input")
	return &IOError{Path: path, err: wrapped}
}
