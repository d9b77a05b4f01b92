// Package cif is the toolkit's top-level entry point: it ties the
// lossless raw-tree parser (internal/grammar), the dialect strategy
// (pkg/cifrules), and the resulting typed AST (pkg/cifast) together
// behind the two calls most callers need, Parse and ParseFile (spec
// §4.5, §6.4).
package cif

import (
	"context"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/cifkit/cif/internal/grammar"
	"github.com/cifkit/cif/internal/logging"
	"github.com/cifkit/cif/internal/metrics"
	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/cifraw"
	"github.com/cifkit/cif/pkg/cifrules"
	"github.com/cifkit/cif/pkg/errutil"
)

// logger is the package's structured logger, built through the same
// trace-context handler every other phase-level component uses (spec's
// ambient logging contract).
var logger = logging.Setup("cif", "", "json", nil)

// DialectMode selects which dialect strategy resolves a raw tree (spec
// §4.4.6, §6.4).
type DialectMode int

const (
	// DialectAuto picks Cif20Rules when the input carries the 2.0 magic
	// header, Cif11Rules otherwise. This is the default.
	DialectAuto DialectMode = iota
	// DialectForce11 always resolves under Cif11Rules, regardless of
	// what the input looks like.
	DialectForce11
	// DialectForce20 always resolves under Cif20Rules.
	DialectForce20
)

// Options configures a Parse call.
type Options struct {
	// Dialect selects the version-rules strategy. The zero value is
	// DialectAuto.
	Dialect DialectMode
	// CollectViolations switches from Resolve's abort-on-first-violation
	// behaviour to CollectViolations' best-effort accumulation (spec §9
	// open question 3). The zero value keeps Resolve's behaviour.
	CollectViolations bool
	// UpgradeGuidance, when the resolved document is 1.1, additionally
	// resolves the same raw tree under Cif20Rules purely to surface what
	// a 2.0 reader would reject (spec §6.4-§6.5). It never changes which
	// dialect the returned Document is resolved under.
	UpgradeGuidance bool
	// Metrics, when set, records this call's dialect, duration, and
	// violation/upgrade-issue counts. Nil (the default) skips recording
	// entirely, so a caller that never touches Prometheus pays nothing.
	Metrics *metrics.Metrics
}

// ParseResult is the outcome of a successful Parse call. Violations is
// only ever non-empty when Options.CollectViolations was set; under the
// default abort-on-first-violation behaviour a violation surfaces as an
// error from Parse instead of appearing here. UpgradeIssues is only ever
// non-empty when Options.UpgradeGuidance was set on a 1.1 input.
type ParseResult struct {
	Document      *cifast.Document
	Violations    []ciferr.Violation
	UpgradeIssues []ciferr.Violation
}

// Parse recognises text and resolves it under the auto-detected dialect.
// Equivalent to ParseWithOptions(text, Options{}).
func Parse(text string) (*ParseResult, error) {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions recognises text, builds the lossless raw tree (spec
// §4.1-§4.2), and resolves it into a typed document under the dialect
// opts.Dialect selects (spec §4.4).
func ParseWithOptions(text string, opts Options) (*ParseResult, error) {
	start := time.Now()

	raw, _, err := grammar.Parse(text)
	if err != nil {
		errutil.LogError(logger, "cif: failed to parse raw tree", err)
		return nil, err
	}

	rules := selectRules(raw, opts.Dialect)
	logger.Debug("cif: parsed raw tree", "blocks", len(raw.Blocks), "dialect", rules.Dialect())

	var upgradeIssues []ciferr.Violation
	if opts.UpgradeGuidance && rules.Dialect() == cifast.V1_1 {
		_, upgradeIssues = cifrules.CollectViolations(raw, cifrules.NewCif20Rules())
		logger.Debug("cif: computed upgrade guidance", "issues", len(upgradeIssues))
	}

	if opts.CollectViolations {
		doc, violations := cifrules.CollectViolations(raw, rules)
		logger.Debug("cif: resolved with violation collection", "violations", len(violations))
		if opts.Metrics != nil {
			opts.Metrics.ObserveParse(rules.Dialect().String(), time.Since(start).Seconds(),
				violationRuleIDs(violations), violationRuleIDs(upgradeIssues))
		}
		return &ParseResult{Document: doc, Violations: violations, UpgradeIssues: upgradeIssues}, nil
	}

	doc, err := cifrules.Resolve(raw, rules)
	if err != nil {
		errutil.LogError(logger, "cif: failed to resolve document", err)
		return nil, err
	}
	logger.Debug("cif: resolved document", "dialect", rules.Dialect())
	if opts.Metrics != nil {
		opts.Metrics.ObserveParse(rules.Dialect().String(), time.Since(start).Seconds(), nil, violationRuleIDs(upgradeIssues))
	}
	return &ParseResult{Document: doc, UpgradeIssues: upgradeIssues}, nil
}

// violationRuleIDs extracts the rule id of every violation, for metrics
// labelling (internal/metrics.Metrics.ObserveParse).
func violationRuleIDs(violations []ciferr.Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	ids := make([]string, len(violations))
	for i, v := range violations {
		ids[i] = string(v.RuleID)
	}
	return ids
}

func selectRules(raw *cifraw.Document, mode DialectMode) cifrules.VersionRules {
	switch mode {
	case DialectForce11:
		return cifrules.NewCif11Rules()
	case DialectForce20:
		return cifrules.NewCif20Rules()
	default:
		if cifrules.DetectDialect(raw) == cifast.V2_0 {
			return cifrules.NewCif20Rules()
		}
		return cifrules.NewCif11Rules()
	}
}

// fileReadBackoff retries a transient read failure (e.g. a file briefly
// unavailable on a network filesystem) a handful of times with capped
// exponential backoff. It never retries parse or validation failures —
// those are deterministic given the same bytes.
func fileReadBackoff() retry.Backoff {
	b, err := retry.NewExponential(25 * time.Millisecond)
	if err != nil {
		// Only returned for a non-positive base duration, which is a
		// constant here and therefore never happens.
		panic(err)
	}
	return retry.WithMaxRetries(3, b)
}

// ParseFile reads path and parses it with ParseWithOptions. Transient
// read failures are retried with backoff; the read itself is wrapped as
// an I/O error (spec §4.6 family 3) on final failure.
func ParseFile(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	var data []byte
	err := retry.Do(ctx, fileReadBackoff(), func(ctx context.Context) error {
		b, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		data = b
		return nil
	})
	if err != nil {
		wrapped := ciferr.NewIOError(path, err)
		errutil.LogError(logger, "cif: failed to read file", wrapped)
		return nil, wrapped
	}

	logger.Debug("cif: read file", "path", path, "bytes", len(data))
	return ParseWithOptions(string(data), opts)
}
