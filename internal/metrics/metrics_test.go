// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveParseRecordsDialectAndViolations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveParse("1.1", 0.01, []string{"missing-magic-header", "missing-magic-header"}, []string{"no-doubled-quotes"})

	if got := testutil.ToFloat64(m.DocumentsParsedTotal.WithLabelValues("1.1")); got != 1 {
		t.Errorf("documents parsed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ViolationsTotal.WithLabelValues("missing-magic-header")); got != 2 {
		t.Errorf("violations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.UpgradeIssuesTotal.WithLabelValues("no-doubled-quotes")); got != 1 {
		t.Errorf("upgrade issues = %v, want 1", got)
	}
}

func TestObserveDictionaryLoadTracksPartialOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDictionaryLoad(nil)
	m.ObserveDictionaryLoad([]string{"missing_field", "invalid_field"})

	if got := testutil.ToFloat64(m.DictionariesLoadedTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DictionariesLoadedTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("partial loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LoadErrorsTotal.WithLabelValues("missing_field")); got != 1 {
		t.Errorf("missing_field errors = %v, want 1", got)
	}
}

func TestObserveValidationTracksOutcomeAndCategories(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveValidation("strict", false, []string{"range error", "range error"}, nil)
	m.ObserveValidation("lenient", true, nil, []string{"unknown item"})

	if got := testutil.ToFloat64(m.ValidationRunsTotal.WithLabelValues("strict", "invalid")); got != 1 {
		t.Errorf("strict invalid runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ValidationRunsTotal.WithLabelValues("lenient", "valid")); got != 1 {
		t.Errorf("lenient valid runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("range error")); got != 2 {
		t.Errorf("range error count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ValidationWarningsTotal.WithLabelValues("unknown item")); got != 1 {
		t.Errorf("unknown item warning count = %v, want 1", got)
	}
}
