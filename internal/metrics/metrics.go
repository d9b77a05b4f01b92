// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

// Package metrics registers Prometheus counters and histograms for the
// toolkit's three phases — parsing, dictionary loading, validation — so
// a host application can expose them however it likes. No HTTP
// exposition server lives here: starting one is network I/O, and the
// toolkit itself never listens on a socket.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms recorded across a parse,
// dictionary-load, or validation run.
type Metrics struct {
	DocumentsParsedTotal    *prometheus.CounterVec
	ParseDuration           *prometheus.HistogramVec
	ViolationsTotal         *prometheus.CounterVec
	UpgradeIssuesTotal      *prometheus.CounterVec
	DictionariesLoadedTotal *prometheus.CounterVec
	LoadErrorsTotal         *prometheus.CounterVec
	ValidationRunsTotal     *prometheus.CounterVec
	ValidationErrorsTotal   *prometheus.CounterVec
	ValidationWarningsTotal *prometheus.CounterVec
}

// New builds and registers a Metrics set against reg. Passing
// prometheus.NewRegistry() isolates the toolkit's metrics from any
// process-global registry the caller also uses.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsParsedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_documents_parsed_total",
				Help: "Total number of CIF documents parsed, by resolved dialect.",
			},
			[]string{"dialect"},
		),
		ParseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cif_parse_duration_seconds",
				Help:    "Time spent parsing a CIF document end to end.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"dialect"},
		),
		ViolationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_rule_violations_total",
				Help: "Total number of dialect-rule violations collected, by rule id.",
			},
			[]string{"rule_id"},
		),
		UpgradeIssuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_upgrade_issues_total",
				Help: "Total number of 2.0-upgrade-guidance issues surfaced for 1.1 documents, by rule id.",
			},
			[]string{"rule_id"},
		),
		DictionariesLoadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_dictionaries_loaded_total",
				Help: "Total number of dictionary documents loaded.",
			},
			[]string{"outcome"},
		),
		LoadErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_dictionary_load_errors_total",
				Help: "Total number of dictionary load errors, by error kind.",
			},
			[]string{"kind"},
		),
		ValidationRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_validation_runs_total",
				Help: "Total number of validation runs, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		ValidationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_validation_errors_total",
				Help: "Total number of validation errors emitted, by category.",
			},
			[]string{"category"},
		),
		ValidationWarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cif_validation_warnings_total",
				Help: "Total number of validation warnings emitted, by category.",
			},
			[]string{"category"},
		),
	}

	reg.MustRegister(
		m.DocumentsParsedTotal,
		m.ParseDuration,
		m.ViolationsTotal,
		m.UpgradeIssuesTotal,
		m.DictionariesLoadedTotal,
		m.LoadErrorsTotal,
		m.ValidationRunsTotal,
		m.ValidationErrorsTotal,
		m.ValidationWarningsTotal,
	)

	return m
}

// ObserveParse records one parsed document: dialect, elapsed seconds,
// and any collected rule violations or upgrade-guidance issues.
func (m *Metrics) ObserveParse(dialect string, seconds float64, violationRuleIDs, upgradeRuleIDs []string) {
	m.DocumentsParsedTotal.WithLabelValues(dialect).Inc()
	m.ParseDuration.WithLabelValues(dialect).Observe(seconds)
	for _, ruleID := range violationRuleIDs {
		m.ViolationsTotal.WithLabelValues(ruleID).Inc()
	}
	for _, ruleID := range upgradeRuleIDs {
		m.UpgradeIssuesTotal.WithLabelValues(ruleID).Inc()
	}
}

// ObserveDictionaryLoad records one dictionary-load attempt and the
// kind of every error it produced (spec §4.10's `[]error` result).
func (m *Metrics) ObserveDictionaryLoad(errorKinds []string) {
	outcome := "ok"
	if len(errorKinds) > 0 {
		outcome = "partial"
	}
	m.DictionariesLoadedTotal.WithLabelValues(outcome).Inc()
	for _, kind := range errorKinds {
		m.LoadErrorsTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveValidation records one validation run: mode, whether it was
// valid, and the category of every error/warning produced (spec
// §4.12.5's Result).
func (m *Metrics) ObserveValidation(mode string, valid bool, errorCategories, warningCategories []string) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.ValidationRunsTotal.WithLabelValues(mode, outcome).Inc()
	for _, cat := range errorCategories {
		m.ValidationErrorsTotal.WithLabelValues(cat).Inc()
	}
	for _, cat := range warningCategories {
		m.ValidationWarningsTotal.WithLabelValues(cat).Inc()
	}
}
