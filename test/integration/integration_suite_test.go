// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

//go:build integration

// Package integration exercises the toolkit end to end: recognition,
// dialect resolution, dictionary loading, self-validation, and the
// validation engine, driven through the same public API (pkg/cif,
// pkg/dict, pkg/validate) an embedding application would use.
package integration

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"go.uber.org/goleak"
)

// TestMain asserts that a synchronous parse/validate call leaves no
// goroutines running after it returns (spec §5: no internal tasks, no
// locks, no background workers).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CIF Toolkit Integration Suite")
}
