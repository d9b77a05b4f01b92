// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

// Package cifconfig is an optional, separately-importable configuration
// loader for applications embedding this toolkit. The core parser and
// validator take plain struct options (cif.Options, validate.Mode) and
// never depend on a config-file format themselves; this package is for
// an embedding application that wants layered file/env configuration
// instead of wiring those options up by hand (spec's config ergonomics
// are explicitly out of the core library's scope).
package cifconfig

import "github.com/cifkit/cif/internal/xdg"

// Config is the toolkit-facing configuration an embedding application
// loads and then translates into cif.Options / validate.Mode calls.
type Config struct {
	// ValidationMode is one of "strict", "lenient", "pedantic"
	// (case-insensitive); unrecognised or empty defaults to "strict".
	ValidationMode string `koanf:"validation_mode" json:"validation_mode" jsonschema:"enum=strict,enum=lenient,enum=pedantic,default=strict"`
	// DictionaryPaths lists filesystem paths (files or directories) an
	// embedding application should load and merge DDLm dictionaries
	// from, in order.
	DictionaryPaths []string `koanf:"dictionary_paths" json:"dictionary_paths,omitempty"`
	// UpgradeGuidance, when true, requests cif.Options.UpgradeGuidance
	// on every 1.1 parse by default.
	UpgradeGuidance bool `koanf:"upgrade_guidance" json:"upgrade_guidance"`
	// CacheDir overrides the default XDG data directory used for
	// cached dictionary downloads; empty means use the default.
	CacheDir string `koanf:"cache_dir" json:"cache_dir,omitempty"`
}

// DefaultConfig returns the configuration applied before any file,
// environment, or override layer is loaded.
func DefaultConfig() Config {
	return Config{
		ValidationMode:  "strict",
		DictionaryPaths: nil,
		UpgradeGuidance: false,
		CacheDir:        "",
	}
}

// EffectiveCacheDir returns c.CacheDir, or the XDG data directory for
// the toolkit if CacheDir was left empty.
func (c Config) EffectiveCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return xdg.DataDir()
}
