// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

package cifconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cifkit/cif/internal/xdg"
	"github.com/cifkit/cif/pkg/validate"
)

// envPrefix is the environment-variable prefix this package loads
// overrides from, e.g. CIF_VALIDATION_MODE.
const envPrefix = "CIF_"

// DefaultConfigPath returns the XDG config path Load falls back to when
// an embedding application doesn't already know where its config file
// lives: $XDG_CONFIG_HOME/cif/config.yaml (or the ~/.config equivalent).
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

// Load builds a Config by layering, lowest to highest precedence:
// DefaultConfig, the YAML file at path (skipped if path is "" or the
// file doesn't exist), and CIF_-prefixed environment variables. It
// never returns a partial struct on a layer's failure — a malformed
// file or env value is returned as an error instead of silently
// falling back to a zero value.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"validation_mode":  defaults.ValidationMode,
		"dictionary_paths": defaults.DictionaryPaths,
		"upgrade_guidance": defaults.UpgradeGuidance,
		"cache_dir":        defaults.CacheDir,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("cifconfig: loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("cifconfig: reading config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("cifconfig: statting config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("cifconfig: loading environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("cifconfig: decoding config: %w", err)
	}

	return cfg, nil
}

// ValidationModeValue translates c.ValidationMode into a validate.Mode,
// defaulting to validate.Strict for an empty or unrecognised string
// (spec §4.12: "Strict ... default").
func (c Config) ValidationModeValue() validate.Mode {
	switch strings.ToLower(c.ValidationMode) {
	case "lenient":
		return validate.Lenient
	case "pedantic":
		return validate.Pedantic
	default:
		return validate.Strict
	}
}
