// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Package config loads and validates embercheck configuration.
//
// Configuration comes from an optional .embercheck.yml file layered over
// embedded defaults. Absent fields keep their default values, so a config
// file only needs to name what it changes.
package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

var tracer = otel.Tracer("embercheck/config")

// =============================================================================
// Embedded Defaults
// =============================================================================

//go:embed defaults.yaml
var defaultConfigYAML []byte

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the full embercheck configuration.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type Config struct {
	// Extensions lists the file extensions to lint, each with a leading dot.
	Extensions []string `yaml:"extensions"`

	// Ignore lists directory names skipped during traversal.
	Ignore []string `yaml:"ignore"`

	// Workers is the number of parallel lint workers. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Cache configures the clean-file result cache.
	Cache CacheConfig `yaml:"cache"`

	// Rules maps rule names to their settings. Rules absent from the map
	// run with their default settings at severity "error".
	Rules map[string]RuleConfig `yaml:"rules"`
}

// RuleConfig is the per-rule configuration.
type RuleConfig struct {
	// Severity is "off", "warn", or "error".
	Severity string `yaml:"severity"`

	// AllowDynamicKeys permits non-string dependent key arguments.
	// Only honored by require-computed-property-dependencies. Nil keeps
	// the rule default.
	AllowDynamicKeys *bool `yaml:"allow_dynamic_keys,omitempty"`

	// RequireServiceNames includes injected service properties in the
	// dependency check. Only honored by
	// require-computed-property-dependencies. Nil keeps the rule default.
	RequireServiceNames *bool `yaml:"require_service_names,omitempty"`
}

// CacheConfig configures the clean-file result cache.
type CacheConfig struct {
	// Enabled controls whether lint results are cached between runs.
	Enabled bool `yaml:"enabled"`

	// Dir is the cache directory, created on first use.
	Dir string `yaml:"dir"`

	// TTLHours is how long a clean-file entry stays valid.
	TTLHours int `yaml:"ttl_hours"`
}

// =============================================================================
// Defaults
// =============================================================================

const (
	// MaxYAMLFileSize bounds config files read from disk.
	MaxYAMLFileSize = 1 << 20

	// DefaultCacheTTLHours is the default clean-entry lifetime.
	DefaultCacheTTLHours = 168
)

// ConfigFileNames are the file names probed by Discover, in order.
var ConfigFileNames = []string{".embercheck.yml", ".embercheck.yaml"}

// Severity levels accepted in rule settings.
const (
	SeverityOff   = "off"
	SeverityWarn  = "warn"
	SeverityError = "error"
)

// Default returns the embedded default configuration.
//
// The defaults are parsed on every call so callers can mutate the result
// freely before validation.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		// The embedded defaults are part of the build; failing to parse
		// them is a programming error, not a runtime condition.
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return &cfg
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and validates the configuration file at path, layered over
// the embedded defaults.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	path - Config file to read. Empty path returns the defaults.
//
// Outputs:
//
//	*Config - The validated configuration. Never nil on success.
//	error - Non-nil if reading, parsing, or validation failed.
func Load(ctx context.Context, path string) (*Config, error) {
	if ctx == nil {
		return nil, fmt.Errorf("Load: ctx must not be nil")
	}
	_, span := tracer.Start(ctx, "config.Load")
	defer span.End()

	if path == "" {
		cfg := Default()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("Load: defaults: %w", err)
		}
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("Load: stat %s: %w", path, err)
	}
	if info.Size() > MaxYAMLFileSize {
		return nil, fmt.Errorf("Load: %s exceeds maximum size (%d > %d)", path, info.Size(), MaxYAMLFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: reading %s: %w", path, err)
	}

	cfg, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}

	span.SetAttributes(
		attribute.String("path", path),
		attribute.Int("rules", len(cfg.Rules)),
		attribute.Bool("cache_enabled", cfg.Cache.Enabled),
	)
	slog.Debug("config loaded",
		slog.String("path", path),
		slog.Int("rules", len(cfg.Rules)),
	)
	return cfg, nil
}

// LoadBytes parses and validates configuration YAML, layered over the
// embedded defaults.
func LoadBytes(data []byte) (*Config, error) {
	if len(data) > MaxYAMLFileSize {
		return nil, fmt.Errorf("LoadBytes: YAML data exceeds maximum size (%d > %d)", len(data), MaxYAMLFileSize)
	}

	// Unmarshal onto a copy of the defaults: fields the file omits keep
	// their default values, including nested cache settings.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("LoadBytes: parsing YAML: %w", err)
	}

	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = DefaultCacheTTLHours
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("LoadBytes: validation: %w", err)
	}
	return cfg, nil
}

// Discover walks from startDir toward the filesystem root looking for a
// config file, returning its path or "" when none exists.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("Discover: resolving %s: %w", startDir, err)
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("Discover: stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions[%d]: %q must start with a dot", i, ext)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache: dir must not be empty when the cache is enabled")
	}
	if c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache: ttl_hours must be positive, got %d", c.Cache.TTLHours)
	}
	for name, rc := range c.Rules {
		switch rc.Severity {
		case SeverityOff, SeverityWarn, SeverityError:
		default:
			return fmt.Errorf("rules[%s]: severity must be off, warn, or error, got %q", name, rc.Severity)
		}
	}
	return nil
}

// RuleSeverity returns the configured severity for a rule, defaulting to
// error for rules the config does not mention.
func (c *Config) RuleSeverity(name string) string {
	if rc, ok := c.Rules[name]; ok && rc.Severity != "" {
		return rc.Severity
	}
	return SeverityError
}
