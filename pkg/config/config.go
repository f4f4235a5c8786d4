// Package config loads the optional shadowtree.yaml configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/logging"
)

// FileName is the configuration file looked up in a directory.
const FileName = "shadowtree.yaml"

// SchemaVersion is the schema written by this release. Files declaring a
// different major version are rejected.
const SchemaVersion = "v1.0.0"

// Config represents the optional shadowtree.yaml configuration.
type Config struct {
	Schema   string         `yaml:"schema,omitempty"`
	Log      LogConfig      `yaml:"log"`
	Registry RegistryConfig `yaml:"registry"`
	Errors   ErrorsConfig   `yaml:"errors"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// RegistryConfig controls which kinds are registered and how.
type RegistryConfig struct {
	// Concurrent keeps registration open after the first lookup.
	Concurrent bool `yaml:"concurrent,omitempty"`
	// Disabled lists kind names that are not registered.
	Disabled []string `yaml:"disabled,omitempty"`
}

// ErrorsConfig controls error reporting.
type ErrorsConfig struct {
	// Verbose includes stack traces in logged errors.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	Schema     string
	LogLevel   slog.Level
	LogFormat  logging.Format
	Concurrent bool
	Disabled   []core.KindName
	Verbose    bool
}

// IsDisabled reports whether kind is listed as disabled.
func (r *Resolved) IsDisabled(kind core.KindName) bool {
	return slices.Contains(r.Disabled, kind)
}

// Default returns the configuration used when no file is present.
func Default() *Resolved {
	return &Resolved{
		Schema:    SchemaVersion,
		LogLevel:  slog.LevelInfo,
		LogFormat: logging.FormatText,
	}
}

// LoadOptional reads shadowtree.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes a configuration document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads shadowtree.yaml (if present) from dir and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Root = dir
	return r, nil
}

// Resolve validates cfg and fills in defaults.
func (cfg *Config) Resolve() (*Resolved, error) {
	r := Default()

	if schema := strings.TrimSpace(cfg.Schema); schema != "" {
		if !strings.HasPrefix(schema, "v") {
			schema = "v" + schema
		}
		if !semver.IsValid(schema) {
			return nil, fmt.Errorf("invalid schema version %q", cfg.Schema)
		}
		if semver.Major(schema) != semver.Major(SchemaVersion) {
			return nil, fmt.Errorf("unsupported schema version %s (supported: %s.x)", schema, semver.Major(SchemaVersion))
		}
		r.Schema = semver.Canonical(schema)
	}

	level, ok := logging.ParseLevel(cfg.Log.Level)
	if !ok {
		return nil, fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	r.LogLevel = level

	switch format := logging.Format(strings.ToLower(strings.TrimSpace(cfg.Log.Format))); format {
	case "":
	case logging.FormatText, logging.FormatJSON:
		r.LogFormat = format
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.Log.Format)
	}

	r.Concurrent = cfg.Registry.Concurrent
	for _, k := range cfg.Registry.Disabled {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("registry.disabled contains an empty kind name")
		}
		if !slices.Contains(r.Disabled, core.KindName(k)) {
			r.Disabled = append(r.Disabled, core.KindName(k))
		}
	}
	r.Verbose = cfg.Errors.Verbose
	return r, nil
}
