// Package config loads the settings of the alog command: a YAML file,
// overridden by ALOG_* environment variables, overridden by flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/Geun-Oh/alog/internal/filter"
	"github.com/Geun-Oh/alog/internal/pipeline"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables read by ApplyEnv.
const (
	EnvCapacity   = "ALOG_CAPACITY"
	EnvFile       = "ALOG_FILE"
	EnvTimestamps = "ALOG_TIMESTAMPS"
	EnvColors     = "ALOG_COLORS"
	EnvVerbosity  = "ALOG_VERBOSITY"
)

// Config holds the pipeline settings of the CLI.
type Config struct {
	Capacity   int    `yaml:"capacity"`
	File       string `yaml:"file"`
	Timestamps bool   `yaml:"timestamps"`
	Colors     string `yaml:"colors"`
	Verbosity  int    `yaml:"verbosity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capacity:   pipeline.DefaultCapacity,
		Timestamps: true,
		Colors:     ColorAuto,
		Verbosity:  filter.DefaultLlama,
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error; an empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from ALOG_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCapacity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCapacity, err)
		}
		c.Capacity = n
	}
	if v, ok := lookup(EnvFile); ok {
		c.File = v
	}
	if v, ok := lookup(EnvTimestamps); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimestamps, err)
		}
		c.Timestamps = b
	}
	if v, ok := lookup(EnvColors); ok {
		c.Colors = strings.ToLower(v)
	}
	if v, ok := lookup(EnvVerbosity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVerbosity, err)
		}
		c.Verbosity = n
	}
	return c.Validate()
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	switch c.Colors {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("colors must be one of auto, always, never; got %q", c.Colors)
	}
	return nil
}

// UseColors resolves the color mode. In auto mode colors are used when fd
// is a terminal.
func (c *Config) UseColors(fd uintptr) bool {
	switch c.Colors {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}
