package cliconfig

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// Config holds CLI configuration for ddhremover.
type Config struct {
	File      string
	KeepCount int
	MoveTo    string
	DryRun    bool
	Keep      string
	Workers   int

	Report   string
	WatchDir string

	LogLevel string
	NoColor  bool
	Verbose  bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		KeepCount: domain.DefaultKeepCount,
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Validate checks the configuration for errors. Every failure wraps
// domain.ErrConfig and is reported before any group is touched.
func (c *Config) Validate() error {
	if c.KeepCount < 0 {
		return fmt.Errorf("%w: duplicates must be >= 0, got %d", domain.ErrConfig, c.KeepCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", domain.ErrConfig, c.Workers)
	}

	if c.MoveTo != "" {
		if err := requireDir("move", c.MoveTo); err != nil {
			return err
		}
	}
	if c.WatchDir != "" {
		if c.File != "" {
			return fmt.Errorf("%w: --file and --watch are mutually exclusive", domain.ErrConfig)
		}
		if err := requireDir("watch", c.WatchDir); err != nil {
			return err
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ValidateFlags checks values that are only wrong when given explicitly on
// the command line. An empty --keep would spare every path, which is never
// what the caller meant.
func (c *Config) ValidateFlags(changed map[string]bool) error {
	if changed["keep"] && c.Keep == "" {
		return fmt.Errorf("%w: --keep must not be empty", domain.ErrConfig)
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c *Config) Level() (zerolog.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level %q: %v", domain.ErrConfig, c.LogLevel, err)
	}
	return lvl, nil
}

// Policy derives the retention policy applied to every group.
func (c *Config) Policy() domain.RetentionPolicy {
	return domain.RetentionPolicy{
		KeepCount:          c.KeepCount,
		PreferredSubstring: c.Keep,
		Destination:        c.MoveTo,
		DryRun:             c.DryRun,
	}
}

func requireDir(flag, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s directory: %v", domain.ErrConfig, flag, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s: %s is not a directory", domain.ErrConfig, flag, path)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int from a pointer if not nil and flag not changed.
// Zero is a meaningful value here, so presence is tracked by the pointer.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// With allowZero unset, zero and negative values are ignored.
func (s *configSetter) setIntFromString(flag, value string, allowZero bool, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 || (i == 0 && !allowZero) {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
