package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config in a TOML friendly shape. Pointers mark values
// whose zero is meaningful.
type FileConfig struct {
	File      string `toml:"file"`
	KeepCount *int   `toml:"keep_count"`
	MoveTo    string `toml:"move_to"`
	DryRun    *bool  `toml:"dry_run"`
	Keep      string `toml:"keep"`
	Workers   int    `toml:"workers"`
	Report    string `toml:"report"`
	WatchDir  string `toml:"watch_dir"`
	LogLevel  string `toml:"log_level"`
	NoColor   *bool  `toml:"no_color"`
	Verbose   *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.ddhremover/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ddhremover", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setString("move", fc.MoveTo, &cfg.MoveTo)
	s.setString("keep", fc.Keep, &cfg.Keep)
	s.setString("report", fc.Report, &cfg.Report)
	s.setString("watch", fc.WatchDir, &cfg.WatchDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setIntPtr("duplicates", fc.KeepCount, &cfg.KeepCount)
	s.setInt("workers", fc.Workers, &cfg.Workers)

	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("no-color", fc.NoColor, &cfg.NoColor)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
