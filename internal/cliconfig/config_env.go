package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DDHREMOVER_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("DDHREMOVER_FILE"), &cfg.File)
	s.setString("move", os.Getenv("DDHREMOVER_MOVE_TO"), &cfg.MoveTo)
	s.setString("keep", os.Getenv("DDHREMOVER_KEEP"), &cfg.Keep)
	s.setString("report", os.Getenv("DDHREMOVER_REPORT"), &cfg.Report)
	s.setString("watch", os.Getenv("DDHREMOVER_WATCH_DIR"), &cfg.WatchDir)
	s.setString("log-level", os.Getenv("DDHREMOVER_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("duplicates", os.Getenv("DDHREMOVER_KEEP_COUNT"), true, &cfg.KeepCount); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("DDHREMOVER_WORKERS"), false, &cfg.Workers); err != nil {
		return err
	}

	s.setBoolFromString("dry-run", os.Getenv("DDHREMOVER_DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("no-color", os.Getenv("DDHREMOVER_NO_COLOR"), &cfg.NoColor)
	s.setBoolFromString("verbose", os.Getenv("DDHREMOVER_VERBOSE"), &cfg.Verbose)

	return nil
}
