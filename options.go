package ddhremover

import (
	fsAdapter "github.com/bft-labs/ddhremover/internal/adapters/fs"
	logAdapter "github.com/bft-labs/ddhremover/internal/adapters/log"
	"github.com/bft-labs/ddhremover/internal/ports"
)

// Option configures optional behavior of a Remover.
type Option func(*options)

type options struct {
	logger       ports.Logger
	eventHandler EventHandler
	fs           ports.FileSystem
	workers      int
	reportPath   string
}

func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
		fs:     fsAdapter.NewOSFileSystem(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for per-group events.
// Events are called from worker goroutines.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithWorkers caps the number of groups processed concurrently.
// Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithFileSystem replaces the filesystem used to delete and move files.
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithReportFile writes a run report to path after every RunFile or
// RunReader call. A .yaml or .yml extension selects YAML, anything else JSON.
func WithReportFile(path string) Option {
	return func(o *options) {
		o.reportPath = path
	}
}
