// Package ddhremover removes duplicate files listed in a ddh JSON report.
//
// Each duplicate group keeps KeepCount files (or the files matching a
// preferred substring) and disposes of the rest, either by deleting them or
// by moving them into a holding directory.
//
// Example usage:
//
//	policy := ddhremover.DefaultPolicy()
//	policy.Destination = "/tmp/holding"
//	r, err := ddhremover.New(policy, ddhremover.WithWorkers(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := r.RunFile(context.Background(), "dups.json")
package ddhremover

import (
	"context"
	"io"

	fsAdapter "github.com/bft-labs/ddhremover/internal/adapters/fs"
	"github.com/bft-labs/ddhremover/internal/app"
	"github.com/bft-labs/ddhremover/internal/domain"
	"github.com/bft-labs/ddhremover/internal/ports"
	"github.com/bft-labs/ddhremover/internal/retention"
)

type (
	// Policy decides which files of a group are removed and how.
	Policy = domain.RetentionPolicy

	// Group is one record of a ddh report.
	Group = domain.DuplicateGroup

	// Hash128 is an unsigned 128-bit content hash.
	Hash128 = domain.Hash128

	// GroupResult is the outcome of one group.
	GroupResult = domain.GroupResult

	// PathResult is the outcome of one disposed path.
	PathResult = domain.PathResult

	// RunReport summarizes a run over a whole report.
	RunReport = domain.RunReport

	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// LogField represents a structured log field.
	LogField = ports.Field

	// FileSystem performs the destructive file operations.
	FileSystem = ports.FileSystem

	// EventHandler is notified as groups are processed.
	EventHandler = app.EventHandler
)

// Errors returned by the remover. Use errors.Is to check them.
var (
	ErrFileName          = domain.ErrFileName
	ErrConfig            = domain.ErrConfig
	ErrDestinationExists = domain.ErrDestinationExists
	ErrNotRegularFile    = domain.ErrNotRegularFile
	ErrInvalidReport     = domain.ErrInvalidReport
)

// DefaultPolicy keeps one file per group and deletes the rest.
func DefaultPolicy() Policy {
	return domain.DefaultPolicy()
}

// Remover applies one policy to duplicate reports.
type Remover struct {
	runner *app.Runner
	opts   options
}

// New creates a Remover. An invalid policy yields an error wrapping
// ErrConfig.
func New(policy Policy, opts ...Option) (*Remover, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	runner, err := app.NewRunner(app.RunnerConfig{
		Policy:  policy,
		Workers: o.workers,
	}, o.fs, o.logger, o.eventHandler)
	if err != nil {
		return nil, err
	}
	return &Remover{runner: runner, opts: o}, nil
}

// Policy returns the policy the remover applies.
func (r *Remover) Policy() Policy {
	return r.runner.Policy()
}

// Run disposes of the groups and returns one result per group, in input
// order.
func (r *Remover) Run(ctx context.Context, groups []Group) []GroupResult {
	return r.runner.Run(ctx, groups)
}

// RunFile decodes the report at path and processes it.
func (r *Remover) RunFile(ctx context.Context, path string) (RunReport, error) {
	return r.runner.Execute(ctx, fsAdapter.NewReportFile(path), r.journal())
}

// RunReader decodes a report from rd and processes it.
func (r *Remover) RunReader(ctx context.Context, rd io.Reader) (RunReport, error) {
	return r.runner.Execute(ctx, fsAdapter.NewReportReader(rd), r.journal())
}

func (r *Remover) journal() ports.RunJournal {
	if r.opts.reportPath == "" {
		return nil
	}
	return fsAdapter.NewJournalFile(r.opts.reportPath)
}

// Resolve returns the paths policy would remove from a group, without
// touching the filesystem.
func Resolve(paths []string, policy Policy) []string {
	return retention.Resolve(paths, policy)
}

// DecodeReport parses a ddh JSON report. A malformed record rejects the
// whole report with an error wrapping ErrInvalidReport.
func DecodeReport(data []byte) ([]Group, error) {
	return fsAdapter.DecodeReport(data)
}
