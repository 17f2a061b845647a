package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/ddhremover/internal/dispose"
	"github.com/bft-labs/ddhremover/internal/domain"
	"github.com/bft-labs/ddhremover/internal/ports"
	"github.com/bft-labs/ddhremover/internal/retention"
)

// RunnerConfig contains configuration for a Runner.
type RunnerConfig struct {
	Policy domain.RetentionPolicy

	// Workers caps the number of groups disposed concurrently.
	// Values below 1 default to runtime.NumCPU().
	Workers int
}

// EventHandler is notified as groups are processed.
// Calls come from worker goroutines; implementations must be safe for
// concurrent use and should return quickly.
type EventHandler interface {
	// OnRunStart is called once with the number of groups in the report.
	OnRunStart(source string, groups int, policy domain.RetentionPolicy)

	// OnGroupSkipped is called for groups that are never disposed.
	OnGroupSkipped(result domain.GroupResult)

	// OnGroupDone is called after every path of an eligible group was disposed.
	OnGroupDone(result domain.GroupResult)
}

// Runner resolves and disposes every group of a duplicate report.
type Runner struct {
	config   RunnerConfig
	disposer *dispose.Disposer
	logger   ports.Logger
	handler  EventHandler
}

// NewRunner creates a Runner. The policy is validated here, before any
// group is touched.
func NewRunner(config RunnerConfig, fs ports.FileSystem, logger ports.Logger, handler EventHandler) (*Runner, error) {
	if err := config.Policy.Validate(); err != nil {
		return nil, err
	}
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	if handler == nil {
		handler = noopHandler{}
	}
	return &Runner{
		config:   config,
		disposer: dispose.New(fs, logger),
		logger:   logger,
		handler:  handler,
	}, nil
}

// Policy returns the retention policy the runner applies.
func (r *Runner) Policy() domain.RetentionPolicy {
	return r.config.Policy
}

// Run processes groups and returns one result per group, in report order.
//
// Each eligible group is disposed in its own task, at most Workers at a time;
// paths within a group are disposed sequentially. Once ctx is canceled no
// further groups are started; groups already started run to completion.
func (r *Runner) Run(ctx context.Context, groups []domain.DuplicateGroup) []domain.GroupResult {
	results := make([]domain.GroupResult, len(groups))

	var g errgroup.Group
	g.SetLimit(r.config.Workers)

	for i, group := range groups {
		i, group := i, group
		if ok, reason := group.Eligibility(); !ok {
			results[i] = r.skip(i, group, reason)
			continue
		}
		if ctx.Err() != nil {
			results[i] = r.skip(i, group, domain.SkipCanceled)
			continue
		}

		policy := r.config.Policy
		g.Go(func() error {
			results[i] = r.processGroup(i, group, policy)
			return nil
		})
	}

	// Tasks never return errors; failures are carried in the results.
	_ = g.Wait()
	return results
}

func (r *Runner) skip(index int, group domain.DuplicateGroup, reason string) domain.GroupResult {
	res := domain.GroupResult{Index: index, Group: group, Skipped: true, SkipReason: reason}
	r.logger.Debug("group skipped",
		ports.Int("group", index),
		ports.String("reason", reason),
		ports.Strings("paths", group.Paths))
	r.handler.OnGroupSkipped(res)
	return res
}

func (r *Runner) processGroup(index int, group domain.DuplicateGroup, policy domain.RetentionPolicy) domain.GroupResult {
	item := retention.Plan(group, policy)
	r.logger.Debug("group resolved",
		ports.Int("group", index),
		ports.Uint64("file_length", group.Length),
		ports.Strings("remove", item.ToRemove),
		ports.Strings("keep", item.Kept))

	res := domain.GroupResult{
		Index:   index,
		Group:   group,
		Item:    item,
		Results: r.disposer.DisposeItem(item),
	}
	if res.Failed() {
		r.logger.Warn("group disposed with failures",
			ports.Int("group", index),
			ports.Int("failed", res.Count(domain.OutcomeFailed)))
	}
	r.handler.OnGroupDone(res)
	return res
}

// Execute reads every group from source, runs them and builds the run
// report. When journal is non-nil the report is saved to it.
// A source error (including domain.ErrInvalidReport) aborts before any
// group is processed.
func (r *Runner) Execute(ctx context.Context, source ports.ReportSource, journal ports.RunJournal) (domain.RunReport, error) {
	started := time.Now()

	groups, err := source.Groups(ctx)
	if err != nil {
		return domain.RunReport{}, err
	}
	r.logger.Info("report loaded",
		ports.String("source", source.Name()),
		ports.Int("groups", len(groups)),
		ports.Bool("dry_run", r.config.Policy.DryRun))
	r.handler.OnRunStart(source.Name(), len(groups), r.config.Policy)

	results := r.Run(ctx, groups)

	report := domain.RunReport{
		RunID:      uuid.NewString(),
		Source:     source.Name(),
		Mode:       r.config.Policy.Mode(),
		DryRun:     r.config.Policy.DryRun,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Groups:     make([]domain.GroupReport, 0, len(results)),
	}
	for _, res := range results {
		report.Groups = append(report.Groups, domain.NewGroupReport(res))
	}
	report.Finalize()

	r.logger.Info("run complete",
		ports.String("run_id", report.RunID),
		ports.Int("eligible", report.Summary.Eligible),
		ports.Int("deleted", report.Summary.Deleted),
		ports.Int("moved", report.Summary.Moved),
		ports.Int("failed", report.Summary.Failed),
		ports.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	if journal != nil {
		if err := journal.Save(ctx, report); err != nil {
			return report, fmt.Errorf("save run report: %w", err)
		}
	}
	return report, nil
}

type noopHandler struct{}

func (noopHandler) OnRunStart(string, int, domain.RetentionPolicy) {}
func (noopHandler) OnGroupSkipped(domain.GroupResult)              {}
func (noopHandler) OnGroupDone(domain.GroupResult)                 {}
