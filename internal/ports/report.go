package ports

import (
	"context"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// ReportSource supplies the duplicate groups of one report.
// Malformed input fails the whole batch with domain.ErrInvalidReport.
type ReportSource interface {
	// Groups decodes and returns every group of the report, in report order.
	Groups(ctx context.Context) ([]domain.DuplicateGroup, error)

	// Name identifies the report in logs and run reports (a path or "stdin").
	Name() string
}

// RunJournal persists the report of a finished run.
type RunJournal interface {
	// Save writes the run report atomically.
	Save(ctx context.Context, report domain.RunReport) error
}
