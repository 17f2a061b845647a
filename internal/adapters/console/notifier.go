// Package console prints per-path progress and the run summary for humans.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// Notifier writes one line per disposed path. It implements app.EventHandler.
// Lines of one group are written together so concurrent groups never
// interleave.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool

	bold  *color.Color
	ok    *color.Color
	fail  *color.Color
	faint *color.Color
}

// NewNotifier creates a Notifier writing to w. Skipped groups are only
// reported when verbose is set.
func NewNotifier(w io.Writer, noColor, verbose bool) *Notifier {
	n := &Notifier{
		w:       w,
		verbose: verbose,
		bold:    color.New(color.Bold),
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{n.bold, n.ok, n.fail, n.faint} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return n
}

// OnRunStart prints the report header.
func (n *Notifier) OnRunStart(source string, groups int, policy domain.RetentionPolicy) {
	n.mu.Lock()
	defer n.mu.Unlock()

	mode := "deleting"
	if policy.Mode() == domain.ModeMove {
		mode = "moving to " + policy.Destination
	}
	suffix := ""
	if policy.DryRun {
		suffix = " (dry run)"
	}
	n.bold.Fprintf(n.w, "%d duplicate groups from %s, %s%s\n", groups, source, mode, suffix)
}

// OnGroupSkipped reports a group that was not disposed.
func (n *Notifier) OnGroupSkipped(res domain.GroupResult) {
	if !n.verbose {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.faint.Fprintf(n.w, "Skipping group %d (%s): %v\n", res.Index, res.SkipReason, res.Group.Paths)
}

// OnGroupDone prints the outcome of every path of the group, in order.
func (n *Notifier) OnGroupDone(res domain.GroupResult) {
	n.mu.Lock()
	defer n.mu.Unlock()

	mode := res.Item.Policy.Mode()
	for _, r := range res.Results {
		n.pathLine(mode, r)
	}
}

func (n *Notifier) pathLine(mode domain.Mode, r domain.PathResult) {
	if mode == domain.ModeMove {
		fmt.Fprintf(n.w, "Moving file %s to %s...", r.Path, r.Destination)
	} else {
		fmt.Fprintf(n.w, "Removing file %s...", r.Path)
	}

	switch r.Outcome {
	case domain.OutcomeSkipped:
		n.ok.Fprintln(n.w, "Done (not really)")
	case domain.OutcomeFailed:
		n.fail.Fprintf(n.w, "Error (%s)\n", r.Reason())
	default:
		n.ok.Fprintln(n.w, "Done")
	}
}

// PrintSummary prints the totals of a finished run.
func (n *Notifier) PrintSummary(report domain.RunReport) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := report.Summary
	n.bold.Fprintln(n.w, "\n===== Summary =====")
	fmt.Fprintf(n.w, "Duplicate groups: %d (%d eligible, %d skipped)\n", s.Groups, s.Eligible, s.SkippedGroups)
	fmt.Fprintf(n.w, "Files deleted: %d\n", s.Deleted)
	fmt.Fprintf(n.w, "Files moved: %d\n", s.Moved)
	if report.DryRun {
		fmt.Fprintf(n.w, "Files selected (dry run): %d\n", s.DryRun)
	}
	fmt.Fprintf(n.w, "Space reclaimed: %s\n", formatBytes(s.ReclaimedBytes))
	if s.Failed > 0 {
		n.fail.Fprintf(n.w, "Failures: %d in %d groups\n", s.Failed, s.FailedGroups)
	} else {
		fmt.Fprintln(n.w, "Failures: 0")
	}
}

func formatBytes(b uint64) string {
	const (
		_          = iota
		KB float64 = 1 << (10 * iota)
		MB
		GB
	)

	fb := float64(b)
	switch {
	case fb >= GB:
		return fmt.Sprintf("%.2fGiB", fb/GB)
	case fb >= MB:
		return fmt.Sprintf("%.2fMiB", fb/MB)
	case fb >= KB:
		return fmt.Sprintf("%.2fKiB", fb/KB)
	default:
		return fmt.Sprintf("%dB", b)
	}
}
