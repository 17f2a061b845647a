package domain

import (
	"sort"
	"time"
)

// RunReport is the persisted record of one run over a duplicate report.
type RunReport struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Source     string    `json:"source" yaml:"source"`
	Mode       Mode      `json:"mode" yaml:"mode"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	Summary ReportSummary `json:"summary" yaml:"summary"`
	Groups  []GroupReport `json:"groups" yaml:"groups"`
}

// ReportSummary counts groups and path outcomes of a run.
type ReportSummary struct {
	Groups        int `json:"groups" yaml:"groups"`
	Eligible      int `json:"eligible" yaml:"eligible"`
	SkippedGroups int `json:"skipped_groups" yaml:"skipped_groups"`
	FailedGroups  int `json:"failed_groups" yaml:"failed_groups"`

	Deleted int `json:"deleted" yaml:"deleted"`
	Moved   int `json:"moved" yaml:"moved"`
	DryRun  int `json:"dry_run" yaml:"dry_run"`
	Failed  int `json:"failed" yaml:"failed"`

	// ReclaimedBytes is file_length times the number of deleted or moved paths.
	ReclaimedBytes uint64 `json:"reclaimed_bytes" yaml:"reclaimed_bytes"`
}

// GroupReport is the serialisable form of a GroupResult.
type GroupReport struct {
	Index      int          `json:"index" yaml:"index"`
	Length     uint64       `json:"file_length" yaml:"file_length"`
	Skipped    bool         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SkipReason string       `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Kept       []string     `json:"kept,omitempty" yaml:"kept,omitempty"`
	Files      []FileReport `json:"files,omitempty" yaml:"files,omitempty"`
}

// FileReport is the serialisable form of a PathResult.
type FileReport struct {
	Path        string  `json:"path" yaml:"path"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	Destination string  `json:"destination,omitempty" yaml:"destination,omitempty"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewGroupReport converts a GroupResult.
func NewGroupReport(g GroupResult) GroupReport {
	gr := GroupReport{
		Index:      g.Index,
		Length:     g.Group.Length,
		Skipped:    g.Skipped,
		SkipReason: g.SkipReason,
		Kept:       g.Item.Kept,
	}
	for _, r := range g.Results {
		gr.Files = append(gr.Files, FileReport{
			Path:        r.Path,
			Outcome:     r.Outcome,
			Destination: r.Destination,
			Error:       r.Reason(),
		})
	}
	return gr
}

// Finalize normalises timestamps to UTC, orders groups by index and
// recomputes the summary from the groups.
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Groups, func(i, j int) bool {
		return r.Groups[i].Index < r.Groups[j].Index
	})

	var s ReportSummary
	s.Groups = len(r.Groups)
	for _, g := range r.Groups {
		if g.Skipped {
			s.SkippedGroups++
			continue
		}
		s.Eligible++
		failed := false
		for _, f := range g.Files {
			switch f.Outcome {
			case OutcomeDeleted:
				s.Deleted++
				s.ReclaimedBytes += g.Length
			case OutcomeMoved:
				s.Moved++
				s.ReclaimedBytes += g.Length
			case OutcomeSkipped:
				s.DryRun++
			case OutcomeFailed:
				s.Failed++
				failed = true
			}
		}
		if failed {
			s.FailedGroups++
		}
	}
	r.Summary = s
}

// HasFailures reports whether any path of the run failed.
func (r RunReport) HasFailures() bool {
	return r.Summary.Failed > 0
}
