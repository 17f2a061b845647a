package domain

// WorkItem is the removal set resolved for one eligible group.
// It is created once, consumed by the disposer and discarded.
type WorkItem struct {
	Group    DuplicateGroup
	Policy   RetentionPolicy
	ToRemove []string
	Kept     []string
}

// Outcome is the result kind of disposing a single path.
type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeMoved   Outcome = "moved"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// PathResult is the outcome for one path of a removal set.
type PathResult struct {
	Path    string
	Outcome Outcome

	// Destination is the move target. For dry runs in move mode it is the
	// destination that would have been used, when it can be derived.
	Destination string

	// Err is set when Outcome is OutcomeFailed.
	Err error
}

// Reason returns the failure text, or "" on success.
func (r PathResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// GroupResult is the outcome of processing one group of the report.
type GroupResult struct {
	Index int
	Group DuplicateGroup

	// Skipped groups were never disposed; SkipReason says why.
	Skipped    bool
	SkipReason string

	Item    WorkItem
	Results []PathResult
}

// Failed reports whether any path of the group failed.
func (g GroupResult) Failed() bool {
	for _, r := range g.Results {
		if r.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Count returns the number of path results with the given outcome.
func (g GroupResult) Count(o Outcome) int {
	n := 0
	for _, r := range g.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
