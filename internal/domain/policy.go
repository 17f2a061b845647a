package domain

import (
	"fmt"
	"strings"
)

// Mode is the disposition applied to the paths selected for removal.
type Mode string

const (
	ModeDelete Mode = "delete"
	ModeMove   Mode = "move"
)

// DefaultKeepCount is the number of duplicates retained by default.
const DefaultKeepCount = 1

// RetentionPolicy describes which duplicates survive and what happens to the
// others. It is a value: copy it into every task that needs it.
type RetentionPolicy struct {
	// KeepCount is the number of paths retained by the skip-count rule and the
	// cap on removals under the preferred-substring rule.
	KeepCount int

	// PreferredSubstring marks paths that are always retained. Empty means unset.
	PreferredSubstring string

	// Destination switches disposition to move mode. Empty means delete.
	Destination string

	// DryRun reports every selected path as skipped without touching the disk.
	DryRun bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() RetentionPolicy {
	return RetentionPolicy{KeepCount: DefaultKeepCount}
}

// Mode returns ModeMove when a destination is set, ModeDelete otherwise.
func (p RetentionPolicy) Mode() Mode {
	if p.Destination != "" {
		return ModeMove
	}
	return ModeDelete
}

// HasPreferred reports whether the preferred-substring rule applies.
func (p RetentionPolicy) HasPreferred() bool {
	return p.PreferredSubstring != ""
}

// Validate checks the policy for values the resolver and disposer cannot use.
func (p RetentionPolicy) Validate() error {
	if p.KeepCount < 0 {
		return fmt.Errorf("%w: keep count must not be negative (got %d)", ErrConfig, p.KeepCount)
	}
	if p.Destination != "" && strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: move destination is blank", ErrConfig)
	}
	return nil
}
