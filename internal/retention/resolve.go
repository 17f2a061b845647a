// Package retention decides which paths of a duplicate group are disposed.
// Everything here is pure: no I/O, no mutation of the inputs.
package retention

import (
	"sort"
	"strings"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// Resolve returns the ordered removal set for paths under policy.
// An empty result means every path is kept.
//
// With a preferred substring, paths containing it are always kept and the
// remaining paths, in input order, are removed up to KeepCount of them.
// Without one, the paths are sorted and all but the first KeepCount are removed.
func Resolve(paths []string, policy domain.RetentionPolicy) []string {
	if policy.HasPreferred() {
		return resolvePreferred(paths, policy.PreferredSubstring, policy.KeepCount)
	}
	return resolveSkip(paths, policy.KeepCount)
}

func resolvePreferred(paths []string, preferred string, limit int) []string {
	remove := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.Contains(p, preferred) {
			continue
		}
		remove = append(remove, p)
	}
	if limit < 0 {
		limit = 0
	}
	if len(remove) > limit {
		remove = remove[:limit]
	}
	return remove
}

func resolveSkip(paths []string, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if keep >= len(paths) {
		return []string{}
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return sorted[keep:]
}

// Plan resolves the removal set of group and records the kept paths.
func Plan(group domain.DuplicateGroup, policy domain.RetentionPolicy) domain.WorkItem {
	remove := Resolve(group.Paths, policy)

	selected := make(map[string]int, len(remove))
	for _, p := range remove {
		selected[p]++
	}
	kept := make([]string, 0, len(group.Paths)-len(remove))
	for _, p := range group.Paths {
		if selected[p] > 0 {
			selected[p]--
			continue
		}
		kept = append(kept, p)
	}

	return domain.WorkItem{
		Group:    group,
		Policy:   policy,
		ToRemove: remove,
		Kept:     kept,
	}
}
