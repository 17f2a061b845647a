// Package dispose deletes or moves the paths selected by the retention
// resolver and reports one result per path.
package dispose

import (
	"fmt"
	"path/filepath"

	"github.com/bft-labs/ddhremover/internal/domain"
	"github.com/bft-labs/ddhremover/internal/ports"
)

// Disposer applies a policy's disposition to removal sets.
// It holds no per-group state and is safe for concurrent use when its
// FileSystem and Logger are.
type Disposer struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a Disposer acting through fs.
func New(fs ports.FileSystem, logger ports.Logger) *Disposer {
	return &Disposer{fs: fs, logger: logger}
}

// DisposeItem disposes the removal set of a resolved work item.
func (d *Disposer) DisposeItem(item domain.WorkItem) []domain.PathResult {
	return d.Dispose(item.ToRemove, item.Policy)
}

// Dispose processes paths sequentially, in order, and returns one result per
// path. A failure on one path does not stop the others.
func (d *Disposer) Dispose(paths []string, policy domain.RetentionPolicy) []domain.PathResult {
	results := make([]domain.PathResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, d.disposeOne(p, policy))
	}
	return results
}

func (d *Disposer) disposeOne(path string, policy domain.RetentionPolicy) domain.PathResult {
	mode := policy.Mode()

	if policy.DryRun {
		r := domain.PathResult{Path: path, Outcome: domain.OutcomeSkipped}
		if mode == domain.ModeMove {
			// Best effort: the would-be destination is informational only.
			r.Destination, _ = Destination(policy.Destination, path)
		}
		d.logger.Debug("dry run, not disposing",
			ports.String("path", path),
			ports.String("mode", string(mode)))
		return r
	}

	if mode == domain.ModeMove {
		return d.move(path, policy.Destination)
	}
	return d.remove(path)
}

func (d *Disposer) move(path, destDir string) domain.PathResult {
	dst, err := Destination(destDir, path)
	if err != nil {
		return d.failed(path, "", err)
	}
	if err := d.fs.Move(path, dst); err != nil {
		return d.failed(path, dst, err)
	}
	d.logger.Debug("moved duplicate", ports.String("path", path), ports.String("destination", dst))
	return domain.PathResult{Path: path, Outcome: domain.OutcomeMoved, Destination: dst}
}

func (d *Disposer) remove(path string) domain.PathResult {
	if err := d.fs.Remove(path); err != nil {
		return d.failed(path, "", err)
	}
	d.logger.Debug("deleted duplicate", ports.String("path", path))
	return domain.PathResult{Path: path, Outcome: domain.OutcomeDeleted}
}

func (d *Disposer) failed(path, dst string, err error) domain.PathResult {
	d.logger.Error("dispose failed", ports.String("path", path), ports.Err(err))
	return domain.PathResult{Path: path, Outcome: domain.OutcomeFailed, Destination: dst, Err: err}
}

// FileName returns the final segment of path, or domain.ErrFileName when
// there is none (empty, root, "." or "..").
func FileName(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrFileName)
	}
	name := filepath.Base(filepath.Clean(path))
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%w: %q", domain.ErrFileName, path)
	}
	return name, nil
}

// Destination joins destDir with the file name of path.
func Destination(destDir, path string) (string, error) {
	name, err := FileName(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(destDir, name), nil
}
