package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// Swappable so tests can simulate EXDEV and copy failures.
var (
	linkFunc   = os.Link
	renameFunc = os.Rename
	removeFunc = os.Remove
)

// OSFileSystem implements ports.FileSystem on the local operating system.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Remove deletes the regular file (or symlink) at path. Directories are refused.
func (OSFileSystem) Remove(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return &domain.IoError{Op: "remove", Path: path, Err: err}
	}
	if fi.IsDir() {
		return &domain.IoError{Op: "remove", Path: path, Err: domain.ErrNotRegularFile}
	}
	if err := removeFunc(path); err != nil {
		return &domain.IoError{Op: "remove", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

// Move links src at dst and then removes src. An existing dst is never
// overwritten: the link fails atomically when dst exists. Across devices it
// falls back to an exclusive copy and delete. Filesystems without hard links
// fall back to a checked rename.
func (OSFileSystem) Move(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return &domain.IoError{Op: "move", Path: src, Err: err}
	}
	if fi.IsDir() {
		return &domain.IoError{Op: "move", Path: src, Err: domain.ErrNotRegularFile}
	}

	err = linkFunc(src, dst)
	switch {
	case err == nil:
		return removeLinkedSource(src, dst)
	case errors.Is(err, iofs.ErrExist):
		return &domain.IoError{Op: "move", Path: dst, Err: domain.ErrDestinationExists}
	case isEXDEV(err):
		return copyThenRemove(src, dst, fi.Mode().Perm())
	case errors.Is(err, iofs.ErrNotExist):
		return &domain.IoError{Op: "move", Path: src, Err: unwrapPathError(err)}
	}
	return renameNoClobber(src, dst, fi.Mode().Perm())
}

func removeLinkedSource(src, dst string) error {
	if err := removeFunc(src); err != nil {
		// Leave the source as the only name.
		_ = os.Remove(dst)
		return &domain.IoError{Op: "remove", Path: src, Err: unwrapPathError(err)}
	}
	return nil
}

// renameNoClobber is used where hard links are unsupported. The existence
// check and the rename are not atomic.
func renameNoClobber(src, dst string, perm os.FileMode) error {
	if _, err := os.Lstat(dst); err == nil {
		return &domain.IoError{Op: "move", Path: dst, Err: domain.ErrDestinationExists}
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return &domain.IoError{Op: "move", Path: dst, Err: err}
	}

	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return &domain.IoError{Op: "move", Path: src, Err: unwrapPathError(err)}
	}
	return copyThenRemove(src, dst, perm)
}

func copyThenRemove(src, dst string, perm os.FileMode) error {
	if err := copyFile(src, dst, perm); err != nil {
		return &domain.IoError{Op: "copy", Path: src, Err: err}
	}
	if err := removeFunc(src); err != nil {
		// Leave the source as the only copy.
		_ = os.Remove(dst)
		return &domain.IoError{Op: "remove", Path: src, Err: unwrapPathError(err)}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copying contents: %w", err)
	}
	return out.Sync()
}

// unwrapPathError drops the *PathError/*LinkError wrapper since IoError
// already carries the operation and path.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
