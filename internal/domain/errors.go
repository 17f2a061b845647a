package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the ddhremover domain.
// They are returned by the public API and can be checked with errors.Is.
var (
	// ErrFileName is returned when a path has no final segment to use as the
	// file name of a move destination (empty, root, "." or "..").
	ErrFileName = errors.New("ddhremover: path has no file name")

	// ErrConfig is returned when the retention policy or the configuration
	// cannot be used. It is detected before any group is processed.
	ErrConfig = errors.New("ddhremover: invalid configuration")

	// ErrDestinationExists is returned when a move would overwrite a file.
	ErrDestinationExists = errors.New("ddhremover: destination already exists")

	// ErrNotRegularFile is returned when a path selected for deletion is a directory.
	ErrNotRegularFile = errors.New("ddhremover: not a regular file")

	// ErrInvalidReport is returned when the duplicate report cannot be decoded.
	// The whole batch is rejected.
	ErrInvalidReport = errors.New("ddhremover: invalid duplicate report")
)

// IoError wraps a failed filesystem operation on a single path.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
