package ports

// FileSystem performs the disposition of a single file.
// Implementations must never touch any path other than the ones passed in.
type FileSystem interface {
	// Remove deletes the regular file at path.
	// Directories must be refused rather than removed.
	Remove(path string) error

	// Move relocates src to dst without overwriting an existing dst.
	// A rename is attempted first; a cross-device rename falls back to
	// copy followed by removal of src.
	Move(src, dst string) error
}
