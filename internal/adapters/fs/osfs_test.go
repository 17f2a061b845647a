package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/ddhremover/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestOSFileSystem_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	writeFile(t, path, "data")

	fsys := NewOSFileSystem()
	if err := fsys.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if exists(path) {
		t.Fatal("file still exists after Remove()")
	}

	// Second removal must report not-found rather than succeed silently.
	err := fsys.Remove(path)
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("second Remove() = %v, want not-exist", err)
	}
	var ioErr *domain.IoError
	if !errors.As(err, &ioErr) || ioErr.Op != "remove" {
		t.Fatalf("second Remove() = %T, want *domain.IoError", err)
	}
}

func TestOSFileSystem_RemoveRefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "empty")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := NewOSFileSystem().Remove(sub)
	if !errors.Is(err, domain.ErrNotRegularFile) {
		t.Fatalf("Remove(dir) = %v, want ErrNotRegularFile", err)
	}
	if !exists(sub) {
		t.Fatal("directory was removed")
	}
}

func TestOSFileSystem_Move(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data", "x", "a.jpg")
	dst := filepath.Join(dir, "out", "a.jpg")
	writeFile(t, src, "photo")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := NewOSFileSystem().Move(src, dst); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if exists(src) {
		t.Fatal("source still exists after Move()")
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(b) != "photo" {
		t.Fatalf("destination content = %q, want %q", b, "photo")
	}
}

func TestOSFileSystem_MoveDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "out", "a.jpg")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	err := NewOSFileSystem().Move(src, dst)
	if !errors.Is(err, domain.ErrDestinationExists) {
		t.Fatalf("Move() = %v, want ErrDestinationExists", err)
	}
	if !exists(src) {
		t.Fatal("source removed despite failed move")
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Fatalf("destination overwritten: %q", b)
	}
}

func TestOSFileSystem_MoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := NewOSFileSystem().Move(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("Move() = %v, want not-exist", err)
	}
}

func TestOSFileSystem_MoveDestinationAppearsBeforeLink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "out", "a.jpg")
	writeFile(t, src, "new")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Another writer creates dst after Move has inspected the source.
	old := linkFunc
	linkFunc = func(oldpath, newpath string) error {
		writeFile(t, newpath, "concurrent")
		return old(oldpath, newpath)
	}
	defer func() { linkFunc = old }()

	err := NewOSFileSystem().Move(src, dst)
	if !errors.Is(err, domain.ErrDestinationExists) {
		t.Fatalf("Move() = %v, want ErrDestinationExists", err)
	}
	if !exists(src) {
		t.Fatal("source removed despite failed move")
	}
	if b, _ := os.ReadFile(dst); string(b) != "concurrent" {
		t.Fatalf("destination overwritten: %q", b)
	}
}

func TestOSFileSystem_MoveSourceRemovalFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "out", "a.jpg")
	writeFile(t, src, "keep")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	old := removeFunc
	removeFunc = func(string) error { return os.ErrPermission }
	defer func() { removeFunc = old }()

	if err := NewOSFileSystem().Move(src, dst); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Move() = %v, want permission error", err)
	}
	if !exists(src) {
		t.Fatal("source must survive")
	}
	if exists(dst) {
		t.Fatal("link must be removed when the source cannot be removed")
	}
}
