package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// JournalFile implements ports.RunJournal by writing the run report to a
// single file. The format follows the extension: .yaml/.yml for YAML, JSON
// otherwise.
type JournalFile struct {
	path string
}

// NewJournalFile creates a new JournalFile for the given path.
func NewJournalFile(path string) *JournalFile {
	return &JournalFile{path: path}
}

// Save persists the run report atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (j *JournalFile) Save(ctx context.Context, report domain.RunReport) error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := j.encode(report)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpName, j.path)
}

func (j *JournalFile) encode(report domain.RunReport) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(j.path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(report)
	default:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
