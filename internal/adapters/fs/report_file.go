package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/ddhremover/internal/domain"
)

// StdinName is the report name used when reading standard input.
const StdinName = "stdin"

// ReportFile implements ports.ReportSource for a JSON report read from a
// file, or from a reader such as standard input.
type ReportFile struct {
	path string
	r    io.Reader
}

// NewReportFile creates a source reading the report at path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// NewReportReader creates a source reading the report from r.
func NewReportReader(r io.Reader) *ReportFile {
	return &ReportFile{r: r}
}

// Name returns the report path, or "stdin" for reader sources.
func (f *ReportFile) Name() string {
	if f.path == "" {
		return StdinName
	}
	return f.path
}

// Groups reads and decodes the whole report.
func (f *ReportFile) Groups(ctx context.Context) ([]domain.DuplicateGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	if f.path != "" {
		data, err = os.ReadFile(f.path)
	} else {
		data, err = io.ReadAll(f.r)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", f.Name(), err)
	}
	return DecodeReport(data)
}

// DecodeReport decodes a JSON array of duplicate groups. Any malformed record
// rejects the whole report with domain.ErrInvalidReport.
func DecodeReport(data []byte) ([]domain.DuplicateGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var groups []domain.DuplicateGroup
	if err := dec.Decode(&groups); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReport, err)
	}
	if groups == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of groups", domain.ErrInvalidReport)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the group array", domain.ErrInvalidReport)
	}
	return groups, nil
}
