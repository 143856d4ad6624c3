// Package fs provides file-based output for preview check results.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rizkyilhampra/second-brain/check"
)

// ReportWriter persists check reports with atomic semantics: the report is
// written to a temporary file in the target directory, then renamed into
// place, so readers never observe a partial report.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Write serializes the report as indented JSON and moves it into place.
func (w *ReportWriter) Write(report *check.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), w.path)
}
