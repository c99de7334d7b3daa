package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReportFile writes the rendered markdown report to a single file,
// creating parent directories as needed.
type ReportFile struct {
	Path string
}

// NewReportFile creates a report sink at the given path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{Path: path}
}

// Write persists the report. Failures wrap ErrUnwritable and abort the
// run that produced the report.
func (r *ReportFile) Write(report string) error {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := os.WriteFile(r.Path, []byte(report), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	return nil
}
