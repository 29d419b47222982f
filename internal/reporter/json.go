package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/quickreview/internal/scan"
)

// ReportFile is the name of the saved report inside the output directory.
const ReportFile = "review_report.json"

// WriteJSONReport writes the review report as JSON to the given path.
func WriteJSONReport(report *scan.Report, path string) error {
	var buf bytes.Buffer
	if err := scan.NewJSONFormatter().Format(&buf, report); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// SaveReport writes the report to dir/ReportFile, creating dir if needed,
// and returns the written path.
func SaveReport(report *scan.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, ReportFile)
	if err := WriteJSONReport(report, path); err != nil {
		return "", err
	}
	return path, nil
}

// ReadJSONReport loads a report saved by WriteJSONReport. Error reports
// come back with only Error set.
func ReadJSONReport(path string) (*scan.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if probe.Error != nil {
		return scan.BuildErrorReport(*probe.Error), nil
	}

	var r scan.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
