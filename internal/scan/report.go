package scan

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// Summary holds the per-run counts.
type Summary struct {
	TotalFiles     int `json:"total_files"`
	TotalIssues    int `json:"total_issues"`
	HighSeverity   int `json:"high_severity"`
	MediumSeverity int `json:"medium_severity"`
	LowSeverity    int `json:"low_severity"`
}

// Buckets holds issues partitioned by severity, each in catalog order.
type Buckets struct {
	High   []Issue `json:"high"`
	Medium []Issue `json:"medium"`
	Low    []Issue `json:"low"`
}

// Of returns the bucket for s.
func (b *Buckets) Of(s Severity) []Issue {
	switch s {
	case SeverityHigh:
		return b.High
	case SeverityMedium:
		return b.Medium
	case SeverityLow:
		return b.Low
	default:
		return nil
	}
}

// Report is the aggregated result of one run. When Error is set the
// report carries nothing else.
type Report struct {
	Summary      Summary  `json:"summary"`
	ChangedFiles []string `json:"changed_files"`
	Issues       Buckets  `json:"issues"`
	Error        string   `json:"-"`
}

// Failed reports whether the run ended with an irrecoverable error.
func (r *Report) Failed() bool { return r.Error != "" }

// All returns every issue, high bucket first.
func (r *Report) All() []Issue {
	all := make([]Issue, 0, r.Summary.TotalIssues)
	for _, s := range Severities {
		all = append(all, r.Issues.Of(s)...)
	}
	return all
}

type errorReport struct {
	Error string `json:"error"`
}

type reportJSON Report

// MarshalJSON writes the error shape {"error": ...} for failed runs.
func (r *Report) MarshalJSON() ([]byte, error) {
	var v any = (*reportJSON)(r)
	if r.Failed() {
		v = errorReport{Error: r.Error}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// BuildReport concatenates the group issue lists in the given order and
// partitions them by severity.
func BuildReport(files []string, groups ...[]Issue) *Report {
	r := &Report{
		ChangedFiles: append([]string{}, files...),
		Issues: Buckets{
			High:   []Issue{},
			Medium: []Issue{},
			Low:    []Issue{},
		},
	}

	total := 0
	for _, g := range groups {
		for _, issue := range g {
			switch issue.Severity {
			case SeverityHigh:
				r.Issues.High = append(r.Issues.High, issue)
			case SeverityMedium:
				r.Issues.Medium = append(r.Issues.Medium, issue)
			case SeverityLow:
				r.Issues.Low = append(r.Issues.Low, issue)
			default:
				slog.Warn("dropping issue with unknown severity", "pattern", issue.PatternID)
				continue
			}
			total++
		}
	}

	r.Summary = Summary{
		TotalFiles:     len(files),
		TotalIssues:    total,
		HighSeverity:   len(r.Issues.High),
		MediumSeverity: len(r.Issues.Medium),
		LowSeverity:    len(r.Issues.Low),
	}
	return r
}

// BuildErrorReport returns the error-shaped report.
func BuildErrorReport(msg string) *Report {
	return &Report{Error: msg}
}

// Review runs the checkers over in, in order, and aggregates the result.
// A failed input short-circuits to an error report.
func Review(in *ScanInput, checkers []Checker) *Report {
	if in.Failed() {
		return BuildErrorReport(in.Err)
	}

	groups := make([][]Issue, 0, len(checkers))
	for _, c := range checkers {
		if !c.Applies(in) {
			slog.Debug("checker skipped", "checker", c.ID())
			continue
		}
		issues := c.Run(in)
		slog.Debug("checker done", "checker", c.ID(), "issues", len(issues))
		groups = append(groups, issues)
	}
	return BuildReport(in.ChangedFiles, groups...)
}
