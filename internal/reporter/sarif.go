package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/quickreview/internal/scan"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "quickreview"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Properties       sarifProps   `json:"properties"`
}

type sarifProps struct {
	Category string `json:"category"`
}

type sarifInvocation struct {
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	Notifications       []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level   string       `json:"level"`
	Message sarifMessage `json:"message"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// sarifLevel maps a severity to a SARIF result level.
func sarifLevel(s scan.Severity) string {
	switch s {
	case scan.SeverityHigh:
		return "error"
	case scan.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// buildSARIF converts a report into a single-run SARIF log. Rules are
// listed in first-seen order; issues without a pattern id use their
// category as the rule id.
func buildSARIF(report *scan.Report, version string) sarifReport {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: toolName, Version: version}},
		Results: []sarifResult{},
	}

	if report.Failed() {
		run.Invocations = []sarifInvocation{{
			ExecutionSuccessful: false,
			Notifications: []sarifNotification{{
				Level:   "error",
				Message: sarifMessage{Text: report.Error},
			}},
		}}
		return sarifReport{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
	}

	seen := make(map[string]bool)
	for _, issue := range report.All() {
		id := issue.PatternID
		if id == "" {
			id = string(issue.Category)
		}
		if !seen[id] {
			seen[id] = true
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               id,
				ShortDescription: sarifMessage{Text: issue.Message},
				Properties:       sarifProps{Category: string(issue.Category)},
			})
		}

		msg := issue.Message
		if issue.MatchedText != "" {
			msg = fmt.Sprintf("%s: %s", issue.Message, issue.Excerpt(100))
		}
		sr := sarifResult{
			RuleID:  id,
			Level:   sarifLevel(issue.Severity),
			Message: sarifMessage{Text: msg},
		}
		for _, f := range issue.RelatedFiles {
			sr.Locations = append(sr.Locations, sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f},
				},
			})
		}
		run.Results = append(run.Results, sr)
	}

	return sarifReport{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
}

// SARIFFormatter renders a report as SARIF v2.1.0.
type SARIFFormatter struct {
	version string
}

// NewSARIFFormatter creates a SARIF formatter stamping the tool version.
func NewSARIFFormatter(version string) *SARIFFormatter {
	return &SARIFFormatter{version: version}
}

func (f *SARIFFormatter) Format(w io.Writer, report *scan.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(buildSARIF(report, f.version)); err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	return nil
}

// WriteSARIFReport writes a SARIF v2.1.0 report to path.
func WriteSARIFReport(report *scan.Report, version, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	if err := NewSARIFFormatter(version).Format(file, report); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	return nil
}
