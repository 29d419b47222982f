package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// excerptLen is how much matched text the text formatter shows per issue.
const excerptLen = 100

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")) // blue
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
)

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// --- Text Formatter ---

// TextFormatter writes the human-readable summary.
type TextFormatter struct {
	color bool
}

// NewTextFormatter creates a text formatter with optional color.
func NewTextFormatter(color bool) *TextFormatter {
	return &TextFormatter{color: color}
}

func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	if r.Failed() {
		_, err := fmt.Fprintln(w, f.style(errorStyle, "❌ Error: "+r.Error))
		return err
	}

	s := r.Summary
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w)
	fmt.Fprintln(w, f.style(bannerStyle, rule))
	fmt.Fprintln(w, f.style(bannerStyle, "📋 CODE REVIEW SUMMARY"))
	fmt.Fprintln(w, f.style(bannerStyle, rule))
	fmt.Fprintf(w, "📁 Files changed: %d\n", s.TotalFiles)
	fmt.Fprintf(w, "🚨 Total issues: %d\n", s.TotalIssues)
	fmt.Fprintln(w, f.style(highStyle, fmt.Sprintf("🔴 High severity: %d", s.HighSeverity)))
	fmt.Fprintln(w, f.style(mediumStyle, fmt.Sprintf("🟡 Medium severity: %d", s.MediumSeverity)))
	fmt.Fprintln(w, f.style(lowStyle, fmt.Sprintf("🟢 Low severity: %d", s.LowSeverity)))

	for _, sev := range Severities {
		issues := r.Issues.Of(sev)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, f.style(severityStyle(sev), fmt.Sprintf("%s %s SEVERITY ISSUES:", SeverityIcon(sev), strings.ToUpper(sev.String()))))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for i := range issues {
			issue := &issues[i]
			fmt.Fprintf(w, "%d. %s\n", i+1, issue.Message)
			if issue.MatchedText != "" {
				fmt.Fprintln(w, f.style(codeStyle, fmt.Sprintf("   Code: %s...", issue.Excerpt(excerptLen))))
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}

func (f *TextFormatter) style(st lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return st.Render(s)
}

// SeverityIcon returns the marker used for a severity bucket.
func SeverityIcon(s Severity) string {
	switch s {
	case SeverityHigh:
		return "🔴"
	case SeverityMedium:
		return "🟡"
	case SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func severityStyle(s Severity) lipgloss.Style {
	switch s {
	case SeverityHigh:
		return highStyle
	case SeverityMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

// --- JSON Formatter ---

// JSONFormatter writes the report, or the error object, as JSON.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false) // matched code often contains <, > and &
	return enc.Encode(r)
}
