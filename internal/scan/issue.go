package scan

import (
	"fmt"
	"strings"
)

// Severity represents the priority bucket of an issue.
type Severity int

const (
	SeverityHigh Severity = iota + 1
	SeverityMedium
	SeverityLow
)

// Severities lists all buckets in report order.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to Severity. Returns 0 if unrecognized.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return 0
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityHigh || s > SeverityLow {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v := ParseSeverity(string(text))
	if v == 0 {
		return fmt.Errorf("invalid severity %q", string(text))
	}
	*s = v
	return nil
}

// Category groups rules by what they look for.
type Category string

const (
	CategorySecurity  Category = "security"
	CategoryQuality   Category = "quality"
	CategoryFramework Category = "framework"
	CategoryTesting   Category = "testing"
)

// Issue is one reported match of a rule against the scanned text.
type Issue struct {
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	MatchedText  string   `json:"matched_text,omitempty"`
	PatternID    string   `json:"pattern_id,omitempty"`
	RelatedFiles []string `json:"related_files,omitempty"`
}

// Excerpt returns at most n characters of the matched text.
func (i *Issue) Excerpt(n int) string {
	r := []rune(i.MatchedText)
	if len(r) <= n {
		return i.MatchedText
	}
	return string(r[:n])
}
