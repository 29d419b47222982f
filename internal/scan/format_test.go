package scan

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleReport() *Report {
	return BuildReport([]string{"src/app.py", "lib/main.dart"},
		[]Issue{
			{Category: CategorySecurity, Severity: SeverityHigh, Message: "Hardcoded password detected", MatchedText: `password = "p"`, PatternID: "hardcoded-password"},
		},
		[]Issue{
			{Category: CategoryQuality, Severity: SeverityMedium, Message: "Console.log statement found", MatchedText: "console.log(", PatternID: "console-log"},
		},
		[]Issue{
			{Category: CategoryTesting, Severity: SeverityMedium, Message: missingTestsMessage, PatternID: "missing-tests", RelatedFiles: []string{"src/app.py"}},
		},
	)
}

func TestTextFormatter_NoColor(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"📋 CODE REVIEW SUMMARY",
		strings.Repeat("=", 60),
		"📁 Files changed: 2",
		"🚨 Total issues: 3",
		"🔴 High severity: 1",
		"🟡 Medium severity: 2",
		"🟢 Low severity: 0",
		"🔴 HIGH SEVERITY ISSUES:",
		"🟡 MEDIUM SEVERITY ISSUES:",
		"1. Hardcoded password detected",
		`   Code: password = "p"...`,
		"2. " + missingTestsMessage,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "LOW SEVERITY ISSUES") {
		t.Error("empty low bucket should not be printed")
	}
	if strings.Contains(out, "\033[") {
		t.Error("ANSI codes present with color disabled")
	}
}

func TestTextFormatter_NoCodeLineForTestingIssue(t *testing.T) {
	var buf bytes.Buffer
	r := BuildReport([]string{"a.py"}, []Issue{
		{Category: CategoryTesting, Severity: SeverityMedium, Message: missingTestsMessage, RelatedFiles: []string{"a.py"}},
	})
	if err := NewTextFormatter(false).Format(&buf, r); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Code:") {
		t.Errorf("unexpected code line:\n%s", buf.String())
	}
}

func TestTextFormatter_TruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("x", 150)
	r := BuildReport(nil, []Issue{{Category: CategoryQuality, Severity: SeverityLow, Message: "m", MatchedText: long}})

	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := "   Code: " + strings.Repeat("x", 100) + "...\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("excerpt not truncated to 100 chars:\n%s", buf.String())
	}
}

func TestTextFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, BuildErrorReport("Not a git repository")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "❌ Error: Not a git repository\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTextFormatter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, BuildReport(nil)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "📁 Files changed: 0") || !strings.Contains(out, "🚨 Total issues: 0") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if strings.Contains(out, "SEVERITY ISSUES") {
		t.Error("empty report should list no buckets")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded.Summary.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", decoded.Summary.TotalIssues)
	}
	if len(decoded.ChangedFiles) != 2 {
		t.Errorf("ChangedFiles = %d, want 2", len(decoded.ChangedFiles))
	}
	if got := decoded.Issues.Medium[1].RelatedFiles; len(got) != 1 || got[0] != "src/app.py" {
		t.Errorf("related files = %v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"summary\"") {
		t.Errorf("output not indented:\n%s", buf.String())
	}
}

func TestJSONFormatter_NoHTMLEscape(t *testing.T) {
	r := BuildReport(nil, []Issue{{Category: CategorySecurity, Severity: SeverityHigh, Message: "m", MatchedText: "a && b <c>"}})
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"matched_text": "a && b <c>"`) {
		t.Errorf("matched text was escaped:\n%s", buf.String())
	}
}

func TestJSONFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, BuildErrorReport("boom")); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 || decoded["error"] != "boom" {
		t.Errorf("decoded = %v", decoded)
	}
}
