// Package notify delivers a review summary by email.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/ppiankov/quickreview/internal/scan"
)

// maxIssuesPerGroup keeps the mail short; the rest are counted.
const maxIssuesPerGroup = 10

var bodyTmpl = template.Must(template.New("body").Funcs(template.FuncMap{"join": strings.Join}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Code Review Report</title></head>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Arial,sans-serif;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:0 auto;background-color:#ffffff;">
<tr><td style="background-color:{{.Banner.Color}};padding:30px;text-align:center;">
<h1 style="color:#ffffff;margin:0;font-size:24px;">{{.Banner.Icon}} {{.Title}}</h1>
<p style="color:#ffffff;margin:10px 0 0 0;font-size:16px;">{{.Banner.Status}}</p>
</td></tr>
{{- if .Error}}
<tr><td style="padding:20px;color:#f44336;">❌ Error: {{.Error}}</td></tr>
{{- else}}
<tr><td style="padding:20px;">
{{- if .Target}}<p style="margin:5px 0;color:#666;">Target: <strong>{{.Target}}</strong></p>{{end}}
<p style="margin:5px 0;color:#333;">Files: <strong>{{.Summary.TotalFiles}}</strong>
 &middot; High: <strong style="color:#f44336;">{{.Summary.HighSeverity}}</strong>
 &middot; Medium: <strong style="color:#ff9800;">{{.Summary.MediumSeverity}}</strong>
 &middot; Low: <strong style="color:#4caf50;">{{.Summary.LowSeverity}}</strong></p>
</td></tr>
{{- if .Groups}}
<tr><td style="padding:0 20px 20px 20px;">
{{- range .Groups}}
<div style="margin-bottom:15px;border:1px solid #ddd;">
<div style="background-color:{{.Color}};color:#ffffff;padding:8px 12px;font-weight:bold;">{{.Title}} ({{.Total}})</div>
{{- range .Issues}}
<div style="padding:12px;border-bottom:1px solid #eee;">
<div style="font-size:14px;color:#333;">{{.Message}}</div>
{{- if .MatchedText}}<code style="font-size:12px;background-color:#f5f5f5;padding:2px 6px;">{{.Excerpt 100}}</code>{{end}}
{{- if .RelatedFiles}}<div style="font-size:12px;color:#666;">{{join .RelatedFiles ", "}}</div>{{end}}
</div>
{{- end}}
{{- if .More}}<div style="padding:12px;text-align:center;color:#666;font-size:12px;">...and {{.More}} more issues</div>{{end}}
</div>
{{- end}}
</td></tr>
{{- else}}
<tr><td style="padding:20px;text-align:center;color:#2e7d32;">✅ No Issues Found!</td></tr>
{{- end}}
{{- end}}
</table>
</body>
</html>
`))

type banner struct {
	Color  string
	Icon   string
	Status string
}

type issueGroup struct {
	Title  string
	Color  string
	Total  int
	Issues []*scan.Issue
	More   int
}

type bodyData struct {
	Title   string
	Target  string
	Error   string
	Banner  banner
	Summary scan.Summary
	Groups  []issueGroup
}

var groupStyle = map[scan.Severity]struct{ title, color string }{
	scan.SeverityHigh:   {"High Severity", "#f44336"},
	scan.SeverityMedium: {"Medium Severity", "#ff9800"},
	scan.SeverityLow:    {"Low Severity", "#4caf50"},
}

// Formatter renders the subject and HTML body of a report mail.
type Formatter struct {
	RepoName string
	Target   string
}

// NewFormatter creates a formatter with optional repository and target
// context.
func NewFormatter(repo, target string) *Formatter {
	return &Formatter{RepoName: repo, Target: target}
}

// Subject summarizes the report in one line.
func (f *Formatter) Subject(r *scan.Report) string {
	if r.Failed() {
		return "❌ Code Review failed"
	}
	b := bannerFor(r)
	if f.RepoName != "" {
		return fmt.Sprintf("%s Code Review [%s]: %d issues found", b.Icon, f.RepoName, r.Summary.TotalIssues)
	}
	return fmt.Sprintf("%s Code Review: %d issues found", b.Icon, r.Summary.TotalIssues)
}

// HTML renders the mail body.
func (f *Formatter) HTML(r *scan.Report) (string, error) {
	data := bodyData{
		Title:   "Code Review Report",
		Target:  f.Target,
		Error:   r.Error,
		Banner:  bannerFor(r),
		Summary: r.Summary,
	}
	if f.RepoName != "" {
		data.Title = "Code Review: " + f.RepoName
	}
	if !r.Failed() {
		for _, sev := range scan.Severities {
			issues := r.Issues.Of(sev)
			if len(issues) == 0 {
				continue
			}
			g := issueGroup{
				Title: groupStyle[sev].title,
				Color: groupStyle[sev].color,
				Total: len(issues),
			}
			for i := range issues {
				if i == maxIssuesPerGroup {
					g.More = len(issues) - maxIssuesPerGroup
					break
				}
				g.Issues = append(g.Issues, &issues[i])
			}
			data.Groups = append(data.Groups, g)
		}
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func bannerFor(r *scan.Report) banner {
	s := r.Summary
	switch {
	case r.Failed():
		return banner{"#f44336", "❌", "Review Failed"}
	case s.HighSeverity > 0:
		return banner{"#f44336", "🚨", "Action Required"}
	case s.MediumSeverity > 0:
		return banner{"#ff9800", "⚠️", "Review Recommended"}
	case s.LowSeverity > 0:
		return banner{"#2196f3", "ℹ️", "Minor Issues"}
	default:
		return banner{"#4caf50", "✅", "All Clear"}
	}
}
