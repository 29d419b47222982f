package scan

import "strings"

// ScanInput is the text and file list produced by a source provider.
// Err is set instead of the other fields when the source could not be read.
type ScanInput struct {
	ChangedFiles []string
	Content      string
	FileCount    int
	Err          string
}

// Failed reports whether the input carries an error instead of content.
func (in *ScanInput) Failed() bool { return in.Err != "" }

// Checker is the interface all rule groups implement.
type Checker interface {
	ID() string
	Category() Category
	Applies(in *ScanInput) bool
	Run(in *ScanInput) []Issue
}

// AllCheckers returns the rule groups in report order.
func AllCheckers() []Checker {
	return []Checker{
		&patternGroup{id: "security", cat: CategorySecurity, sev: SeverityHigh, rules: SecurityRules},
		&patternGroup{id: "quality", cat: CategoryQuality, sev: SeverityMedium, rules: QualityRules},
		&patternGroup{id: "flutter", cat: CategoryFramework, sev: SeverityMedium, rules: FlutterRules,
			requireExt: FrameworkExt},
		&testCoverageCheck{},
	}
}

// patternGroup applies an ordered rule list to the whole content blob.
type patternGroup struct {
	id         string
	cat        Category
	sev        Severity
	rules      []Rule
	requireExt string // "" = always applies
}

func (g *patternGroup) ID() string         { return g.id }
func (g *patternGroup) Category() Category { return g.cat }
func (g *patternGroup) Applies(in *ScanInput) bool {
	if g.requireExt == "" {
		return true
	}
	for _, f := range in.ChangedFiles {
		if strings.HasSuffix(f, g.requireExt) {
			return true
		}
	}
	return false
}

func (g *patternGroup) Run(in *ScanInput) []Issue {
	var issues []Issue
	for i := range g.rules {
		issues = append(issues, g.rules[i].Match(in.Content, g.cat, g.sev)...)
	}
	return issues
}

// testCoverageCheck reports code changes that come without any test change.
type testCoverageCheck struct{}

func (c *testCoverageCheck) ID() string                { return "test-coverage" }
func (c *testCoverageCheck) Category() Category        { return CategoryTesting }
func (c *testCoverageCheck) Applies(_ *ScanInput) bool { return true }

func (c *testCoverageCheck) Run(in *ScanInput) []Issue {
	var code []string
	hasTests := false
	for _, f := range in.ChangedFiles {
		if hasAnySuffix(f, CodeExts) {
			code = append(code, f)
		}
		if isTestPath(f) {
			hasTests = true
		}
	}
	if len(code) == 0 || hasTests {
		return nil
	}
	return []Issue{{
		Category:     CategoryTesting,
		Severity:     SeverityMedium,
		Message:      missingTestsMessage,
		PatternID:    "missing-tests",
		RelatedFiles: code,
	}}
}

func isTestPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, "test") || strings.Contains(lower, "spec")
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
