package scan

import (
	"strings"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"high", SeverityHigh},
		{"HIGH", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{"critical", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := ParseSeverity(tt.input)
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityHigh, "high"},
		{SeverityMedium, "medium"},
		{SeverityLow, "low"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestSeverityMarshalText_Invalid(t *testing.T) {
	if _, err := Severity(0).MarshalText(); err == nil {
		t.Error("expected error for zero severity")
	}
}

func TestRuleIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, group := range [][]Rule{SecurityRules, QualityRules, FlutterRules} {
		for _, r := range group {
			if r.ID == "" {
				t.Errorf("rule with empty id: %q", r.Message)
			}
			if seen[r.ID] {
				t.Errorf("duplicate rule id %q", r.ID)
			}
			seen[r.ID] = true
		}
	}
}

func matchGroup(rules []Rule, text string) []Issue {
	var issues []Issue
	for i := range rules {
		issues = append(issues, rules[i].Match(text, CategorySecurity, SeverityHigh)...)
	}
	return issues
}

func TestSecurityRules(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantIDs []string
	}{
		{"password", `password = "abc123"`, []string{"hardcoded-password"}},
		{"api key single quotes", `api_key='k-123'`, []string{"hardcoded-api-key"}},
		{"secret", `client_secret = "s3cr3t"`, []string{"hardcoded-secret"}},
		{"token", `TOKEN = "abc"`, []string{"hardcoded-token"}},
		{"empty literal not matched", `password = ""`, nil},
		{"eval", `eval (code)`, []string{"eval-call"}},
		{"exec", `EXEC(cmd)`, []string{"exec-call"}},
		{"innerHTML", `el.innerHTML = html`, []string{"inner-html"}},
		{"document.write", `document.write("x")`, []string{"document-write"}},
		{"no match", `const x = compute(y)`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := matchGroup(SecurityRules, tt.text)
			var ids []string
			for _, is := range issues {
				ids = append(ids, is.PatternID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestRuleMatch_AllOccurrencesInOrder(t *testing.T) {
	r := newRule("todo", `TODO|FIXME|HACK`, "marker")
	text := "// hack one\n// TODO two\n// fixme three\n"
	issues := r.Match(text, CategoryQuality, SeverityMedium)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3", len(issues))
	}
	want := []string{"hack", "TODO", "fixme"}
	for i, w := range want {
		if issues[i].MatchedText != w {
			t.Errorf("issue %d matched %q, want %q", i, issues[i].MatchedText, w)
		}
		if issues[i].Category != CategoryQuality || issues[i].Severity != SeverityMedium {
			t.Errorf("issue %d has %s/%s", i, issues[i].Category, issues[i].Severity)
		}
	}
}

func TestQualityRules_LargeFunctionThreshold(t *testing.T) {
	body := strings.Repeat("a", 200)
	issues := matchGroup(QualityRules, "function foo() {"+body+"}")
	if len(issues) != 1 || issues[0].PatternID != "large-function" {
		t.Fatalf("200-char body: got %+v, want one large-function", issues)
	}

	short := strings.Repeat("a", 199)
	if issues := matchGroup(QualityRules, "function foo() {"+short+"}"); len(issues) != 0 {
		t.Errorf("199-char body: got %d issues, want 0", len(issues))
	}
}

func TestQualityRules_LargeFunctionStopsAtFirstBrace(t *testing.T) {
	// a nested block closes early, so the heuristic misses this function
	text := "function foo() { if (x) { y() } " + strings.Repeat("a", 300) + "}"
	for _, is := range matchGroup(QualityRules, text) {
		if is.PatternID == "large-function" {
			t.Errorf("large-function matched across a closing brace: %q", is.MatchedText)
		}
	}
}

func TestQualityRules_DeepNesting(t *testing.T) {
	text := "if (a) { if (b) { if (c) {} } }"
	var got []Issue
	for _, is := range matchGroup(QualityRules, text) {
		if is.PatternID == "deep-nesting" {
			got = append(got, is)
		}
	}
	if len(got) != 1 {
		t.Fatalf("got %d deep-nesting issues, want 1", len(got))
	}
	if got[0].MatchedText != "if (a) { if (b) { if" {
		t.Errorf("matched %q", got[0].MatchedText)
	}
}

func TestRuleFind_NotFollowedBy(t *testing.T) {
	r := unguardedOfRule()
	text := "Theme.of(context).primaryColor\nNavigator.of(context)\nMediaQuery.of(context)"
	issues := r.Match(text, CategoryFramework, SeverityMedium)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	for _, is := range issues {
		if is.MatchedText != ".of(context)" {
			t.Errorf("matched %q", is.MatchedText)
		}
	}
}

func TestRuleFind_RejectedMatchDoesNotHideNext(t *testing.T) {
	r := unguardedOfRule()
	locs := r.Find("a.of(context).of(context)x")
	if len(locs) != 1 {
		t.Fatalf("got %d matches, want 1", len(locs))
	}
	if locs[0][0] != 13 {
		t.Errorf("match starts at %d, want 13", locs[0][0])
	}
}

func TestIssueExcerpt(t *testing.T) {
	is := Issue{MatchedText: strings.Repeat("é", 150)}
	if got := is.Excerpt(100); len([]rune(got)) != 100 {
		t.Errorf("excerpt has %d runes, want 100", len([]rune(got)))
	}
	short := Issue{MatchedText: "abc"}
	if got := short.Excerpt(100); got != "abc" {
		t.Errorf("excerpt = %q, want abc", got)
	}
}

func TestRule_UnicodeWhitespaceAndWords(t *testing.T) {
	password := SecurityRules[0]
	tests := []struct {
		name string
		text string
		want int
	}{
		{"vertical tab", "password\v=\v'x'", 1},
		{"no-break space", "password\u00a0=\u00a0\"x\"", 1},
		{"ideographic space", "password\u3000= 'x'", 1},
		{"file separator", "password\x1c=\x1f'x'", 1},
		{"plain", "password = 'x'", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(password.Match(tt.text, CategorySecurity, SeverityHigh)); got != tt.want {
				t.Errorf("matches = %d, want %d", got, tt.want)
			}
		})
	}

	large := QualityRules[5]
	body := "function générer() {" + strings.Repeat("x", 210) + "}"
	if got := len(large.Match(body, CategoryQuality, SeverityMedium)); got != 1 {
		t.Errorf("non-ASCII function name: matches = %d, want 1", got)
	}
}

func TestWidenClasses(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`a\s*b`, `a[` + spaceClass + `]*b`},
		{`\w+`, `[` + wordClass + `]+`},
		{`[\s,]`, `[` + spaceClass + `,]`},
		{`\[\s*\]`, `\[[` + spaceClass + `]*\]`},
		{`\.of\(`, `\.of\(`},
		{`a\\s`, `a\\s`},
	}
	for _, tt := range tests {
		if got := widenClasses(tt.in); got != tt.want {
			t.Errorf("widenClasses(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
