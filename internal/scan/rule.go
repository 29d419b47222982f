package scan

import (
	"regexp"
	"strings"
)

// Rule is a single pattern definition. Severity and category come from
// the group the rule belongs to.
type Rule struct {
	ID      string
	Pattern *regexp.Regexp
	Message string

	// NotFollowedBy rejects a match when the text right after it starts
	// with this string. RE2 has no lookahead, so the guard runs after matching.
	NotFollowedBy string
}

// Class bodies for \s and \w with Unicode reach. RE2 alone limits them to
// ASCII, which misses vertical tabs, NBSP and non-Latin identifiers.
const (
	spaceClass = `\s\v\x1c-\x1f\x85\p{Z}`
	wordClass  = `\p{L}\p{N}_`
)

// newRule compiles pattern case-insensitively.
func newRule(id, pattern, msg string) Rule {
	return Rule{
		ID:      id,
		Pattern: regexp.MustCompile(`(?i)` + widenClasses(pattern)),
		Message: msg,
	}
}

// widenClasses rewrites \s and \w to their Unicode class bodies, bracketed
// outside a character class and inlined inside one.
func widenClasses(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			i++
			body := ""
			switch next {
			case 's':
				body = spaceClass
			case 'w':
				body = wordClass
			}
			switch {
			case body == "":
				b.WriteByte(c)
				b.WriteByte(next)
			case inClass:
				b.WriteString(body)
			default:
				b.WriteString("[" + body + "]")
			}
			continue
		}
		switch {
		case c == '[' && !inClass:
			inClass = true
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Find returns the [start, end) offsets of every non-overlapping match in
// text, left to right.
func (r *Rule) Find(text string) [][]int {
	if r.NotFollowedBy == "" {
		return r.Pattern.FindAllStringIndex(text, -1)
	}

	var locs [][]int
	pos := 0
	for pos <= len(text) {
		loc := r.Pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if strings.HasPrefix(text[end:], r.NotFollowedBy) {
			// retry one byte further, as a failed lookahead would
			pos = start + 1
			continue
		}
		locs = append(locs, []int{start, end})
		if end == start {
			end++
		}
		pos = end
	}
	return locs
}

// Match produces one Issue per match of the rule in text.
func (r *Rule) Match(text string, cat Category, sev Severity) []Issue {
	locs := r.Find(text)
	if len(locs) == 0 {
		return nil
	}
	issues := make([]Issue, 0, len(locs))
	for _, loc := range locs {
		issues = append(issues, Issue{
			Category:    cat,
			Severity:    sev,
			Message:     r.Message,
			MatchedText: text[loc[0]:loc[1]],
			PatternID:   r.ID,
		})
	}
	return issues
}
