package source

import "strings"

const diffHeader = "diff --git "

// FilterDiff drops the per-file sections of a unified diff whose path is
// matched by skip. Text before the first file header is kept.
func FilterDiff(diff string, skip func(path string) bool) string {
	if !strings.Contains(diff, diffHeader) {
		return diff
	}

	var b strings.Builder
	keep := true
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, diffHeader) {
			keep = !skip(headerPath(line))
		}
		if keep {
			b.WriteString(line)
		}
	}
	return b.String()
}

// headerPath extracts the post-image path from "diff --git a/x b/x".
func headerPath(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if i := strings.LastIndex(line, " b/"); i >= 0 {
		return line[i+3:]
	}
	return strings.TrimPrefix(line, diffHeader)
}
