package source

import (
	"os"
	"strings"
)

// sensitiveEnvPrefixes are env var name prefixes stripped from the git
// subprocess environment.
var sensitiveEnvPrefixes = []string{
	"QUICKREVIEW_SMTP",
	"SMTP_PASS",
	"AWS_SECRET",
	"AWS_SESSION",
	"OPENAI_API",
	"ANTHROPIC_API",
}

// sensitiveEnvExact are env var names stripped by exact match.
var sensitiveEnvExact = []string{
	"API_KEY",
	"API_SECRET",
	"SECRET_KEY",
}

func sanitizedEnv() []string {
	return sanitizeEnv(os.Environ())
}

// sanitizeEnv filters sensitive environment variables from the list.
func sanitizeEnv(environ []string) []string {
	clean := make([]string, 0, len(environ))
	for _, entry := range environ {
		name, _, ok := strings.Cut(entry, "=")
		if !ok {
			clean = append(clean, entry)
			continue
		}
		if !isSensitive(strings.ToUpper(name)) {
			clean = append(clean, entry)
		}
	}
	return clean
}

func isSensitive(name string) bool {
	for _, prefix := range sensitiveEnvPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	for _, exact := range sensitiveEnvExact {
		if name == exact {
			return true
		}
	}
	return false
}
