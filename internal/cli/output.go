package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/ppiankov/quickreview/internal/reporter"
	"github.com/ppiankov/quickreview/internal/scan"
)

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// colorEnabled maps the color setting to a decision. "always" also forces
// an ANSI profile so styles render when stdout is piped.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal()
	}
}

func formatterFor(format string, color bool) scan.Formatter {
	switch format {
	case "json":
		return scan.NewJSONFormatter()
	case "sarif":
		return reporter.NewSARIFFormatter(Version)
	default:
		return scan.NewTextFormatter(color)
	}
}
