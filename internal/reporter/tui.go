package reporter

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/quickreview/internal/scan"
)

// TUI styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// snippetLen bounds the matched text shown next to each issue.
const snippetLen = 40

// TUIModel is the Bubbletea model for browsing a finished report.
type TUIModel struct {
	report *scan.Report

	filter       scan.Severity // 0 = all
	scrollOffset int
	width        int
	height       int
}

// NewTUIModel creates a viewer over report.
func NewTUIModel(report *scan.Report) TUIModel {
	return TUIModel{report: report}
}

// RunTUI blocks until the viewer is closed.
func RunTUI(report *scan.Report) error {
	p := tea.NewProgram(NewTUIModel(report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m TUIModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			m.scrollDown(1)

		case "k", "up":
			m.scrollUp(1)

		case "g", "home":
			m.scrollOffset = 0

		case "G", "end":
			m.scrollOffset = m.maxScroll()

		case "pgdown", " ":
			m.scrollDown(m.visibleLines())

		case "pgup":
			m.scrollUp(m.visibleLines())

		case "0", "a":
			m.setFilter(0)

		case "1":
			m.setFilter(scan.SeverityHigh)

		case "2":
			m.setFilter(scan.SeverityMedium)

		case "3":
			m.setFilter(scan.SeverityLow)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if max := m.maxScroll(); m.scrollOffset > max {
			m.scrollOffset = max
		}
	}

	return m, nil
}

func (m *TUIModel) setFilter(s scan.Severity) {
	m.filter = s
	m.scrollOffset = 0
}

func (m *TUIModel) scrollDown(n int) {
	m.scrollOffset += n
	if max := m.maxScroll(); m.scrollOffset > max {
		m.scrollOffset = max
	}
}

func (m *TUIModel) scrollUp(n int) {
	m.scrollOffset -= n
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m TUIModel) visibleLines() int {
	// header(1) + counts(1) + above/below markers(2) + help(1) = 5 reserved lines
	avail := m.height - 5
	if avail < 3 {
		return 3
	}
	return avail
}

func (m TUIModel) maxScroll() int {
	total := len(m.visible())
	vis := m.visibleLines()
	if total <= vis {
		return 0
	}
	return total - vis
}

// visible returns the issues passing the current filter, high first.
func (m TUIModel) visible() []scan.Issue {
	if m.report == nil || m.report.Failed() {
		return nil
	}
	if m.filter == 0 {
		return m.report.All()
	}
	return m.report.Issues.Of(m.filter)
}

// View implements tea.Model.
func (m TUIModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	if m.report == nil || m.report.Failed() {
		msg := "no report"
		if m.report != nil {
			msg = m.report.Error
		}
		b.WriteString(highStyle.Render("❌ Error: " + msg))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("  q: quit"))
		return b.String()
	}

	s := m.report.Summary
	header := fmt.Sprintf("quickreview: %d issues in %d files", s.TotalIssues, s.TotalFiles)
	if m.filter != 0 {
		header += "  " + filterStyle.Render("["+m.filter.String()+" only]")
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.countsLine())
	b.WriteString("\n")

	lines := m.issueLines()

	vis := m.visibleLines()
	start := m.scrollOffset
	end := start + vis
	if end > len(lines) {
		end = len(lines)
	}
	if start > len(lines) {
		start = len(lines)
	}

	if start > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more above", start)))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	if end < len(lines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more below", len(lines)-end)))
		b.WriteString("\n")
	}
	if len(lines) == 0 {
		b.WriteString(lowStyle.Render("  ✓ no issues"))
		b.WriteString("\n")
	}

	// pad to fill screen
	used := 2 + (end - start) + 1
	if start > 0 {
		used++
	}
	if end < len(lines) {
		used++
	}
	for i := used; i < m.height-1; i++ {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  ↑↓/jk: scroll  g/G: top/bottom  1/2/3: high/medium/low  0: all  q: quit"))

	return b.String()
}

func (m TUIModel) countsLine() string {
	s := m.report.Summary
	return fmt.Sprintf("  %s  %s  %s",
		highStyle.Render(fmt.Sprintf("%d high", s.HighSeverity)),
		mediumStyle.Render(fmt.Sprintf("%d medium", s.MediumSeverity)),
		lowStyle.Render(fmt.Sprintf("%d low", s.LowSeverity)),
	)
}

func (m TUIModel) issueLines() []string {
	issues := m.visible()
	lines := make([]string, 0, len(issues))
	for i := range issues {
		lines = append(lines, fmtIssue(&issues[i]))
	}
	return lines
}

func fmtIssue(is *scan.Issue) string {
	detail := ""
	switch {
	case is.MatchedText != "":
		detail = snippet(is.Excerpt(snippetLen))
	case len(is.RelatedFiles) > 0:
		detail = fmt.Sprintf("%d files", len(is.RelatedFiles))
	}
	line := fmt.Sprintf("  %s %-6s %-9s %s", scan.SeverityIcon(is.Severity), is.Severity, is.Category, is.Message)
	if detail != "" {
		line += "  " + dimStyle.Render(detail)
	}
	return line
}

// snippet collapses whitespace so a match fits on one line.
func snippet(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
