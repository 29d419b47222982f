package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/quickreview/internal/config"
	"github.com/ppiankov/quickreview/internal/reporter"
)

func newShowCmd() *cobra.Command {
	var (
		format string
		tui    bool
		color  string
	)

	cmd := &cobra.Command{
		Use:   "show [report.json]",
		Short: "Render a saved JSON report",
		Long:  "Show reads a report written by a previous review (default review_reports/review_report.json) and renders it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.DefaultOutputDir, reporter.ReportFile)
			if len(args) == 1 {
				path = args[0]
			}

			report, err := reporter.ReadJSONReport(path)
			if err != nil {
				return err
			}

			if tui {
				if !isTerminal() {
					return fmt.Errorf("--tui requires a terminal")
				}
				return reporter.RunTUI(report)
			}

			switch format {
			case "text", "json", "sarif":
			default:
				return fmt.Errorf("unknown format %q (want text, json or sarif)", format)
			}
			return formatterFor(format, colorEnabled(color)).Format(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&format, "format", config.DefaultFormat, "output format: text, json, sarif")
	cmd.Flags().BoolVar(&tui, "tui", false, "browse the report in an interactive viewer")
	cmd.Flags().StringVar(&color, "color", config.DefaultColor, "colorize text output: auto, always, never")

	return cmd
}
