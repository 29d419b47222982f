package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/quickreview/internal/config"
	"github.com/ppiankov/quickreview/internal/notify"
	"github.com/ppiankov/quickreview/internal/reporter"
	"github.com/ppiankov/quickreview/internal/scan"
	"github.com/ppiankov/quickreview/internal/source"
)

// reviewOptions holds the flags of the review command. settings is the
// effective configuration after resolve.
type reviewOptions struct {
	dir       string
	target    string
	fullScan  bool
	jsonOut   bool
	format    string
	outputDir string
	noSave    bool
	sarifPath string
	email     string
	tui       bool
	color     string

	settings *config.Settings
}

func (o *reviewOptions) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.target, "target", "t", "", "target branch to compare against (default from config, then main)")
	f.BoolVar(&o.fullScan, "full-scan", false, "scan the entire codebase instead of the diff")
	f.BoolVarP(&o.jsonOut, "json", "j", false, "output as JSON (same as --format json)")
	f.StringVar(&o.format, "format", "", "output format: text, json, sarif")
	f.StringVarP(&o.outputDir, "output", "o", "", "directory for the saved JSON report (default review_reports)")
	f.BoolVar(&o.noSave, "no-save", false, "do not save the JSON report")
	f.StringVar(&o.sarifPath, "sarif", "", "also write a SARIF report to this path")
	f.StringVar(&o.email, "email", "", "email the report summary to this address")
	f.BoolVar(&o.tui, "tui", false, "browse the report in an interactive viewer")
	f.StringVar(&o.color, "color", "", "colorize text output: auto, always, never (default auto)")
	f.StringVarP(&o.dir, "dir", "C", ".", "repository directory")

	cmd.MarkFlagsMutuallyExclusive("json", "format")
	cmd.MarkFlagsMutuallyExclusive("json", "tui")
}

// resolve merges flags over the config file. Flags win only when set.
func (o *reviewOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.LoadSettings(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target = o.target
	}
	if flags.Changed("full-scan") {
		cfg.FullScan = o.fullScan
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if o.jsonOut {
		cfg.Format = "json"
	}
	if flags.Changed("output") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	if o.email == "" && cfg.Email != nil {
		o.email = cfg.Email.To
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if o.tui && !isTerminal() {
		return fmt.Errorf("--tui requires a terminal")
	}

	o.settings = cfg.WithDefaults()
	return nil
}

// runReview loads the source, scans it and delivers the report. An error
// report is still printed and saved; it then surfaces as ErrReviewFailed.
func runReview(ctx context.Context, w io.Writer, o *reviewOptions) error {
	s := o.settings
	report := review(ctx, o.dir, s)

	if o.tui {
		if err := reporter.RunTUI(report); err != nil {
			return err
		}
	} else {
		f := formatterFor(s.Format, colorEnabled(s.Color))
		if err := f.Format(w, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if !o.noSave {
		saveReport(report, resolvePath(o.dir, s.OutputDir))
	}
	if o.sarifPath != "" {
		if err := reporter.WriteSARIFReport(report, Version, o.sarifPath); err != nil {
			slog.Warn("could not write sarif report", "path", o.sarifPath, "error", err)
		}
	}
	if o.email != "" {
		emailReport(report, o.dir, s, o.email)
	}

	if report.Failed() {
		return ErrReviewFailed
	}
	return nil
}

// review runs the scan pipeline once over dir.
func review(ctx context.Context, dir string, s *config.Settings) *scan.Report {
	ignorePath := resolvePath(dir, s.IgnoreFile)
	ignore, err := config.LoadIgnore(ignorePath, s.Ignore)
	if err != nil {
		slog.Warn("could not read ignore file, using config patterns only", "path", ignorePath, "error", err)
		ignore = config.NewIgnoreList(s.Ignore...)
	}
	if ignore.Len() > 0 {
		slog.Info("loaded ignore patterns", "count", ignore.Len())
	}

	p := source.NewProvider(source.NewGit(dir), source.NewOSFilesystem(dir), ignore)
	in := p.Load(ctx, source.Options{Target: s.Target, FullScan: s.FullScan})
	return scan.Review(in, scan.AllCheckers())
}

func saveReport(report *scan.Report, dir string) {
	path, err := reporter.SaveReport(report, dir)
	if err != nil {
		slog.Warn("could not save report", "dir", dir, "error", err)
		return
	}
	slog.Info("report saved", "path", path)
}

func emailReport(report *scan.Report, dir string, s *config.Settings, to string) {
	target := s.Target
	if s.FullScan {
		target = ""
	}
	repo := dir
	if abs, err := filepath.Abs(dir); err == nil {
		repo = filepath.Base(abs)
	}

	sender := notify.NewSender(notify.ResolveSMTPConfig(s.Email, os.Getenv))
	if err := sender.Send(report, notify.NewFormatter(repo, target), to); err != nil {
		slog.Warn("could not email report", "to", to, "error", err)
	}
}

// resolvePath joins relative paths onto dir.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
