// Package source produces the text a review scans: a git diff against a
// target reference, or the concatenated content of every recognized source
// file in the tree.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/quickreview/internal/scan"
)

// remote is the remote the qualified target form refers to.
const remote = "origin"

// VCS is the version-control capability the provider needs.
type VCS interface {
	// Fetch updates the remote-tracking ref for target. Best effort.
	Fetch(ctx context.Context, target string) error
	// ChangedPaths lists paths that differ across ref ("A...B").
	ChangedPaths(ctx context.Context, ref string) ([]string, error)
	// DiffText returns the unified diff across ref.
	DiffText(ctx context.Context, ref string) (string, error)
}

// Filesystem is the file enumeration capability used by full scans.
type Filesystem interface {
	FindByExtension(ext string) ([]string, error)
	ReadFile(path string) (string, error)
}

// Ignorer reports whether a path is excluded from review.
type Ignorer interface {
	Match(path string) bool
}

// Options selects what a Load produces.
type Options struct {
	Target   string
	FullScan bool
}

// Provider builds ScanInputs from a VCS or a Filesystem.
type Provider struct {
	vcs    VCS
	fs     Filesystem
	ignore Ignorer
}

// NewProvider creates a provider. ignore may be nil.
func NewProvider(vcs VCS, fs Filesystem, ignore Ignorer) *Provider {
	return &Provider{vcs: vcs, fs: fs, ignore: ignore}
}

// Load produces the scan input for one run. Recoverable failures are
// absorbed here; an irrecoverable one yields an input with only Err set.
func (p *Provider) Load(ctx context.Context, opts Options) *scan.ScanInput {
	var (
		in  *scan.ScanInput
		err error
	)
	if opts.FullScan {
		slog.Info("scanning entire codebase")
		in, err = p.loadTree()
	} else {
		slog.Info("analyzing changes", "target", opts.Target)
		in, err = p.loadDiff(ctx, opts.Target)
	}
	if err != nil {
		slog.Debug("source failed", "error", err)
		return &scan.ScanInput{Err: err.Error()}
	}
	slog.Info("found files to analyze", "count", in.FileCount)
	return in
}

// DiffRefs returns the qualified and unqualified range forms for target,
// in the order they are tried.
func DiffRefs(target string) []string {
	return []string{
		fmt.Sprintf("%s/%s...HEAD", remote, target),
		fmt.Sprintf("%s...HEAD", target),
	}
}

func (p *Provider) loadDiff(ctx context.Context, target string) (*scan.ScanInput, error) {
	if p.vcs == nil {
		return nil, fmt.Errorf("no version control available")
	}
	if target == "" {
		return nil, fmt.Errorf("target reference is required")
	}

	if err := p.vcs.Fetch(ctx, target); err != nil {
		slog.Debug("fetch failed, using local refs", "target", target, "error", err)
	}

	paths, err := withFallback(ctx, target, p.vcs.ChangedPaths)
	if err != nil {
		return nil, err
	}
	diff, err := withFallback(ctx, target, p.vcs.DiffText)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(paths))
	for _, f := range paths {
		if f == "" {
			continue
		}
		if p.ignored(f) {
			slog.Debug("ignoring file", "path", f)
			continue
		}
		files = append(files, f)
	}
	if p.ignore != nil {
		diff = FilterDiff(diff, p.ignore.Match)
	}

	return &scan.ScanInput{ChangedFiles: files, Content: diff, FileCount: len(files)}, nil
}

// withFallback runs fn over the qualified ref, then over the unqualified one.
// Only the last failure is returned.
func withFallback[T any](ctx context.Context, target string, fn func(context.Context, string) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for _, ref := range DiffRefs(target) {
		out, err = fn(ctx, ref)
		if err == nil {
			return out, nil
		}
		slog.Debug("ref failed", "ref", ref, "error", err)
	}
	return out, err
}

func (p *Provider) loadTree() (*scan.ScanInput, error) {
	if p.fs == nil {
		return nil, fmt.Errorf("no filesystem available")
	}

	var (
		files   []string
		lastErr error
		failed  int
	)
	for _, ext := range scan.SourceExts {
		found, err := p.fs.FindByExtension(ext)
		if err != nil {
			slog.Debug("enumeration failed", "ext", ext, "error", err)
			lastErr = err
			failed++
			continue
		}
		for _, f := range found {
			if p.ignored(f) {
				slog.Debug("ignoring file", "path", f)
				continue
			}
			files = append(files, f)
		}
	}
	if failed == len(scan.SourceExts) {
		return nil, fmt.Errorf("enumerate source files: %w", lastErr)
	}

	var b strings.Builder
	for _, f := range files {
		text, err := p.fs.ReadFile(f)
		if err != nil {
			slog.Debug("skipping unreadable file", "path", f, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	return &scan.ScanInput{ChangedFiles: files, Content: b.String(), FileCount: len(files)}, nil
}

func (p *Provider) ignored(path string) bool {
	return p.ignore != nil && p.ignore.Match(path)
}
