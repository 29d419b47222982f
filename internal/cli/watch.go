package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/quickreview/internal/scan"
	"github.com/ppiankov/quickreview/internal/watch"
)

func newWatchCmd() *cobra.Command {
	opts := &reviewOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run a full scan whenever source files change",
		Long:  "Watch scans the whole tree once, then re-scans after each batch of source file changes until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			opts.settings.FullScan = true
			opts.settings.Format = "text"
			opts.email = ""

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), opts, debounce)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "C", ".", "directory to watch")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "directory for the saved JSON report (default review_reports)")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save the JSON report")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-scanning (default 300ms)")

	return cmd
}

func runWatch(ctx context.Context, out io.Writer, opts *reviewOptions, debounce time.Duration) error {
	rescan := func(ctx context.Context) {
		err := runReview(ctx, out, opts)
		if err != nil && !errors.Is(err, ErrReviewFailed) {
			_, _ = fmt.Fprintf(out, "review: %v\n", err)
		}
	}

	rescan(ctx)

	w, err := watch.New(watch.Config{
		Root:     opts.dir,
		Exts:     scan.SourceExts,
		SkipDirs: append(append([]string{}, watch.DefaultSkipDirs...), opts.settings.OutputDir),
		Debounce: debounce,
		OnChange: func(ctx context.Context, paths []string) {
			_, _ = fmt.Fprintf(out, "\n--- %d file(s) changed, re-scanning ---\n", len(paths))
			rescan(ctx)
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
