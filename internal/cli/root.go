package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/quickreview/internal/config"
)

// Version, Commit and BuildDate are set via LDFLAGS at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// ErrReviewFailed is returned when the review produced an error report.
// The report itself has already been written to stdout.
var ErrReviewFailed = errors.New("review failed")

var (
	verbose    bool
	configFile string
)

func NewRootCmd() *cobra.Command {
	opts := &reviewOptions{}

	root := &cobra.Command{
		Use:   "quickreview",
		Short: "Pattern-based code review for git diffs and source trees",
		Long: "quickreview scans the diff against a target branch (or the whole tree with --full-scan) " +
			"for hardcoded secrets, unsafe calls, leftover debug code, missing tests and Flutter anti-patterns.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			return runReview(cmd.Context(), cmd.OutOrStdout(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "path to config file")

	opts.bindFlags(root)

	root.AddCommand(newWatchCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}
