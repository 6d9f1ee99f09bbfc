package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/config"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingDep    = 2
	ExitDownloadError = 3
	ExitCutError      = 4
)

// ExitError carries the exit code main reports for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hometube [url|file...]",
		Short:         "Fetch videos, drop the sponsor segments, keep the good part",
		Long:          "Hometube fetches online videos with yt-dlp, removes SponsorBlock-tagged segments during the download, and can re-cut the result to a highlight window with lossless stream copy. Subtitles in every requested language stay in sync through the cut.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the run behavior when no subcommand is specified.
			return runExecute(cmd, args, runMode{
				ForceTUI:   false,
				DryRunOnly: false,
			})
		},
	}

	// Flags every subcommand inherits.
	root.PersistentFlags().StringP(cli.FlagOutDir, "o", ".", "Output directory")
	root.PersistentFlags().BoolP(cli.FlagVerbose, "v", false, "Show full subprocess commands/output")
	root.PersistentFlags().String(cli.FlagDLBinary, "", "Path to yt-dlp or youtube-dl")
	root.PersistentFlags().String(cli.FlagFFmpegBinary, "", "Path to ffmpeg")
	root.PersistentFlags().String(cli.FlagFFprobeBinary, "", "Path to ffprobe")
	root.PersistentFlags().Int(cli.FlagJobs, 2, "Max concurrent jobs in TUI")

	// Also bind run-specific flags on root, so `hometube <url>` continues to work.
	bindRunFlags(root.Flags())

	// Deprecated spellings still work.
	_ = root.Flags().MarkDeprecated(cli.FlagDryRun, "use 'hometube plan' instead")
	_ = root.Flags().MarkDeprecated(cli.FlagNoUI, "use 'hometube tui' or keep using '--no-ui'")

	// Config file, env, and flag precedence wiring.
	_ = config.Init(root)

	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.String(cli.FlagStart, "", "Cut start (seconds, MM:SS, or HH:MM:SS)")
	fs.String(cli.FlagEnd, "", "Cut end (seconds, MM:SS, or HH:MM:SS); empty runs to the end")
	fs.String(cli.FlagName, "", "Output filename (without extension); default derives from the title")
	fs.String(cli.FlagLangs, "", "Subtitle languages to keep through the cut (comma-separated, e.g. en,fr)")
	fs.String(cli.FlagSBPreset, "", "SponsorBlock preset: default, moderate, aggressive, conservative, minimal, disabled")
	fs.String(cli.FlagSBAPI, "", "SponsorBlock API base URL")
	fs.Float64(cli.FlagMargin, 0, "Margin in seconds added around each removed segment")
	fs.String(cli.FlagCutMode, "", "Cut boundary mode: keyframes (lossless, approximate) or precise")
	fs.Bool(cli.FlagKeepTemp, false, "Keep intermediate downloads and subtitle files")
	fs.Bool(cli.FlagDryRun, false, "Show plan without executing") // deprecated in favor of 'plan'
	fs.Bool(cli.FlagNoCut, false, "Download only; ignore any cut window")
	fs.Bool(cli.FlagNoUI, false, "Disable TUI; use plain textual output")
}

// Execute builds the root command and runs it under ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func ensureDir(path string) error {
	if path == "" {
		path = "."
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}
