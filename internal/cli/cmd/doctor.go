package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/dirs"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg, ffprobe)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			dl, derr := deps.FindDownloader(viper.GetString(cli.KeyDownloader))
			if derr != nil {
				return &ExitError{Code: ExitMissingDep, Err: derr}
			}
			ff, ferr := deps.FindFFmpeg(viper.GetString(cli.KeyFFmpeg))
			if ferr != nil {
				return &ExitError{Code: ExitMissingDep, Err: ferr}
			}
			fmt.Fprintf(out, "Downloader: %s (%s)\n", dl, deps.Version(ctx, dl, "--version"))
			fmt.Fprintf(out, "FFmpeg:     %s (%s)\n", ff, deps.Version(ctx, ff, "-version"))

			// ffprobe is optional; without it cuts land on requested seconds.
			if fp, perr := deps.FindFFprobe(viper.GetString(cli.KeyFFprobe)); perr == nil {
				fmt.Fprintf(out, "FFprobe:    %s (%s)\n", fp, deps.Version(ctx, fp, "-version"))
			} else {
				fmt.Fprintln(out, "FFprobe:    not found (keyframe snapping disabled)")
			}

			if dir, err := dirs.ConfigDir(); err == nil {
				fmt.Fprintf(out, "Config dir: %s\n", dir)
			}
			if f := viper.ConfigFileUsed(); f != "" {
				fmt.Fprintf(out, "Config:     %s\n", f)
			}
			return nil
		},
	}
}
