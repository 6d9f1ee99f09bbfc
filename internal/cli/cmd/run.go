package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/logging"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/pipeline"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/sponsorblock"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/subtitles"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/ui"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/format"
)

type runMode struct {
	ForceTUI   bool
	DryRunOnly bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run [url|file...]",
		Short:         "Fetch, clean, and cut one or more videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{
				ForceTUI:   false,
				DryRunOnly: false,
			})
		},
	}
	// Same flag set as the bare root invocation.
	bindRunFlags(cmd.Flags())
	_ = cmd.Flags().MarkDeprecated(cli.FlagDryRun, "use 'hometube plan' instead")
	_ = cmd.Flags().MarkDeprecated(cli.FlagNoUI, "use 'hometube tui' for interactive mode")
	return cmd
}

type ctxKey string

const runInputsKey ctxKey = "runInputs"

type runInputs struct {
	Sources []string
	Options model.CLIOptions
}

func runPreRun(cmd *cobra.Command, args []string) error {
	sources, opts, err := assembleRunInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	ctx := context.WithValue(cmd.Context(), runInputsKey, runInputs{
		Sources: sources,
		Options: opts,
	})
	cmd.SetContext(ctx)
	return nil
}

func assembleRunInputs(cmd *cobra.Command, args []string) ([]string, model.CLIOptions, error) {
	// Persistent settings resolve through viper: flag > env > config file
	// > default.
	outDir := viper.GetString(cli.KeyOutputDir)
	verbose := viper.GetBool(cli.KeyVerbose)
	dlBinary := viper.GetString(cli.KeyDownloader)
	ffmpegBinary := viper.GetString(cli.KeyFFmpeg)
	ffprobeBinary := viper.GetString(cli.KeyFFprobe)
	jobs := viper.GetInt(cli.KeyJobs)
	if jobs <= 0 {
		jobs = 2
	}

	// Run flags, falling back to the config file for the ones it covers.
	startStr, _ := cmd.Flags().GetString(cli.FlagStart)
	endStr, _ := cmd.Flags().GetString(cli.FlagEnd)
	name, _ := cmd.Flags().GetString(cli.FlagName)
	dryRun, _ := cmd.Flags().GetBool(cli.FlagDryRun)
	noCut, _ := cmd.Flags().GetBool(cli.FlagNoCut)
	noUI, _ := cmd.Flags().GetBool(cli.FlagNoUI)
	preset := flagOrConfigString(cmd, cli.FlagSBPreset, cli.KeySBPreset)
	sbAPI := flagOrConfigString(cmd, cli.FlagSBAPI, cli.KeySBAPI)
	cutMode := flagOrConfigString(cmd, cli.FlagCutMode, cli.KeyCutMode)
	margin := flagOrConfigFloat(cmd, cli.FlagMargin, cli.KeyCutMargin)
	keepTemp := flagOrConfigBool(cmd, cli.FlagKeepTemp, cli.KeyKeepTemp)

	var langs []string
	if cmd.Flags().Changed(cli.FlagLangs) {
		raw, _ := cmd.Flags().GetString(cli.FlagLangs)
		langs = normalizeLangs([]string{raw})
	} else {
		langs = normalizeLangs(viper.GetStringSlice(cli.KeyLanguages))
	}

	var window model.ExportWindow
	if startStr != "" {
		sec, err := format.ParseTimestamp(startStr)
		if err != nil {
			return nil, model.CLIOptions{}, fmt.Errorf("invalid --%s: %v", cli.FlagStart, err)
		}
		window.Start = int(math.Round(sec))
	}
	if endStr != "" {
		sec, err := format.ParseTimestamp(endStr)
		if err != nil {
			return nil, model.CLIOptions{}, fmt.Errorf("invalid --%s: %v", cli.FlagEnd, err)
		}
		window.End = int(math.Round(sec))
		if window.End <= window.Start {
			return nil, model.CLIOptions{}, fmt.Errorf("--%s (%s) must be after --%s (%s)", cli.FlagEnd, endStr, cli.FlagStart, startStr)
		}
	}

	if _, ok := sponsorblock.ParsePreset(preset); !ok {
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --%s: %q (valid: default|moderate|aggressive|conservative|minimal|disabled)", cli.FlagSBPreset, preset)
	}

	cutMode = strings.ToLower(strings.TrimSpace(cutMode))
	switch model.CutMode(cutMode) {
	case model.CutModeKeyframes, model.CutModePrecise:
	default:
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --%s: %q (valid: keyframes|precise)", cli.FlagCutMode, cutMode)
	}

	if margin < 0 {
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --%s: must be >= 0", cli.FlagMargin)
	}

	if name != "" && len(args) > 1 {
		return nil, model.CLIOptions{}, fmt.Errorf("--%s only applies to a single source (%d given)", cli.FlagName, len(args))
	}

	// Source validation: anything with a scheme must be a fetchable URL;
	// the rest are treated as local files and checked when the job runs.
	var sources []string
	for _, raw := range args {
		if util.IsURL(raw) || strings.Contains(raw, "://") {
			if _, err := util.ParseSourceURL(raw); err != nil {
				return nil, model.CLIOptions{}, err
			}
		}
		sources = append(sources, raw)
	}

	opts := model.CLIOptions{
		OutDir:        filepath.Clean(outDir),
		OutputName:    name,
		Window:        window,
		Languages:     langs,
		Preset:        preset,
		SBAPI:         sbAPI,
		CutMode:       model.CutMode(cutMode),
		MarginSec:     margin,
		KeepTemp:      keepTemp,
		DryRun:        dryRun,
		NoCut:         noCut,
		Verbose:       verbose,
		NoUI:          noUI,
		Jobs:          jobs,
		DLBinary:      dlBinary,
		FFmpegBinary:  ffmpegBinary,
		FFprobeBinary: ffprobeBinary,
	}
	return sources, opts, nil
}

// flagOrConfigString prefers an explicitly set flag over the config file.
func flagOrConfigString(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func flagOrConfigBool(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return viper.GetBool(key)
}

func flagOrConfigFloat(cmd *cobra.Command, flag, key string) float64 {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v
	}
	return viper.GetFloat64(key)
}

// normalizeLangs lowercases, splits comma-joined entries, and drops
// duplicates. Config files can hold a list while flags and env use CSV.
func normalizeLangs(vals []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			lang := strings.ToLower(strings.TrimSpace(part))
			if lang == "" || seen[lang] {
				continue
			}
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	// PreRunE left the assembled inputs in the context; the bare root
	// invocation has no PreRunE, so assemble here in that case.
	var in runInputs
	if v := cmd.Context().Value(runInputsKey); v != nil {
		in = v.(runInputs)
	} else {
		sources, opts, err := assembleRunInputs(cmd, args)
		if err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		in = runInputs{Sources: sources, Options: opts}
	}

	logging.Init(in.Options.Verbose)

	if err := ensureDir(in.Options.OutDir); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}

	useTUI := mode.ForceTUI || (!in.Options.NoUI && isTerminal())
	if useTUI && !mode.DryRunOnly {
		if err := ui.Run(cmd.Context(), in.Sources, in.Options); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		return nil
	}

	dlPath, ffmpegPath, ffprobePath, terr := pipeline.ResolveTools(in.Options, anyRemote(in.Sources))
	if terr != nil {
		return &ExitError{Code: ExitMissingDep, Err: terr}
	}

	if mode.DryRunOnly {
		in.Options.DryRun = true
		in.Options.NoUI = true
	}

	for _, source := range in.Sources {
		if err := processOne(cmd.Context(), source, in, dlPath, ffmpegPath, ffprobePath); err != nil {
			var ee *ExitError
			if errors.As(err, &ee) {
				return ee
			}
			return &ExitError{Code: ExitCLIError, Err: err}
		}
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func anyRemote(sources []string) bool {
	for _, s := range sources {
		if util.IsURL(s) {
			return true
		}
	}
	return false
}

func processOne(ctx context.Context, source string, in runInputs, dlPath, ffmpegPath, ffprobePath string) error {
	svc := pipeline.NewService(
		pipeline.WithDownloaderPath(dlPath),
		pipeline.WithFFmpegPath(ffmpegPath),
		pipeline.WithFFprobePath(ffprobePath),
		pipeline.WithCLIOptions(in.Options),
		pipeline.WithLogger(logging.NewLogger("cli")),
	)

	res, err := svc.RunJob(ctx, source)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrDownload):
			return &ExitError{Code: ExitDownloadError, Err: err}
		case errors.Is(err, pipeline.ErrCut):
			return &ExitError{Code: ExitCutError, Err: err}
		default:
			return &ExitError{Code: ExitCLIError, Err: err}
		}
	}

	if res.Planned {
		printPlan(res.Plan)
		return nil
	}

	out := res.Output
	if out == nil {
		return nil
	}
	fmt.Printf("Saved: %s (%s)\n", out.OutputPath, format.HumanizeBytes(out.Bytes))
	if out.Cut && res.Analysis.SponsorRemoved > 0 {
		fmt.Printf("Removed %ds of flagged segments inside the window; end shifted to %s.\n",
			res.Analysis.SponsorRemoved, format.Clock(float64(res.Analysis.AdjustedEnd)))
	}
	if out.Tracks > 0 {
		fmt.Printf("Subtitles: %d track(s) kept in sync with the cut.\n", out.Tracks)
	}
	if res.TempDir != "" {
		fmt.Printf("Kept temp dir: %s\n", res.TempDir)
	}
	return nil
}

// printPlan renders a dry-run plan of actions without executing them.
func printPlan(pl *pipeline.Plan) {
	if pl == nil {
		return
	}
	header := lipgloss.NewStyle().Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	fmt.Println(header.Render("Dry-run plan:"))
	kv := func(label, value string) {
		fmt.Printf("- %-14s %s\n", label+":", value)
	}

	kv("Source", pl.Source)
	if pl.Title != "" {
		kv("Title", pl.Title)
	}
	if pl.Uploader != "" {
		kv("Uploader", pl.Uploader)
	}
	if pl.DurationSec > 0 {
		kv("Duration", format.Clock(pl.DurationSec))
	}
	if pl.DownloaderPath != "" {
		kv("Downloader", pl.DownloaderPath)
	}
	kv("FFmpeg", pl.FFmpegPath)
	if pl.FFprobePath != "" {
		kv("FFprobe", pl.FFprobePath)
	} else {
		kv("FFprobe", "not found (cut uses requested seconds)")
	}
	if pl.TempDir != "" {
		kv("Temp dir", pl.TempDir)
	}

	if len(pl.CutArgs) == 0 {
		kv("Mode", "download only")
	} else {
		kv("Window", fmt.Sprintf("%s to %s (requested)",
			format.Clock(float64(pl.Window.Start)), clockOrEnd(pl.Window.End)))
		a := pl.Analysis
		if len(a.Merged) > 0 {
			kv("Removals", fmt.Sprintf("%d merged segment(s), %ds inside the window", len(a.Merged), a.SponsorRemoved))
			for _, m := range a.Merged {
				fmt.Println(faint.Render(fmt.Sprintf("    %s to %s  %s",
					format.Clock(m.Start), format.Clock(m.End), strings.Join(m.Categories, ","))))
			}
			kv("Kept", fmt.Sprintf("%d span(s), %s after removal", len(a.Keeps), format.Clock(a.NewDuration)))
			for _, e := range a.Mapping {
				fmt.Println(faint.Render(fmt.Sprintf("    keep %s to %s  lands at %s",
					format.Clock(e.OrigStart), format.Clock(e.OrigEnd), format.Clock(e.NewStart))))
			}
			kv("Adjusted end", format.Clock(float64(a.AdjustedEnd)))
		}
		kv("Cut mode", string(pl.CutMode))
		kv("Cut", fmt.Sprintf("%s to %s (%s)",
			format.Clock(pl.CutStart), format.Clock(pl.CutEnd), format.Clock(pl.CutEnd-pl.CutStart)))
	}
	if len(pl.Languages) > 0 {
		names := make([]string, 0, len(pl.Languages))
		for _, lang := range pl.Languages {
			names = append(names, fmt.Sprintf("%s (%s)", subtitles.DisplayName(lang), lang))
		}
		kv("Languages", strings.Join(names, ", "))
	}
	kv("Output", pl.OutputPath)

	if len(pl.DownloadArgs) > 0 {
		fmt.Println(faint.Render("  $ " + strings.Join(pl.DownloadArgs, " ")))
	}
	if len(pl.CutArgs) > 0 {
		fmt.Println(faint.Render("  $ " + strings.Join(pl.CutArgs, " ")))
	}
}

func clockOrEnd(end int) string {
	if end <= 0 {
		return "end"
	}
	return format.Clock(float64(end))
}
