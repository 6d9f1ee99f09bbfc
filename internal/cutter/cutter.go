package cutter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// Options controls cut execution.
type Options struct {
	FFmpegPath string
	Verbose    bool
	Runner     util.CmdRunner
	Reporter   progress.Reporter
	JobID      string
	Logger     zerolog.Logger
}

// Cut executes the spec with ffmpeg and verifies the output landed.
// ffmpeg failures propagate verbatim with the exit status and the tail
// of stderr; an incomplete output file is deleted so a bad run never
// leaves a half-written video behind.
func Cut(ctx context.Context, spec Spec, opts Options) (model.OutputVideo, error) {
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	if opts.Reporter != nil {
		opts.Reporter.Update(progress.Update{
			JobID:   opts.JobID,
			Stage:   progress.StageCutting,
			Percent: -1,
			Message: "Cutting (stream copy)",
		})
	}
	opts.Logger.Debug().
		Str("source", spec.Source).
		Float64("start", spec.Start).
		Float64("duration", spec.Duration).
		Int("tracks", len(spec.Tracks)).
		Msg("running cut")

	res, err := runner.Run(ctx, util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    spec.Args(),
		Verbose: opts.Verbose,
		StderrLine: func(line string) {
			if opts.Reporter != nil {
				opts.Reporter.Log(progress.Log{
					JobID:  opts.JobID,
					Stream: progress.StreamStderr,
					Line:   line,
				})
			}
		},
	})
	if err != nil {
		_ = util.RemoveIfExists(spec.Output)
		return model.OutputVideo{}, fmt.Errorf("ffmpeg cut failed: %w%s", err, stderrTail(res))
	}

	st, err := os.Stat(spec.Output)
	if err != nil {
		return model.OutputVideo{}, fmt.Errorf("cut output missing: %w", err)
	}
	return model.OutputVideo{
		OutputPath:  spec.Output,
		Bytes:       st.Size(),
		DurationSec: spec.Duration,
		Tracks:      len(spec.Tracks),
		Cut:         true,
	}, nil
}

// stderrTail formats the last few stderr lines for error messages.
func stderrTail(res util.CmdResult) string {
	lines := strings.Split(strings.TrimSpace(string(res.Stderr)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n" + strings.Join(lines, "\n")
}
