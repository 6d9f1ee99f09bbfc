// Package downloader fetches media and sidecar subtitles with yt-dlp,
// applying SponsorBlock removal during the download so the cut engine
// works on an already cleaned file.
package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// Options controls downloader behavior.
type Options struct {
	DownloaderPath string // path to yt-dlp or youtube-dl
	Verbose        bool
	KeepTemp       bool // reserved; cleanup handled by caller
	MetadataOnly   bool // fetch metadata only, do not download the media file

	// SponsorBlock holds the yt-dlp flags implementing the active
	// preset (see sponsorblock.Preset.Params).
	SponsorBlock []string
	// SubtitleLangs lists the subtitle languages to download alongside
	// the media, converted to SubRip.
	SubtitleLangs []string

	Runner   util.CmdRunner
	Reporter progress.Reporter
	JobID    string
}

// DownloadArgs renders the yt-dlp argv for the media download into
// workdir. The fixed ID-based output template tells us where files
// land; --newline makes progress parseable line by line.
func DownloadArgs(workdir, url string, opts Options) []string {
	args := []string{
		"-f", "bestvideo+bestaudio/best",
		"-o", filepath.Join(workdir, "%(id)s.%(ext)s"),
		"--no-playlist",
		"--newline",
	}
	args = append(args, opts.SponsorBlock...)
	if len(opts.SubtitleLangs) > 0 {
		args = append(args,
			"--write-subs",
			"--sub-langs", strings.Join(opts.SubtitleLangs, ","),
			"--convert-subs", "srt",
		)
	}
	return append(args, url)
}

// Download fetches metadata (and unless MetadataOnly, the media) for a
// URL. It returns the DownloadedVideo and the temp workdir used, which
// the caller owns and cleans up.
func Download(ctx context.Context, url string, opts Options) (model.DownloadedVideo, string, error) {
	if opts.DownloaderPath == "" {
		return model.DownloadedVideo{}, "", errors.New("downloader path is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	workdir, err := util.MakeTempWorkdir("job")
	if err != nil {
		return model.DownloadedVideo{}, "", fmt.Errorf("create temp dir: %w", err)
	}

	report(opts, progress.Update{
		JobID:   opts.JobID,
		Stage:   progress.StageMetadata,
		Percent: -1,
		Message: "Fetching metadata",
	})
	info, err := FetchMetadata(ctx, runner, opts, url)
	if err != nil {
		return model.DownloadedVideo{}, workdir, err
	}

	dv := model.DownloadedVideo{
		DurationSec: info.Duration,
		Title:       info.Title,
		Uploader:    info.Uploader,
		ID:          info.ID,
		URL:         url,
		Width:       info.Width,
		Height:      info.Height,
		Ext:         info.Ext,
	}
	if opts.MetadataOnly {
		return dv, workdir, nil
	}

	_, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    opts.DownloaderPath,
		Args:    DownloadArgs(workdir, url, opts),
		Dir:     workdir,
		Verbose: opts.Verbose,
		StdoutLine: func(line string) {
			if u, ok := ParseProgress(line, opts.JobID); ok {
				report(opts, u)
			}
		},
	})
	if runErr != nil {
		return model.DownloadedVideo{}, workdir, fmt.Errorf("downloader failed: %w", runErr)
	}

	input, err := SelectDownloadedFile(workdir, info.ID)
	if err != nil {
		return model.DownloadedVideo{}, workdir, fmt.Errorf("resolve download: %w", err)
	}
	dv.InputPath = input
	dv.Ext = strings.TrimPrefix(filepath.Ext(input), ".")
	return dv, workdir, nil
}

func report(opts Options, u progress.Update) {
	if opts.Reporter != nil {
		opts.Reporter.Update(u)
	}
}

// FetchMetadata asks the downloader for a video's metadata without
// touching the media.
func FetchMetadata(ctx context.Context, runner util.CmdRunner, opts Options, url string) (YTDLPInfo, error) {
	args := []string{
		"--dump-json",
		"--no-download",
		"-f", "bestvideo+bestaudio/best",
		"--no-playlist",
		url,
	}
	res, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    opts.DownloaderPath,
		Args:    args,
		Verbose: opts.Verbose,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return YTDLPInfo{}, fmt.Errorf("metadata fetch failed: %w", runErr)
	}

	// Some extractors mix warnings into stdout around the JSON object.
	// When the whole output does not decode, take the last line that
	// decodes into an object with an ID.
	var info YTDLPInfo
	data := strings.TrimSpace(string(res.Stdout))
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		lines := strings.Split(data, "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			var tmp YTDLPInfo
			if json.Unmarshal([]byte(strings.TrimSpace(lines[i])), &tmp) == nil && tmp.ID != "" {
				return tmp, nil
			}
		}
		return YTDLPInfo{}, fmt.Errorf("parse metadata JSON: %w", err)
	}
	return info, nil
}

// CleanupWorkdir removes the given temp workdir (best-effort).
func CleanupWorkdir(dir string) {
	_ = os.RemoveAll(dir)
}
