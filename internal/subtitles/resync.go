package subtitles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// Options controls subtitle resynchronization.
type Options struct {
	FFmpegPath string
	Runner     util.CmdRunner
	Logger     zerolog.Logger
	Verbose    bool
	KeepTemp   bool

	// Rebase shifts cue timestamps so the cut starts at zero. Without
	// it the trimmed cues keep their original-timeline times.
	Rebase bool
}

// Resync cuts the subtitle file in to the window [start, start+duration)
// and writes the result to out. The trim and the timestamp rebase are
// two ffmpeg passes; the intermediate file is removed whatever the
// outcome unless KeepTemp is set.
func Resync(ctx context.Context, in string, start, duration float64, out string, opts Options) error {
	if opts.FFmpegPath == "" {
		return errors.New("ffmpeg path is required")
	}
	if _, err := os.Stat(in); err != nil {
		return fmt.Errorf("subtitle input: %w", err)
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	tmp := strings.TrimSuffix(out, filepath.Ext(out)) + ".tmp.srt"

	_, err := runner.Run(ctx, util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    BuildTrimArgs(in, start, duration, tmp),
		Verbose: opts.Verbose,
	})
	if err == nil && !util.Exists(tmp) {
		err = errors.New("no trimmed output produced")
	}
	if err != nil {
		if !opts.KeepTemp {
			_ = util.RemoveIfExists(tmp)
		}
		return fmt.Errorf("trim subtitles: %w", err)
	}

	if !opts.Rebase {
		return os.Rename(tmp, out)
	}

	_, err = runner.Run(ctx, util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    BuildRebaseArgs(tmp, start, out),
		Verbose: opts.Verbose,
	})
	if !opts.KeepTemp {
		_ = util.RemoveIfExists(tmp)
	}
	if err != nil {
		_ = util.RemoveIfExists(out)
		return fmt.Errorf("rebase subtitles: %w", err)
	}
	if !util.Exists(out) {
		return errors.New("rebase subtitles: no output produced")
	}
	return nil
}

// ResyncAll processes every requested language: resolve the sidecar
// file next to the media, cut it to the window, and collect the
// survivors in request order. A language with no usable file or a
// failed cut is logged and skipped; it never sinks the other languages
// or the video cut itself.
func ResyncAll(ctx context.Context, dir, base string, langs []string, start, duration float64, opts Options) []Track {
	var tracks []Track
	for _, lang := range langs {
		in, err := Find(dir, base, lang, len(langs))
		if err != nil {
			opts.Logger.Warn().Str("lang", lang).Strs("available", availableLangs(dir)).
				Msg("no subtitle file found, skipping language")
			continue
		}
		out := filepath.Join(dir, FinalTrackName(base, lang))
		if err := Resync(ctx, in, start, duration, out, opts); err != nil {
			opts.Logger.Warn().Err(err).Str("lang", lang).Msg("subtitle cut failed, skipping language")
			continue
		}
		if n, err := cueCount(out); err == nil && n == 0 {
			opts.Logger.Warn().Str("lang", lang).Msg("no cues fall inside the cut window")
		}
		opts.Logger.Debug().Str("lang", lang).Str("path", out).Msg("subtitle track ready")
		tracks = append(tracks, Track{Lang: lang, Path: out})
	}
	return tracks
}

// availableLangs lists the language codes of subtitle sidecars in dir.
func availableLangs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".srt", ".vtt":
		default:
			continue
		}
		lang := ExtractLang(e.Name())
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// cueCount counts the cues in a SubRip file. A trim window past the
// last cue produces a valid but empty file.
func cueCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	cues, err := ParseSRT(f)
	if err != nil {
		return 0, err
	}
	return len(cues), nil
}
