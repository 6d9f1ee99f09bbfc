// Package cutter builds and runs the stream-copy excerption: a single
// ffmpeg invocation that seeks the source, maps the video stream, any
// audio, and the prepared subtitle tracks, and remuxes without
// re-encoding.
package cutter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/subtitles"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/format"
)

// ErrEmptyCut reports a window whose duration resolved to zero or less
// after adjustment; no command can be built for it.
var ErrEmptyCut = errors.New("cutter: cut window has no duration")

// Spec describes one excerption. The output extension selects the
// subtitle codec: mov_text inside .mp4, srt everywhere else.
type Spec struct {
	Source   string
	Start    float64 // seek position in source seconds
	Duration float64 // cut length in seconds
	Tracks   []subtitles.Track
	Output   string
}

// NewSpec validates the window and builds a cut Spec.
func NewSpec(source string, start, duration float64, tracks []subtitles.Track, output string) (Spec, error) {
	if duration <= 0 {
		return Spec{}, fmt.Errorf("%w: start=%.3f duration=%.3f", ErrEmptyCut, start, duration)
	}
	if source == "" || output == "" {
		return Spec{}, errors.New("cutter: source and output paths are required")
	}
	return Spec{Source: source, Start: start, Duration: duration, Tracks: tracks, Output: output}, nil
}

// SubtitleCodec returns the subtitle codec used inside the given output
// extension.
func SubtitleCodec(ext string) string {
	if strings.EqualFold(ext, ".mp4") {
		return "mov_text"
	}
	return "srt"
}

// Args renders the full ffmpeg argv for the cut. Stream copy for video
// and audio; thumbnail streams are excluded so -shortest cannot latch
// onto an attached picture. The first subtitle track becomes the
// default and names the container language.
func (s Spec) Args() []string {
	args := []string{
		"-y",
		"-loglevel", "warning",
		"-ss", format.Seconds(s.Start),
		"-t", format.Seconds(s.Duration),
		"-i", s.Source,
	}
	for _, tr := range s.Tracks {
		args = append(args, "-i", tr.Path)
	}
	args = append(args, "-map", "0:v:0", "-map", "0:a?")
	for i := range s.Tracks {
		args = append(args, "-map", strconv.Itoa(i+1)+":0")
	}
	args = append(args,
		"-map", "-0:m:attached_pic",
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", SubtitleCodec(filepath.Ext(s.Output)),
	)
	if len(s.Tracks) > 0 {
		args = append(args,
			"-disposition:s:0", "default",
			"-metadata:s:s:0", "language="+s.Tracks[0].Lang,
		)
	}
	args = append(args,
		"-shortest",
		"-avoid_negative_ts", "make_zero",
		"-max_interleave_delta", "0",
		s.Output,
	)
	return args
}
