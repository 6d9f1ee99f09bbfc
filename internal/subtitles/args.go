package subtitles

import (
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util/format"
)

// BuildTrimArgs renders the ffmpeg argv that extracts the cue window
// [start, start+duration) from a subtitle file. Output timestamps keep
// their original values; rebasing is a separate pass.
func BuildTrimArgs(in string, start, duration float64, out string) []string {
	return []string{
		"-y",
		"-loglevel", "warning",
		"-i", in,
		"-ss", format.Seconds(start),
		"-t", format.Seconds(duration),
		"-c:s", "srt",
		out,
	}
}

// BuildRebaseArgs renders the ffmpeg argv that shifts every cue back by
// start seconds so the first retained cue lands at zero.
func BuildRebaseArgs(in string, start float64, out string) []string {
	return []string{
		"-y",
		"-loglevel", "warning",
		"-itsoffset", "-" + format.Seconds(start),
		"-i", in,
		"-c:s", "srt",
		out,
	}
}

// FinalTrackName is the naming convention for resynchronized subtitle
// files next to a cut.
func FinalTrackName(base, lang string) string {
	return base + "-cut-final." + lang + ".srt"
}
