// Package media holds file naming and container policy for outputs.
package media

import (
	"strings"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// OutputBasename builds a safe base filename (without extension) for
// the final file. An explicit override wins, then the video title,
// then the source ID.
func OutputBasename(dv model.DownloadedVideo, override string) string {
	if override != "" {
		return util.SanitizeFilename(override)
	}
	name := strings.TrimSpace(dv.Title)
	if name == "" {
		name = dv.ID
	}
	return util.SanitizeFilename(name)
}

// CutContainer picks the output extension for a cut of the given
// source file. MP4 and Matroska keep their container; everything else
// (webm, mov, ...) remuxes into Matroska, which accepts any codec a
// stream copy can carry.
func CutContainer(sourceExt string) string {
	switch strings.ToLower(sourceExt) {
	case ".mp4":
		return ".mp4"
	case ".mkv":
		return ".mkv"
	default:
		return ".mkv"
	}
}

// CutWorkName is the name of the in-progress cut file next to the
// source, renamed to the final name only after ffmpeg succeeds.
func CutWorkName(base, ext string) string {
	return base + "_cut" + ext
}
