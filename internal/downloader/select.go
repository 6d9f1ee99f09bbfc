package downloader

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

// SelectDownloadedFile finds the downloaded media file in workdir for
// the given video ID. Subtitle sidecars share the ID prefix, so
// candidates are filtered down to playable containers first.
func SelectDownloadedFile(workdir, id string) (string, error) {
	candidates, err := filepath.Glob(filepath.Join(workdir, id+".*"))
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		// The downloader may have renamed its output; take anything present.
		if candidates, _ = filepath.Glob(filepath.Join(workdir, "*")); len(candidates) == 0 {
			return "", errors.New("no output file found")
		}
	}

	var media []string
	for _, c := range candidates {
		if !sidecar(filepath.Ext(c)) {
			media = append(media, c)
		}
	}
	if len(media) == 0 {
		return "", errors.New("no media file found among downloads")
	}

	sort.SliceStable(media, func(i, j int) bool {
		a, b := extPriority(filepath.Ext(media[i])), extPriority(filepath.Ext(media[j]))
		if a != b {
			return a < b
		}
		return media[i] < media[j]
	})
	return media[0], nil
}

// sidecar reports extensions that can never be the media file itself.
func sidecar(ext string) bool {
	switch strings.ToLower(ext) {
	case ".srt", ".vtt", ".ass", ".ssa", ".json", ".part", ".ytdl", ".jpg", ".png", ".webp":
		return true
	}
	return false
}

// playable ranks common containers; lower is better.
var playable = map[string]int{
	".mp4":  0,
	".mkv":  1,
	".webm": 2,
	".mov":  3,
	".avi":  4,
	".flv":  5,
}

func extPriority(ext string) int {
	if p, ok := playable[strings.ToLower(ext)]; ok {
		return p
	}
	return 100
}
