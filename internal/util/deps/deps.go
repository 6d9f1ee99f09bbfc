// Package deps locates the external tools the pipeline shells out to.
package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("downloader", customPath)
	}
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	if p, err := exec.LookPath("youtube-dl"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find yt-dlp or youtube-dl in PATH. Please install yt-dlp.")
}

// FindFFmpeg returns the path to the ffmpeg binary.
func FindFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("ffmpeg", customPath)
	}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffmpeg in PATH. Please install ffmpeg.")
}

// FindFFprobe returns the path to the ffprobe binary. ffprobe ships with
// ffmpeg, so the install hint points there.
func FindFFprobe(customPath string) (string, error) {
	if customPath != "" {
		return findCustom("ffprobe", customPath)
	}
	if p, err := exec.LookPath("ffprobe"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffprobe in PATH. Please install ffmpeg.")
}

func findCustom(name, customPath string) (string, error) {
	if _, err := os.Stat(customPath); err == nil {
		return customPath, nil
	}
	if p, err := exec.LookPath(customPath); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find %s at %q", name, customPath)
}

// Version runs the tool's version flag and returns the first output
// line, best effort. Failures report "unknown" so doctor output stays
// readable.
func Version(ctx context.Context, path string, flag string) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := util.Run(ctx, util.CmdSpec{Path: path, Args: []string{flag}})
	if err != nil {
		return "unknown"
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
	if line == "" {
		return "unknown"
	}
	return line
}
