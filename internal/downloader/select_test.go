package downloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectDownloadedFile(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		videoID   string
		want      string // expected basename
		wantError bool
	}{
		{
			name:    "prefers mp4",
			files:   []string{"abc123.webm", "abc123.mp4", "abc123.mkv"},
			videoID: "abc123",
			want:    "abc123.mp4",
		},
		{
			name:    "mkv before webm",
			files:   []string{"abc123.webm", "abc123.mkv"},
			videoID: "abc123",
			want:    "abc123.mkv",
		},
		{
			name:    "lone container",
			files:   []string{"abc123.webm"},
			videoID: "abc123",
			want:    "abc123.webm",
		},
		{
			name:    "mov beats avi and flv",
			files:   []string{"abc123.avi", "abc123.flv", "abc123.mov"},
			videoID: "abc123",
			want:    "abc123.mov",
		},
		{
			name:    "uppercase extension still ranks",
			files:   []string{"abc123.MP4", "abc123.webm"},
			videoID: "abc123",
			want:    "abc123.MP4",
		},
		{
			name:    "id mismatch falls back to any file",
			files:   []string{"renamed.mp4"},
			videoID: "abc123",
			want:    "renamed.mp4",
		},
		{
			name:    "subtitle sidecars never win",
			files:   []string{"abc123.en.srt", "abc123.fr.srt", "abc123.webm"},
			videoID: "abc123",
			want:    "abc123.webm",
		},
		{
			name:      "only sidecars",
			files:     []string{"abc123.en.srt", "abc123.info.json"},
			videoID:   "abc123",
			wantError: true,
		},
		{
			name:      "empty dir",
			videoID:   "abc123",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := SelectDownloadedFile(dir, tt.videoID)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectDownloadedFile: %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Errorf("SelectDownloadedFile = %q, want %q", filepath.Base(got), tt.want)
			}
		})
	}
}

func TestDownloadArgs(t *testing.T) {
	opts := Options{
		SponsorBlock:  []string{"--sponsorblock-remove", "sponsor", "--no-force-keyframes-at-cuts"},
		SubtitleLangs: []string{"en", "fr"},
	}
	args := DownloadArgs("/tmp/work", "https://youtu.be/abc", opts)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-f bestvideo+bestaudio/best",
		"-o /tmp/work/%(id)s.%(ext)s",
		"--no-playlist",
		"--newline",
		"--sponsorblock-remove sponsor",
		"--no-force-keyframes-at-cuts",
		"--write-subs",
		"--sub-langs en,fr",
		"--convert-subs srt",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "https://youtu.be/abc" {
		t.Errorf("URL must be the last argument: %v", args)
	}
}

func TestDownloadArgs_NoSubsNoSponsorblock(t *testing.T) {
	args := DownloadArgs("/tmp/work", "https://youtu.be/abc", Options{})
	for _, a := range args {
		switch a {
		case "--write-subs", "--sponsorblock-remove", "--sponsorblock-mark":
			t.Errorf("unexpected flag %q in %v", a, args)
		}
	}
}
