package cutter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/subtitles"
)

func TestNewSpec(t *testing.T) {
	if _, err := NewSpec("/w/in.mkv", 10, 0, nil, "/w/out.mkv"); !errors.Is(err, ErrEmptyCut) {
		t.Errorf("zero duration: err = %v, want ErrEmptyCut", err)
	}
	if _, err := NewSpec("/w/in.mkv", 10, -5, nil, "/w/out.mkv"); !errors.Is(err, ErrEmptyCut) {
		t.Errorf("negative duration: err = %v, want ErrEmptyCut", err)
	}
	if _, err := NewSpec("", 10, 5, nil, "/w/out.mkv"); err == nil {
		t.Error("missing source accepted")
	}
	if _, err := NewSpec("/w/in.mkv", 10, 5, nil, "/w/out.mkv"); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
}

func TestSpec_Args_WithTracks(t *testing.T) {
	spec, err := NewSpec("/w/src.mkv", 30.5, 120, []subtitles.Track{
		{Lang: "en", Path: "/w/src-cut-final.en.srt"},
		{Lang: "fr", Path: "/w/src-cut-final.fr.srt"},
	}, "/w/src_cut.mkv")
	if err != nil {
		t.Fatal(err)
	}

	got := spec.Args()
	want := []string{
		"-y",
		"-loglevel", "warning",
		"-ss", "30.5",
		"-t", "120",
		"-i", "/w/src.mkv",
		"-i", "/w/src-cut-final.en.srt",
		"-i", "/w/src-cut-final.fr.srt",
		"-map", "0:v:0",
		"-map", "0:a?",
		"-map", "1:0",
		"-map", "2:0",
		"-map", "-0:m:attached_pic",
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", "srt",
		"-disposition:s:0", "default",
		"-metadata:s:s:0", "language=en",
		"-shortest",
		"-avoid_negative_ts", "make_zero",
		"-max_interleave_delta", "0",
		"/w/src_cut.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestSpec_Args_NoTracks(t *testing.T) {
	spec, err := NewSpec("/w/src.mkv", 0, 60, nil, "/w/src_cut.mkv")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(spec.Args(), " ")
	if strings.Contains(joined, "-disposition:s:0") {
		t.Errorf("no subtitle disposition expected without tracks: %q", joined)
	}
	if strings.Contains(joined, "-metadata:s:s:0") {
		t.Errorf("no subtitle metadata expected without tracks: %q", joined)
	}
	if !strings.Contains(joined, "-map 0:v:0 -map 0:a? -map -0:m:attached_pic") {
		t.Errorf("stream mapping wrong: %q", joined)
	}
}

func TestSpec_Args_MP4UsesMovText(t *testing.T) {
	spec, err := NewSpec("/w/src.mp4", 5, 30, []subtitles.Track{
		{Lang: "en", Path: "/w/s.en.srt"},
	}, "/w/src_cut.mp4")
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(spec.Args(), " ")
	if !strings.Contains(joined, "-c:s mov_text") {
		t.Errorf("mp4 output must use mov_text: %q", joined)
	}
}

func TestSubtitleCodec(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".mp4", "mov_text"},
		{".MP4", "mov_text"},
		{".mkv", "srt"},
		{".webm", "srt"},
		{"", "srt"},
	}
	for _, tt := range tests {
		if got := SubtitleCodec(tt.ext); got != tt.want {
			t.Errorf("SubtitleCodec(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
