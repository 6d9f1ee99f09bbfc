package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/util"
)

// scriptedRunner plays ffmpeg for the resync passes: it records each
// argv and writes the file named by the last argument.
type scriptedRunner struct {
	t     *testing.T
	calls [][]string
	// failOn makes the nth call (1-based) fail without creating output.
	failOn int
}

func (r *scriptedRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	r.calls = append(r.calls, spec.Args)
	if r.failOn == len(r.calls) {
		return util.CmdResult{Code: 1}, errors.New("boom")
	}
	out := spec.Args[len(spec.Args)-1]
	if err := os.WriteFile(out, []byte(validSRT), 0o644); err != nil {
		r.t.Fatal(err)
	}
	return util.CmdResult{}, nil
}

func TestResync(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "vid.en.srt", validSRT)
	out := filepath.Join(dir, "vid-cut-final.en.srt")

	fr := &scriptedRunner{t: t}
	err := Resync(context.Background(), in, 30, 60, out, Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     fr,
		Logger:     zerolog.Nop(),
		Rebase:     true,
	})
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}

	if len(fr.calls) != 2 {
		t.Fatalf("expected trim and rebase passes, got %d calls", len(fr.calls))
	}
	tmp := filepath.Join(dir, "vid-cut-final.en.tmp.srt")
	if fr.calls[0][len(fr.calls[0])-1] != tmp {
		t.Errorf("trim output = %q, want %q", fr.calls[0][len(fr.calls[0])-1], tmp)
	}
	if fr.calls[1][len(fr.calls[1])-1] != out {
		t.Errorf("rebase output = %q, want %q", fr.calls[1][len(fr.calls[1])-1], out)
	}
	if util.Exists(tmp) {
		t.Error("intermediate file was not cleaned up")
	}
	if !util.Exists(out) {
		t.Error("final output missing")
	}
}

func TestResync_NoRebaseRenames(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "vid.en.srt", validSRT)
	out := filepath.Join(dir, "out.srt")

	fr := &scriptedRunner{t: t}
	err := Resync(context.Background(), in, 10, 20, out, Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     fr,
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if len(fr.calls) != 1 {
		t.Fatalf("expected a single trim pass, got %d calls", len(fr.calls))
	}
	if !util.Exists(out) {
		t.Error("output missing after rename")
	}
	if util.Exists(filepath.Join(dir, "out.tmp.srt")) {
		t.Error("tmp file left behind")
	}
}

func TestResync_TrimFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "vid.en.srt", validSRT)
	out := filepath.Join(dir, "out.srt")

	fr := &scriptedRunner{t: t, failOn: 1}
	err := Resync(context.Background(), in, 10, 20, out, Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     fr,
		Logger:     zerolog.Nop(),
		Rebase:     true,
	})
	if err == nil {
		t.Fatal("expected trim failure")
	}
	if len(fr.calls) != 1 {
		t.Errorf("rebase should not run after failed trim, got %d calls", len(fr.calls))
	}
	if util.Exists(out) {
		t.Error("output should not exist after failed trim")
	}
}

func TestResync_RebaseFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "vid.en.srt", validSRT)
	out := filepath.Join(dir, "out.srt")

	fr := &scriptedRunner{t: t, failOn: 2}
	err := Resync(context.Background(), in, 10, 20, out, Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     fr,
		Logger:     zerolog.Nop(),
		Rebase:     true,
	})
	if err == nil {
		t.Fatal("expected rebase failure")
	}
	if util.Exists(filepath.Join(dir, "out.tmp.srt")) {
		t.Error("tmp file left behind after rebase failure")
	}
}

func TestResync_MissingInput(t *testing.T) {
	err := Resync(context.Background(), "/nope/missing.srt", 0, 10, "/tmp/out.srt", Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     &scriptedRunner{t: t},
		Logger:     zerolog.Nop(),
	})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestResyncAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vid123.en.srt", validSRT)
	// French requested but absent: skipped, English still processed.
	writeFile(t, dir, "vid123.de.srt", validSRT)

	fr := &scriptedRunner{t: t}
	tracks := ResyncAll(context.Background(), dir, "vid123", []string{"en", "fr", "de"}, 30, 60, Options{
		FFmpegPath: "/usr/bin/ffmpeg",
		Runner:     fr,
		Logger:     zerolog.Nop(),
		Rebase:     true,
	})

	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}
	if tracks[0].Lang != "en" || tracks[1].Lang != "de" {
		t.Errorf("tracks = %+v, want en then de in request order", tracks)
	}
	for _, tr := range tracks {
		if !util.Exists(tr.Path) {
			t.Errorf("track file %q missing", tr.Path)
		}
		if filepath.Dir(tr.Path) != dir {
			t.Errorf("track %q landed outside workdir", tr.Path)
		}
	}
}

func TestAvailableLangs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vid.en.srt", validSRT)
	writeFile(t, dir, "vid.fr.vtt", validVTT)
	// Same language twice counts once.
	writeFile(t, dir, "vid_en.srt", validSRT)
	writeFile(t, dir, "vid.mkv", "media")
	writeFile(t, dir, "notes.txt", "")

	got := availableLangs(dir)
	if want := []string{"en", "fr"}; !reflect.DeepEqual(got, want) {
		t.Errorf("availableLangs = %v, want %v", got, want)
	}
}

func TestCueCount(t *testing.T) {
	dir := t.TempDir()

	if n, err := cueCount(writeFile(t, dir, "one.en.srt", validSRT)); err != nil || n != 1 {
		t.Errorf("cueCount = %d, %v, want 1 cue", n, err)
	}
	if n, err := cueCount(writeFile(t, dir, "empty.en.srt", "")); err != nil || n != 0 {
		t.Errorf("cueCount(empty) = %d, %v, want 0 cues", n, err)
	}
	if _, err := cueCount(filepath.Join(dir, "missing.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}
