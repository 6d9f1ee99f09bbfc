package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
)

// newTestRun rebuilds the command tree against a throwaway config home
// and returns the run subcommand with the given flags parsed.
func newTestRun(t *testing.T, cfgYAML string, flags ...string) *cobra.Command {
	t.Helper()
	viper.Reset()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))

	if cfgYAML != "" {
		dir := filepath.Join(home, "config", "hometube")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfgYAML), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	root := newRootCmd()
	var run *cobra.Command
	for _, c := range root.Commands() {
		if c.Name() == "run" {
			run = c
			break
		}
	}
	if run == nil {
		t.Fatal("run subcommand not registered")
	}
	if err := run.ParseFlags(flags); err != nil {
		t.Fatalf("ParseFlags(%v): %v", flags, err)
	}
	return run
}

func TestAssembleRunInputs_Defaults(t *testing.T) {
	run := newTestRun(t, "")

	sources, opts, err := assembleRunInputs(run, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("sources = %v, want 1 entry", sources)
	}
	if opts.OutDir != "." {
		t.Errorf("OutDir = %q, want %q", opts.OutDir, ".")
	}
	if opts.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", opts.Jobs)
	}
	if opts.Preset != "default" {
		t.Errorf("Preset = %q, want %q", opts.Preset, "default")
	}
	if opts.CutMode != model.CutModeKeyframes {
		t.Errorf("CutMode = %q, want keyframes", opts.CutMode)
	}
	if !opts.Window.IsZero() {
		t.Errorf("Window = %+v, want zero", opts.Window)
	}
	if len(opts.Languages) != 0 {
		t.Errorf("Languages = %v, want empty", opts.Languages)
	}
}

func TestAssembleRunInputs_WindowParsing(t *testing.T) {
	run := newTestRun(t, "", "--start", "1:30", "--end", "0:02:05")

	_, opts, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.Window.Start != 90 || opts.Window.End != 125 {
		t.Fatalf("Window = %+v, want {90 125}", opts.Window)
	}
}

func TestAssembleRunInputs_EndBeforeStart(t *testing.T) {
	run := newTestRun(t, "", "--start", "2:00", "--end", "1:00")

	_, _, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err == nil || !strings.Contains(err.Error(), "must be after") {
		t.Fatalf("err = %v, want end-before-start error", err)
	}
}

func TestAssembleRunInputs_BadTimestamp(t *testing.T) {
	run := newTestRun(t, "", "--start", "1:99")

	_, _, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err == nil || !strings.Contains(err.Error(), "--start") {
		t.Fatalf("err = %v, want --start parse error", err)
	}
}

func TestAssembleRunInputs_LangsCSV(t *testing.T) {
	run := newTestRun(t, "", "--langs", " EN, fr ,en")

	_, opts, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if len(opts.Languages) != 2 || opts.Languages[0] != "en" || opts.Languages[1] != "fr" {
		t.Fatalf("Languages = %v, want [en fr]", opts.Languages)
	}
}

func TestAssembleRunInputs_InvalidPreset(t *testing.T) {
	run := newTestRun(t, "", "--sb-preset", "bogus")

	_, _, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err == nil || !strings.Contains(err.Error(), "sb-preset") {
		t.Fatalf("err = %v, want preset error", err)
	}
}

func TestAssembleRunInputs_InvalidCutMode(t *testing.T) {
	run := newTestRun(t, "", "--cut-mode", "sloppy")

	_, _, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err == nil || !strings.Contains(err.Error(), "cut-mode") {
		t.Fatalf("err = %v, want cut mode error", err)
	}
}

func TestAssembleRunInputs_NegativeMargin(t *testing.T) {
	run := newTestRun(t, "", "--margin", "-1")

	_, _, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err == nil || !strings.Contains(err.Error(), "margin") {
		t.Fatalf("err = %v, want margin error", err)
	}
}

func TestAssembleRunInputs_NameNeedsSingleSource(t *testing.T) {
	run := newTestRun(t, "", "--name", "Clip")

	_, _, err := assembleRunInputs(run, []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/aqz56Kq4abc",
	})
	if err == nil || !strings.Contains(err.Error(), "single source") {
		t.Fatalf("err = %v, want single-source error", err)
	}
}

func TestAssembleRunInputs_RejectsNonHTTPScheme(t *testing.T) {
	run := newTestRun(t, "")

	_, _, err := assembleRunInputs(run, []string{"ftp://example.com/video.mkv"})
	if err == nil {
		t.Fatal("expected error for ftp scheme")
	}
}

func TestAssembleRunInputs_LocalPathAccepted(t *testing.T) {
	run := newTestRun(t, "")

	sources, _, err := assembleRunInputs(run, []string{"clips/holiday.mkv"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if len(sources) != 1 || sources[0] != "clips/holiday.mkv" {
		t.Fatalf("sources = %v", sources)
	}
}

func TestAssembleRunInputs_EnvOverridesDefault(t *testing.T) {
	run := newTestRun(t, "")
	t.Setenv("HOMETUBE_SPONSORBLOCK_PRESET", "aggressive")
	t.Setenv("HOMETUBE_OUTPUT_DIR", filepath.Join(t.TempDir(), "exports"))
	t.Setenv("HOMETUBE_LANGUAGES", "en,fr")

	_, opts, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.Preset != "aggressive" {
		t.Errorf("Preset = %q, want aggressive", opts.Preset)
	}
	if filepath.Base(opts.OutDir) != "exports" {
		t.Errorf("OutDir = %q, want exports dir", opts.OutDir)
	}
	if len(opts.Languages) != 2 || opts.Languages[0] != "en" || opts.Languages[1] != "fr" {
		t.Errorf("Languages = %v, want [en fr]", opts.Languages)
	}
}

func TestAssembleRunInputs_FlagBeatsEnv(t *testing.T) {
	run := newTestRun(t, "", "--cut-mode", "keyframes")
	t.Setenv("HOMETUBE_CUT_MODE", "precise")

	_, opts, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.CutMode != model.CutModeKeyframes {
		t.Errorf("CutMode = %q, want keyframes (explicit flag)", opts.CutMode)
	}
}

func TestAssembleRunInputs_ConfigFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config search path relies on XDG_CONFIG_HOME")
	}
	cfg := `languages:
  - en
  - fr
sponsorblock:
  preset: minimal
cut:
  mode: precise
  margin: 1.5
`
	run := newTestRun(t, cfg)

	_, opts, err := assembleRunInputs(run, []string{"https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.Preset != "minimal" {
		t.Errorf("Preset = %q, want minimal", opts.Preset)
	}
	if opts.CutMode != model.CutModePrecise {
		t.Errorf("CutMode = %q, want precise", opts.CutMode)
	}
	if opts.MarginSec != 1.5 {
		t.Errorf("MarginSec = %v, want 1.5", opts.MarginSec)
	}
	if len(opts.Languages) != 2 {
		t.Errorf("Languages = %v, want [en fr]", opts.Languages)
	}
}

func TestNormalizeLangs(t *testing.T) {
	got := normalizeLangs([]string{"EN , fr", "fr", "", "de"})
	want := []string{"en", "fr", "de"}
	if len(got) != len(want) {
		t.Fatalf("normalizeLangs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("normalizeLangs = %v, want %v", got, want)
		}
	}
}
