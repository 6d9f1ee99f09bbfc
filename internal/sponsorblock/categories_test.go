package sponsorblock

import (
	"reflect"
	"strings"
	"testing"
)

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in     string
		want   Preset
		wantOK bool
	}{
		{"default", PresetDefault, true},
		{"  Aggressive ", PresetAggressive, true},
		{"DISABLED", PresetDisabled, true},
		{"", PresetDefault, true},
		{"ultra", Preset("ultra"), false},
	}
	for _, tt := range tests {
		got, ok := ParsePreset(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePreset(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPreset_Config(t *testing.T) {
	tests := []struct {
		preset     Preset
		wantRemove []string
		wantMark   []string
	}{
		{
			preset:     PresetDefault,
			wantRemove: []string{"sponsor", "interaction", "selfpromo"},
			wantMark:   []string{"intro", "preview", "outro"},
		},
		{
			preset:     PresetModerate,
			wantRemove: []string{"sponsor", "interaction", "outro"},
			wantMark:   []string{"selfpromo", "intro", "preview"},
		},
		{
			preset:     PresetAggressive,
			wantRemove: []string{"sponsor", "selfpromo", "interaction", "intro", "outro", "preview"},
			wantMark:   nil,
		},
		{
			preset:     PresetConservative,
			wantRemove: []string{"sponsor", "outro"},
			wantMark:   []string{"interaction", "selfpromo", "intro", "preview"},
		},
		{
			preset:     PresetMinimal,
			wantRemove: []string{"sponsor"},
			wantMark:   []string{"selfpromo", "interaction", "intro", "outro", "preview"},
		},
		{
			preset:     PresetDisabled,
			wantRemove: nil,
			wantMark:   nil,
		},
		{
			// Unknown presets fall back to the default policy.
			preset:     Preset("bogus"),
			wantRemove: []string{"sponsor", "interaction", "selfpromo"},
			wantMark:   []string{"intro", "preview", "outro"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			remove, mark := tt.preset.Config()
			if !reflect.DeepEqual(remove, tt.wantRemove) {
				t.Errorf("remove = %v, want %v", remove, tt.wantRemove)
			}
			if !reflect.DeepEqual(mark, tt.wantMark) {
				t.Errorf("mark = %v, want %v", mark, tt.wantMark)
			}
		})
	}
}

func TestPreset_Params(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		got := PresetDisabled.Params()
		want := []string{"--no-sponsorblock"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Params() = %v, want %v", got, want)
		}
	})

	t.Run("default", func(t *testing.T) {
		got := strings.Join(PresetDefault.Params(), " ")
		want := "--sponsorblock-remove sponsor,interaction,selfpromo " +
			"--no-force-keyframes-at-cuts " +
			"--sponsorblock-mark intro,preview,outro"
		if got != want {
			t.Errorf("Params() = %q, want %q", got, want)
		}
	})

	t.Run("aggressive has no mark flag", func(t *testing.T) {
		got := strings.Join(PresetAggressive.Params(), " ")
		if strings.Contains(got, "--sponsorblock-mark") {
			t.Errorf("Params() = %q, should not mark anything", got)
		}
		if !strings.Contains(got, "--sponsorblock-remove sponsor,selfpromo,interaction,intro,outro,preview") {
			t.Errorf("Params() = %q, missing full remove list", got)
		}
	})
}
