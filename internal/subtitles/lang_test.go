package subtitles

import "testing"

func TestISO639_2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "eng"},
		{"fr", "fre"},
		{"ja", "jpn"},
		{"EN", "eng"},
		{"eng", "eng"},
		{"GER", "ger"},
		{"xx", "und"},
	}
	for _, tt := range tests {
		if got := ISO639_2(tt.in); got != tt.want {
			t.Errorf("ISO639_2(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fr"); got != "Français" {
		t.Errorf("DisplayName(fr) = %q", got)
	}
	if got := DisplayName("xx"); got != "XX" {
		t.Errorf("DisplayName(xx) = %q, want upper-cased code", got)
	}
}

func TestExtractLang(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"video.en.srt", "en"},
		{"video.eng.srt", "en"},
		{"video_fr.srt", "fr"},
		{"video-de.vtt", "de"},
		{"Video.EN.SRT", "en"},
		{"video.srt", ""},
		{"video.mkv", ""},
		{"clip.spa.vtt", "es"},
	}
	for _, tt := range tests {
		if got := ExtractLang(tt.filename); got != tt.want {
			t.Errorf("ExtractLang(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
