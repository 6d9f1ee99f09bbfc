package subtitles

import (
	"regexp"
	"strings"
)

// iso639_2 maps two-letter language codes to the three-letter codes MP4
// containers prefer in stream metadata.
var iso639_2 = map[string]string{
	"en": "eng", "fr": "fre", "es": "spa", "de": "ger", "it": "ita",
	"pt": "por", "nl": "dut", "sv": "swe", "no": "nor", "da": "dan",
	"fi": "fin", "is": "ice", "pl": "pol", "cs": "cze", "sk": "slo",
	"hu": "hun", "ro": "rum", "bg": "bul", "hr": "scr", "sr": "scc",
	"sl": "slv", "et": "est", "lv": "lav", "lt": "lit", "el": "gre",
	"tr": "tur", "ru": "rus", "uk": "ukr", "be": "bel", "ja": "jpn",
	"ko": "kor", "zh": "chi", "th": "tha", "vi": "vie", "id": "ind",
	"ms": "may", "tl": "tgl", "hi": "hin", "bn": "ben", "ta": "tam",
	"te": "tel", "ml": "mal", "kn": "kan", "ur": "urd", "fa": "per",
	"ar": "ara", "he": "heb", "ca": "cat", "eu": "baq", "gl": "glg",
	"cy": "wel", "ga": "gle", "mt": "mlt",
}

// displayNames maps language codes to their native names for logs and
// plan output.
var displayNames = map[string]string{
	"en": "English", "fr": "Français", "es": "Español", "de": "Deutsch",
	"it": "Italiano", "pt": "Português", "nl": "Nederlands", "sv": "Svenska",
	"no": "Norsk", "da": "Dansk", "fi": "Suomi", "pl": "Polski",
	"cs": "Čeština", "hu": "Magyar", "ro": "Română", "el": "Ελληνικά",
	"tr": "Türkçe", "ru": "Русский", "uk": "Українська", "ja": "日本語",
	"ko": "한국어", "zh": "中文", "ar": "العربية", "he": "עברית",
	"hi": "हिन्दी", "vi": "Tiếng Việt", "id": "Bahasa Indonesia",
}

// ISO639_2 converts a language code to its three-letter ISO 639-2 form.
// Three-letter inputs pass through lowered; unknown two-letter codes
// report "und".
func ISO639_2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) == 3 {
		return code
	}
	if c, ok := iso639_2[code]; ok {
		return c
	}
	return "und"
}

// DisplayName returns the native name of a language, or the upper-cased
// code when unknown.
func DisplayName(code string) string {
	if n, ok := displayNames[strings.ToLower(code)]; ok {
		return n
	}
	return strings.ToUpper(code)
}

var langPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.([a-z]{2,3})\.(?:srt|vtt|ass|ssa)$`),
	regexp.MustCompile(`[_-]([a-z]{2,3})\.(?:srt|vtt|ass|ssa)$`),
}

// threeToTwo folds the 3-letter codes yt-dlp sometimes emits back to
// the 2-letter form used everywhere else.
var threeToTwo = map[string]string{
	"eng": "en", "fre": "fr", "ger": "de", "spa": "es", "ita": "it",
	"por": "pt", "rus": "ru", "jpn": "ja", "chi": "zh", "kor": "ko",
	"ara": "ar", "heb": "he",
}

// ExtractLang pulls a language code out of a subtitle filename like
// "video.en.srt" or "video_fr.vtt". It returns "" when no code is
// present.
func ExtractLang(filename string) string {
	name := strings.ToLower(filename)
	for _, re := range langPatterns {
		if m := re.FindStringSubmatch(name); m != nil {
			if two, ok := threeToTwo[m[1]]; ok {
				return two
			}
			return m[1]
		}
	}
	return ""
}
