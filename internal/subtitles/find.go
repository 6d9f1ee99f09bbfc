package subtitles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Track pairs a language code with its subtitle file on disk.
type Track struct {
	Lang string
	Path string
}

// Validate checks that path points at a plausible subtitle file:
// non-empty, with SubRip timing lines or a WEBVTT header matching the
// extension.
func Validate(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("subtitle file %s is empty", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return err
	}
	content := string(head[:n])

	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		if !strings.HasPrefix(strings.TrimSpace(content), "WEBVTT") {
			return fmt.Errorf("%s does not start with a WEBVTT header", filepath.Base(path))
		}
	default:
		if !srtTimingRe.MatchString(content) {
			return fmt.Errorf("%s has no SubRip timing lines", filepath.Base(path))
		}
	}
	return nil
}

// Find resolves the on-disk subtitle file for one language next to the
// downloaded media. Suffixed names are tried first in both separator
// styles; generic unsuffixed names are accepted only when a single
// language was requested, since they carry no language information.
// The first existing candidate that validates wins.
func Find(dir, base, lang string, requested int) (string, error) {
	candidates := []string{
		base + "." + lang + ".srt",
		base + "_" + lang + ".srt",
		base + "-" + lang + ".srt",
		base + "." + lang + ".vtt",
		base + "_" + lang + ".vtt",
		base + "-" + lang + ".vtt",
	}
	if requested == 1 {
		candidates = append(candidates, base+".srt", base+".vtt")
	}

	for _, name := range candidates {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := Validate(p); err != nil {
			continue
		}
		return p, nil
	}
	return "", fmt.Errorf("no subtitle file for language %q under %s", lang, dir)
}
