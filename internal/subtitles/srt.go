// Package subtitles carries sidecar subtitle files through a cut:
// locating the file for each requested language, validating it, and
// re-cutting it so its cues line up with the excerpted video.
package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cue is a single subtitle entry with times in seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// srtTimingRe matches SubRip timing lines; the millisecond separator
// may be a comma or a dot, both occur in the wild.
var srtTimingRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT reads SubRip cues. Sequence numbers are ignored and blocks
// with malformed timing lines are skipped rather than failing the file.
func ParseSRT(r io.Reader) ([]Cue, error) {
	var cues []Cue
	var cur *Cue
	var text []string

	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(text, "\n")
			cues = append(cues, *cur)
			cur = nil
		}
		text = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if m := srtTimingRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Cue{
				Start: srtSeconds(m[1], m[2], m[3], m[4]),
				End:   srtSeconds(m[5], m[6], m[7], m[8]),
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if cur != nil {
			text = append(text, line)
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cues, nil
}

func srtSeconds(h, m, s, ms string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	mmm, _ := strconv.Atoi(ms)
	return float64(hh)*3600 + float64(mm)*60 + float64(ss) + float64(mmm)/1000
}

// FormatSRTTime renders seconds in SubRip timestamp form. Negative
// inputs clamp to zero.
func FormatSRTTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int(math.Round(sec * 1000))
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
