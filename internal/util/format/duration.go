package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Seconds renders a float seconds value for a command line, trimming
// trailing zeros so ffmpeg sees "12.5" rather than "12.500000".
func Seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clock renders seconds as H:MM:SS (or M:SS under an hour) for display.
func Clock(sec float64) string {
	if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		sec = 0
	}
	total := int(math.Round(sec))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimestamp accepts "SS", "MM:SS" and "HH:MM:SS" forms, with an
// optional fractional part on the seconds, and returns total seconds.
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	if len(parts) > 1 && secs >= 60 {
		return 0, fmt.Errorf("invalid timestamp %q: seconds must be below 60", s)
	}

	total := secs
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		// Minutes also capped at 59 when an hour field is present.
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q: minutes must be below 60", s)
		}
		total += float64(n) * mult
		mult *= 60
	}
	return total, nil
}
