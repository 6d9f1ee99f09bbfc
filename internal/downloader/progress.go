package downloader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/progress"
)

// ParseProgress turns one line of downloader output into a progress
// update. Download lines carry percent, speed and ETA; SponsorBlock
// lines surface what the postprocessor found. Anything else reports
// ok false.
func ParseProgress(line, jobID string) (progress.Update, bool) {
	line = strings.TrimSpace(line)

	// [SponsorBlock] Found 3 segments in the SponsorBlock database
	if rest, found := strings.CutPrefix(line, "[SponsorBlock]"); found {
		return progress.Update{
			JobID:   jobID,
			Stage:   progress.StageDownloading,
			Percent: -1,
			Message: "SponsorBlock: " + strings.TrimSpace(rest),
		}, true
	}

	// [download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04
	rest, found := strings.CutPrefix(line, "[download]")
	if !found {
		return progress.Update{}, false
	}

	u := progress.Update{
		JobID:   jobID,
		Stage:   progress.StageDownloading,
		Percent: -1,
		Message: "Downloading",
	}
	fields := strings.Fields(rest)
	for i, f := range fields {
		switch {
		case strings.HasSuffix(f, "%"):
			if p, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64); err == nil {
				u.Percent = p
			}
		case f == "at" && i+1 < len(fields) && strings.HasSuffix(fields[i+1], "/s"):
			s := fields[i+1]
			u.Speed = &s
		case f == "ETA" && i+1 < len(fields):
			if d, err := parseETA(fields[i+1]); err == nil {
				u.ETA = &d
			}
		}
	}
	return u, true
}

// parseETA parses ETA clocks in "SS", "MM:SS" or "HH:MM:SS" form.
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("bad ETA %q", s)
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("bad ETA %q", s)
		}
		total = total*60 + time.Duration(n)*time.Second
	}
	return total, nil
}
