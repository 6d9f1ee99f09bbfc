package sponsorblock

import (
	"math"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/timeline"
)

// Overlap reports how many seconds of the window [startSec, endSec]
// were covered by the given segments, and the window end adjusted for
// that removed time. Segment overlap is accumulated independently per
// segment, so overlapping segments should be merged first. Windows
// touching no segment come back unchanged with zero overlap.
func Overlap(startSec, endSec int, segments []timeline.Segment) (removed, adjustedEnd int) {
	total := 0.0
	for _, s := range segments {
		from := math.Max(float64(startSec), s.Start)
		to := math.Min(float64(endSec), s.End)
		if to > from {
			total += to - from
		}
	}
	if total == 0 {
		return 0, endSec
	}
	return int(math.Round(total)), int(math.Round(float64(endSec) - total))
}
