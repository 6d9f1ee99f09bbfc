package pipeline

import (
	"math"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/sponsorblock"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/timeline"
)

// CutAnalysis is the outcome of running the segment algebra for one job:
// which spans get removed, what survives, and how original timestamps map
// onto the shortened output.
type CutAnalysis struct {
	// ResolvedEnd is the export window end in seconds, with an open end
	// resolved to the media duration.
	ResolvedEnd int

	Merged      []timeline.MergedSegment
	Keeps       []timeline.KeepInterval
	Mapping     timeline.Mapping
	NewDuration float64

	// SponsorRemoved is how many seconds of removed content fall inside
	// the requested window, and AdjustedEnd is the window end after
	// shifting it by that amount. The start never moves.
	SponsorRemoved int
	AdjustedEnd    int
}

// AnalyzeCut merges the removal segments, inverts them against the media
// duration, builds the timestamp remap, and adjusts the window end for
// content that the removal already took out. Pure computation, no I/O.
func AnalyzeCut(totalSec float64, w model.ExportWindow, segs []timeline.Segment, marginSec float64) CutAnalysis {
	a := CutAnalysis{ResolvedEnd: w.End}
	if a.ResolvedEnd <= 0 && totalSec > 0 {
		a.ResolvedEnd = int(math.Round(totalSec))
	}

	a.Merged = timeline.Merge(segs, marginSec)
	a.Keeps = timeline.Invert(a.Merged, totalSec)
	a.Mapping = timeline.BuildRemap(a.Keeps)
	a.NewDuration = a.Mapping.NewDuration()

	a.SponsorRemoved, a.AdjustedEnd = sponsorblock.Overlap(w.Start, a.ResolvedEnd, flatten(a.Merged))
	return a
}

// flatten turns merged spans back into plain segments so the overlap
// arithmetic never double-counts a second covered by two raw segments.
func flatten(merged []timeline.MergedSegment) []timeline.Segment {
	if len(merged) == 0 {
		return nil
	}
	out := make([]timeline.Segment, len(merged))
	for i, m := range merged {
		cat := ""
		if len(m.Categories) > 0 {
			cat = m.Categories[0]
		}
		out[i] = timeline.Segment{Start: m.Start, End: m.End, Category: cat}
	}
	return out
}
