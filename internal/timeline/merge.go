package timeline

import (
	"math"
	"sort"
)

// Merge collapses overlapping or touching removal segments into
// MergedSegments, expanding each by margin seconds on both sides first.
// Expanded starts never dip below zero. Segments that share a boundary
// after expansion merge into one group; the group keeps the union of
// all category labels, sorted. Malformed segments (NaN or infinite
// bounds, negative times, start past end) are dropped.
func Merge(segments []Segment, margin float64) []MergedSegment {
	type span struct {
		start, end float64
		category   string
	}
	spans := make([]span, 0, len(segments))
	for _, s := range segments {
		if malformed(s) {
			continue
		}
		spans = append(spans, span{
			start:    math.Max(0, s.Start-margin),
			end:      s.End + margin,
			category: s.Category,
		})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		if spans[i].end != spans[j].end {
			return spans[i].end < spans[j].end
		}
		return spans[i].category < spans[j].category
	})

	type group struct {
		start, end float64
		cats       map[string]struct{}
	}
	var groups []group
	for _, sp := range spans {
		if len(groups) == 0 || sp.start > groups[len(groups)-1].end {
			groups = append(groups, group{
				start: sp.start,
				end:   sp.end,
				cats:  map[string]struct{}{sp.category: {}},
			})
			continue
		}
		g := &groups[len(groups)-1]
		if sp.end > g.end {
			g.end = sp.end
		}
		g.cats[sp.category] = struct{}{}
	}

	merged := make([]MergedSegment, 0, len(groups))
	for _, g := range groups {
		cats := make([]string, 0, len(g.cats))
		for c := range g.cats {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		merged = append(merged, MergedSegment{Start: g.start, End: g.end, Categories: cats})
	}
	return merged
}

func malformed(s Segment) bool {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) {
		return true
	}
	if math.IsInf(s.Start, 0) || math.IsInf(s.End, 0) {
		return true
	}
	return s.Start < 0 || s.End < 0 || s.Start > s.End
}
