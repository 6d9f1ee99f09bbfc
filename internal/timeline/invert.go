package timeline

import "sort"

// Invert returns the portions of [0, total] that remain once the given
// removal spans are excised. Spans are clamped into [0, total] and may
// overlap each other. The result, taken together with the clamped
// spans, tiles [0, total] with no gaps and no overlaps.
func Invert(removed []MergedSegment, total float64) []KeepInterval {
	spans := make([]MergedSegment, len(removed))
	copy(spans, removed)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var keep []KeepInterval
	cur := 0.0
	for _, s := range spans {
		start := clampTo(s.Start, 0, total)
		end := clampTo(s.End, 0, total)
		if start > cur {
			keep = append(keep, KeepInterval{Start: cur, End: start})
		}
		if end > cur {
			cur = end
		}
	}
	if cur < total {
		keep = append(keep, KeepInterval{Start: cur, End: total})
	}
	return keep
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
