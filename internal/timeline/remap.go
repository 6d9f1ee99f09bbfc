package timeline

// MapEntry relates one kept interval of the original timeline to its
// position in the post-removal timeline.
type MapEntry struct {
	OrigStart float64
	OrigEnd   float64
	NewStart  float64
}

// Mapping is a piecewise original-to-new time mapping with one entry
// per kept interval, in ascending order. Each NewStart carries the
// cumulative duration of the preceding kept intervals.
type Mapping []MapEntry

// BuildRemap constructs the Mapping for kept intervals produced by
// Invert.
func BuildRemap(keep []KeepInterval) Mapping {
	m := make(Mapping, 0, len(keep))
	newStart := 0.0
	for _, k := range keep {
		m = append(m, MapEntry{OrigStart: k.Start, OrigEnd: k.End, NewStart: newStart})
		newStart += k.Duration()
	}
	return m
}

// NewDuration returns the length of the post-removal timeline.
func (m Mapping) NewDuration() float64 {
	if len(m) == 0 {
		return 0
	}
	last := m[len(m)-1]
	return last.NewStart + (last.OrigEnd - last.OrigStart)
}

// Remap converts an original-timeline timestamp to the post-removal
// timeline. Timestamps inside a removed gap snap forward to the start
// of the next kept interval; timestamps past the last kept interval
// clamp to NewDuration. An empty mapping sends everything to zero.
func (m Mapping) Remap(t float64) float64 {
	for _, e := range m {
		if t < e.OrigStart {
			return e.NewStart
		}
		if t <= e.OrigEnd {
			return e.NewStart + (t - e.OrigStart)
		}
	}
	return m.NewDuration()
}

// RemapInterval remaps both endpoints of an interval. When both fall
// inside the same removed gap the interval collapses to a point; the
// end is clamped so the result never has negative length.
func RemapInterval(start, end float64, m Mapping) (float64, float64) {
	s2 := m.Remap(start)
	e2 := m.Remap(end)
	if e2 < s2 {
		e2 = s2
	}
	return s2, e2
}
