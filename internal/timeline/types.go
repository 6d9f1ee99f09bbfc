// Package timeline implements the interval algebra behind segment
// removal: merging overlapping removal segments, computing the kept
// complement of a media timeline, and remapping timestamps from the
// original timeline onto the post-removal one.
package timeline

// Segment is a removable time range on the original timeline, tagged
// with the category that flagged it.
type Segment struct {
	Start    float64 // seconds
	End      float64 // seconds
	Category string  // sponsor, intro, outro, ...
}

// MergedSegment is a group of overlapping removal segments collapsed
// into a single range carrying the union of their category labels.
type MergedSegment struct {
	Start      float64
	End        float64
	Categories []string // sorted, deduplicated
}

// KeepInterval is a contiguous range of the original timeline that
// survives segment removal.
type KeepInterval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (k KeepInterval) Duration() float64 { return k.End - k.Start }
