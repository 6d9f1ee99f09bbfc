// Package keyframes snaps requested cut boundaries onto the keyframes
// of a video stream so the cut can stream-copy without re-encoding.
package keyframes

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyWindow reports a snapped window whose end does not lie after
// its start. Independent nearest-keyframe selection can produce this
// for short windows over sparse keyframes; callers pick the fallback.
var ErrEmptyWindow = errors.New("keyframes: cut window is empty")

// Window is a validated pair of cut boundaries in seconds, End strictly
// after Start.
type Window struct {
	Start float64
	End   float64
}

// Duration returns the window length in seconds.
func (w Window) Duration() float64 { return w.End - w.Start }

// NewWindow validates a boundary pair.
func NewWindow(start, end float64) (Window, error) {
	if end <= start {
		return Window{}, fmt.Errorf("%w: start=%.3f end=%.3f", ErrEmptyWindow, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Nearest returns the keyframe timestamp closest to t. Ties keep the
// keyframe encountered first. With no keyframes t passes through.
func Nearest(kfs []float64, t float64) float64 {
	best := t
	bestDiff := math.Inf(1)
	for _, kf := range kfs {
		if d := math.Abs(kf - t); d < bestDiff {
			bestDiff = d
			best = kf
		}
	}
	return best
}

// Align snaps the requested boundaries independently onto their nearest
// keyframes and validates the result. With no keyframes available the
// requested seconds pass through unchanged, so a failed probe degrades
// to an exact cut instead of failing the job.
func Align(kfs []float64, startSec, endSec int) (Window, error) {
	if len(kfs) == 0 {
		return NewWindow(float64(startSec), float64(endSec))
	}
	return NewWindow(Nearest(kfs, float64(startSec)), Nearest(kfs, float64(endSec)))
}
