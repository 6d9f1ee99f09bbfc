package pipeline

import (
	"math"
	"testing"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/model"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/timeline"
)

func TestAnalyzeCut_AdjustsEndForRemovedTime(t *testing.T) {
	segs := []timeline.Segment{
		{Start: 20, End: 30, Category: "sponsor"},
	}
	a := AnalyzeCut(60, model.ExportWindow{Start: 10, End: 40}, segs, 0)

	if a.ResolvedEnd != 40 {
		t.Errorf("ResolvedEnd = %d, want 40", a.ResolvedEnd)
	}
	if a.SponsorRemoved != 10 {
		t.Errorf("SponsorRemoved = %d, want 10", a.SponsorRemoved)
	}
	if a.AdjustedEnd != 30 {
		t.Errorf("AdjustedEnd = %d, want 30", a.AdjustedEnd)
	}
	if len(a.Merged) != 1 || len(a.Keeps) != 2 {
		t.Fatalf("merged=%d keeps=%d, want 1 and 2", len(a.Merged), len(a.Keeps))
	}
	if got := a.NewDuration; math.Abs(got-50) > 1e-9 {
		t.Errorf("NewDuration = %v, want 50", got)
	}
}

func TestAnalyzeCut_OpenEndResolvesToDuration(t *testing.T) {
	a := AnalyzeCut(123.6, model.ExportWindow{Start: 5}, nil, 0)
	if a.ResolvedEnd != 124 {
		t.Errorf("ResolvedEnd = %d, want 124 (rounded duration)", a.ResolvedEnd)
	}
	if a.SponsorRemoved != 0 || a.AdjustedEnd != 124 {
		t.Errorf("overlap = (%d, %d), want (0, 124)", a.SponsorRemoved, a.AdjustedEnd)
	}
	if len(a.Keeps) != 1 {
		t.Fatalf("keeps = %d, want 1", len(a.Keeps))
	}
	if a.Keeps[0].Start != 0 || math.Abs(a.Keeps[0].End-123.6) > 1e-9 {
		t.Errorf("keep = %+v, want [0, 123.6]", a.Keeps[0])
	}
}

func TestAnalyzeCut_MarginWidensOverlap(t *testing.T) {
	segs := []timeline.Segment{
		{Start: 20, End: 25, Category: "sponsor"},
	}
	plain := AnalyzeCut(100, model.ExportWindow{Start: 0, End: 100}, segs, 0)
	margined := AnalyzeCut(100, model.ExportWindow{Start: 0, End: 100}, segs, 2)

	if plain.SponsorRemoved != 5 {
		t.Errorf("plain removed = %d, want 5", plain.SponsorRemoved)
	}
	if margined.SponsorRemoved != 9 {
		t.Errorf("margined removed = %d, want 9", margined.SponsorRemoved)
	}
	if margined.NewDuration >= plain.NewDuration {
		t.Errorf("margin should shrink kept time: %v >= %v", margined.NewDuration, plain.NewDuration)
	}
}

func TestAnalyzeCut_OverlappingSegmentsCountOnce(t *testing.T) {
	// Two raw segments covering the same span must not double the
	// removed total.
	segs := []timeline.Segment{
		{Start: 10, End: 20, Category: "sponsor"},
		{Start: 12, End: 18, Category: "selfpromo"},
	}
	a := AnalyzeCut(60, model.ExportWindow{Start: 0, End: 60}, segs, 0)
	if a.SponsorRemoved != 10 {
		t.Errorf("SponsorRemoved = %d, want 10", a.SponsorRemoved)
	}
	if len(a.Merged) != 1 {
		t.Fatalf("merged = %d, want 1", len(a.Merged))
	}
	if got := a.Merged[0].Categories; len(got) != 2 {
		t.Errorf("categories = %v, want both kept", got)
	}
}

func TestAnalyzeCut_NoSegments(t *testing.T) {
	a := AnalyzeCut(45, model.ExportWindow{Start: 10, End: 30}, nil, 1.5)
	if a.SponsorRemoved != 0 || a.AdjustedEnd != 30 {
		t.Errorf("overlap = (%d, %d), want (0, 30)", a.SponsorRemoved, a.AdjustedEnd)
	}
	if math.Abs(a.NewDuration-45) > 1e-9 {
		t.Errorf("NewDuration = %v, want 45", a.NewDuration)
	}
}
