package imaging

import (
	"math"
	"testing"

	"jsolex-core/internal/fit"
)

func TestWrapperMetadataRoundTrips(t *testing.T) {
	w := New(4, 4, make([]float64, 16))

	w.SetMetadata(MetadataPixelShift, 2.5)
	w.SetMetadata(MetadataBlackPoint, 1200.0)
	w.SetMetadata(MetadataEllipse, fit.Ellipse{CenterX: 10, CenterY: 20, SemiMajor: 5, SemiMinor: 4})
	w.SetMetadata(MetadataStats, Stats{Mean: 100})

	if shift, ok := w.PixelShift(); !ok || shift != 2.5 {
		t.Errorf("PixelShift = %v, %v, want 2.5, true", shift, ok)
	}
	if bp, ok := w.BlackPoint(); !ok || bp != 1200 {
		t.Errorf("BlackPoint = %v, %v, want 1200, true", bp, ok)
	}
	if e, ok := w.Ellipse(); !ok || e.CenterX != 10 {
		t.Errorf("Ellipse = %+v, %v, want CenterX 10, true", e, ok)
	}
	if s, ok := w.Stats(); !ok || s.Mean != 100 {
		t.Errorf("Stats = %+v, %v, want Mean 100, true", s, ok)
	}
}

func TestWrapperMetadataMissingKeyReturnsFalse(t *testing.T) {
	w := New(2, 2, make([]float64, 4))
	if _, ok := w.PixelShift(); ok {
		t.Error("expected PixelShift to be absent on a fresh wrapper")
	}
}

func TestComputeStats(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	s := ComputeStats(data)

	if s.Mean != 30 {
		t.Errorf("Mean = %v, want 30", s.Mean)
	}
	if s.Min != 10 || s.Max != 50 {
		t.Errorf("Min/Max = %v/%v, want 10/50", s.Min, s.Max)
	}
	if s.Median != 30 {
		t.Errorf("Median = %v, want 30", s.Median)
	}
	if s.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", s.StdDev)
	}
}

func TestBlackPointUsesOnlyMaskedSamples(t *testing.T) {
	data := []float64{1000, 1000, 1000, 9000, 9000}
	mask := []bool{true, true, true, false, false}

	bp := BlackPoint(data, mask)
	if bp != 1000 {
		t.Errorf("BlackPoint = %v, want 1000", bp)
	}
}

func TestColorizerInterpolatesBetweenStops(t *testing.T) {
	colorizer := NewColorizer("#000000", "#ffffff")

	low := colorizer.At(0, 100)
	high := colorizer.At(100, 100)
	mid := colorizer.At(50, 100)

	if r, _, _ := low.RGB255(); r > 5 {
		t.Errorf("low value did not render near black: r=%d", r)
	}
	if r, _, _ := high.RGB255(); r < 250 {
		t.Errorf("high value did not render near white: r=%d", r)
	}
	r, g, b := mid.RGB255()
	if math.Abs(float64(r)-float64(g)) > 5 || math.Abs(float64(g)-float64(b)) > 5 {
		t.Errorf("midpoint of a grayscale gradient should stay neutral, got r=%d g=%d b=%d", r, g, b)
	}
}
