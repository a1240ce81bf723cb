package spectrum

import "testing"

// buildAverage synthesizes an average image where the absorption line sits
// at centerFn(x) in every column: a deep, narrow dark run against a bright
// background.
func buildAverage(width, height int, centerFn func(x int) float64) []float64 {
	img := make([]float64, width*height)
	for x := 0; x < width; x++ {
		center := centerFn(x)
		for y := 0; y < height; y++ {
			d := float64(y) - center
			// Bright background, narrow Gaussian-ish dip at the line center.
			img[y*width+x] = 40000 - 39000*gaussianBump(d, 1.2)
		}
	}
	return img
}

func gaussianBump(d, sigma float64) float64 {
	x := d / sigma
	return 1.0 / (1.0 + x*x*x*x)
}

func TestAnalyzeRecoversFlatLineCenter(t *testing.T) {
	width, height := 40, 32
	avg := buildAverage(width, height, func(x int) float64 { return 15 })

	line, err := Analyze(avg, width, height, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if diff := line.Polynomial.Eval(float64(width/2)) - 15; diff < -0.5 || diff > 0.5 {
		t.Errorf("center at mid column = %v, want ~15", line.Polynomial.Eval(float64(width/2)))
	}
}

func TestAnalyzeRecoversParabolicDistortion(t *testing.T) {
	width, height := 60, 40
	want := func(x int) float64 {
		fx := float64(x)
		return 0.001*fx*fx - 0.05*fx + 20
	}
	avg := buildAverage(width, height, want)

	line, err := Analyze(avg, width, height, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, x := range []int{0, 15, 30, 45, 59} {
		got := line.Polynomial.Eval(float64(x))
		wantY := want(x)
		if diff := got - wantY; diff < -1 || diff > 1 {
			t.Errorf("x=%d: got %v, want ~%v", x, got, wantY)
		}
	}
}

func TestAnalyzeFailsOnFlatImage(t *testing.T) {
	width, height := 20, 20
	avg := make([]float64, width*height)
	for i := range avg {
		avg[i] = 30000
	}

	if _, err := Analyze(avg, width, height, Options{}); err == nil {
		t.Fatal("expected error analyzing a flat image with no line")
	}
}

func TestDarkestRunCenterRejectsEmptyColumn(t *testing.T) {
	column := make([]float64, 10)
	if _, ok := darkestRunCenter(column, 0.15, defaultCeiling); ok {
		t.Fatal("expected no run detected in an all-zero column")
	}
}
