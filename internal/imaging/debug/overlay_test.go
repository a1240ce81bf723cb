package debug

import (
	"testing"

	"jsolex-core/internal/fit"
	"jsolex-core/internal/imaging"
)

func TestRenderAnnotatedOverlayProducesCorrectDimensions(t *testing.T) {
	width, height := 16, 12
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i)
	}
	w := imaging.New(width, height, data)
	ellipse := fit.Ellipse{CenterX: 8, CenterY: 6, SemiMajor: 6, SemiMinor: 4}

	img := RenderAnnotatedOverlay(w, &ellipse, "test")

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), width, height)
	}
}

func TestRenderAnnotatedOverlayWithoutEllipse(t *testing.T) {
	width, height := 8, 8
	data := make([]float64, width*height)
	w := imaging.New(width, height, data)

	img := RenderAnnotatedOverlay(w, nil, "flat")

	if img.Bounds().Dx() != width {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), width)
	}
}
