// Package debug renders annotated TECHNICAL_CARD-style debug images: a
// grayscale rendition of a wrapper's data with an overlaid ellipse and
// caption, for visual inspection of the geometry fit.
package debug

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"jsolex-core/internal/fit"
	"jsolex-core/internal/imaging"
)

// RenderAnnotatedOverlay draws w's data as a gamma-scaled grayscale image,
// overlays ellipse in cyan if present, and stamps caption in the
// top-left corner — the same gg.Context draw-then-save shape as the
// teacher's debug grid renderer, extended with an ellipse stroke.
func RenderAnnotatedOverlay(w *imaging.Wrapper, ellipse *fit.Ellipse, caption string) image.Image {
	min, max := w.Data[0], w.Data[0]
	for _, v := range w.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span <= 0 {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w.Width, w.Height))
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			v := w.Data[y*w.Width+x]
			gray := gammaExpand((v - min) / span)
			g := uint8(gray * 255)
			img.Set(x, y, color.RGBA{g, g, g, 255})
		}
	}

	dc := gg.NewContextForImage(img)
	if ellipse != nil {
		dc.SetRGB(0, 1, 1)
		dc.SetLineWidth(2)
		drawEllipse(dc, *ellipse)
		dc.Stroke()
	}
	dc.SetRGB(1, 1, 0)
	dc.DrawString(caption, 10, 20)

	return dc.Image()
}

func drawEllipse(dc *gg.Context, e fit.Ellipse) {
	const segments = 128
	dc.MoveTo(ellipsePoint(e, 0))
	for i := 1; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		dc.LineTo(ellipsePoint(e, theta))
	}
}

func ellipsePoint(e fit.Ellipse, theta float64) (float64, float64) {
	x := e.SemiMajor * math.Cos(theta)
	y := e.SemiMinor * math.Sin(theta)
	rx := x*math.Cos(e.RotationRadians) - y*math.Sin(e.RotationRadians)
	ry := x*math.Sin(e.RotationRadians) + y*math.Cos(e.RotationRadians)
	return e.CenterX + rx, e.CenterY + ry
}

func gammaExpand(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return math.Pow(v, 1/2.2)
}
