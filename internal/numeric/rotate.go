package numeric

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RotateRescale rotates a width x height grayscale float buffer by angle
// radians around its center and rescales the Y axis by xyRatio (values
// >1 stretch vertically, <1 compress), producing a new buffer of the
// given output dimensions. Values are expected in [0, 65535]; out-of-range
// samples introduced by the affine transform's border handling are
// clamped back into range.
func RotateRescale(data []float64, width, height int, angle, xyRatio float64, outWidth, outHeight int) []float64 {
	src := floatsToGray16(data, width, height)

	dst := image.NewGray16(image.Rect(0, 0, outWidth, outHeight))

	// Affine matrix: translate center to origin, rotate, scale Y, translate
	// to the output center. draw.BiLinear.Transform expects the matrix that
	// maps source coordinates to destination coordinates.
	cx, cy := float64(width)/2, float64(height)/2
	dcx, dcy := float64(outWidth)/2, float64(outHeight)/2

	cos, sin := math.Cos(-angle), math.Sin(-angle)
	m := f64.Aff3{
		cos, -sin, dcx - cx*cos + cy*sin,
		sin * xyRatio, cos * xyRatio, dcy - (cx*sin+cy*cos)*xyRatio,
	}

	draw.BiLinear.Transform(dst, m, src, src.Bounds(), draw.Over, nil)

	return gray16ToFloats(dst, outWidth, outHeight)
}

func floatsToGray16(data []float64, width, height int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := data[y*width+x]
			if v < 0 {
				v = 0
			}
			if v > 65535 {
				v = 65535
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	return img
}

func gray16ToFloats(img *image.Gray16, width, height int) []float64 {
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = float64(img.Gray16At(x, y).Y)
		}
	}
	return out
}

// FlipHorizontal mirrors a width x height buffer left-right, in place
// semantics via a fresh buffer.
func FlipHorizontal(data []float64, width, height int) []float64 {
	out := make([]float64, len(data))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = data[y*width+(width-1-x)]
		}
	}
	return out
}

// FlipVertical mirrors a width x height buffer top-bottom.
func FlipVertical(data []float64, width, height int) []float64 {
	out := make([]float64, len(data))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = data[(height-1-y)*width+x]
		}
	}
	return out
}

// RotateRight rotates a width x height buffer 90 degrees clockwise,
// producing a height x width buffer.
func RotateRight(data []float64, width, height int) []float64 {
	outWidth, outHeight := height, width
	out := make([]float64, outWidth*outHeight)
	for y := 0; y < outHeight; y++ {
		for x := 0; x < outWidth; x++ {
			out[y*outWidth+x] = data[(height-1-x)*width+y]
		}
	}
	return out
}

// RotateLeft rotates a width x height buffer 90 degrees counterclockwise,
// producing a height x width buffer. RotateLeft(RotateRight(data)) and
// RotateRight(RotateLeft(data)) both recover the original buffer.
func RotateLeft(data []float64, width, height int) []float64 {
	outWidth, outHeight := height, width
	out := make([]float64, outWidth*outHeight)
	for y := 0; y < outHeight; y++ {
		for x := 0; x < outWidth; x++ {
			out[y*outWidth+x] = data[x*width+(width-1-y)]
		}
	}
	return out
}
