// Package banding removes low-frequency horizontal stripes left over from
// uneven sensor response, by flat-fielding each row against the mean
// brightness of the background outside the solar disk.
package banding

import (
	"math"

	"jsolex-core/internal/fit"
)

// Reduce subtracts a moving-average-smoothed per-row background offset
// from data, width x height, repeating passes times (§4.6). Pixels
// outside ellipse (or the whole row, if ellipse is nil) contribute to the
// row's background mean. Operates in place.
func Reduce(width, height int, data []float64, bandWidth, passes int, ellipse *fit.Ellipse) {
	if passes <= 0 || width <= 0 || height <= 0 {
		return
	}

	offsets := make([]float64, height)
	for p := 0; p < passes; p++ {
		for y := 0; y < height; y++ {
			offsets[y] = rowBackgroundMean(data, width, y, ellipse)
		}
		smoothed := movingAverage(offsets, bandWidth)

		for y := 0; y < height; y++ {
			offset := smoothed[y]
			base := y * width
			for x := 0; x < width; x++ {
				v := data[base+x] - offset
				if v < 0 {
					v = 0
				}
				if v > 65535 {
					v = 65535
				}
				data[base+x] = v
			}
		}
	}
}

func rowBackgroundMean(data []float64, width, y int, ellipse *fit.Ellipse) float64 {
	base := y * width
	sum, n := 0.0, 0
	for x := 0; x < width; x++ {
		if ellipse != nil && !isOutsideEllipse(float64(x), float64(y), *ellipse) {
			continue
		}
		sum += data[base+x]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func isOutsideEllipse(x, y float64, e fit.Ellipse) bool {
	dx, dy := x-e.CenterX, y-e.CenterY
	cos, sin := math.Cos(e.RotationRadians), math.Sin(e.RotationRadians)
	u := dx*cos + dy*sin
	v := -dx*sin + dy*cos
	if e.SemiMajor == 0 || e.SemiMinor == 0 {
		return true
	}
	nu, nv := u/e.SemiMajor, v/e.SemiMinor
	return nu*nu+nv*nv > 1
}

// movingAverage smooths values with a centered window reaching bandWidth/2
// samples on each side (2*(bandWidth/2)+1 samples wide), shrinking the
// window near the array's edges rather than padding.
func movingAverage(values []float64, bandWidth int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if bandWidth < 1 {
		bandWidth = 1
	}
	half := bandWidth / 2

	for i := 0; i < n; i++ {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		sum := 0.0
		for k := lo; k <= hi; k++ {
			sum += values[k]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
