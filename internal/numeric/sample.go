package numeric

import "math"

// EvalParabola evaluates y = a*x^2 + b*x + c.
func EvalParabola(a, b, c, x float64) float64 {
	return a*x*x + b*x + c
}

// BilinearSampleColumn samples a single-column vertical position yd in a
// width x height frame at column x, following the reconstruction engine's
// edge policy from §4.5: yd is floored to yi; if yi falls outside
// [0, height) the previous column's clamped y (lastY) is reused; the
// fractional part blends frame[x, yi] and frame[x, yi+1] (clamped to the
// last row).
func BilinearSampleColumn(frame []float64, width, height int, x int, yd float64, lastY int) (value float64, yUsed int) {
	yi := int(math.Floor(yd))
	if yi < 0 || yi >= height {
		// Outside the valid vertical range: reuse the previous column's
		// clamped row exactly, with no fractional blend — there is no
		// meaningful sub-pixel offset to interpolate against.
		yi = lastY
		if yi < 0 {
			yi = 0
		}
		if yi >= height {
			yi = height - 1
		}
		return frame[x+yi*width], yi
	}

	frac := yd - math.Floor(yd)
	lo := frame[x+yi*width]
	if frac == 0 {
		return lo, yi
	}
	hiRow := yi + 1
	if hiRow >= height {
		hiRow = height - 1
	}
	hi := frame[x+hiRow*width]
	return lo + frac*(hi-lo), yi
}
