// Package geometry locates the solar disk in a reconstructed image and
// corrects its orientation: a Canny-like edge pre-filter feeds a direct
// least-squares ellipse fit, whose parameters then drive a tilt rotation,
// an anisotropic rescale, and optional flips (§4.7).
package geometry

import (
	"math"

	"jsolex-core/internal/fit"
	"jsolex-core/internal/imaging"
	"jsolex-core/internal/numeric"
)

const (
	blurSigma          = 1.4
	edgeRelativeThresh = 0.25
	minSemiAxisRatio   = 0.5
	maxSemiAxisRatio   = 2.0
	// minPeakGradient is the smallest peak Sobel magnitude, in sample
	// units, treated as a real edge; below it the image counts as flat.
	minPeakGradient = 1.0
)

// Options configures the correction, overriding the fitted ellipse's
// natural tilt/ratio where the caller (or user) wants to force a value.
type Options struct {
	ForcedTiltRadians *float64
	ForcedXYRatio     *float64
	HorizontalMirror  bool
	VerticalMirror    bool
}

// Result is the outcome of one correction pass.
type Result struct {
	Image      *imaging.Wrapper
	Ellipse    fit.Ellipse
	BlackPoint float64
	Residual   float64
	Corrected  bool // false if ellipse fit failed or was rejected; Image is the uncorrected input
}

// Correct fits an ellipse to data's solar disk edges and, if the fit
// passes the semi-axis-ratio and center-in-bounds sanity checks, rotates
// and rescales data so the disk is upright and circular. On a rejected
// fit it returns the original image unmodified with Corrected=false,
// matching §4.9's "continue with an uncorrected geometry path" policy.
func Correct(data []float64, width, height int, opts Options) (Result, error) {
	edgeXs, edgeYs := detectEdgePoints(data, width, height)
	if len(edgeXs) < 6 {
		return uncorrected(data, width, height), nil
	}

	ellipse, err := fit.FitEllipse(edgeXs, edgeYs)
	if err != nil || !ellipseIsPlausible(ellipse, width, height) {
		return uncorrected(data, width, height), nil
	}

	tilt := ellipse.RotationRadians
	if opts.ForcedTiltRadians != nil {
		tilt = *opts.ForcedTiltRadians
	}
	ratio := 1.0
	if ellipse.SemiMinor != 0 {
		ratio = ellipse.SemiMajor / ellipse.SemiMinor
	}
	if opts.ForcedXYRatio != nil {
		ratio = *opts.ForcedXYRatio
	}

	corrected := numeric.RotateRescale(data, width, height, tilt, ratio, width, height)
	if opts.HorizontalMirror {
		corrected = numeric.FlipHorizontal(corrected, width, height)
	}
	if opts.VerticalMirror {
		corrected = numeric.FlipVertical(corrected, width, height)
	}

	correctedEllipse := fit.Ellipse{
		CenterX:         ellipse.CenterX,
		CenterY:         ellipse.CenterY,
		SemiMajor:       ellipse.SemiMajor,
		SemiMinor:       ellipse.SemiMajor, // rescale makes the disk circular
		RotationRadians: 0,
	}

	residual := ellipseResidual(edgeXs, edgeYs, ellipse)
	blackPoint := imaging.BlackPoint(corrected, outsideDiskMask(corrected, width, height, correctedEllipse))

	w := imaging.New(width, height, corrected)
	w.SetMetadata(imaging.MetadataEllipse, correctedEllipse)
	w.SetMetadata(imaging.MetadataBlackPoint, blackPoint)

	return Result{Image: w, Ellipse: correctedEllipse, BlackPoint: blackPoint, Residual: residual, Corrected: true}, nil
}

func uncorrected(data []float64, width, height int) Result {
	w := imaging.New(width, height, append([]float64(nil), data...))
	bp := imaging.BlackPoint(data, nil)
	w.SetMetadata(imaging.MetadataBlackPoint, bp)
	return Result{Image: w, BlackPoint: bp, Corrected: false}
}

func ellipseIsPlausible(e fit.Ellipse, width, height int) bool {
	if e.SemiMajor <= 0 || e.SemiMinor <= 0 {
		return false
	}
	ratio := e.SemiMajor / e.SemiMinor
	if ratio < minSemiAxisRatio || ratio > maxSemiAxisRatio {
		return false
	}
	if e.CenterX < 0 || e.CenterX >= float64(width) || e.CenterY < 0 || e.CenterY >= float64(height) {
		return false
	}
	return true
}

// detectEdgePoints blurs data with a Gaussian and keeps the pixels whose
// Sobel gradient magnitude exceeds a fraction of the image's peak gradient
// — a cheap stand-in for a full Canny detector's non-max suppression and
// hysteresis, adequate for finding the disk's limb against open sky.
func detectEdgePoints(data []float64, width, height int) (xs, ys []float64) {
	blurred := numeric.ConvolveSeparable2D(data, width, height, numeric.GaussianKernel1D(blurSigma))

	magnitude := make([]float64, width*height)
	peak := 0.0
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := sobelX(blurred, width, x, y)
			gy := sobelY(blurred, width, x, y)
			m := math.Hypot(gx, gy)
			magnitude[y*width+x] = m
			if m > peak {
				peak = m
			}
		}
	}
	if peak <= minPeakGradient {
		return nil, nil
	}
	threshold := peak * edgeRelativeThresh

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if magnitude[y*width+x] > threshold {
				xs = append(xs, float64(x))
				ys = append(ys, float64(y))
			}
		}
	}
	return xs, ys
}

func sobelX(data []float64, width, x, y int) float64 {
	get := func(dx, dy int) float64 { return data[(y+dy)*width+(x+dx)] }
	return (get(1, -1) + 2*get(1, 0) + get(1, 1)) - (get(-1, -1) + 2*get(-1, 0) + get(-1, 1))
}

func sobelY(data []float64, width, x, y int) float64 {
	get := func(dx, dy int) float64 { return data[(y+dy)*width+(x+dx)] }
	return (get(-1, 1) + 2*get(0, 1) + get(1, 1)) - (get(-1, -1) + 2*get(0, -1) + get(1, -1))
}

// ellipseResidual reports the root-mean-square distance of the edge
// points from the fitted ellipse boundary, in the ellipse's normalized
// coordinate frame (1.0 = exactly on the boundary).
func ellipseResidual(xs, ys []float64, e fit.Ellipse) float64 {
	if len(xs) == 0 {
		return 0
	}
	cos, sin := math.Cos(e.RotationRadians), math.Sin(e.RotationRadians)
	sumSq := 0.0
	for i := range xs {
		dx, dy := xs[i]-e.CenterX, ys[i]-e.CenterY
		u := dx*cos + dy*sin
		v := -dx*sin + dy*cos
		r := math.Hypot(u/e.SemiMajor, v/e.SemiMinor)
		diff := r - 1
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

func outsideDiskMask(data []float64, width, height int, e fit.Ellipse) []bool {
	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-e.CenterX, float64(y)-e.CenterY
			mask[y*width+x] = (dx*dx)/(e.SemiMajor*e.SemiMajor)+(dy*dy)/(e.SemiMinor*e.SemiMinor) > 1
		}
	}
	return mask
}
