// Package spectrum locates the absorption-line pixel in each column of an
// averaged spectrogram image and fits a parabolic distortion polynomial
// through the per-column sub-pixel centers.
package spectrum

import (
	"fmt"

	"jsolex-core/internal/fit"
)

const (
	defaultInitialThreshold = 0.15
	defaultCeiling          = 5000
	defaultResidualTol      = 2.0
	thresholdStep           = 0.10
	maxThreshold            = 1.0
)

// Options configures line detection. Zero-value Options falls back to
// package defaults.
type Options struct {
	// InitialThreshold is the fraction (0, 1] of a column's peak value by
	// which a pixel must lie below that peak (value <= peak*(1-threshold))
	// to be considered part of the absorption line.
	InitialThreshold float64
	// Ceiling rejects candidate pixels at or above this raw brightness,
	// guarding against a saturated or noisy column being mistaken for a
	// dark line.
	Ceiling float64
	// ResidualTolerance is the maximum acceptable residual standard
	// deviation of the polynomial fit before the threshold is escalated.
	ResidualTolerance float64
}

func (o Options) withDefaults() Options {
	if o.InitialThreshold <= 0 {
		o.InitialThreshold = defaultInitialThreshold
	}
	if o.Ceiling <= 0 {
		o.Ceiling = defaultCeiling
	}
	if o.ResidualTolerance <= 0 {
		o.ResidualTolerance = defaultResidualTol
	}
	return o
}

// Line is the fitted spectral-line distortion polynomial.
type Line struct {
	Polynomial     fit.Parabola
	ResidualStdDev float64
	ThresholdUsed  float64
}

// Analyze fits y = A*x^2 + B*x + C to the absorption line's sub-pixel
// center in each column of average, escalating the detection threshold by
// 0.10 on every failed attempt up to 1.0 (§4.4). average must be a
// width*height buffer.
func Analyze(average []float64, width, height int, opts Options) (Line, error) {
	opts = opts.withDefaults()

	for threshold := opts.InitialThreshold; threshold <= maxThreshold+1e-9; threshold += thresholdStep {
		xs, ys := collectCenters(average, width, height, threshold, opts.Ceiling)
		if len(xs) < 3 {
			continue
		}

		p, residual, err := fit.FitParabola(xs, ys)
		if err != nil {
			continue
		}
		if residual > opts.ResidualTolerance {
			continue
		}

		return Line{Polynomial: p, ResidualStdDev: residual, ThresholdUsed: threshold}, nil
	}

	return Line{}, fmt.Errorf("spectrum: spectral line not found after escalating threshold to %.2f", maxThreshold)
}

// collectCenters returns, for every column with a detectable absorption
// line, the column index and the sub-pixel row of its darkest run's center.
func collectCenters(average []float64, width, height int, threshold, ceiling float64) (xs, ys []float64) {
	column := make([]float64, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			column[y] = average[y*width+x]
		}
		center, ok := darkestRunCenter(column, threshold, ceiling)
		if !ok {
			continue
		}
		xs = append(xs, float64(x))
		ys = append(ys, center)
	}
	return xs, ys
}

// darkestRunCenter finds the contiguous run of pixels below the column's
// threshold-scaled darkness limit (and under ceiling) with the lowest
// average value, then returns the sub-pixel row of its minimum via
// parabolic interpolation of the three darkest samples around it.
func darkestRunCenter(column []float64, threshold, ceiling float64) (float64, bool) {
	peak := 0.0
	for _, v := range column {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return 0, false
	}
	darkLimit := peak * (1 - threshold)

	bestStart, bestEnd := -1, -1
	bestAvg := ceiling
	runStart := -1
	for y := 0; y <= len(column); y++ {
		inRun := y < len(column) && column[y] <= darkLimit && column[y] < ceiling
		if inRun {
			if runStart == -1 {
				runStart = y
			}
			continue
		}
		if runStart != -1 {
			sum := 0.0
			for k := runStart; k < y; k++ {
				sum += column[k]
			}
			avg := sum / float64(y-runStart)
			if avg < bestAvg {
				bestAvg = avg
				bestStart, bestEnd = runStart, y
			}
			runStart = -1
		}
	}
	if bestStart == -1 {
		return 0, false
	}

	minIdx := bestStart
	for k := bestStart; k < bestEnd; k++ {
		if column[k] < column[minIdx] {
			minIdx = k
		}
	}
	if minIdx <= 0 || minIdx >= len(column)-1 {
		return float64(minIdx), true
	}

	p, _, err := fit.FitParabola(
		[]float64{-1, 0, 1},
		[]float64{column[minIdx-1], column[minIdx], column[minIdx+1]},
	)
	if err != nil || p.A == 0 {
		return float64(minIdx), true
	}
	offset := -p.B / (2 * p.A)
	if offset < -1 || offset > 1 {
		return float64(minIdx), true
	}
	return float64(minIdx) + offset, true
}
