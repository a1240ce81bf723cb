package imaging

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the distribution of an image buffer's samples, used by
// the pipeline to report metrics of its final image.
type Stats struct {
	Mean, StdDev, Median, Min, Max float64
}

// ComputeStats summarizes data using the same gonum/stat primitives the
// teacher uses for its quality metrics (mean, variance), plus order
// statistics for the median and range.
func ComputeStats(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	mean := stat.Mean(data, nil)
	variance := stat.Variance(data, nil)

	return Stats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// BlackPoint estimates the background level as the median of data at
// indices where outsideDisk is true (pixels outside the solar ellipse). A
// nil mask treats every pixel as background, matching the geometry
// corrector's fallback when no ellipse was fit.
func BlackPoint(data []float64, outsideDisk []bool) float64 {
	var background []float64
	for i, v := range data {
		if outsideDisk == nil || outsideDisk[i] {
			background = append(background, v)
		}
	}
	if len(background) == 0 {
		return 0
	}
	sort.Float64s(background)
	return stat.Quantile(0.5, stat.Empirical, background, nil)
}
