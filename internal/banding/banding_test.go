package banding

import (
	"math"
	"testing"
)

func TestReduceFlattensUniformRowOffsetWithoutEllipse(t *testing.T) {
	width, height := 10, 6
	data := make([]float64, width*height)
	// Each row has a different constant offset plus a bit of column noise.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = float64(y*1000) + float64(x%2)
		}
	}

	Reduce(width, height, data, 1, 3, nil)

	for y := 0; y < height; y++ {
		rowMean := 0.0
		for x := 0; x < width; x++ {
			rowMean += data[y*width+x]
		}
		rowMean /= float64(width)
		if math.Abs(rowMean) > 1 {
			t.Errorf("row %d mean after banding correction = %v, want near 0", y, rowMean)
		}
	}
}

func TestReduceIsNoOpWithZeroPasses(t *testing.T) {
	width, height := 4, 4
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i)
	}
	original := append([]float64(nil), data...)

	Reduce(width, height, data, 3, 0, nil)

	for i := range data {
		if data[i] != original[i] {
			t.Fatalf("data mutated with zero passes at index %d", i)
		}
	}
}

func TestReduceClampsToNonNegative(t *testing.T) {
	width, height := 4, 4
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = 10
		}
	}
	data[0] = 100000 // one outlier pulling the row mean far above every other sample

	Reduce(width, height, data, 1, 1, nil)

	for i, v := range data {
		if v < 0 || v > 65535 {
			t.Errorf("data[%d] = %v, out of [0, 65535]", i, v)
		}
	}
}
