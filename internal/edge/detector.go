// Package edge locates the portion of a SER sequence that actually sweeps
// the solar disk, by averaging all frames and magnitude-thresholding each
// one against that average.
package edge

import (
	"fmt"
	"io"

	"jsolex-core/internal/bayer"
	"jsolex-core/internal/ser"
)

const defaultPadFrames = 40

// Options configures a Detector. Zero-value Options falls back to package
// defaults.
type Options struct {
	// Floor is the brightness below which a sample does not contribute to
	// a frame's magnitude.
	Floor float64
	// RelativeThreshold is the fraction of the peak observed magnitude a
	// frame's magnitude must exceed to be considered part of the sweep.
	RelativeThreshold float64
	// PadFrames widens the detected [start, end) range on both sides.
	PadFrames int
}

func (o Options) withDefaults() Options {
	if o.RelativeThreshold <= 0 {
		o.RelativeThreshold = 0.2
	}
	if o.PadFrames == 0 {
		o.PadFrames = defaultPadFrames
	}
	return o
}

// Result is the outcome of scanning a SER sequence once.
type Result struct {
	Average    []float64 // width*height, arithmetic mean over all frames
	Magnitudes []float64 // one entry per frame
	Start, End int       // detected sweep range, End exclusive
	Detected   bool      // false means no edges found; Start/End span the whole file
}

// Detect reads every frame of r sequentially exactly once, via conv, and
// returns the average image, per-frame magnitudes, and the padded sweep
// range. The reader's cursor is left at the last frame; callers that need
// to re-read from the start must Seek(0) themselves.
func Detect(r *ser.Reader, conv *bayer.Converter, opts Options) (Result, error) {
	opts = opts.withDefaults()

	geom := r.Geometry()
	n := geom.Width * geom.Height
	frameCount := r.FrameCount()
	if frameCount == 0 {
		return Result{}, fmt.Errorf("edge: SER file has no frames")
	}

	sum := make([]float64, n)
	magnitudes := make([]float64, frameCount)
	buf := conv.CreateBuffer()

	frames := 0
	for {
		err := r.NextFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("edge: reading frame %d: %w", frames, err)
		}
		if err := conv.Convert(r.CurrentFrameBytes(), buf); err != nil {
			return Result{}, fmt.Errorf("edge: converting frame %d: %w", frames, err)
		}

		var mag float64
		for i, v := range buf {
			sum[i] += v
			if v > opts.Floor {
				mag += v - opts.Floor
			}
		}
		magnitudes[frames] = mag
		frames++
	}
	if frames != frameCount {
		return Result{}, fmt.Errorf("edge: expected %d frames, read %d", frameCount, frames)
	}

	average := make([]float64, n)
	for i, s := range sum {
		average[i] = s / float64(frameCount)
	}

	start, end, detected := detectRange(magnitudes, opts.RelativeThreshold)
	start, end = pad(start, end, opts.PadFrames, frameCount)

	return Result{
		Average:    average,
		Magnitudes: magnitudes,
		Start:      start,
		End:        end,
		Detected:   detected,
	}, nil
}

func detectRange(magnitudes []float64, relativeThreshold float64) (start, end int, detected bool) {
	peak := 0.0
	for _, m := range magnitudes {
		if m > peak {
			peak = m
		}
	}
	if peak <= 0 {
		return 0, len(magnitudes), false
	}
	threshold := peak * relativeThreshold

	start = -1
	for i, m := range magnitudes {
		if m > threshold {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, len(magnitudes), false
	}
	for i := len(magnitudes) - 1; i >= 0; i-- {
		if magnitudes[i] > threshold {
			end = i + 1
			break
		}
	}
	return start, end, true
}

func pad(start, end, padFrames, frameCount int) (int, int) {
	start -= padFrames
	end += padFrames
	if start < 0 {
		start = 0
	}
	if end > frameCount {
		end = frameCount
	}
	return start, end
}
