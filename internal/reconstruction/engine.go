// Package reconstruction implements the core of the pipeline: given a
// fitted distortion polynomial and a set of pixel shifts, it samples one
// output row per SER frame per shift, producing one reconstructed plane
// per shift.
package reconstruction

import (
	"fmt"
	"sync"

	"jsolex-core/internal/bayer"
	"jsolex-core/internal/fit"
	"jsolex-core/internal/numeric"
	"jsolex-core/internal/sched"
	"jsolex-core/internal/ser"
)

// Plane is one reconstructed, shifted monochromatic image.
type Plane struct {
	Shift         float64
	Data          []float64
	Width, Height int
}

// Engine reconstructs one plane per requested pixel shift from a range of
// SER frames, using the fitted distortion polynomial to locate the
// absorption-line row in each frame.
type Engine struct {
	Polynomial    fit.Parabola
	Width, Height int // per-frame dimensions
	Start, End    int // frame range, End exclusive
}

// New builds a reconstruction Engine over SER frames [start, end).
func New(polynomial fit.Parabola, width, height, start, end int) *Engine {
	return &Engine{Polynomial: polynomial, Width: width, Height: height, Start: start, End: end}
}

// Reconstruct reads frames [e.Start, e.End) from r sequentially through io,
// converting each with conv, and fans out one row-write task per shift
// through main. It returns one Plane per shift, in the order shifts was
// given. The first error encountered by any task — I/O, conversion, or an
// out-of-range sample — aborts the whole reconstruction.
func (e *Engine) Reconstruct(r *ser.Reader, conv *bayer.Converter, shifts []float64, io, main *sched.Context) ([]Plane, error) {
	outHeight := e.End - e.Start
	if outHeight <= 0 {
		return nil, fmt.Errorf("reconstruction: empty frame range [%d, %d)", e.Start, e.End)
	}

	planes := make([]Plane, len(shifts))
	for k, s := range shifts {
		planes[k] = Plane{Shift: s, Data: make([]float64, e.Width*outHeight), Width: e.Width, Height: outHeight}
	}

	if err := r.Seek(e.Start); err != nil {
		return nil, fmt.Errorf("reconstruction: %w", err)
	}

	var mu sync.Mutex
	var firstErr error
	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	io.SetUncaughtExceptionHandler(recordErr)
	main.SetUncaughtExceptionHandler(recordErr)

	// The io context's single slot gates only the read+convert step for
	// each frame; row reconstruction is handed off to main and the io
	// task returns immediately after, so frame i+1's read can proceed
	// while frame i's per-shift rows are still being written (§5).
	main.Blocking(func(mainScope *sched.Scope) {
		io.Blocking(func(ioScope *sched.Scope) {
			for i := e.Start; i < e.End; i++ {
				i, row := i, i-e.Start
				ioScope.Async(func() error {
					if err := r.NextFrame(); err != nil {
						return fmt.Errorf("reconstruction: reading frame %d: %w", i, err)
					}
					buf := conv.CreateBuffer()
					if err := conv.Convert(r.CurrentFrameBytes(), buf); err != nil {
						return fmt.Errorf("reconstruction: converting frame %d: %w", i, err)
					}

					for k := range shifts {
						k := k
						mainScope.Async(func() error {
							return e.reconstructRow(buf, planes[k].Data, row, planes[k].Shift)
						})
					}
					return nil
				})
			}
		})
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return planes, nil
}

// reconstructRow writes one output row, sampling column-by-column along
// the distortion polynomial offset by shift (§4.5). A sample outside
// [0, 65535] is a programmer error, not a user-facing one, and panics
// rather than returning an error — sched routes the panic to the
// context's uncaught-exception handler, which aborts the reconstruction.
func (e *Engine) reconstructRow(frame []float64, out []float64, row int, shift float64) error {
	lastY := 0
	for x := 0; x < e.Width; x++ {
		yd := e.Polynomial.Eval(float64(x)) + shift
		value, yUsed := numeric.BilinearSampleColumn(frame, e.Width, e.Height, x, yd, lastY)
		lastY = yUsed
		if value < 0 || value > 65535 {
			panic(fmt.Sprintf("reconstruction: sample at column %d, row %d out of range: %v", x, row, value))
		}
		out[row*e.Width+x] = value
	}
	return nil
}
