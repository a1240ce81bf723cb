// Package pipeline wires the reconstruction stages together end to end:
// read a SER sequence, locate the sweep and the spectral line, reconstruct
// one shifted image per requested pixel shift, correct geometry, reduce
// banding, and hand every result to an ImageEmitter (§2, §6).
package pipeline

import (
	"fmt"
	"sort"

	"jsolex-core/internal/banding"
	"jsolex-core/internal/bayer"
	"jsolex-core/internal/broadcast"
	"jsolex-core/internal/edge"
	"jsolex-core/internal/emitter"
	"jsolex-core/internal/fit"
	"jsolex-core/internal/geometry"
	"jsolex-core/internal/imaging"
	imagingdebug "jsolex-core/internal/imaging/debug"
	"jsolex-core/internal/params"
	"jsolex-core/internal/reconstruction"
	"jsolex-core/internal/sched"
	"jsolex-core/internal/ser"
	"jsolex-core/internal/spectrum"
)

// Pipeline runs one SER file through the full reconstruction process for a
// single set of ProcessParams.
type Pipeline struct {
	SERPath     string
	Params      params.ProcessParams
	Emitter     emitter.ImageEmitter
	Broadcaster *broadcast.Broadcaster
}

// New builds a Pipeline. Emitter and broadcaster may be nil; a nil emitter
// means no outputs are produced (callers that only need diagnostics), a
// nil broadcaster means no events are reported.
func New(serPath string, p params.ProcessParams, em emitter.ImageEmitter, b *broadcast.Broadcaster) *Pipeline {
	return &Pipeline{SERPath: serPath, Params: p, Emitter: em, Broadcaster: b}
}

// Result summarizes a completed run, enough for a CLI to print a report.
type Result struct {
	Ellipse  fit.Ellipse
	Stats    imaging.Stats
	Shifts   []float64
	Corrected bool
}

func (p *Pipeline) notify(e broadcast.Event) {
	if p.Broadcaster != nil {
		p.Broadcaster.Broadcast(e)
	}
}

func (p *Pipeline) notifyError(header, message string) {
	p.notify(broadcast.Event{
		Kind: broadcast.Notification,
		Notification: broadcast.NotificationPayload{
			Severity: broadcast.SeverityError,
			Title:    "Processing failed",
			Header:   header,
			Message:  message,
		},
	})
}

// Process runs the pipeline to completion.
func (p *Pipeline) Process() (Result, error) {
	p.notify(broadcast.Event{Kind: broadcast.ProcessingStart})

	reader, err := ser.Open(p.SERPath)
	if err != nil {
		p.notifyError("Could not open SER file", err.Error())
		return Result{}, fmt.Errorf("pipeline: opening %s: %w", p.SERPath, err)
	}
	defer reader.Close()

	geom := reader.Geometry()
	conv := bayer.New(geom)

	p.notify(broadcast.Event{
		Kind:        broadcast.OutputImageDimensionsDetermined,
		OutputWidth: geom.Width, OutputHeight: geom.Height,
	})

	// Step 1: locate the sweep range and build the average image.
	edgeResult, err := edge.Detect(reader, conv, edge.Options{})
	if err != nil {
		p.notifyError("Sun-edge detection failed", err.Error())
		return Result{}, fmt.Errorf("pipeline: detecting edges: %w", err)
	}
	if !edgeResult.Detected {
		p.notify(broadcast.Event{Kind: broadcast.Suggestion, Suggestion: "no sweep edges detected; processing the whole file"})
	}

	// Step 2: fit the spectral line distortion polynomial.
	line, err := spectrum.Analyze(edgeResult.Average, geom.Width, geom.Height, spectrum.Options{
		InitialThreshold: p.Params.Spectrum.DetectionThreshold,
	})
	if err != nil {
		p.notifyError("Spectral line not found", err.Error())
		return Result{}, fmt.Errorf("pipeline: analyzing spectrum: %w", err)
	}

	// Step 3: reconstruct one plane per requested pixel shift.
	shifts := collectShifts(p.Params)
	engine := reconstruction.New(line.Polynomial, geom.Width, geom.Height, edgeResult.Start, edgeResult.End)
	planes, err := engine.Reconstruct(reader, conv, shifts, sched.IO(), sched.Main())
	if err != nil {
		p.notifyError("Reconstruction aborted", err.Error())
		return Result{}, fmt.Errorf("pipeline: reconstructing: %w", err)
	}

	planeByShift := make(map[float64]reconstruction.Plane, len(planes))
	for _, plane := range planes {
		planeByShift[plane.Shift] = plane
		p.emitReconstruction(plane)
	}

	base := planeByShift[p.Params.Spectrum.PixelShift]
	p.emitMono("RAW", base, "Raw reconstruction")

	// Step 4: fit and correct geometry on the base plane.
	geomOpts := geometry.Options{
		ForcedTiltRadians: p.Params.Geometry.Tilt,
		ForcedXYRatio:     p.Params.Geometry.XYRatio,
		HorizontalMirror:  p.Params.Geometry.HorizontalMirror,
		VerticalMirror:    p.Params.Geometry.VerticalMirror,
	}
	geomResult, err := geometry.Correct(base.Data, base.Width, base.Height, geomOpts)
	if err != nil {
		p.notifyError("Geometry correction failed", err.Error())
		return Result{}, fmt.Errorf("pipeline: correcting geometry: %w", err)
	}
	if !geomResult.Corrected {
		p.notify(broadcast.Event{Kind: broadcast.Suggestion, Suggestion: "ellipse fit rejected; continuing with an uncorrected disk"})
	}

	// Step 5: banding correction, applied after rotate+flip per §2's
	// `rotate+flip → banding correction → ... → emit` ordering and §4.6
	// ("operates on a reconstructed image after geometry correction").
	// The base plane is banded in its corrected frame; the other shifts
	// have no fit of their own, so they're banded in their own
	// (uncorrected) frame using the same ellipse.
	var ellipsePtr *fit.Ellipse
	if geomResult.Corrected {
		e := geomResult.Ellipse
		ellipsePtr = &e
	}
	p.emitImage("GEOMETRY_CORRECTED", geomResult.Image, "Geometry corrected")
	banding.Reduce(geomResult.Image.Width, geomResult.Image.Height, geomResult.Image.Data, p.Params.Banding.Width, p.Params.Banding.Passes, ellipsePtr)
	p.emitImage("BANDING_FIXED", geomResult.Image, "Banding corrected")

	for _, plane := range planes {
		if plane.Shift == base.Shift {
			continue
		}
		banding.Reduce(plane.Width, plane.Height, plane.Data, p.Params.Banding.Width, p.Params.Banding.Passes, ellipsePtr)
	}

	// Step 6: derived outputs (continuum/doppler pair, colorized preview,
	// debug technical card).
	p.emitDerivedImages(planeByShift, geomResult)

	stats := imaging.ComputeStats(geomResult.Image.Data)
	shiftImages := make(map[float64]*imaging.Wrapper, len(planes))
	for shift, plane := range planeByShift {
		shiftImages[shift] = imaging.New(plane.Width, plane.Height, plane.Data)
	}

	p.notify(broadcast.Event{
		Kind: broadcast.ProcessingDone,
		ProcessingDone: broadcast.ProcessingDonePayload{
			ShiftImages: shiftImages,
			Ellipse:     &geomResult.Ellipse,
			Stats:       &stats,
		},
	})

	return Result{
		Ellipse:   geomResult.Ellipse,
		Stats:     stats,
		Shifts:    shifts,
		Corrected: geomResult.Corrected,
	}, nil
}

func collectShifts(p params.ProcessParams) []float64 {
	seen := map[float64]bool{p.Spectrum.PixelShift: true}
	shifts := []float64{p.Spectrum.PixelShift}
	for _, s := range p.Images.PixelShifts {
		if !seen[s] {
			seen[s] = true
			shifts = append(shifts, s)
		}
	}
	for _, s := range p.Images.InternalShifts {
		if !seen[s] {
			seen[s] = true
			shifts = append(shifts, s)
		}
	}
	sort.Float64s(shifts)
	return shifts
}

func (p *Pipeline) emitReconstruction(plane reconstruction.Plane) {
	for row := 0; row < plane.Height; row++ {
		p.notify(broadcast.Event{
			Kind: broadcast.PartialReconstruction,
			PartialReconstruction: broadcast.PartialReconstructionPayload{
				Row:   row,
				Shift: plane.Shift,
				Line:  plane.Data[row*plane.Width : (row+1)*plane.Width],
			},
		})
	}
	if p.Emitter != nil {
		w := imaging.New(plane.Width, plane.Height, plane.Data)
		p.Emitter.NewMonoImage("RECONSTRUCTION", "reconstruction", fmt.Sprintf("Shift %.2f", plane.Shift), fmt.Sprintf("shift_%+.2f", plane.Shift), w, nil)
	}
}

func (p *Pipeline) emitMono(kind string, plane reconstruction.Plane, title string) {
	p.emitImage(kind, imaging.New(plane.Width, plane.Height, plane.Data), title)
}

// emitImage emits w as-is, under kind. Unlike emitMono it reads w at call
// time rather than building a fresh wrapper, so callers that mutate w's
// backing data in place (banding.Reduce) can emit the same wrapper twice,
// once before and once after the mutation.
func (p *Pipeline) emitImage(kind string, w *imaging.Wrapper, title string) {
	if p.Emitter == nil {
		return
	}
	p.Emitter.NewMonoImage(kind, "", title, "", w, nil)
}

// emitDerivedImages produces the doppler/continuum pair when two distinct
// shifts are available, a colorized preview of the base plane, and a
// debug technical card annotated with the fitted ellipse.
func (p *Pipeline) emitDerivedImages(planes map[float64]reconstruction.Plane, geomResult geometry.Result) {
	if p.Emitter == nil {
		return
	}

	if len(planes) >= 2 {
		var shifts []float64
		for s := range planes {
			shifts = append(shifts, s)
		}
		sort.Float64s(shifts)
		continuum := planes[shifts[len(shifts)/2]]
		red := planes[shifts[0]]
		blue := planes[shifts[len(shifts)-1]]

		p.emitMono("CONTINUUM", continuum, "Continuum")
		doppler := reconstruction.Plane{
			Shift: red.Shift - blue.Shift,
			Data:  subtractClamped(red.Data, blue.Data),
			Width: continuum.Width, Height: continuum.Height,
		}
		p.emitMono("DOPPLER", doppler, "Doppler")
	}

	base := geomResult.Image
	if base != nil {
		colorizer := imaging.DefaultSolarColorizer()
		w, h := base.Width, base.Height
		peak := 0.0
		for _, v := range base.Data {
			if v > peak {
				peak = v
			}
		}
		if peak <= 0 {
			peak = 1
		}
		p.Emitter.NewColorImage("COLORIZED", "", "Colorized preview", "", w, h, func(x, y int) (uint8, uint8, uint8) {
			c := colorizer.At(base.Data[y*w+x], peak)
			return c.RGB255()
		}, nil)

		var ellipsePtr *fit.Ellipse
		if geomResult.Corrected {
			e := geomResult.Ellipse
			ellipsePtr = &e
		}
		overlay := imagingdebug.RenderAnnotatedOverlay(base, ellipsePtr, "technical card")
		bounds := overlay.Bounds()
		p.Emitter.NewColorImage("TECHNICAL_CARD", "debug", "Technical card", "", bounds.Dx(), bounds.Dy(), func(x, y int) (uint8, uint8, uint8) {
			r, g, b, _ := overlay.At(x, y).RGBA()
			return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
		}, nil)
	}
}

func subtractClamped(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		v := a[i] - b[i]
		if v < 0 {
			v = 0
		}
		if v > 65535 {
			v = 65535
		}
		out[i] = v
	}
	return out
}
