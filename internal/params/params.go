// Package params holds the pipeline's structured process parameters: the
// spectral ray and detection settings, observation metadata, geometry and
// banding knobs, and which output images to produce (§6).
package params

// SpectrumParams configures spectral line detection and the requested
// reconstruction shifts.
type SpectrumParams struct {
	Ray               SpectralRay
	DetectionThreshold float64
	PixelShift        float64
	DopplerShift       float64
	SwitchRedBlue      bool
}

// ObservationDetails records the metadata attached to generated outputs.
type ObservationDetails struct {
	Observer     string
	Coordinates  string
	Date         string
	Instrument   string
	Telescope    string
	FocalLength  float64
	Aperture     float64
	Camera       string
}

// GeometryParams configures the geometry corrector (§4.7).
type GeometryParams struct {
	Tilt                 *float64
	XYRatio              *float64
	HorizontalMirror     bool
	VerticalMirror       bool
	Sharpen              bool
	DisallowDownsampling bool
	AutocorrectAngleP    bool
}

// BandingCorrectionParams configures the banding corrector (§4.6).
type BandingCorrectionParams struct {
	Width  int
	Passes int
}

// RequestedImages selects which generated-image kinds and pixel shifts the
// pipeline should emit. InternalShifts are reconstructed but never handed
// to the emitter.
type RequestedImages struct {
	Kinds          []string
	PixelShifts    []float64
	InternalShifts []float64
}

// ExtraParams covers output-side knobs that don't belong to a pipeline
// stage directly.
type ExtraParams struct {
	Autosave    bool
	FilePattern string
	DebugImages bool
	FITS        bool
}

// ProcessParams is the complete, immutable set of inputs to one pipeline
// run. Every With* method returns a modified copy, leaving the receiver
// untouched.
type ProcessParams struct {
	Spectrum    SpectrumParams
	Observation ObservationDetails
	Geometry    GeometryParams
	Banding     BandingCorrectionParams
	Images      RequestedImages
	Extra       ExtraParams
}

// Defaults returns the parameter set a fresh installation starts with.
func Defaults() ProcessParams {
	return ProcessParams{
		Spectrum: SpectrumParams{
			Ray:                RayAuto,
			DetectionThreshold: 0.15,
			PixelShift:         0,
			DopplerShift:       0,
			SwitchRedBlue:      false,
		},
		Geometry: GeometryParams{
			HorizontalMirror:     false,
			VerticalMirror:       false,
			Sharpen:              true,
			DisallowDownsampling: false,
			AutocorrectAngleP:    false,
		},
		Banding: BandingCorrectionParams{
			Width:  16,
			Passes: 3,
		},
		Images: RequestedImages{
			Kinds: []string{"RAW", "GEOMETRY_CORRECTED", "BANDING_FIXED"},
		},
		Extra: ExtraParams{
			Autosave:    true,
			FilePattern: "%BASENAME%_%KIND%",
			DebugImages: false,
			FITS:        false,
		},
	}
}

// WithSpectrum returns a copy with Spectrum replaced.
func (p ProcessParams) WithSpectrum(s SpectrumParams) ProcessParams {
	p.Spectrum = s
	return p
}

// WithObservation returns a copy with Observation replaced.
func (p ProcessParams) WithObservation(o ObservationDetails) ProcessParams {
	p.Observation = o
	return p
}

// WithGeometry returns a copy with Geometry replaced.
func (p ProcessParams) WithGeometry(g GeometryParams) ProcessParams {
	p.Geometry = g
	return p
}

// WithBanding returns a copy with Banding replaced.
func (p ProcessParams) WithBanding(b BandingCorrectionParams) ProcessParams {
	p.Banding = b
	return p
}

// WithImages returns a copy with Images replaced.
func (p ProcessParams) WithImages(i RequestedImages) ProcessParams {
	p.Images = i
	return p
}

// WithExtra returns a copy with Extra replaced.
func (p ProcessParams) WithExtra(e ExtraParams) ProcessParams {
	p.Extra = e
	return p
}
