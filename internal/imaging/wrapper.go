// Package imaging holds the in-memory image record the pipeline passes
// between stages, and the statistics and false-color rendering helpers
// consumed by the geometry corrector, pipeline, and emitter.
package imaging

import "jsolex-core/internal/fit"

// MetadataKey identifies a typed value attached to a Wrapper.
type MetadataKey string

const (
	MetadataEllipse    MetadataKey = "ellipse"
	MetadataPixelShift MetadataKey = "pixelShift"
	MetadataBlackPoint MetadataKey = "blackPoint"
	MetadataStats      MetadataKey = "stats"
)

// Wrapper is the image record passed by move between pipeline stages: a
// float buffer plus a typed metadata bag (§3). Data is mutated in place by
// a stage only while that stage holds exclusive ownership of the wrapper.
type Wrapper struct {
	Width, Height int
	Data          []float64
	metadata      map[MetadataKey]any
}

// New creates a Wrapper over data, which must be Width*Height samples.
func New(width, height int, data []float64) *Wrapper {
	return &Wrapper{Width: width, Height: height, Data: data, metadata: make(map[MetadataKey]any)}
}

// SetMetadata attaches value under key, overwriting any previous value.
func (w *Wrapper) SetMetadata(key MetadataKey, value any) {
	if w.metadata == nil {
		w.metadata = make(map[MetadataKey]any)
	}
	w.metadata[key] = value
}

// Metadata retrieves the raw value stored under key.
func (w *Wrapper) Metadata(key MetadataKey) (any, bool) {
	v, ok := w.metadata[key]
	return v, ok
}

// Ellipse returns the disk ellipse attached by the geometry corrector, if any.
func (w *Wrapper) Ellipse() (fit.Ellipse, bool) {
	v, ok := w.metadata[MetadataEllipse]
	if !ok {
		return fit.Ellipse{}, false
	}
	e, ok := v.(fit.Ellipse)
	return e, ok
}

// PixelShift returns the shift this wrapper was reconstructed at, if tagged.
func (w *Wrapper) PixelShift() (float64, bool) {
	v, ok := w.metadata[MetadataPixelShift]
	if !ok {
		return 0, false
	}
	s, ok := v.(float64)
	return s, ok
}

// BlackPoint returns the background blackpoint estimate, if computed.
func (w *Wrapper) BlackPoint() (float64, bool) {
	v, ok := w.metadata[MetadataBlackPoint]
	if !ok {
		return 0, false
	}
	b, ok := v.(float64)
	return b, ok
}

// Stats returns the attached image statistics, if computed.
func (w *Wrapper) Stats() (Stats, bool) {
	v, ok := w.metadata[MetadataStats]
	if !ok {
		return Stats{}, false
	}
	s, ok := v.(Stats)
	return s, ok
}
