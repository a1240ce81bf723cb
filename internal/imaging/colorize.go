package imaging

import colorful "github.com/lucasb-eyer/go-colorful"

// Colorizer maps a normalized sample value to a false color by blending
// across an ordered palette of stops in perceptually uniform Lab space,
// using `go-colorful`'s `BlendLab`, the same library `eclipse-hdr` uses
// for its tone-mapping color blends.
type Colorizer struct {
	stops []colorful.Color
}

// NewColorizer builds a Colorizer over an ordered sequence of hex colors
// ("#rrggbb"), spanning the value range evenly. At least two stops are
// required; invalid hex strings fall back to black.
func NewColorizer(hexStops ...string) Colorizer {
	stops := make([]colorful.Color, len(hexStops))
	for i, hex := range hexStops {
		c, err := colorful.Hex(hex)
		if err != nil {
			c = colorful.Color{}
		}
		stops[i] = c
	}
	return Colorizer{stops: stops}
}

// DefaultSolarColorizer renders a grayscale continuum image through a
// dark-red to pale-yellow palette reminiscent of H-alpha eyepiece views.
func DefaultSolarColorizer() Colorizer {
	return NewColorizer("#1a0000", "#8a1a00", "#e06010", "#f8d080", "#fffbe8")
}

// At returns the color for value normalized against [0, max].
func (c Colorizer) At(value, max float64) colorful.Color {
	if len(c.stops) == 0 {
		return colorful.Color{}
	}
	if len(c.stops) == 1 || max <= 0 {
		return c.stops[0]
	}

	t := value / max
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segments := len(c.stops) - 1
	scaled := t * float64(segments)
	idx := int(scaled)
	if idx >= segments {
		idx = segments - 1
	}
	localT := scaled - float64(idx)
	return c.stops[idx].BlendLab(c.stops[idx+1], localT)
}
